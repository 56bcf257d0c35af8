// Package conllu builds the document graph from repaired CoNLL-U text.
//
// Parsing is a single forward pass over lines. Blocks separated by blank
// lines become sentences; comment lines become sentence metadata; the
// remaining lines become tokens whose ten columns are decoded into a
// FieldSet.
//
// Defects are recovered at the narrowest scope that keeps the pass going:
//
//   - A token line without exactly ten columns is skipped.
//   - A malformed entry of FEATS, HEAD, DEPS or MISC is dropped.
//   - A sentence without a "# text" comment keeps an empty Text.
//
// Each recovered condition is returned as a domain.Diagnostic. Only text
// that cannot be read or decoded fails the whole document.
package conllu

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// textKey is the metadata key holding the sentence text.
const textKey = "text"

// Parser decodes CoNLL-U text into documents. It holds no state between
// calls and is safe for concurrent use.
type Parser struct{}

// New creates a new parser.
func New() *Parser {
	return &Parser{}
}

// Parse decodes text into the document with the given identity.
func (p *Parser) Parse(docID int, filename, source, text string) (*domain.ParseResult, error) {
	return p.ParseReader(context.Background(), docID, filename, source, strings.NewReader(text))
}

// ParseReader decodes the stream r into the document with the given identity.
// Sentences are assembled one block at a time as r is consumed.
func (p *Parser) ParseReader(
	ctx context.Context,
	docID int,
	filename, source string,
	r io.Reader,
) (*domain.ParseResult, error) {
	if source == "" {
		source = domain.DefaultSource
	}

	b := &documentBuilder{
		doc: &domain.Document{
			ID:       docID,
			Filename: filename,
			Source:   source,
		},
	}

	for block, err := range Blocks(r) {
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.addSentence(block)
	}

	return &domain.ParseResult{
		Document:    b.doc,
		Diagnostics: b.diags,
	}, nil
}

// documentBuilder accumulates the document being parsed.
type documentBuilder struct {
	doc   *domain.Document
	diags []domain.Diagnostic
}

func (b *documentBuilder) addSentence(block Block) {
	sent := domain.Sentence{
		DocID: b.doc.ID,
		ID:    len(b.doc.Sentences) + 1,
	}

	hasText := false
	for _, ln := range block.Comments {
		attr, ok := parseComment(ln.Text)
		if !ok {
			continue
		}
		sent.Metadata = append(sent.Metadata, attr)
		if attr.Key == textKey && !attr.Bare && !hasText {
			sent.Text = attr.Value
			hasText = true
		}
	}

	for _, ln := range block.Tokens {
		cols := strings.Split(ln.Text, columnSeparator)
		if len(cols) != numColumns {
			b.report(domain.Diagnostic{
				Kind:    domain.KindStructural,
				SentID:  sent.ID,
				Line:    ln.Number,
				Content: ln.Text,
				Message: fmt.Sprintf("expected %d columns, found %d", numColumns, len(cols)),
			})
			continue
		}

		fields, errs := decodeFields(cols)
		for _, e := range errs {
			b.report(domain.Diagnostic{
				Kind:    domain.KindFieldDecode,
				SentID:  sent.ID,
				Line:    ln.Number,
				Field:   e.Field,
				Content: e.Entry,
				Message: e.Message,
			})
		}

		sent.Tokens = append(sent.Tokens, domain.Token{
			ID:     len(sent.Tokens) + 1,
			SentID: sent.ID,
			Fields: fields,
		})
	}

	b.doc.Sentences = append(b.doc.Sentences, sent)
}

func (b *documentBuilder) report(d domain.Diagnostic) {
	d.Filename = b.doc.Filename
	d.DocID = b.doc.ID
	b.diags = append(b.diags, d)
}

// parseComment decodes "# key = value" into a valued attribute and "# key"
// into a bare one. The value is everything after the first "=", with one
// leading space removed.
func parseComment(text string) (domain.Attr, bool) {
	body := strings.TrimPrefix(text, "#")

	key, value, ok := strings.Cut(body, "=")
	if !ok {
		key = strings.TrimSpace(body)
		if key == "" {
			return domain.Attr{}, false
		}
		return domain.Attr{Key: key, Bare: true}, true
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Attr{}, false
	}
	return domain.Attr{Key: key, Value: strings.TrimPrefix(value, " ")}, true
}
