package conllu

import (
	"bufio"
	"io"
	"strings"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// Format writes doc back out as CoNLL-U. Sentences are terminated by a
// blank line; unset columns are written as "_". Parsing the output yields
// the same sentences, tokens and fields.
func Format(w io.Writer, doc *domain.Document) error {
	bw := bufio.NewWriter(w)
	for i := range doc.Sentences {
		writeSentence(bw, &doc.Sentences[i])
	}
	return bw.Flush()
}

// FormatSentence returns one sentence as CoNLL-U, including its trailing
// blank line.
func FormatSentence(sent *domain.Sentence) string {
	var b strings.Builder
	bw := bufio.NewWriter(&b)
	writeSentence(bw, sent)
	_ = bw.Flush()
	return b.String()
}

func writeSentence(w *bufio.Writer, sent *domain.Sentence) {
	// A blank line alone does not open a block.
	if len(sent.Metadata) == 0 && len(sent.Tokens) == 0 {
		w.WriteString("#\n")
	}
	for _, attr := range sent.Metadata {
		w.WriteString("# ")
		w.WriteString(attr.Key)
		if !attr.Bare {
			w.WriteString(" = ")
			w.WriteString(attr.Value)
		}
		w.WriteByte('\n')
	}
	for i := range sent.Tokens {
		writeToken(w, &sent.Tokens[i].Fields)
	}
	w.WriteByte('\n')
}

// ColumnNames are the headers of the ten CoNLL-U columns.
var ColumnNames = [numColumns]string{
	"ID", "FORM", "LEMMA", "UPOS", "XPOS", "FEATS", "HEAD", "DEPREL", "DEPS", "MISC",
}

// Columns encodes f as the ten column values of a token line.
func Columns(f *domain.FieldSet) [numColumns]string {
	return [numColumns]string{
		colIndex:  f.Index,
		colForm:   f.Form,
		colLemma:  f.Lemma,
		colUPOS:   orEmpty(f.UPOS),
		colXPOS:   orEmpty(f.XPOS),
		colFeats:  f.Feats.String(),
		colHead:   f.Head.String(),
		colDepRel: orEmpty(f.DepRel),
		colDeps:   domain.FormatDeps(f.Deps),
		colMisc:   f.Misc.String(),
	}
}

func writeToken(w *bufio.Writer, f *domain.FieldSet) {
	cols := Columns(f)
	w.WriteString(strings.Join(cols[:], columnSeparator))
	w.WriteByte('\n')
}

func orEmpty(s string) string {
	if s == "" {
		return domain.EmptyField
	}
	return s
}
