// Package conllu repairs formatting defects in CoNLL-U text.
//
// Repair runs four passes in a fixed order:
//
//  1. Reflow: a "# text" comment hard-wrapped over several physical lines
//     is joined back into one line.
//  2. Non-breaking spaces become regular spaces.
//  3. Runs of spaces collapse to one space.
//  4. Spaces before a line terminator are removed.
//
// The order matters: collapsing before replacing non-breaking spaces would
// leave space/NBSP pairs behind. Token lines are never restructured; only
// the whitespace passes touch them.
//
// Normalise is idempotent: repairing repaired text changes nothing.
package conllu

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	nbsp = "\u00a0"

	// textKey is the metadata key whose wrapped lines are joined.
	textKey = "text"

	// legacyBoundary ends a reflow run in legacy mode: the first token of a sentence.
	legacyBoundary = "\n1\t"
)

var (
	spaceRunPattern      = regexp.MustCompile(` {2,}`)
	trailingSpacePattern = regexp.MustCompile(` +(\r?\n)`)

	// legacyMarkerPattern starts a reflow run in legacy mode, wherever it
	// occurs. Non-breaking and repeated spaces are accepted because the
	// whitespace passes turn them into "# text".
	legacyMarkerPattern = regexp.MustCompile(`#[ \x{00a0}]+text`)

	// tokenLinePattern matches word, multiword span and empty node indices.
	tokenLinePattern = regexp.MustCompile(`^\d+(?:[-.]\d+)?\t`)
)

var defaultNormaliser = New(domain.BoundaryStrict)

// Normalise repairs raw text using the strict reflow boundary.
func Normalise(raw string) string {
	return defaultNormaliser.Normalise(raw)
}

// Normaliser repairs CoNLL-U text.
type Normaliser struct {
	boundary domain.Boundary
}

// New creates a normaliser with the given reflow boundary.
// An unrecognised boundary falls back to domain.BoundaryStrict.
func New(boundary domain.Boundary) *Normaliser {
	if !boundary.IsValid() {
		boundary = domain.BoundaryStrict
	}
	return &Normaliser{boundary: boundary}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "conllu/" + n.boundary.String()
}

// Boundary returns the reflow boundary mode.
func (n *Normaliser) Boundary() domain.Boundary {
	return n.boundary
}

// Normalise returns the repaired text.
func (n *Normaliser) Normalise(raw string) string {
	var text string
	if n.boundary == domain.BoundaryLegacy {
		text = reflowLegacy(raw)
	} else {
		text = reflowStrict(raw)
	}

	text = strings.ReplaceAll(text, nbsp, " ")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	return trailingSpacePattern.ReplaceAllString(text, "$1")
}

// line is one physical line and its terminator ("\n", "\r\n" or "" at EOF).
type line struct {
	content string
	eol     string
}

func splitLines(text string) []line {
	parts := strings.SplitAfter(text, "\n")
	lines := make([]line, 0, len(parts))
	for _, p := range parts {
		switch {
		case strings.HasSuffix(p, "\r\n"):
			lines = append(lines, line{content: p[:len(p)-2], eol: "\r\n"})
		case strings.HasSuffix(p, "\n"):
			lines = append(lines, line{content: p[:len(p)-1], eol: "\n"})
		case p != "":
			lines = append(lines, line{content: p})
		}
	}
	return lines
}

// reflowStrict joins each "# text = ..." line with its continuation lines.
// A run ends at a blank line, a token line, another comment or end of
// input. Bare "# text" wrap markers inside a run are dropped.
func reflowStrict(text string) string {
	lines := splitLines(text)

	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		if !isTextHead(ln.content) {
			b.WriteString(ln.content)
			b.WriteString(ln.eol)
			continue
		}

		b.WriteString(ln.content)
		eol := ln.eol
		for i+1 < len(lines) {
			next := lines[i+1]
			if isTextMarker(next.content) {
				eol = next.eol
				i++
				continue
			}
			if isRunBoundary(next.content) {
				break
			}
			b.WriteByte(' ')
			b.WriteString(next.content)
			eol = next.eol
			i++
		}
		b.WriteString(eol)
	}

	return b.String()
}

// reflowLegacy joins everything from a "# text" occurrence up to the next
// line that starts with "1" and a tab, or end of input.
func reflowLegacy(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for {
		loc := legacyMarkerPattern.FindStringIndex(text)
		if loc == nil {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:loc[0]])

		rest := text[loc[0]:]
		end := strings.Index(rest, legacyBoundary)
		if end < 0 {
			end = len(rest)
		}
		b.WriteString(joinLines(rest[:end]))
		text = rest[end:]
	}

	return b.String()
}

func joinLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// isTextComment reports whether s is a comment whose key is exactly "text".
func isTextComment(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	rest := strings.TrimLeftFunc(s[1:], unicode.IsSpace)
	if !strings.HasPrefix(rest, textKey) {
		return false
	}
	after := rest[len(textKey):]
	if after == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(after)
	return !isKeyRune(r)
}

// isTextHead reports whether s starts a reflow run.
func isTextHead(s string) bool {
	return isTextComment(s) && strings.Contains(s, "=")
}

// isTextMarker reports whether s is a bare "# text ..." wrap marker.
func isTextMarker(s string) bool {
	return isTextComment(s) && !strings.Contains(s, "=")
}

func isRunBoundary(s string) bool {
	return strings.TrimSpace(s) == "" ||
		strings.HasPrefix(s, "#") ||
		tokenLinePattern.MatchString(s)
}

func isKeyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}
