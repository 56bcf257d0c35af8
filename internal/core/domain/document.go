package domain

import (
	"strconv"
	"strings"
)

// DefaultSource is the provenance tag used when a document's source is unknown.
const DefaultSource = "unknown"

// EmptyField is the CoNLL-U placeholder for an unset column.
const EmptyField = "_"

// Document is one parsed input file.
// It is created once per parse pass and never mutated afterwards.
type Document struct {
	// ID is the document identifier, unique within a corpus load.
	ID int `json:"doc_id"`

	// Filename is the display name of the file (not a path contract).
	Filename string `json:"filename"`

	// Source is an opaque provenance tag.
	Source string `json:"source"`

	// Sentences are the blank-line-delimited blocks, in file order.
	Sentences []Sentence `json:"sentences,omitempty"`
}

// TokenCount returns the number of tokens across all sentences.
func (d *Document) TokenCount() int {
	n := 0
	for i := range d.Sentences {
		n += len(d.Sentences[i].Tokens)
	}
	return n
}

// Sentence is one blank-line-delimited block within a document.
type Sentence struct {
	// DocID refers back to the owning Document.
	DocID int `json:"doc_id"`

	// ID is the 1-based position of the sentence within its document.
	ID int `json:"sent_id"`

	// Text is the value of the first "# text" comment, or empty if absent.
	Text string `json:"text"`

	// Metadata holds every comment line of the block, in order.
	Metadata Attrs `json:"metadata,omitempty"`

	// Tokens are the successfully parsed token lines, in order.
	Tokens []Token `json:"tokens,omitempty"`
}

// Token is one token line within a sentence.
type Token struct {
	// ID is the 1-based position of the token within its sentence.
	// It is not the raw CoNLL-U index, which lives in Fields.Index.
	ID int `json:"token_id"`

	// SentID refers back to the owning Sentence.
	SentID int `json:"sent_id"`

	// Fields holds the decoded annotation columns.
	Fields FieldSet `json:"fields"`
}

// IndexKind classifies the raw CoNLL-U index of a token line.
type IndexKind int

// Index kinds.
const (
	// IndexWord is a plain integer index such as "3".
	IndexWord IndexKind = iota

	// IndexMultiword is a multiword span such as "3-4".
	IndexMultiword

	// IndexEmptyNode is an empty node such as "3.1".
	IndexEmptyNode
)

// String returns the string representation.
func (k IndexKind) String() string {
	switch k {
	case IndexMultiword:
		return "multiword"
	case IndexEmptyNode:
		return "empty"
	default:
		return "word"
	}
}

// FieldSet is the nine annotation columns that follow the raw index.
type FieldSet struct {
	// Index is the raw column 1 value ("3", "3-4", "3.1").
	Index string `json:"index"`

	// Form and Lemma keep "_" literally.
	Form  string `json:"form"`
	Lemma string `json:"lemma"`

	// UPOS, XPOS and DepRel are empty when the column is "_".
	UPOS   string `json:"upos,omitempty"`
	XPOS   string `json:"xpos,omitempty"`
	DepRel string `json:"deprel,omitempty"`

	// Feats maps feature names to values, in column order.
	Feats Attrs `json:"feats,omitempty"`

	// Head is the governor index, or NoHead.
	Head Head `json:"head"`

	// Deps is the enhanced dependency list.
	Deps []Dep `json:"deps,omitempty"`

	// Misc holds key=value pairs and bare tokens.
	Misc Attrs `json:"misc,omitempty"`
}

// IndexKind reports whether the raw index is a word, a multiword span or an empty node.
func (f *FieldSet) IndexKind() IndexKind {
	switch {
	case strings.Contains(f.Index, "-"):
		return IndexMultiword
	case strings.Contains(f.Index, "."):
		return IndexEmptyNode
	default:
		return IndexWord
	}
}

// Head is the index of a token's governor within its sentence.
// Zero is the root; NoHead marks an absent governor.
type Head int

// NoHead is the sentinel for "_" or an undecodable HEAD column.
const NoHead Head = -1

// IsSet returns true if the head refers to a governor or the root.
func (h Head) IsSet() bool {
	return h != NoHead
}

// String returns the CoNLL-U representation.
func (h Head) String() string {
	if h == NoHead {
		return EmptyField
	}
	return strconv.Itoa(int(h))
}

// Dep is one enhanced dependency: a governor and a relation label.
type Dep struct {
	// Head is the integer part of the governor index.
	Head int `json:"head"`

	// EmptyNode is the decimal part for empty-node governors ("5.1" -> 1).
	EmptyNode int `json:"empty_node,omitempty"`

	// Relation is the label, possibly with subtypes ("nmod:poss").
	Relation string `json:"relation"`
}

// String returns the CoNLL-U representation.
func (d Dep) String() string {
	head := strconv.Itoa(d.Head)
	if d.EmptyNode > 0 {
		head += "." + strconv.Itoa(d.EmptyNode)
	}
	return head + ":" + d.Relation
}

// FormatDeps re-encodes a dependency list, "_" when empty.
func FormatDeps(deps []Dep) string {
	if len(deps) == 0 {
		return EmptyField
	}
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = d.String()
	}
	return strings.Join(parts, "|")
}
