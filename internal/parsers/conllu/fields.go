package conllu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

const (
	numColumns = 10

	columnSeparator = "\t"
	entrySeparator  = "|"
	valueSeparator  = "="
	depSeparator    = ":"
	nodeSeparator   = "."
)

// Column positions of a token line.
const (
	colIndex = iota
	colForm
	colLemma
	colUPOS
	colXPOS
	colFeats
	colHead
	colDepRel
	colDeps
	colMisc
)

// Column names used in diagnostics.
const (
	FieldFeats = "FEATS"
	FieldHead  = "HEAD"
	FieldDeps  = "DEPS"
	FieldMisc  = "MISC"
)

// EntryError describes one malformed entry of a structured column.
// The entry is dropped; the rest of the column is still decoded.
type EntryError struct {
	Field   string
	Entry   string
	Message string
}

// Error implements the error interface.
func (e EntryError) Error() string {
	return fmt.Sprintf("%s entry %q: %s", e.Field, e.Entry, e.Message)
}

// Unwrap returns domain.ErrFieldDecode.
func (e EntryError) Unwrap() error {
	return domain.ErrFieldDecode
}

func isEmptyField(s string) bool {
	return s == domain.EmptyField || s == ""
}

// ParseTag decodes UPOS, XPOS and DEPREL: "_" means no value.
func ParseTag(s string) string {
	if isEmptyField(s) {
		return ""
	}
	return s
}

// ParseFeatures decodes a FEATS column of "|"-separated "Name=Value" entries.
// Entries without "=", with an empty name or value, or repeating an earlier
// name are dropped and reported.
func ParseFeatures(s string) (domain.Attrs, []EntryError) {
	if isEmptyField(s) {
		return nil, nil
	}

	var (
		attrs domain.Attrs
		errs  []EntryError
	)
	for _, entry := range strings.Split(s, entrySeparator) {
		key, value, ok := strings.Cut(entry, valueSeparator)
		switch {
		case entry == "":
			errs = append(errs, EntryError{Field: FieldFeats, Entry: entry, Message: "empty entry"})
		case !ok:
			errs = append(errs, EntryError{Field: FieldFeats, Entry: entry, Message: "missing '='"})
		case key == "":
			errs = append(errs, EntryError{Field: FieldFeats, Entry: entry, Message: "empty feature name"})
		case value == "":
			errs = append(errs, EntryError{Field: FieldFeats, Entry: entry, Message: "empty feature value"})
		case attrs.Has(key):
			errs = append(errs, EntryError{Field: FieldFeats, Entry: entry, Message: "duplicate feature"})
		default:
			attrs = append(attrs, domain.Attr{Key: key, Value: value})
		}
	}
	return attrs, errs
}

// ParseMisc decodes a MISC column. Entries are "Key=Value" or a bare "Key";
// a bare key is kept as present-but-valueless.
func ParseMisc(s string) (domain.Attrs, []EntryError) {
	if isEmptyField(s) {
		return nil, nil
	}

	var (
		attrs domain.Attrs
		errs  []EntryError
	)
	for _, entry := range strings.Split(s, entrySeparator) {
		key, value, ok := strings.Cut(entry, valueSeparator)
		switch {
		case entry == "":
			errs = append(errs, EntryError{Field: FieldMisc, Entry: entry, Message: "empty entry"})
		case key == "":
			errs = append(errs, EntryError{Field: FieldMisc, Entry: entry, Message: "empty key"})
		case attrs.Has(key):
			errs = append(errs, EntryError{Field: FieldMisc, Entry: entry, Message: "duplicate key"})
		case !ok:
			attrs = append(attrs, domain.Attr{Key: key, Bare: true})
		default:
			attrs = append(attrs, domain.Attr{Key: key, Value: value})
		}
	}
	return attrs, errs
}

// ParseHead decodes a HEAD column. "_" and undecodable values yield domain.NoHead.
func ParseHead(s string) (domain.Head, *EntryError) {
	if isEmptyField(s) {
		return domain.NoHead, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return domain.NoHead, &EntryError{Field: FieldHead, Entry: s, Message: "not a token index"}
	}
	return domain.Head(n), nil
}

// ParseDeps decodes a DEPS column of "|"-separated "head:relation" entries.
// The head may be an empty node ("5.1"); the relation may carry subtypes.
func ParseDeps(s string) ([]domain.Dep, []EntryError) {
	if isEmptyField(s) {
		return nil, nil
	}

	var (
		deps []domain.Dep
		errs []EntryError
	)
	for _, entry := range strings.Split(s, entrySeparator) {
		head, rel, ok := strings.Cut(entry, depSeparator)
		if !ok {
			errs = append(errs, EntryError{Field: FieldDeps, Entry: entry, Message: "missing ':'"})
			continue
		}
		if rel == "" {
			errs = append(errs, EntryError{Field: FieldDeps, Entry: entry, Message: "empty relation"})
			continue
		}
		dep, err := parseDepHead(head)
		if err != nil {
			errs = append(errs, EntryError{Field: FieldDeps, Entry: entry, Message: err.Error()})
			continue
		}
		dep.Relation = rel
		deps = append(deps, dep)
	}
	return deps, errs
}

func parseDepHead(s string) (domain.Dep, error) {
	major, minor, hasMinor := strings.Cut(s, nodeSeparator)

	head, err := strconv.Atoi(major)
	if err != nil || head < 0 {
		return domain.Dep{}, fmt.Errorf("head %q is not a token index", s)
	}
	dep := domain.Dep{Head: head}

	if hasMinor {
		node, err := strconv.Atoi(minor)
		if err != nil || node < 1 {
			return domain.Dep{}, fmt.Errorf("head %q is not an empty node index", s)
		}
		dep.EmptyNode = node
	}
	return dep, nil
}

// decodeFields decodes the ten columns of a token line.
func decodeFields(cols []string) (domain.FieldSet, []EntryError) {
	var errs []EntryError

	fields := domain.FieldSet{
		Index:  cols[colIndex],
		Form:   cols[colForm],
		Lemma:  cols[colLemma],
		UPOS:   ParseTag(cols[colUPOS]),
		XPOS:   ParseTag(cols[colXPOS]),
		DepRel: ParseTag(cols[colDepRel]),
	}

	feats, featErrs := ParseFeatures(cols[colFeats])
	fields.Feats = feats
	errs = append(errs, featErrs...)

	head, headErr := ParseHead(cols[colHead])
	fields.Head = head
	if headErr != nil {
		errs = append(errs, *headErr)
	}

	deps, depErrs := ParseDeps(cols[colDeps])
	fields.Deps = deps
	errs = append(errs, depErrs...)

	misc, miscErrs := ParseMisc(cols[colMisc])
	fields.Misc = misc
	errs = append(errs, miscErrs...)

	return fields, errs
}
