package domain

import "strings"

// Attr is one entry of a key-value column (FEATS, MISC, comment metadata).
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`

	// Bare is set for entries written without "=": present, but valueless.
	Bare bool `json:"bare,omitempty"`
}

// String returns the CoNLL-U representation of the entry.
func (a Attr) String() string {
	if a.Bare {
		return a.Key
	}
	return a.Key + "=" + a.Value
}

// Attrs is an insertion-ordered mapping of keys to values.
// A nil or empty Attrs is the decoded form of "_".
type Attrs []Attr

// Lookup returns the first entry for key.
func (a Attrs) Lookup(key string) (Attr, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr, true
		}
	}
	return Attr{}, false
}

// Get returns the value for key, or empty string if absent or bare.
func (a Attrs) Get(key string) string {
	attr, _ := a.Lookup(key)
	return attr.Value
}

// Has returns true if key is present, with or without a value.
func (a Attrs) Has(key string) bool {
	_, ok := a.Lookup(key)
	return ok
}

// Keys returns the keys in order.
func (a Attrs) Keys() []string {
	keys := make([]string, len(a))
	for i, attr := range a {
		keys[i] = attr.Key
	}
	return keys
}

// Map returns the valued entries as a plain map.
// Bare entries map to the empty string.
func (a Attrs) Map() map[string]string {
	m := make(map[string]string, len(a))
	for _, attr := range a {
		if _, ok := m[attr.Key]; !ok {
			m[attr.Key] = attr.Value
		}
	}
	return m
}

// String re-encodes the entries with "|", or "_" when empty.
func (a Attrs) String() string {
	if len(a) == 0 {
		return EmptyField
	}
	parts := make([]string, len(a))
	for i, attr := range a {
		parts[i] = attr.String()
	}
	return strings.Join(parts, "|")
}
