// Package normalisers holds the text repair passes applied to corpus files
// before they are parsed. Each implementation satisfies driven.Normaliser.
package normalisers
