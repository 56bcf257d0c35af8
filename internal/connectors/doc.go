// Package connectors provides the corpus sources the CLI can read from.
// Each connector implements the driven file ports (enumeration, whole-file
// text access and change notification) for one kind of storage.
package connectors
