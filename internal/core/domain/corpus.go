package domain

import "time"

// ProgressFunc is called after each file of a batch has been handled.
type ProgressFunc func(done, total int, name string)

// FixOptions controls a batch repair run.
type FixOptions struct {
	// DryRun reports which files would change without writing them.
	DryRun bool

	// OnProgress is optional.
	OnProgress ProgressFunc
}

// FixReport summarises a batch repair run.
type FixReport struct {
	// Files is the number of files discovered.
	Files int

	// Changed lists the locators whose text was (or would be) rewritten.
	Changed []string

	// Failures holds one FileAccess diagnostic per skipped file.
	Failures []Diagnostic
}

// LoadOptions controls a batch load run.
type LoadOptions struct {
	// Workers is the number of files parsed in parallel. Values below 1 mean 1.
	Workers int

	// OnProgress is optional.
	OnProgress ProgressFunc
}

// LoadReport summarises a batch load run.
type LoadReport struct {
	// Run is the persisted record of this load.
	Run LoadRun

	// Documents are the parsed documents, ordered by ID.
	Documents []*Document

	// Diagnostics are the structural and field decode conditions recovered from.
	Diagnostics []Diagnostic

	// Failures holds one FileAccess diagnostic per skipped file.
	Failures []Diagnostic
}

// LoadRun is the persisted summary of one batch load.
type LoadRun struct {
	// ID uniquely identifies the run.
	ID string

	// Root is the directory the run was loaded from.
	Root string

	// Source is the provenance tag assigned to the documents.
	Source string

	// FirstDocID and NextDocID bound the ids assigned by the run.
	FirstDocID int
	NextDocID  int

	Documents   int
	Sentences   int
	Tokens      int
	Diagnostics int
	Failures    int

	StartedAt  time.Time
	FinishedAt time.Time
}
