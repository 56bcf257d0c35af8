// Package migrations embeds the versioned schema of the corpus database.
// Files are named NNN_description.up.sql and applied in order.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
