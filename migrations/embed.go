// Package migrations embeds the versioned SQL schema.
package migrations

import "embed"

// FS holds the golang-migrate source files
//
//go:embed *.sql
var FS embed.FS
