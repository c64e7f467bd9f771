package migrations

import "embed"

// Files holds the forward-only SQLite schema, compatible with databases
// created by earlier releases of the app.
//
//go:embed *.sql
var Files embed.FS
