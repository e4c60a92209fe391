package migrations

import "embed"

// Files holds forward-only SQL migrations embedded into the binary.
//
//go:embed *.sql
var Files embed.FS
