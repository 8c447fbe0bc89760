// Package migrations embeds the PostgreSQL schema migrations of the ledger.
package migrations

import "embed"

// FS holds the numbered golang-migrate files
//
//go:embed *.sql
var FS embed.FS
