// Package migrations embeds the SQL schema for the SQLite blob store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
