// Package migrations embeds the schema migration files so a deployed binary
// can bring its database up to date without shipping SQL alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
