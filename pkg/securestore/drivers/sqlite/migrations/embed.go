// Package migrations embeds the schema for the sqlite secure store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
