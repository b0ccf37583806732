// Package migrations embeds the share service's goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
