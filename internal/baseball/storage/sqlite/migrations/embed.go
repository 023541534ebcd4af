// Package migrations embeds the game store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
