// Package migrations embeds the SQL migration files so binaries can
// self-migrate on startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
