// Package migrations embeds the SQL migration files applied by
// internal/db.RunMigrations via goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
