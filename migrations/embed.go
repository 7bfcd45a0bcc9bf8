// Package migrations embeds the SQL schema applied by platform/db.Migrate.
package migrations

import "embed"

// FS holds every migration file in lexical order of application.
//
//go:embed *.sql
var FS embed.FS
