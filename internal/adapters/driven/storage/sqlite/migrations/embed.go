// Package migrations embeds the versioned schema for the groundwork database.
// Files are named NNN_description.up.sql and applied in order. Migrations
// are forward-only.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.up.sql
var FS embed.FS
