// Package migrations embeds the database schema so tests and tooling can
// apply it without locating files on disk.
package migrations

import _ "embed"

// Schema is the full marketplace schema. Idempotent; safe to re-apply.
//
//go:embed schema.sql
var Schema string
