// Package db embeds the catalog schema.
package db

import _ "embed"

// Schema creates the catalog tables. Every statement is idempotent.
//
//go:embed migrations/001_schema.sql
var Schema string
