// Package migrations embeds the PostgreSQL schema for the meal store.
package migrations

import "embed"

// FS holds NNNN_name.sql files and their NNNN_name_rollback.sql pairs.
//
//go:embed *.sql
var FS embed.FS
