// Package migrations embeds the SQL migration files for the libsql
// backend. File names follow NNNN_name.up.sql / NNNN_name.down.sql.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
