// Package migrations embeds the SQL migration files for both database
// files: the habit-definitions database and the completions database.
package migrations

import "embed"

//go:embed habits/*.sql completions/*.sql
var FS embed.FS
