// Package db holds the SQL migrations, embedded so the binary and tests do
// not depend on the working directory.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
