// Package db holds the SQL schema migrations applied by cmd/migrate.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
