// Package db carries the schema migrations applied by the loader.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the migration files.
const MigrationsDir = "migrations"
