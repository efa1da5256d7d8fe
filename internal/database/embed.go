package database

import "embed"

// migrationsFS bundles the schema migration files into the binary so a
// deployment is a single artifact.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS
