// Package store provides persistence for tracked job applications.
// A single Store type wraps sqlx and works with SQLite (default, file-backed,
// WAL mode) and PostgreSQL, selected by the connection string. Schema changes
// are applied by the versioned migrator in migrate.go, and an empty database
// can be seeded with sample jobs from an embedded YAML file.
package store
