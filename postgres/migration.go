// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	migrate "github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal request flow, either at
// initial startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1",
			Up: []string{`
CREATE TABLE resources (
    id TEXT PRIMARY KEY,
    interaction_model INTEGER NOT NULL,
    container TEXT,
    binary_id TEXT,
    binary_type TEXT,
    binary_size BIGINT,
    revision TEXT NOT NULL,
    modified TIMESTAMP WITH TIME ZONE NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    quads TEXT NOT NULL DEFAULT ''
)`, `
CREATE TABLE mementos (
    serial BIGSERIAL PRIMARY KEY,
    resource TEXT NOT NULL,
    interaction_model INTEGER NOT NULL,
    container TEXT,
    binary_id TEXT,
    binary_type TEXT,
    binary_size BIGINT,
    revision TEXT NOT NULL,
    modified TIMESTAMP WITH TIME ZONE NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    quads TEXT NOT NULL DEFAULT ''
)`, `
CREATE INDEX mementos_resource ON mementos(resource, modified)`, `
CREATE INDEX resources_container ON resources(container)`, `
CREATE TABLE binaries (
    id TEXT PRIMARY KEY,
    content BYTEA NOT NULL
)`,
			},
			Down: []string{
				`DROP TABLE binaries`,
				`DROP INDEX resources_container`,
				`DROP INDEX mementos_resource`,
				`DROP TABLE mementos`,
				`DROP TABLE resources`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
