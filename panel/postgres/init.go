// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

// Package postgres contains repository implementations backed by PostgreSQL,
// the authoritative store of the panel graph.
package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // required for SQL access
	migrate "github.com/rubenv/sql-migrate"
)

const (
	errDuplicate  = "unique_violation"
	errFK         = "foreign_key_violation"
	errCheck      = "check_violation"
	errInvalid    = "invalid_text_representation"
	errTruncation = "string_data_right_truncation"
)

// Config defines the options that are used when connecting to a PostgreSQL
// instance.
type Config struct {
	Host        string
	Port        string
	User        string
	Pass        string
	Name        string
	SSLMode     string
	SSLCert     string
	SSLKey      string
	SSLRootCert string
}

// Connect creates a connection to the PostgreSQL instance and applies any
// unapplied database migrations. A non-nil error is returned to indicate
// failure.
func Connect(cfg Config) (*sqlx.DB, error) {
	url := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s sslcert=%s sslkey=%s sslrootcert=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.Pass, cfg.SSLMode, cfg.SSLCert, cfg.SSLKey, cfg.SSLRootCert)

	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	if err := migrateDB(db); err != nil {
		return nil, err
	}

	return db, nil
}

func migrateDB(db *sqlx.DB) error {
	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "panel_1",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS channels (
						id    CHAR(16) PRIMARY KEY,
						owner VARCHAR(254) NOT NULL,
						name  VARCHAR(64) NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_channels_owner ON channels (owner)`,
					`CREATE TABLE IF NOT EXISTS keys (
						token   CHAR(32) PRIMARY KEY,
						chan_id CHAR(16) NOT NULL REFERENCES channels (id),
						name    VARCHAR(50) NOT NULL,
						perm    INTEGER NOT NULL DEFAULT 0,
						created TIMESTAMP NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_keys_chan_id ON keys (chan_id)`,
					`CREATE TABLE IF NOT EXISTS mixins (
						id             BIGSERIAL PRIMARY KEY,
						source_channel CHAR(16) NOT NULL REFERENCES channels (id),
						dest_channel   CHAR(16) NOT NULL REFERENCES channels (id),
						linked_by      CHAR(32) NOT NULL REFERENCES keys (token) ON DELETE CASCADE,
						UNIQUE (source_channel, dest_channel),
						CHECK (source_channel <> dest_channel)
					)`,
					`CREATE INDEX IF NOT EXISTS idx_mixins_dest ON mixins (dest_channel)`,
				},
				Down: []string{
					"DROP TABLE mixins",
					"DROP TABLE keys",
					"DROP TABLE channels",
				},
			},
		},
	}

	_, err := migrate.Exec(db.DB, "postgres", migrations, migrate.Up)
	return err
}
