package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentx-labs/launchdx/internal/launchd"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id              TEXT PRIMARY KEY,
		collected_at    TEXT NOT NULL,
		root            TEXT NOT NULL,
		product_version TEXT,
		build_version   TEXT,
		hostname        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id  TEXT NOT NULL REFERENCES snapshots(id),
		kind         TEXT NOT NULL,
		label        TEXT,
		plist_path   TEXT NOT NULL,
		content_json TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_label ON records(label)`,
	`CREATE INDEX IF NOT EXISTS idx_records_snapshot ON records(snapshot_id)`,
}

// WriteSQLite appends the snapshot to the database at path, creating the
// tables on first use. Earlier snapshots in the same file are kept.
func WriteSQLite(ctx context.Context, path string, s *Snapshot) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, stmt := range append(pragmas, sqliteSchema...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("prepare sqlite schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var productVersion, buildVersion, hostname sql.NullString
	if s.Host != nil {
		productVersion = nullableString(s.Host.ProductVersion)
		buildVersion = nullableString(s.Host.BuildVersion)
		hostname = nullableString(s.Host.Hostname)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, collected_at, root, product_version, build_version, hostname)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID.String(),
		s.CollectedAt.UTC().Format(time.RFC3339Nano),
		s.Root,
		productVersion,
		buildVersion,
		hostname,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (snapshot_id, kind, label, plist_path, content_json) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	batches := []struct {
		kind    launchd.Kind
		records []launchd.Record
	}{
		{launchd.KindDaemon, s.Daemons},
		{launchd.KindAgent, s.Agents},
	}
	for _, batch := range batches {
		for _, r := range batch.records {
			content, err := json.Marshal(Flatten(r))
			if err != nil {
				return fmt.Errorf("encode record %s: %w", r.SourcePath, err)
			}
			if _, err := stmt.ExecContext(ctx,
				s.ID.String(),
				batch.kind.String(),
				nullableString(r.Label()),
				r.SourcePath,
				string(content),
			); err != nil {
				return fmt.Errorf("insert record %s: %w", r.SourcePath, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
