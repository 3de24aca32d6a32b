package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"github.com/Aman-CERP/evidex/internal/analysis"
	"github.com/Aman-CERP/evidex/internal/index"
)

const sqliteSchema = `
CREATE TABLE schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE run (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE files (
	id                INTEGER PRIMARY KEY,
	source_root       TEXT NOT NULL,
	full_path         TEXT NOT NULL,
	rel_path          TEXT NOT NULL,
	name              TEXT NOT NULL,
	ext               TEXT NOT NULL,
	size              INTEGER NOT NULL,
	mtime_iso         TEXT NOT NULL,
	sha256            TEXT NOT NULL,
	category          TEXT NOT NULL,
	content_extracted INTEGER NOT NULL
);

CREATE TABLE file_dates (
	file_id INTEGER NOT NULL REFERENCES files(id),
	date    TEXT NOT NULL,
	basis   TEXT NOT NULL
);

CREATE TABLE file_entities (
	file_id   INTEGER NOT NULL REFERENCES files(id),
	canonical TEXT NOT NULL,
	count     INTEGER NOT NULL,
	basis     TEXT NOT NULL
);

CREATE TABLE duplicate_groups (
	sha256  TEXT NOT NULL,
	file_id INTEGER NOT NULL REFERENCES files(id)
);

CREATE TABLE timeline (
	seq         INTEGER PRIMARY KEY,
	date        TEXT NOT NULL,
	event       TEXT NOT NULL,
	basis       TEXT NOT NULL,
	source_path TEXT NOT NULL
);

CREATE TABLE gaps (
	seq     INTEGER PRIMARY KEY,
	message TEXT NOT NULL
);

CREATE INDEX idx_files_sha256 ON files(sha256);
CREATE INDEX idx_file_entities_canonical ON file_entities(canonical);

INSERT INTO schema_version (version) VALUES (1);
`

// ExportSQLite writes a fresh database at path holding the derived metadata
// of a. Any previous database at path is replaced. Document text is never
// stored.
func ExportSQLite(ctx context.Context, path string, a *Artifacts) error {
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertRun(ctx, tx, &a.Summary); err != nil {
		return err
	}
	if err := insertFiles(ctx, tx, a.Records); err != nil {
		return err
	}
	if err := insertDerived(ctx, tx, a); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, s *Summary) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run(key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare run statement: %w", err)
	}
	defer stmt.Close()

	pairs := [][2]string{
		{"run_id", s.RunID},
		{"version", s.Version},
		{"started_at", s.StartedAt},
		{"out_dir", s.OutDir},
	}
	for _, kv := range pairs {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to insert run row: %w", err)
		}
	}
	return nil
}

// insertFiles stores records with id = index + 1 so that duplicate group
// indices map directly onto file ids.
func insertFiles(ctx context.Context, tx *sql.Tx, records []index.IndexedFile) error {
	fileStmt, err := tx.PrepareContext(ctx, `INSERT INTO files(
		id, source_root, full_path, rel_path, name, ext, size, mtime_iso, sha256, category, content_extracted
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare file statement: %w", err)
	}
	defer fileStmt.Close()

	dateStmt, err := tx.PrepareContext(ctx, `INSERT INTO file_dates(file_id, date, basis) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare date statement: %w", err)
	}
	defer dateStmt.Close()

	entityStmt, err := tx.PrepareContext(ctx, `INSERT INTO file_entities(file_id, canonical, count, basis) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare entity statement: %w", err)
	}
	defer entityStmt.Close()

	for i := range records {
		r := &records[i]
		id := i + 1
		if _, err := fileStmt.ExecContext(ctx, id, r.SourceRoot, r.FullPath, r.RelPath, r.Name, r.Ext,
			r.Size, r.MtimeISO, r.SHA256, r.Category, r.ContentExtracted); err != nil {
			return fmt.Errorf("failed to insert file %s: %w", r.RelPath, err)
		}
		for _, d := range r.DatesFromFilename {
			if _, err := dateStmt.ExecContext(ctx, id, d, index.BasisFilename); err != nil {
				return fmt.Errorf("failed to insert date: %w", err)
			}
		}
		for _, d := range r.DatesFromContent {
			if _, err := dateStmt.ExecContext(ctx, id, d, index.BasisContent); err != nil {
				return fmt.Errorf("failed to insert date: %w", err)
			}
		}
		basis := r.EntityBasis()
		for _, canonical := range sortedKeys(r.EntityHits) {
			if _, err := entityStmt.ExecContext(ctx, id, canonical, r.EntityHits[canonical], basis); err != nil {
				return fmt.Errorf("failed to insert entity hit: %w", err)
			}
		}
	}
	return nil
}

func insertDerived(ctx context.Context, tx *sql.Tx, a *Artifacts) error {
	for _, digest := range analysis.SortedDigests(a.Duplicates) {
		for _, idx := range a.Duplicates[digest] {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO duplicate_groups(sha256, file_id) VALUES (?, ?)`, digest, idx+1); err != nil {
				return fmt.Errorf("failed to insert duplicate group: %w", err)
			}
		}
	}
	for i, row := range a.Timeline {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timeline(seq, date, event, basis, source_path) VALUES (?, ?, ?, ?, ?)`,
			i+1, row.Date, row.Event, row.Basis, row.SourcePath); err != nil {
			return fmt.Errorf("failed to insert timeline row: %w", err)
		}
	}
	for i, msg := range a.Gaps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gaps(seq, message) VALUES (?, ?)`, i+1, msg); err != nil {
			return fmt.Errorf("failed to insert gap: %w", err)
		}
	}
	return nil
}
