// Package storage keeps the bounded list of saved snapshots. Records are
// prepended, read back most recent first, and anything beyond the configured
// retention is evicted oldest first on every write.
//
// Two backends share that contract: a SQLite database (Storage) and a JSON
// file written atomically (FileStore).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rewired-gh/neurodraw/internal/models"

	_ "modernc.org/sqlite"
)

// DefaultMaxRecords is how many snapshots are retained unless configured.
const DefaultMaxRecords = 20

// ErrNotFound is returned when a snapshot ID is unknown.
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	seq                INTEGER PRIMARY KEY AUTOINCREMENT,
	id                 TEXT NOT NULL UNIQUE,
	timestamp          TEXT NOT NULL,
	raster             TEXT NOT NULL,
	line_speed         INTEGER NOT NULL,
	line_sharpness     INTEGER NOT NULL,
	color_intensity    INTEGER NOT NULL,
	pattern_repetition INTEGER NOT NULL
);`

// Storage is the SQLite-backed snapshot store.
type Storage struct {
	db         *sql.DB
	maxRecords int
}

// New opens (or creates) the database at dbPath. ":memory:" gives a private
// in-memory database.
func New(maxRecords int, dbPath string) (*Storage, error) {
	if maxRecords < 1 {
		maxRecords = DefaultMaxRecords
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Storage{db: db, maxRecords: maxRecords}, nil
}

// Close releases the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Prepend stores snapshot as the most recent record and evicts the oldest
// records beyond the retention limit.
func (s *Storage) Prepend(ctx context.Context, snapshot *models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	m := snapshot.Metrics
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, timestamp, raster, line_speed, line_sharpness, color_intensity, pattern_repetition)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.Timestamp.UTC().Format(time.RFC3339Nano), snapshot.Raster,
		m.LineSpeed, m.LineSharpness, m.ColorIntensity, m.PatternRepetition,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE seq NOT IN (SELECT seq FROM snapshots ORDER BY seq DESC LIMIT ?)`,
		s.maxRecords,
	)
	if err != nil {
		return fmt.Errorf("failed to trim snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// List returns all retained snapshots, most recent first.
func (s *Storage) List(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, raster, line_speed, line_sharpness, color_intensity, pattern_repetition
		 FROM snapshots ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]models.Snapshot, 0, s.maxRecords)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return snapshots, nil
}

// Get retrieves a snapshot by ID.
func (s *Storage) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, timestamp, raster, line_speed, line_sharpness, color_intensity, pattern_repetition
		 FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (models.Snapshot, error) {
	var (
		snap models.Snapshot
		ts   string
	)
	m := &snap.Metrics
	if err := row.Scan(&snap.ID, &ts, &snap.Raster, &m.LineSpeed, &m.LineSharpness, &m.ColorIntensity, &m.PatternRepetition); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snap, err
		}
		return snap, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return snap, fmt.Errorf("invalid timestamp %q for snapshot %s: %w", ts, snap.ID, err)
	}
	snap.Timestamp = parsed
	return snap, nil
}
