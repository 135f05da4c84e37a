package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

// ScanRunRepository stores the history of completed scans. Runs are append-only.
type ScanRunRepository struct {
	db *sql.DB
}

func NewScanRunRepository(db *sql.DB) *ScanRunRepository {
	return &ScanRunRepository{db: db}
}

// Record inserts run, assigning it an ID when it has none.
func (r *ScanRunRepository) Record(run *models.ScanRun) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	_, err := r.db.Exec(`
		INSERT INTO scan_runs (id, root, added, updated, removed, playlists, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Root, run.Added, run.Updated, run.Removed, run.Playlists, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to record scan run: %w", err)
	}
	return nil
}

// Latest returns the most recently finished run, or [shared.ErrNotFound] before the first scan.
func (r *ScanRunRepository) Latest() (*models.ScanRun, error) {
	var run models.ScanRun
	err := r.db.QueryRow(`
		SELECT id, root, added, updated, removed, playlists, started_at, finished_at
		FROM scan_runs
		ORDER BY finished_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.Root, &run.Added, &run.Updated, &run.Removed, &run.Playlists, &run.StartedAt, &run.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no scan has completed", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scan run: %w", err)
	}
	return &run, nil
}
