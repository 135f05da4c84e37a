package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

const playlistColumns = `id, sequence, uri, mtime, created_at, updated_at, deleted_at`

// PlaylistRepository implements models.Repository[*models.LibraryPlaylist] for stored playlist files.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.LibraryPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "library_playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)
	playlist.SetSequence(sequence)

	query := `
		INSERT INTO library_playlists (id, sequence, uri, mtime, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, playlist.URI, playlist.Mtime, playlist.CreatedAt(), playlist.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.LibraryPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM library_playlists WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByURI retrieves the live playlist stored under uri
func (r *PlaylistRepository) GetByURI(uri string) (*models.LibraryPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM library_playlists WHERE uri = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, uri))
}

// Update records a new modification time for an existing playlist
func (r *PlaylistRepository) Update(playlist *models.LibraryPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	result, err := r.db.Exec(`
		UPDATE library_playlists
		SET mtime = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, playlist.Mtime, now, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE library_playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// List retrieves live playlists in sequence order. The "dir" criterion limits results to a subtree.
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.LibraryPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM library_playlists WHERE deleted_at IS NULL`
	args := []any{}

	if dir, ok := criteria["dir"].(string); ok {
		clause, clauseArgs := prefixClause(dir)
		query += clause
		args = append(args, clauseArgs...)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.LibraryPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Upsert stores playlist under its URI, updating the row when the modification time changed.
func (r *PlaylistRepository) Upsert(playlist *models.LibraryPlaylist) (UpsertResult, error) {
	existing, err := r.GetByURI(playlist.URI)
	if errors.Is(err, shared.ErrPlaylistNotFound) {
		if err := r.Create(playlist); err != nil {
			return Unchanged, err
		}
		return Inserted, nil
	}
	if err != nil {
		return Unchanged, err
	}

	playlist.SetID(existing.ID())
	playlist.SetSequence(existing.Sequence())
	playlist.SetCreatedAt(existing.CreatedAt())

	if existing.Mtime.Equal(playlist.Mtime) {
		playlist.SetUpdatedAt(existing.UpdatedAt())
		return Unchanged, nil
	}

	if err := r.Update(playlist); err != nil {
		return Unchanged, err
	}
	return Updated, nil
}

func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.LibraryPlaylist, error) {
	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrPlaylistNotFound
	}
	return playlist, err
}

func scanPlaylist(row rowScanner) (*models.LibraryPlaylist, error) {
	var (
		id, uri                     string
		sequence                    int
		mtime, createdAt, updatedAt time.Time
		deletedAt                   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &uri, &mtime, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := models.NewLibraryPlaylist(uri, mtime)
	playlist.SetID(id)
	playlist.SetSequence(sequence)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
