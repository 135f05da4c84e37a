package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

const songColumns = `id, sequence, uri, title, artist, album_artist, album, genre, composer, date, track, disc, duration, mtime, created_at, updated_at, deleted_at`

// SongRepository implements models.Repository[*models.LibrarySong].
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song with generated ID and sequence
func (r *SongRepository) Create(song *models.LibrarySong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "library_songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	song.SetID(id)
	song.SetSequence(sequence)

	query := `
		INSERT INTO library_songs (` + songColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	args := append([]any{id, sequence, song.URI}, tagColumns(song.Tag)...)
	args = append(args, song.Mtime, song.CreatedAt(), song.UpdatedAt())

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.LibrarySong, error) {
	query := `SELECT ` + songColumns + ` FROM library_songs WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByURI retrieves the live song stored under uri
func (r *SongRepository) GetByURI(uri string) (*models.LibrarySong, error) {
	query := `SELECT ` + songColumns + ` FROM library_songs WHERE uri = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, uri))
}

// Update rewrites the metadata of an existing song
func (r *SongRepository) Update(song *models.LibrarySong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE library_songs
		SET title = ?, artist = ?, album_artist = ?, album = ?, genre = ?, composer = ?, date = ?,
			track = ?, disc = ?, duration = ?, mtime = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	args := append(tagColumns(song.Tag), song.Mtime, now, song.ID())
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID())
	}

	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE library_songs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// List retrieves live songs in sequence order.
//
// Supported criteria: "dir" (string) limits results to that directory and below,
// "artist" and "album" (string) match exactly.
func (r *SongRepository) List(criteria map[string]any) ([]*models.LibrarySong, error) {
	query := `SELECT ` + songColumns + ` FROM library_songs WHERE deleted_at IS NULL`
	args := []any{}

	if dir, ok := criteria["dir"].(string); ok {
		clause, clauseArgs := prefixClause(dir)
		query += clause
		args = append(args, clauseArgs...)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if album, ok := criteria["album"].(string); ok && album != "" {
		query += " AND album = ?"
		args = append(args, album)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.LibrarySong
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Count returns the number of live songs.
func (r *SongRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM library_songs WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return n, nil
}

// Upsert stores song under its URI, inserting a new row or updating the existing one
// when its modification time or metadata changed.
func (r *SongRepository) Upsert(song *models.LibrarySong) (UpsertResult, error) {
	existing, err := r.GetByURI(song.URI)
	if errors.Is(err, shared.ErrSongNotFound) {
		if err := r.Create(song); err != nil {
			return Unchanged, err
		}
		return Inserted, nil
	}
	if err != nil {
		return Unchanged, err
	}

	song.SetID(existing.ID())
	song.SetSequence(existing.Sequence())
	song.SetCreatedAt(existing.CreatedAt())

	if existing.Mtime.Equal(song.Mtime) && existing.Tag.Equal(normalizeTag(song.Tag)) {
		song.SetUpdatedAt(existing.UpdatedAt())
		return Unchanged, nil
	}

	if err := r.Update(song); err != nil {
		return Unchanged, err
	}
	return Updated, nil
}

func (r *SongRepository) scanOne(row *sql.Row) (*models.LibrarySong, error) {
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSongNotFound
	}
	return song, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*models.LibrarySong, error) {
	var (
		id, uri                                                  string
		sequence, track, disc, duration                          int
		title, artist, albumArtist, album, genre, composer, date string
		mtime, createdAt, updatedAt                              time.Time
		deletedAt                                                sql.NullTime
	)

	err := row.Scan(&id, &sequence, &uri, &title, &artist, &albumArtist, &album, &genre, &composer, &date,
		&track, &disc, &duration, &mtime, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	var tag models.Tag
	tag.Add(models.TagArtist, artist)
	tag.Add(models.TagAlbumArtist, albumArtist)
	tag.Add(models.TagAlbum, album)
	tag.Add(models.TagTitle, title)
	if track > 0 {
		tag.Add(models.TagTrack, strconv.Itoa(track))
	}
	if disc > 0 {
		tag.Add(models.TagDisc, strconv.Itoa(disc))
	}
	tag.Add(models.TagGenre, genre)
	tag.Add(models.TagDate, date)
	tag.Add(models.TagComposer, composer)
	tag.Duration = duration

	song := models.NewLibrarySong(uri, tag, mtime)
	song.SetID(id)
	song.SetSequence(sequence)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}

// tagColumns returns title through duration in table order.
func tagColumns(tag models.Tag) []any {
	return []any{
		tag.Get(models.TagTitle),
		tag.Get(models.TagArtist),
		tag.Get(models.TagAlbumArtist),
		tag.Get(models.TagAlbum),
		tag.Get(models.TagGenre),
		tag.Get(models.TagComposer),
		tag.Get(models.TagDate),
		tagNumber(tag, models.TagTrack),
		tagNumber(tag, models.TagDisc),
		tag.Duration,
	}
}

// normalizeTag returns tag as it would read back from the catalog.
func normalizeTag(tag models.Tag) models.Tag {
	var out models.Tag
	out.Add(models.TagArtist, tag.Get(models.TagArtist))
	out.Add(models.TagAlbumArtist, tag.Get(models.TagAlbumArtist))
	out.Add(models.TagAlbum, tag.Get(models.TagAlbum))
	out.Add(models.TagTitle, tag.Get(models.TagTitle))
	if n := tagNumber(tag, models.TagTrack); n > 0 {
		out.Add(models.TagTrack, strconv.Itoa(n))
	}
	if n := tagNumber(tag, models.TagDisc); n > 0 {
		out.Add(models.TagDisc, strconv.Itoa(n))
	}
	out.Add(models.TagGenre, tag.Get(models.TagGenre))
	out.Add(models.TagDate, tag.Get(models.TagDate))
	out.Add(models.TagComposer, tag.Get(models.TagComposer))
	out.Duration = tag.Duration
	return out
}
