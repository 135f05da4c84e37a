package models

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// record holds the persistence bookkeeping shared by catalog models.
type record struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newRecord(sequence int) record {
	now := time.Now()
	return record{sequence: sequence, createdAt: now, updatedAt: now}
}

func (r *record) ID() string { return r.id }
func (r *record) Sequence() int { return r.sequence }
func (r *record) CreatedAt() time.Time { return r.createdAt }
func (r *record) UpdatedAt() time.Time { return r.updatedAt }
func (r *record) DeletedAt() *time.Time { return r.deletedAt }
func (r *record) SetID(id string) { r.id = id }
func (r *record) SetSequence(seq int) { r.sequence = seq }
func (r *record) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *record) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *record) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// IsDeleted reports whether the row has been soft-deleted.
func (r *record) IsDeleted() bool { return r.deletedAt != nil }

// LibrarySong is a catalog row describing one audio file below the music directory.
//
// URI is relative to the music directory, slash-separated, and becomes the song's
// path in the tree.
type LibrarySong struct {
	record
	URI   string
	Tag   Tag
	Mtime time.Time
}

// NewLibrarySong creates an unsaved catalog song.
func NewLibrarySong(uri string, tag Tag, mtime time.Time) *LibrarySong {
	return &LibrarySong{record: newRecord(0), URI: uri, Tag: tag, Mtime: mtime}
}

// Validate checks the URI is a clean relative path.
func (s *LibrarySong) Validate() error {
	return validateCatalogURI(s.URI)
}

// Dir returns the directory part of the URI, "" for songs in the root.
func (s *LibrarySong) Dir() string {
	return catalogDir(s.URI)
}

// Name returns the leaf name of the URI.
func (s *LibrarySong) Name() string {
	return path.Base(s.URI)
}

// LibraryPlaylist is a catalog row describing one stored playlist file.
type LibraryPlaylist struct {
	record
	URI   string
	Mtime time.Time
}

// NewLibraryPlaylist creates an unsaved catalog playlist.
func NewLibraryPlaylist(uri string, mtime time.Time) *LibraryPlaylist {
	return &LibraryPlaylist{record: newRecord(0), URI: uri, Mtime: mtime}
}

func (p *LibraryPlaylist) Validate() error {
	return validateCatalogURI(p.URI)
}

func (p *LibraryPlaylist) Dir() string {
	return catalogDir(p.URI)
}

func (p *LibraryPlaylist) Name() string {
	return path.Base(p.URI)
}

// ScanRun records the outcome of one scanner pass.
type ScanRun struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Removed    int       `json:"removed"`
	Playlists  int       `json:"playlists"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func validateCatalogURI(uri string) error {
	switch {
	case uri == "":
		return fmt.Errorf("uri is required")
	case strings.HasPrefix(uri, "/"), strings.HasSuffix(uri, "/"):
		return fmt.Errorf("uri must be relative without a trailing slash: %q", uri)
	case path.Clean(uri) != uri:
		return fmt.Errorf("uri is not clean: %q", uri)
	case uri == ".", uri == ".." || strings.HasPrefix(uri, "../"):
		return fmt.Errorf("uri escapes the music directory: %q", uri)
	}
	return nil
}

func catalogDir(uri string) string {
	i := strings.LastIndexByte(uri, '/')
	if i < 0 {
		return ""
	}
	return uri[:i]
}
