// Package library implements the SQLite song catalog that the tree is rebuilt from.
//
// The catalog is the only persistent state of songdb. The scanner writes it, the
// updater reads it and reconciles the in-memory tree against it.
//
// Key Implementations:
//   - [SongRepository] : Audio files keyed by their URI below the music directory
//   - [PlaylistRepository] : Stored playlist files
//   - [ScanRunRepository] : History of completed scans
//
// Rows are soft-deleted via deleted_at, so a file that disappears and comes back
// gets a fresh row. [NextSequence] gives every row a stable insertion number.
package library
