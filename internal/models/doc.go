// Package models defines value types shared between the song tree and its collaborators.
//
// The package contains two categories of types:
//
// 1. Metadata values used across packages
//   - [Tag] : Song metadata as ordered (type, value) items with a duration
//   - [TagType] : Known tag kinds with [ParseTagType] for user input
//   - [DetachedSong] : A song that lives outside the tree (playlist entries)
//
// 2. Persistence contracts for the song catalog
//   - [Model] : ID, timestamps and validation
//   - [Repository] : Standard CRUD operations over a [Model]
//   - [LibrarySong], [LibraryPlaylist] : catalog rows keyed by a clean relative URI
//   - [ScanRun] : the summary of one scanner pass
//
// Tag lookups that should honor the AlbumArtist to Artist substitution go through
// [ApplyTagWithFallback].
package models
