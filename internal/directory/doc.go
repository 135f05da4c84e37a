// Package directory implements the in-memory song tree.
//
// The tree is made of [Directory] nodes addressed by slash separated paths. The
// root has the empty path; every other node's path is its parent's path plus
// "/" plus its name, or just its name directly below the root. A node owns its
// child directories, its [Song] entries and its [PlaylistInfo] entries.
//
// # Locking
//
// The tree carries no lock of its own. Every operation takes a guard from
// package dblock:
//   - Mutations (CreateChild, Delete, AddSong, RemoveSong, AddPlaylist,
//     RemovePlaylist, PruneEmpty) and [Sorter.Sort] need the exclusive *dblock.Guard
//   - Lookups (FindChild, LookupDirectory, FindSong, LookupSong) and Walk accept
//     any dblock.Holder, shared or exclusive
//
// A released or missing guard panics. So do broken structural preconditions such
// as adding a song whose Parent is another directory.
//
// # Lookups
//
// Not found is reported as nil, never as an error. Paths are resolved one
// segment at a time with a linear scan of each level; an empty segment never
// matches.
//
// # Walking
//
// [Directory.Walk] visits songs (optionally filtered), then playlists, then
// each child directory, descending pre-order when recursive. The first error
// returned by a callback stops the walk at every level and is returned to the
// caller.
package directory
