package directory

import (
	"strings"
	"time"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/models"
)

// Directory is one node of the song tree.
//
// A node owns its children, songs and playlists. The parent pointer is a
// lookup aid only; ownership runs strictly from parent to children.
type Directory struct {
	path      string
	parent    *Directory
	children  []*Directory
	songs     []*Song
	playlists []*PlaylistInfo
	deleted   bool

	// lock is shared by every node of one tree.
	lock *dblock.Lock
}

// Song is a song entry owned by a directory.
type Song struct {
	URI    string     // leaf name inside Parent
	Parent *Directory // set by the caller before AddSong
	Tag    models.Tag
	Mtime  time.Time

	// StartMS and EndMS select a range of a larger file; zero means the whole file.
	StartMS uint32
	EndMS   uint32
}

// PlaylistInfo is a stored playlist file found inside a directory.
type PlaylistInfo struct {
	Name   string
	Mtime  time.Time
	Parent *Directory
}

// NewGeneric allocates a node. The path must be empty exactly when parent is nil.
// A node with a parent joins the parent's tree and its lock.
func NewGeneric(path string, parent *Directory) *Directory {
	if (path == "") != (parent == nil) {
		panic("directory: only the root may have an empty path and no parent")
	}

	d := &Directory{
		path:      path,
		parent:    parent,
		children:  []*Directory{},
		songs:     []*Song{},
		playlists: []*PlaylistInfo{},
	}
	if parent != nil {
		d.lock = parent.lock
	}
	return d
}

// NewRoot allocates an empty tree guarded by lock. Every operation on the
// tree must present a guard taken from that lock.
func NewRoot(lock *dblock.Lock) *Directory {
	if lock == nil {
		panic("directory: root needs a lock")
	}

	root := NewGeneric("", nil)
	root.lock = lock
	return root
}

// NewSong allocates a song that will belong to parent once added with [Directory.AddSong].
func NewSong(uri string, parent *Directory) *Song {
	if uri == "" || strings.Contains(uri, "/") {
		panic("directory: song URI must be a non-empty leaf name")
	}
	return &Song{URI: uri, Parent: parent}
}

// NewPlaylistInfo allocates a playlist entry for parent.
func NewPlaylistInfo(name string, parent *Directory, mtime time.Time) *PlaylistInfo {
	if name == "" {
		panic("directory: playlist name must not be empty")
	}
	return &PlaylistInfo{Name: name, Mtime: mtime, Parent: parent}
}

// IsRootURI reports whether uri addresses the root directory.
func IsRootURI(uri string) bool {
	return uri == "" || uri == "/"
}

// IsRoot reports whether d is the root of its tree.
func (d *Directory) IsRoot() bool {
	return d.parent == nil
}

// GetPath returns the full path, "" for the root.
func (d *Directory) GetPath() string {
	return d.path
}

// Parent returns the parent node, nil for the root.
func (d *Directory) Parent() *Directory {
	return d.parent
}

// GetName returns the last path segment. Calling it on the root is a programming error.
func (d *Directory) GetName() string {
	if d.IsRoot() {
		panic("directory: root has no name")
	}

	slash := strings.LastIndexByte(d.path, '/')
	if (slash < 0) != d.parent.IsRoot() {
		panic("directory: path does not match parent " + d.path)
	}

	return d.path[slash+1:]
}

// IsEmpty reports whether d has no children, songs or playlists.
func (d *Directory) IsEmpty() bool {
	return len(d.children) == 0 && len(d.songs) == 0 && len(d.playlists) == 0
}

// IsDeleted reports whether d has been released by [Directory.Delete].
func (d *Directory) IsDeleted() bool {
	return d.deleted
}

// Children returns the child nodes in their current order.
// The slice belongs to d and is only valid while the lock is held.
func (d *Directory) Children() []*Directory {
	return d.children
}

// Songs returns the songs in their current order. Same rules as [Directory.Children].
func (d *Directory) Songs() []*Song {
	return d.songs
}

// Playlists returns the playlist entries in their current order.
func (d *Directory) Playlists() []*PlaylistInfo {
	return d.playlists
}

// Path returns the song's full URI within the tree.
func (s *Song) Path() string {
	if s.Parent == nil || s.Parent.IsRoot() {
		return s.URI
	}
	return s.Parent.path + "/" + s.URI
}

// Path returns the playlist's full URI within the tree.
func (p *PlaylistInfo) Path() string {
	if p.Parent == nil || p.Parent.IsRoot() {
		return p.Name
	}
	return p.Parent.path + "/" + p.Name
}

// assertHolds panics unless g is a live guard on the lock of d's tree.
func (d *Directory) assertHolds(g dblock.Holder) {
	dblock.AssertHolds(g, d.lock)
}

func (d *Directory) assertLive() {
	if d.deleted {
		panic("directory: use of deleted node " + d.path)
	}
}
