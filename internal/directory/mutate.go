package directory

import (
	"slices"

	"github.com/desertthunder/songdb/internal/dblock"
)

// CreateChild appends a new child called name and returns it.
func (d *Directory) CreateChild(g *dblock.Guard, name string) *Directory {
	d.assertHolds(g)
	d.assertLive()
	if name == "" {
		panic("directory: child name must not be empty")
	}

	path := name
	if !d.IsRoot() {
		path = d.path + "/" + name
	}

	child := NewGeneric(path, d)
	d.children = append(d.children, child)
	return child
}

// Delete detaches d from its parent and releases the whole subtree.
// Neither d nor any of its descendants may be used afterwards.
func (d *Directory) Delete(g *dblock.Guard) {
	d.assertHolds(g)
	d.assertLive()
	if d.IsRoot() {
		panic("directory: cannot delete the root")
	}

	i := slices.Index(d.parent.children, d)
	if i < 0 {
		panic("directory: node missing from its parent " + d.path)
	}
	d.parent.children = slices.Delete(d.parent.children, i, i+1)

	d.release()
}

// release frees the subtree rooted at d in post-order without recursion.
func (d *Directory) release() {
	stack := []*Directory{d}
	var preorder []*Directory
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		preorder = append(preorder, n)
		stack = append(stack, n.children...)
	}

	for i := len(preorder) - 1; i >= 0; i-- {
		n := preorder[i]
		for _, p := range n.playlists {
			p.Parent = nil
		}
		for _, s := range n.songs {
			s.Parent = nil
		}
		n.playlists = nil
		n.songs = nil
		n.children = nil
		n.parent = nil
		n.deleted = true
	}
}

// AddSong appends song, whose Parent must already be d.
func (d *Directory) AddSong(g *dblock.Guard, song *Song) {
	d.assertHolds(g)
	d.assertLive()
	if song == nil || song.Parent != d {
		panic("directory: song parent does not match " + d.path)
	}

	d.songs = append(d.songs, song)
}

// RemoveSong removes song from d. The caller clears song.Parent afterwards if needed.
func (d *Directory) RemoveSong(g *dblock.Guard, song *Song) {
	d.assertHolds(g)
	d.assertLive()
	if song == nil || song.Parent != d {
		panic("directory: song parent does not match " + d.path)
	}

	i := slices.Index(d.songs, song)
	if i < 0 {
		panic("directory: song not owned by " + d.path)
	}
	d.songs = slices.Delete(d.songs, i, i+1)
}

// AddPlaylist appends a playlist entry, whose Parent must already be d.
func (d *Directory) AddPlaylist(g *dblock.Guard, p *PlaylistInfo) {
	d.assertHolds(g)
	d.assertLive()
	if p == nil || p.Parent != d {
		panic("directory: playlist parent does not match " + d.path)
	}

	d.playlists = append(d.playlists, p)
}

// RemovePlaylist removes a playlist entry from d.
func (d *Directory) RemovePlaylist(g *dblock.Guard, p *PlaylistInfo) {
	d.assertHolds(g)
	d.assertLive()
	if p == nil || p.Parent != d {
		panic("directory: playlist parent does not match " + d.path)
	}

	i := slices.Index(d.playlists, p)
	if i < 0 {
		panic("directory: playlist not owned by " + d.path)
	}
	d.playlists = slices.Delete(d.playlists, i, i+1)
}

// PruneEmpty deletes every descendant that is empty once its own subtree has been pruned.
func (d *Directory) PruneEmpty(g *dblock.Guard) {
	d.assertHolds(g)
	d.assertLive()

	for _, child := range slices.Clone(d.children) {
		child.PruneEmpty(g)

		if child.IsEmpty() {
			child.Delete(g)
		}
	}
}
