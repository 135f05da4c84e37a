package directory

import (
	"strings"

	"github.com/desertthunder/songdb/internal/dblock"
)

// FindChild returns the first direct child called name, or nil.
func (d *Directory) FindChild(g dblock.Holder, name string) *Directory {
	d.assertHolds(g)

	for _, child := range d.children {
		if child.GetName() == name {
			return child
		}
	}

	return nil
}

// LookupDirectory resolves a slash separated path relative to d.
// The root sentinel ("" or "/") resolves to d itself. Empty segments never match.
func (d *Directory) LookupDirectory(g dblock.Holder, uri string) *Directory {
	d.assertHolds(g)

	if IsRootURI(uri) {
		return d
	}

	current := d
	rest := uri
	for {
		name, tail, more := strings.Cut(rest, "/")
		if name == "" {
			return nil
		}

		current = current.FindChild(g, name)
		if current == nil || !more {
			return current
		}

		rest = tail
	}
}

// FindSong returns the first song of d whose URI is name, or nil.
func (d *Directory) FindSong(g dblock.Holder, name string) *Song {
	d.assertHolds(g)

	for _, song := range d.songs {
		if song.Parent != d {
			panic("directory: song parent does not match " + d.path)
		}

		if song.URI == name {
			return song
		}
	}

	return nil
}

// LookupSong resolves "dir/sub/name" relative to d.
func (d *Directory) LookupSong(g dblock.Holder, uri string) *Song {
	d.assertHolds(g)

	dir := d
	base := uri
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		dir = d.LookupDirectory(g, uri[:i])
		if dir == nil {
			return nil
		}
		base = uri[i+1:]
	}

	return dir.FindSong(g, base)
}
