package directory

import (
	"strings"
	"testing"

	"github.com/desertthunder/songdb/internal/dblock"
)

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	fn()
}

// lockedRoot returns a fresh tree and an exclusive guard released at test cleanup.
func lockedRoot(t *testing.T) (*Directory, *dblock.Guard) {
	t.Helper()
	var l dblock.Lock
	g := l.Lock()
	t.Cleanup(g.Release)
	return NewRoot(&l), g
}

// mkdirs creates every segment of each path under root.
func mkdirs(t *testing.T, g *dblock.Guard, root *Directory, paths ...string) {
	t.Helper()
	for _, p := range paths {
		d := root
		for _, name := range strings.Split(p, "/") {
			if child := d.FindChild(g, name); child != nil {
				d = child
				continue
			}
			d = d.CreateChild(g, name)
		}
	}
}

func addSong(g *dblock.Guard, d *Directory, uri string) *Song {
	s := NewSong(uri, d)
	d.AddSong(g, s)
	return s
}

func TestNewGeneric(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		root := NewRoot(&dblock.Lock{})
		if !root.IsRoot() {
			t.Error("root should report IsRoot")
		}
		if root.GetPath() != "" {
			t.Errorf("root path should be empty, got %q", root.GetPath())
		}
		if !root.IsEmpty() {
			t.Error("new root should be empty")
		}
		expectPanic(t, func() { root.GetName() })
	})

	t.Run("root needs a lock", func(t *testing.T) {
		expectPanic(t, func() { NewRoot(nil) })
	})

	t.Run("path and parent must agree", func(t *testing.T) {
		root := NewRoot(&dblock.Lock{})
		expectPanic(t, func() { NewGeneric("", root) })
		expectPanic(t, func() { NewGeneric("a", nil) })
	})

	t.Run("non-root node", func(t *testing.T) {
		root := NewRoot(&dblock.Lock{})
		d := NewGeneric("a", root)
		if d.IsRoot() {
			t.Error("node with parent is not root")
		}
		if d.Parent() != root {
			t.Error("parent not recorded")
		}
		if len(d.Children()) != 0 || len(d.Songs()) != 0 || len(d.Playlists()) != 0 {
			t.Error("new node should have empty collections")
		}
	})
}

func TestGetName(t *testing.T) {
	root, g := lockedRoot(t)
	mkdirs(t, g, root, "Artist/Album/CD1")

	cd := root.LookupDirectory(g, "Artist/Album/CD1")
	if cd == nil {
		t.Fatal("expected CD1 to exist")
	}

	tc := []struct {
		name string
		dir  *Directory
		path string
		want string
	}{
		{name: "below root", dir: root.FindChild(g, "Artist"), path: "Artist", want: "Artist"},
		{name: "nested", dir: cd.Parent(), path: "Artist/Album", want: "Album"},
		{name: "deep", dir: cd, path: "Artist/Album/CD1", want: "CD1"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if tt.dir.GetPath() != tt.path {
				t.Errorf("GetPath() = %q, want %q", tt.dir.GetPath(), tt.path)
			}
			if got := tt.dir.GetName(); got != tt.want {
				t.Errorf("GetName() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("inconsistent path panics", func(t *testing.T) {
		bad := NewGeneric("x/y", root)
		expectPanic(t, func() { bad.GetName() })
	})
}

func TestSongPaths(t *testing.T) {
	root, g := lockedRoot(t)
	mkdirs(t, g, root, "a/b")
	b := root.LookupDirectory(g, "a/b")

	top := addSong(g, root, "top.mp3")
	nested := addSong(g, b, "song.flac")
	pl := NewPlaylistInfo("mix.m3u", b, nested.Mtime)
	b.AddPlaylist(g, pl)

	if top.Path() != "top.mp3" {
		t.Errorf("expected top.mp3, got %s", top.Path())
	}
	if nested.Path() != "a/b/song.flac" {
		t.Errorf("expected a/b/song.flac, got %s", nested.Path())
	}
	if pl.Path() != "a/b/mix.m3u" {
		t.Errorf("expected a/b/mix.m3u, got %s", pl.Path())
	}

	expectPanic(t, func() { NewSong("", b) })
	expectPanic(t, func() { NewSong("x/y.mp3", b) })
	expectPanic(t, func() { NewPlaylistInfo("", b, nested.Mtime) })
}

func TestIsRootURI(t *testing.T) {
	for uri, want := range map[string]bool{"": true, "/": true, "a": false, "//": false} {
		if got := IsRootURI(uri); got != want {
			t.Errorf("IsRootURI(%q) = %v, want %v", uri, got, want)
		}
	}
}
