package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/formatter"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

// sampleTree builds:
//
//	root: intro.mp3
//	  Artist: [best.m3u]
//	    Artist/Album: 01.flac
//	  Other
func sampleTree(t *testing.T) (*dblock.Lock, *directory.Directory) {
	t.Helper()
	lock := &dblock.Lock{}
	root := directory.NewRoot(lock)

	err := lock.With(func(g *dblock.Guard) error {
		root.AddSong(g, directory.NewSong("intro.mp3", root))
		artist := root.CreateChild(g, "Artist")
		artist.AddPlaylist(g, directory.NewPlaylistInfo("best.m3u", artist, time.Time{}))
		album := artist.CreateChild(g, "Album")
		s := directory.NewSong("01.flac", album)
		s.Tag.Add(models.TagTitle, "Song One")
		s.Tag.Add(models.TagArtist, "Artist One")
		s.Tag.Duration = 200
		album.AddSong(g, s)
		root.CreateChild(g, "Other")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return lock, root
}

// step feeds msg to m and runs every returned command once, feeding
// listing messages back in.
func step(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if out, ok := cmd().(Msg); ok {
		m.Update(out)
	}
}

func start(t *testing.T, m *Model) {
	t.Helper()
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m.Update(m.Init()())
}

func selectPath(t *testing.T, m *Model, path string) {
	t.Helper()
	for i, item := range m.list.Items() {
		if item.(entryItem).entry.Path == path {
			m.list.Select(i)
			return
		}
	}
	t.Fatalf("%s not listed in /%s", path, m.Path())
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestModel(t *testing.T) {
	t.Run("lists the starting directory", func(t *testing.T) {
		lock, root := sampleTree(t)
		m := NewModel(lock, root, "")
		start(t, m)

		if n := len(m.list.Items()); n != 3 {
			t.Fatalf("expected 3 items, got %d", n)
		}
		if !strings.Contains(m.View(), "intro.mp3") {
			t.Errorf("view missing song, got: %s", m.View())
		}
	})

	t.Run("descends and goes back", func(t *testing.T) {
		lock, root := sampleTree(t)
		m := NewModel(lock, root, "")
		start(t, m)

		selectPath(t, m, "Artist")
		step(t, m, enter)
		if m.Path() != "Artist" {
			t.Fatalf("expected to enter Artist, at %q", m.Path())
		}

		selectPath(t, m, "Artist/Album")
		step(t, m, enter)
		if m.Path() != "Artist/Album" {
			t.Fatalf("expected to enter Artist/Album, at %q", m.Path())
		}

		step(t, m, esc)
		if m.Path() != "Artist" {
			t.Errorf("expected to go back to Artist, at %q", m.Path())
		}
		step(t, m, esc)
		step(t, m, esc)
		if m.Path() != "" {
			t.Errorf("expected to stop at root, at %q", m.Path())
		}
	})

	t.Run("shows song tags", func(t *testing.T) {
		lock, root := sampleTree(t)
		m := NewModel(lock, root, "Artist/Album")
		start(t, m)

		selectPath(t, m, "Artist/Album/01.flac")
		step(t, m, enter)
		if m.view != SongView {
			t.Fatal("expected the song view")
		}
		view := m.View()
		for _, want := range []string{"Artist/Album/01.flac", "title:", "Song One", "3:20"} {
			if !strings.Contains(view, want) {
				t.Errorf("song view missing %q, got: %s", want, view)
			}
		}

		step(t, m, esc)
		if m.view != DirectoryView || m.song != nil {
			t.Error("esc should return to the listing")
		}
	})

	t.Run("reload picks up changes", func(t *testing.T) {
		lock, root := sampleTree(t)
		m := NewModel(lock, root, "Other")
		start(t, m)
		if len(m.list.Items()) != 0 {
			t.Fatal("expected an empty listing")
		}

		_ = lock.With(func(g *dblock.Guard) error {
			other := root.FindChild(g, "Other")
			other.AddSong(g, directory.NewSong("new.mp3", other))
			return nil
		})

		step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
		if len(m.list.Items()) != 1 {
			t.Errorf("expected the new song after reload, got %d items", len(m.list.Items()))
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		lock, root := sampleTree(t)
		m := NewModel(lock, root, "nope")
		start(t, m)

		if !errors.Is(m.err, shared.ErrDirNotFound) {
			t.Fatalf("expected ErrDirNotFound, got %v", m.err)
		}
		if !strings.Contains(m.View(), "Error") {
			t.Error("view should show the error")
		}
	})

	t.Run("quit", func(t *testing.T) {
		lock, root := sampleTree(t)
		m := NewModel(lock, root, "")
		start(t, m)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("expected a quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestListing(t *testing.T) {
	lock, root := sampleTree(t)

	entries, err := Listing(lock, root, "Artist")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Kind != formatter.KindPlaylist || entries[1].Kind != formatter.KindDirectory {
		t.Errorf("unexpected entries %v", entries)
	}
}

func TestEntryItem(t *testing.T) {
	tag := models.Tag{Duration: 65}
	tag.Add(models.TagArtist, "A")
	tag.Add(models.TagTitle, "T")
	tag.Add(models.TagAlbum, "B")

	song := entryItem{entry: formatter.Entry{Kind: formatter.KindSong, Path: "x/y.mp3", Tag: &tag}}
	if song.FilterValue() != "y.mp3" {
		t.Errorf("unexpected filter value %q", song.FilterValue())
	}
	if got := song.Description(); got != "A - T • B • 1:05" {
		t.Errorf("unexpected description %q", got)
	}

	dir := entryItem{entry: formatter.Entry{Kind: formatter.KindDirectory, Path: "x/sub"}}
	if !strings.Contains(dir.Title(), "sub/") || dir.Description() != "directory" {
		t.Errorf("unexpected directory item %q / %q", dir.Title(), dir.Description())
	}
}

func TestRenderTree(t *testing.T) {
	lock, root := sampleTree(t)

	_ = lock.WithRead(func(g *dblock.ReadGuard) error {
		out, err := RenderTree(g, root, 0, DefaultPalette())
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"/", "intro.mp3", "Artist/", "best.m3u", "Album/", "01.flac", "Other/"} {
			if !strings.Contains(out, want) {
				t.Errorf("tree missing %q, got:\n%s", want, out)
			}
		}

		shallow, _ := RenderTree(g, root, 1, DefaultPalette())
		if !strings.Contains(shallow, "Artist/") || strings.Contains(shallow, "best.m3u") {
			t.Errorf("depth 1 should not expand directories, got:\n%s", shallow)
		}

		sub, _ := RenderTree(g, root.LookupDirectory(g, "Artist"), 0, DefaultPalette())
		if strings.Contains(sub, "intro.mp3") || !strings.Contains(sub, "01.flac") {
			t.Errorf("unexpected subtree:\n%s", sub)
		}
		return nil
	})
}
