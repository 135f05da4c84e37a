package songfilter

import (
	"errors"
	"testing"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

func song(t *testing.T, dir, uri string, items ...models.TagItem) *directory.Song {
	t.Helper()
	var l dblock.Lock
	g := l.Lock()
	defer g.Release()

	root := directory.NewRoot(&l)
	d := root
	if dir != "" {
		d = root.CreateChild(g, dir)
	}
	s := directory.NewSong(uri, d)
	for _, it := range items {
		s.Tag.Add(it.Type, it.Value)
	}
	d.AddSong(g, s)
	return s
}

func TestParse(t *testing.T) {
	tc := []struct {
		name    string
		args    []string
		wantErr error
		items   int
	}{
		{name: "single pair", args: []string{"artist", "Nina"}, items: 1},
		{name: "special names", args: []string{"Any", "x", "file", "a.mp3", "base", "/dir/"}, items: 3},
		{name: "no args", args: nil, wantErr: shared.ErrMissingArgument},
		{name: "odd count", args: []string{"artist"}, wantErr: shared.ErrInvalidArgument},
		{name: "unknown tag", args: []string{"mood", "happy"}, wantErr: shared.ErrInvalidArgument},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.args, false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(f.Items) != tt.items {
				t.Errorf("expected %d items, got %d", tt.items, len(f.Items))
			}
		})
	}

	t.Run("base is trimmed and exact", func(t *testing.T) {
		f, err := Parse([]string{"base", "/Jazz/"}, true)
		if err != nil {
			t.Fatal(err)
		}
		if f.Items[0].Value != "Jazz" || f.Items[0].FoldCase {
			t.Errorf("unexpected base item %+v", f.Items[0])
		}
	})
}

func TestMatch(t *testing.T) {
	nina := song(t, "Jazz", "feeling.flac",
		models.TagItem{Type: models.TagArtist, Value: "Nina Simone"},
		models.TagItem{Type: models.TagTitle, Value: "Feeling Good"},
	)
	compilation := song(t, "", "mix.mp3",
		models.TagItem{Type: models.TagArtist, Value: "Various"},
		models.TagItem{Type: models.TagAlbumArtist, Value: "DJ Mix"},
	)
	untagged := song(t, "Jazz", "unknown.mp3")

	tc := []struct {
		name     string
		args     []string
		foldCase bool
		song     *directory.Song
		want     bool
	}{
		{name: "exact tag", args: []string{"artist", "Nina Simone"}, song: nina, want: true},
		{name: "exact is case sensitive", args: []string{"artist", "nina simone"}, song: nina, want: false},
		{name: "search folds case", args: []string{"artist", "nina"}, foldCase: true, song: nina, want: true},
		{name: "search substring", args: []string{"title", "GOOD"}, foldCase: true, song: nina, want: true},
		{name: "albumartist falls back to artist", args: []string{"albumartist", "Nina Simone"}, song: nina, want: true},
		{name: "albumartist present skips fallback", args: []string{"albumartist", "Various"}, song: compilation, want: false},
		{name: "albumartist present", args: []string{"albumartist", "DJ Mix"}, song: compilation, want: true},
		{name: "any", args: []string{"any", "feeling"}, foldCase: true, song: nina, want: true},
		{name: "file exact", args: []string{"file", "Jazz/feeling.flac"}, song: nina, want: true},
		{name: "file search", args: []string{"file", "jazz/"}, foldCase: true, song: nina, want: true},
		{name: "base scopes", args: []string{"base", "Jazz"}, song: nina, want: true},
		{name: "base excludes root songs", args: []string{"base", "Jazz"}, song: compilation, want: false},
		{name: "empty value matches missing tag", args: []string{"album", ""}, song: untagged, want: true},
		{name: "empty value misses present tag", args: []string{"artist", ""}, song: nina, want: false},
		{name: "conjunction", args: []string{"artist", "Nina Simone", "title", "Other"}, song: nina, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.args, tt.foldCase)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := f.Match(tt.song); got != tt.want {
				t.Errorf("Match(%v) = %v, want %v", f.Items, got, tt.want)
			}
		})
	}

	t.Run("empty filter matches", func(t *testing.T) {
		if !(&Filter{}).Match(untagged) {
			t.Error("empty filter should match every song")
		}
	})
}

func TestWalkWithFilter(t *testing.T) {
	var l dblock.Lock
	g := l.Lock()
	defer g.Release()

	root := directory.NewRoot(&l)
	rock := root.CreateChild(g, "rock")
	for _, uri := range []string{"a.mp3", "b.mp3"} {
		s := directory.NewSong(uri, rock)
		s.Tag.Add(models.TagGenre, "Rock")
		rock.AddSong(g, s)
	}
	root.AddSong(g, directory.NewSong("c.mp3", root))

	f, err := Parse([]string{"genre", "rock"}, true)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	err = root.Walk(g, directory.WalkOptions{
		Recursive: true,
		Filter:    f,
		VisitSong: func(s *directory.Song) error {
			got = append(got, s.Path())
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if len(got) != 2 || got[0] != "rock/a.mp3" || got[1] != "rock/b.mp3" {
		t.Errorf("unexpected matches %v", got)
	}
}
