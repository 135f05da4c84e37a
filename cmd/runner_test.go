package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/library"
	"github.com/desertthunder/songdb/internal/metrics"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/scanner"
	"github.com/desertthunder/songdb/internal/shared"
	tu "github.com/desertthunder/songdb/internal/testing"
	"github.com/desertthunder/songdb/internal/updater"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type testEnv struct {
	db       *sql.DB
	musicDir string
	config   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		db:       setupTestDB(t),
		musicDir: t.TempDir(),
		config:   filepath.Join(t.TempDir(), "missing.toml"),
	}
}

// seed stores a tagged song in the catalog.
func (e *testEnv) seed(t *testing.T, uri, artist, title string, seconds int) {
	t.Helper()
	var tag models.Tag
	tag.Add(models.TagArtist, artist)
	tag.Add(models.TagTitle, title)
	tag.Duration = seconds

	song := models.NewLibrarySong(uri, tag, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err := library.NewSongRepository(e.db).Create(song); err != nil {
		t.Fatalf("failed to seed %s: %v", uri, err)
	}
}

// run executes one subcommand on a fresh runner and returns its output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Library.MusicDir = e.musicDir
	config.Database.Path = shared.MemoryDatabase

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: log.New(io.Discard),
		Output: output,
		DB:     e.db,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:      "songdb",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands:  runner.register(),
	}

	argv := append([]string{"songdb", args[0], "--config", e.config}, args[1:]...)
	err := app.Run(context.Background(), argv)
	return output.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s failed: %v\noutput: %s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, out)
		}
	}
}

func libraryEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.seed(t, "Nina Simone/Pastel Blues/01.flac", "Nina Simone", "Be My Husband", 180)
	env.seed(t, "Nina Simone/Pastel Blues/02.flac", "Nina Simone", "Nobody", 200)
	env.seed(t, "Miles Davis/Kind of Blue/01.flac", "Miles Davis", "So What", 545)
	return env
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			db := setupTestDB(t)

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				DB:     db,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.db != db || runner.ownsDB {
				t.Error("expected injected db to be used but not owned")
			}
			if runner.root == nil || !runner.root.IsRoot() {
				t.Error("expected an empty root directory")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("Close does not close an injected db", func(t *testing.T) {
			db := setupTestDB(t)
			runner := NewRunner(RunnerOpts{DB: db})

			if err := runner.Close(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := db.Ping(); err != nil {
				t.Errorf("expected db to stay open, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if names[cmd.Name] {
				t.Errorf("command %s registered twice", cmd.Name)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"scan", "update", "ls", "find", "search", "lookup", "stats", "serve"} {
			if !names[want] {
				t.Errorf("expected %s to be registered", want)
			}
		}
	})
}

func TestCleanPath(t *testing.T) {
	tc := []struct{ in, want string }{
		{"", ""},
		{"/", ""},
		{"/Artist/Album/", "Artist/Album"},
		{"Artist", "Artist"},
	}
	for _, tt := range tc {
		if got := cleanPath(tt.in); got != tt.want {
			t.Errorf("cleanPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpdateCommand(t *testing.T) {
	t.Run("builds the tree from the catalog", func(t *testing.T) {
		env := libraryEnv(t)

		out := env.mustRun(t, "update")

		assertContains(t, out, "Directories: +4 -0", "Songs: +3 ~0 -0")
	})

	t.Run("reports as JSON", func(t *testing.T) {
		env := libraryEnv(t)

		out := env.mustRun(t, "update", "--json")

		var result struct {
			SongsAdded int `json:"songs_added"`
		}
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if result.SongsAdded != 3 {
			t.Errorf("expected 3 songs added, got %d", result.SongsAdded)
		}
	})

	t.Run("empty catalog is up to date", func(t *testing.T) {
		env := newTestEnv(t)
		assertContains(t, env.mustRun(t, "update"), "Tree is up to date")
	})
}

func TestLsCommand(t *testing.T) {
	env := libraryEnv(t)

	t.Run("lists the root", func(t *testing.T) {
		out := env.mustRun(t, "ls")
		assertContains(t, out, "directory: Miles Davis", "directory: Nina Simone")
		if strings.Contains(out, "01.flac") {
			t.Errorf("expected a non-recursive listing, got:\n%s", out)
		}
	})

	t.Run("recursive with tags", func(t *testing.T) {
		out := env.mustRun(t, "ls", "--recursive", "--tags", "/Nina Simone/")
		assertContains(t, out,
			"file: Nina Simone/Pastel Blues/01.flac",
			"title: Be My Husband",
			"duration: 180",
		)
	})

	t.Run("markdown", func(t *testing.T) {
		out := env.mustRun(t, "ls", "-r", "-f", "md", "Miles Davis")
		assertContains(t, out, "# /Miles Davis", "Miles Davis - So What")
	})

	t.Run("writes to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.csv")
		out := env.mustRun(t, "ls", "-r", "-f", "csv", "-o", path)

		assertContains(t, out, "Wrote")
		tu.AssertFileExists(t, path)
		assertContains(t, tu.MustReadFile(t, path), "Path,Title,Artist", "Miles Davis/Kind of Blue/01.flac,So What")
	})

	t.Run("rejects an unknown format", func(t *testing.T) {
		if _, err := env.run(t, "ls", "-f", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := env.run(t, "ls", "Nobody"); !errors.Is(err, shared.ErrDirNotFound) {
			t.Errorf("expected ErrDirNotFound, got %v", err)
		}
	})

	t.Run("counts walks", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.WalksTotal.WithLabelValues("ls", "error"))
		_, _ = env.run(t, "ls", "Nowhere")
		after := testutil.ToFloat64(metrics.WalksTotal.WithLabelValues("ls", "error"))
		if after != before+1 {
			t.Errorf("expected one failed walk to be counted, got %v -> %v", before, after)
		}
	})
}

func TestTreeCommand(t *testing.T) {
	env := libraryEnv(t)

	out := env.mustRun(t, "tree", "--depth", "2")
	assertContains(t, out, "Nina Simone", "Pastel Blues")
	if strings.Contains(out, "01.flac") {
		t.Errorf("expected depth 2 to hide songs, got:\n%s", out)
	}

	if _, err := env.run(t, "tree", "--depth=-1"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestQueryCommands(t *testing.T) {
	env := libraryEnv(t)

	t.Run("find matches exact values", func(t *testing.T) {
		out := env.mustRun(t, "find", "artist", "Nina Simone")
		assertContains(t, out, "Pastel Blues/01.flac", "Pastel Blues/02.flac")
		if strings.Contains(out, "Kind of Blue") {
			t.Errorf("unexpected match:\n%s", out)
		}

		if out := env.mustRun(t, "find", "artist", "nina"); out != "" {
			t.Errorf("find should not fold case, got:\n%s", out)
		}
	})

	t.Run("search folds case", func(t *testing.T) {
		out := env.mustRun(t, "search", "title", "WHAT")
		assertContains(t, out, "Miles Davis/Kind of Blue/01.flac")
	})

	t.Run("limit and base", func(t *testing.T) {
		out := env.mustRun(t, "search", "--limit", "1", "any", "")
		if n := strings.Count(out, "file: "); n != 1 {
			t.Errorf("expected one song, got %d:\n%s", n, out)
		}

		out = env.mustRun(t, "search", "--base", "Miles Davis", "any", "")
		if strings.Contains(out, "Nina Simone") {
			t.Errorf("expected results below the base only:\n%s", out)
		}
	})

	t.Run("JSON output", func(t *testing.T) {
		out := env.mustRun(t, "find", "--json", "title", "Nothing")
		if strings.TrimSpace(out) != "[]" {
			t.Errorf("expected an empty array, got %q", out)
		}
	})

	t.Run("odd arguments", func(t *testing.T) {
		if _, err := env.run(t, "find", "artist"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestLookupCommand(t *testing.T) {
	env := libraryEnv(t)

	t.Run("song", func(t *testing.T) {
		out := env.mustRun(t, "lookup", "Miles Davis/Kind of Blue/01.flac")
		assertContains(t, out, "file: Miles Davis/Kind of Blue/01.flac", "title: So What", "duration: 9:05")
	})

	t.Run("directory", func(t *testing.T) {
		out := env.mustRun(t, "lookup", "/Nina Simone")
		assertContains(t, out, "directory: Nina Simone", "directories: 1", "songs: 2")
	})

	t.Run("suggests near names", func(t *testing.T) {
		out, err := env.run(t, "lookup", "Nina Simone/Pastel Bluse")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		assertContains(t, out, "not found", "Nina Simone/Pastel Blues/")
	})

	t.Run("JSON", func(t *testing.T) {
		out := env.mustRun(t, "lookup", "--json", "Nina Simone/Pastel Blues/02.flac")

		var result LookupResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Song == nil || result.Song.Tag.Get(models.TagTitle) != "Nobody" {
			t.Errorf("unexpected result %+v", result)
		}
	})
}

func TestStatsCommand(t *testing.T) {
	env := libraryEnv(t)

	out := env.mustRun(t, "stats", "--metrics=false")
	assertContains(t, out, "Directories: 4", "Songs: 3", "Duration: 15:25")

	out = env.mustRun(t, "stats", "--json")
	var report StatsReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Tree.Songs != 3 || report.LastScan != nil {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.Metrics) == 0 {
		t.Error("expected metrics to be included")
	}
}

func TestScanCommands(t *testing.T) {
	t.Run("scan then prune", func(t *testing.T) {
		env := newTestEnv(t)
		tu.MustWriteFile(t, env.musicDir, "Artist/Album/01.mp3", "not really audio")
		gone := tu.MustWriteFile(t, env.musicDir, "Artist/Album/02.mp3", "not really audio")

		out := env.mustRun(t, "scan", "--quiet")
		assertContains(t, out, "Scan Complete", "Songs: +2 ~0 -0")

		if err := os.Remove(gone); err != nil {
			t.Fatal(err)
		}

		out = env.mustRun(t, "prune", "--dry-run")
		assertContains(t, out, "- Artist/Album/02.mp3", "1 entries would be removed")

		out = env.mustRun(t, "prune")
		assertContains(t, out, "Songs: +0 ~0 -1")

		assertContains(t, env.mustRun(t, "prune"), "Nothing to prune")
	})

	t.Run("scan requires a music directory", func(t *testing.T) {
		env := newTestEnv(t)
		env.musicDir = ""
		if _, err := env.run(t, "scan", "-q"); !errors.Is(err, shared.ErrMusicDirMissing) {
			t.Errorf("expected ErrMusicDirMissing, got %v", err)
		}
	})
}

func TestPlaylistCommand(t *testing.T) {
	env := newTestEnv(t)
	tu.MustWriteFile(t, env.musicDir, "Artist/Album/01.mp3", "x")
	tu.MustWriteFile(t, env.musicDir, "mixes/road.m3u", "../Artist/Album/01.mp3\n../Artist/gone.mp3\n")
	env.mustRun(t, "scan", "-q", "--no-update")

	t.Run("resolves entries relative to the playlist", func(t *testing.T) {
		out := env.mustRun(t, "playlist", "mixes/road.m3u")
		if out != "1. Artist/Album/01.mp3\n" {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("lists missing entries on request", func(t *testing.T) {
		out := env.mustRun(t, "playlist", "--missing", "mixes/road.m3u")
		assertContains(t, out, "2. Artist/gone.mp3 [missing]")
	})

	t.Run("rejects other files", func(t *testing.T) {
		if _, err := env.run(t, "playlist", "Artist/Album/01.mp3"); !errors.Is(err, shared.ErrUnsupportedFile) {
			t.Errorf("expected ErrUnsupportedFile, got %v", err)
		}
		if _, err := env.run(t, "playlist", "mixes/other.m3u"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	tu.MustWriteFile(t, env.musicDir, "Artist/01.mp3", "x")

	config := shared.DefaultConfig()
	config.Library.MusicDir = env.musicDir
	r := NewRunner(RunnerOpts{Config: config, Logger: log.New(io.Discard), Output: &bytes.Buffer{}, DB: env.db})

	sc, err := scanner.New(env.db, scanner.OptionsFromConfig(config.Scan), r.logger)
	if err != nil {
		t.Fatal(err)
	}
	r.scanner = sc
	r.updater = updater.New(r.lock, r.root, directory.NewSorter(language.Und, nil), env.db, nil, r.logger)

	reader := r.lock.RLock()
	done := make(chan error, 1)
	go func() { done <- r.refresh(context.Background(), env.musicDir) }()

	select {
	case err := <-done:
		reader.Release()
		t.Fatalf("refresh finished while a reader held the tree: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	reader.Release()

	if err := <-done; err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	_ = r.lock.WithRead(func(g *dblock.ReadGuard) error {
		if r.root.LookupSong(g, "Artist/01.mp3") == nil {
			t.Error("expected the rescanned song in the tree")
		}
		return nil
	})
}

func TestSetupDatabaseCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := "[database]\npath = '" + filepath.Join(dir, "songdb.db") + "'\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard), Output: output})
		defer runner.Close()

		app := &cli.Command{
			Name:      "songdb",
			Writer:    io.Discard,
			ErrWriter: io.Discard,
			Commands:  runner.register(),
		}
		argv := append([]string{"songdb", "setup", "database", "--config", configPath}, args...)
		err := app.Run(context.Background(), argv)
		return output.String(), err
	}

	out, err := run(t)
	if err != nil {
		t.Fatalf("setup database failed: %v", err)
	}
	assertContains(t, out, "(2 migrations applied)")

	t.Run("rollback undoes the newest migration", func(t *testing.T) {
		out, err := run(t, "--rollback", "1")
		if err != nil {
			t.Fatal(err)
		}
		assertContains(t, out, "Rolled back 0001_add_scan_runs")
	})

	t.Run("rollback stops once nothing is applied", func(t *testing.T) {
		out, err := run(t, "--rollback", "5")
		if err != nil {
			t.Fatal(err)
		}
		assertContains(t, out, "Rolled back 0000_create_library", "Nothing to roll back")
	})

	t.Run("negative rollback is rejected", func(t *testing.T) {
		if _, err := run(t, "--rollback=-1"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("setup reapplies everything", func(t *testing.T) {
		out, err := run(t)
		if err != nil {
			t.Fatal(err)
		}
		assertContains(t, out, "(2 migrations applied)")
	})
}

func TestSuggest(t *testing.T) {
	var lock dblock.Lock
	root := directory.NewRoot(&lock)
	_ = lock.With(func(g *dblock.Guard) error {
		album := root.CreateChild(g, "Nina Simone").CreateChild(g, "Pastel Blues")
		album.AddSong(g, directory.NewSong("Sinnerman.flac", album))
		root.CreateChild(g, "Miles Davis")
		return nil
	})

	g := lock.RLock()
	defer g.Release()

	tc := []struct {
		name  string
		uri   string
		limit int
		want  []string
	}{
		{name: "misspelled directory", uri: "Nina Simone/Pastel Bluse", limit: 3, want: []string{"Nina Simone/Pastel Blues/"}},
		{name: "misspelled song", uri: "Nina Simone/Pastel Blues/Sinerman.flac", limit: 3, want: []string{"Nina Simone/Pastel Blues/Sinnerman.flac"}},
		{name: "first missing segment", uri: "Miles Davs/Kind of Blue", limit: 3, want: []string{"Miles Davis/"}},
		{name: "no limit", uri: "Miles Davs", limit: 0, want: nil},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := suggest(g, root, tt.uri, tt.limit)
			if err != nil {
				t.Fatalf("suggest failed: %v", err)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && got[0] != tt.want[0]) {
				t.Errorf("suggest(%q) = %v, want %v", tt.uri, got, tt.want)
			}
		})
	}
}
