package scanner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdb/internal/library"
	"github.com/desertthunder/songdb/internal/metrics"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/playlist"
	"github.com/desertthunder/songdb/internal/shared"
	"github.com/desertthunder/songdb/internal/tasks"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options configures a [Scanner].
type Options struct {
	Exclude        []string      // doublestar patterns relative to the music directory
	Workers        int           // concurrent tag readers (default: 4)
	FilesPerSecond float64       // tag read throttle, 0 for unlimited
	Debounce       time.Duration // quiet period before Watch fires (default: 500ms)
}

// OptionsFromConfig maps the [scan] config section.
func OptionsFromConfig(c shared.ScanConfig) Options {
	return Options{
		Exclude:        c.Exclude,
		Workers:        c.Workers,
		FilesPerSecond: c.FilesPerSecond,
		Debounce:       time.Duration(c.DebounceMS) * time.Millisecond,
	}
}

// ScanResult summarizes one pass.
type ScanResult struct {
	Added     int
	Updated   int
	Unchanged int
	Removed   int
	Playlists int // live playlists after the scan
	Untagged  int // audio files whose tags could not be read
}

// Scanner writes what it finds below a music directory into the catalog.
type Scanner struct {
	songs     *library.SongRepository
	playlists *library.PlaylistRepository
	runs      *library.ScanRunRepository
	opts      Options
	logger    *log.Logger

	// ReadTags is swapped out by tests.
	ReadTags TagReader
}

// New creates a Scanner over the catalog in db.
func New(db *sql.DB, opts Options, logger *log.Logger) (*Scanner, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad exclude pattern %q", shared.ErrInvalidConfig, p)
		}
	}

	return &Scanner{
		songs:     library.NewSongRepository(db),
		playlists: library.NewPlaylistRepository(db),
		runs:      library.NewScanRunRepository(db),
		opts:      opts,
		logger:    shared.WithLogger(logger, "component", "scanner"),
		ReadTags:  ReadTags,
	}, nil
}

type foundFile struct {
	path  string // on disk
	uri   string // relative, slash-separated
	mtime time.Time
}

// Scan synchronizes the catalog with the files below root.
func (s *Scanner) Scan(ctx context.Context, root string, progress chan<- tasks.ProgressUpdate) (*ScanResult, error) {
	started := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat music directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", shared.ErrInvalidConfig, root)
	}

	audio, lists, err := s.walk(ctx, root)
	if err != nil {
		return nil, err
	}
	tasks.Send(progress, tasks.ScanWalkUpdate(root, len(audio)+len(lists)))

	tags, err := s.readAll(ctx, audio, progress)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{}
	seen := make(map[string]bool, len(audio))
	for i, f := range audio {
		seen[f.uri] = true

		if tags[i].err != nil {
			result.Untagged++
			metrics.ScanFilesTotal.WithLabelValues("untagged").Inc()
			s.logger.Debug("no usable tags", "uri", f.uri, "error", tags[i].err)
		}

		res, err := s.songs.Upsert(models.NewLibrarySong(f.uri, tags[i].tag, f.mtime))
		if err != nil {
			metrics.ScanFilesTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to store %s: %w", f.uri, err)
		}
		metrics.ScanFilesTotal.WithLabelValues(res.String()).Inc()

		switch res {
		case library.Inserted:
			result.Added++
		case library.Updated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	seenLists := make(map[string]bool, len(lists))
	for _, f := range lists {
		seenLists[f.uri] = true
		if _, err := s.playlists.Upsert(models.NewLibraryPlaylist(f.uri, f.mtime)); err != nil {
			return nil, fmt.Errorf("failed to store playlist %s: %w", f.uri, err)
		}
	}
	result.Playlists = len(lists)

	removed, err := s.prune(seen, seenLists)
	if err != nil {
		return nil, err
	}
	result.Removed = removed
	tasks.Send(progress, tasks.ScanPruneUpdate(removed))

	finished := time.Now()
	run := &models.ScanRun{
		Root:       root,
		Added:      result.Added,
		Updated:    result.Updated,
		Removed:    result.Removed,
		Playlists:  result.Playlists,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err := s.runs.Record(run); err != nil {
		return nil, err
	}
	metrics.ScanLastRunTimestamp.Set(float64(finished.Unix()))

	s.logger.Info("scan complete",
		"root", root,
		"added", result.Added,
		"updated", result.Updated,
		"removed", result.Removed,
		"playlists", result.Playlists,
		"took", finished.Sub(started).Round(time.Millisecond),
	)

	return result, nil
}

// Excluded reports whether the slash-separated relative path matches an exclude pattern.
func (s *Scanner) Excluded(rel string) bool {
	for _, p := range s.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) walk(ctx context.Context, root string) (audio, lists []foundFile, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if s.Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		isAudio, isList := IsAudio(rel), playlist.IsPlaylist(rel)
		if !isAudio && !isList {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		f := foundFile{path: path, uri: rel, mtime: info.ModTime()}
		if isAudio {
			audio = append(audio, f)
		} else {
			lists = append(lists, f)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return audio, lists, nil
}

type tagResult struct {
	tag models.Tag
	err error
}

// readAll reads tags on a bounded pool. Read failures are per file; only
// cancellation fails the whole batch.
func (s *Scanner) readAll(ctx context.Context, files []foundFile, progress chan<- tasks.ProgressUpdate) ([]tagResult, error) {
	results := make([]tagResult, len(files))

	limit := rate.Inf
	if s.opts.FilesPerSecond > 0 {
		limit = rate.Limit(s.opts.FilesPerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, f := range files {
		if err := limiter.Wait(gctx); err != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tag, err := s.ReadTags(f.path)
			results[i] = tagResult{tag: tag, err: err}
			tasks.Send(progress, tasks.ScanReadUpdate(i+1, len(files), f.uri))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}
	return results, nil
}

func (s *Scanner) prune(songs, lists map[string]bool) (int, error) {
	removed := 0

	stored, err := s.songs.List(nil)
	if err != nil {
		return 0, err
	}
	for _, song := range stored {
		if songs[song.URI] {
			continue
		}
		if err := s.songs.Delete(song.ID()); err != nil {
			return removed, err
		}
		removed++
		metrics.ScanFilesTotal.WithLabelValues("removed").Inc()
	}

	storedLists, err := s.playlists.List(nil)
	if err != nil {
		return removed, err
	}
	for _, p := range storedLists {
		if lists[p.URI] {
			continue
		}
		if err := s.playlists.Delete(p.ID()); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// PruneMissing removes catalog rows whose file no longer exists below root
// without reading any tags, and returns their URIs. dryRun only reports them.
func (s *Scanner) PruneMissing(root string, dryRun bool) ([]string, error) {
	exists := func(uri string) (bool, error) {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(uri)))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, fs.ErrNotExist):
			return false, nil
		default:
			return false, err
		}
	}

	var removed []string

	songs, err := s.songs.List(nil)
	if err != nil {
		return nil, err
	}
	for _, song := range songs {
		ok, err := exists(song.URI)
		if err != nil {
			return removed, fmt.Errorf("failed to check %s: %w", song.URI, err)
		}
		if ok {
			continue
		}
		if !dryRun {
			if err := s.songs.Delete(song.ID()); err != nil {
				return removed, err
			}
			metrics.ScanFilesTotal.WithLabelValues("removed").Inc()
		}
		removed = append(removed, song.URI)
	}

	lists, err := s.playlists.List(nil)
	if err != nil {
		return removed, err
	}
	for _, p := range lists {
		ok, err := exists(p.URI)
		if err != nil {
			return removed, fmt.Errorf("failed to check %s: %w", p.URI, err)
		}
		if ok {
			continue
		}
		if !dryRun {
			if err := s.playlists.Delete(p.ID()); err != nil {
				return removed, err
			}
		}
		removed = append(removed, p.URI)
	}

	s.logger.Info("pruned missing files", "root", root, "removed", len(removed), "dry_run", dryRun)
	return removed, nil
}
