package updater

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdb/internal/clients"
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/library"
	"github.com/desertthunder/songdb/internal/metrics"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
	"github.com/desertthunder/songdb/internal/tasks"
)

// Notifier receives idle flags after a successful update. [clients.List] implements it.
type Notifier interface {
	IdleAdd(flags clients.Idle)
}

// Result counts the changes one update applied to the tree.
type Result struct {
	DirsCreated      int `json:"dirs_created"`
	DirsDeleted      int `json:"dirs_deleted"`
	SongsAdded       int `json:"songs_added"`
	SongsUpdated     int `json:"songs_updated"`
	SongsRemoved     int `json:"songs_removed"`
	PlaylistsAdded   int `json:"playlists_added"`
	PlaylistsRemoved int `json:"playlists_removed"`
}

// Changed reports whether anything was applied.
func (r *Result) Changed() bool {
	return *r != Result{}
}

// Updater applies the catalog to one tree.
type Updater struct {
	lock      *dblock.Lock
	root      *directory.Directory
	sorter    *directory.Sorter
	songs     *library.SongRepository
	playlists *library.PlaylistRepository
	notifier  Notifier
	logger    *log.Logger
}

// New creates an Updater. A nil notifier disables idle notifications.
func New(lock *dblock.Lock, root *directory.Directory, sorter *directory.Sorter, db *sql.DB, notifier Notifier, logger *log.Logger) *Updater {
	return &Updater{
		lock:      lock,
		root:      root,
		sorter:    sorter,
		songs:     library.NewSongRepository(db),
		playlists: library.NewPlaylistRepository(db),
		notifier:  notifier,
		logger:    shared.WithLogger(logger, "component", "updater"),
	}
}

// wantDir is the catalog content of one directory.
type wantDir struct {
	songs     map[string]*models.LibrarySong
	playlists map[string]*models.LibraryPlaylist
}

type catalog map[string]*wantDir

func (c catalog) dir(path string) *wantDir {
	if w, ok := c[path]; ok {
		return w
	}
	w := &wantDir{
		songs:     map[string]*models.LibrarySong{},
		playlists: map[string]*models.LibraryPlaylist{},
	}
	c[path] = w

	// Every ancestor must exist too.
	if path != "" {
		parent, _ := shared.SplitURI(path)
		c.dir(parent)
	}
	return w
}

func (u *Updater) loadCatalog() (catalog, int, int, error) {
	songs, err := u.songs.List(nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to load songs: %w", err)
	}
	lists, err := u.playlists.List(nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to load playlists: %w", err)
	}

	want := catalog{}
	want.dir("")
	for _, s := range songs {
		want.dir(s.Dir()).songs[s.Name()] = s
	}
	for _, p := range lists {
		want.dir(p.Dir()).playlists[p.Name()] = p
	}
	return want, len(songs), len(lists), nil
}

// Update reconciles the tree with the catalog, waiting for the exclusive lock.
func (u *Updater) Update(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*Result, error) {
	return u.update(ctx, progress, func() (*dblock.Guard, bool) { return u.lock.Lock(), true })
}

// TryUpdate is [Updater.Update] without the wait: while readers or another
// writer hold the tree it returns [shared.ErrTreeBusy] and changes nothing.
func (u *Updater) TryUpdate(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*Result, error) {
	return u.update(ctx, progress, u.lock.TryLock)
}

func (u *Updater) update(ctx context.Context, progress chan<- tasks.ProgressUpdate, acquire func() (*dblock.Guard, bool)) (*Result, error) {
	started := time.Now()

	want, nSongs, nLists, err := u.loadCatalog()
	if err != nil {
		return nil, err
	}
	tasks.Send(progress, tasks.LoadCatalogUpdate(nSongs, nLists))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, ok := acquire()
	if !ok {
		return nil, shared.ErrTreeBusy
	}

	result := &Result{}
	var stats Stats
	err = func() error {
		defer g.Release()

		u.removeStale(g, want, result)
		tasks.Send(progress, tasks.ApplyUpdate(tasks.ApplyDirectories, 1, 2, "Removed stale entries"))

		u.addMissing(g, want, result)
		tasks.Send(progress, tasks.ApplyUpdate(tasks.ApplySongs, 2, 2, "Added new entries"))

		before := countDirs(g, u.root)
		u.root.PruneEmpty(g)
		result.DirsDeleted += before - countDirs(g, u.root)
		tasks.Send(progress, tasks.ApplyUpdate(tasks.PruneTree, 1, 1, "Pruned empty directories"))

		u.sorter.Sort(g, u.root)
		tasks.Send(progress, tasks.ApplyUpdate(tasks.SortTree, 1, 1, "Sorted tree"))

		var countErr error
		stats, countErr = Count(g, u.root)
		return countErr
	}()
	if err != nil {
		return nil, err
	}

	stats.Publish()
	recordMetrics(result, time.Since(started))

	if u.notifier != nil && result.Changed() {
		flags := clients.IdleDatabase
		if result.PlaylistsAdded+result.PlaylistsRemoved > 0 {
			flags |= clients.IdleStoredPlaylist
		}
		u.notifier.IdleAdd(flags)
		tasks.Send(progress, tasks.NotifyUpdate(1))
	}

	u.logger.Info("tree updated",
		"dirs_created", result.DirsCreated,
		"dirs_deleted", result.DirsDeleted,
		"songs_added", result.SongsAdded,
		"songs_updated", result.SongsUpdated,
		"songs_removed", result.SongsRemoved,
		"playlists", stats.Playlists,
		"took", time.Since(started).Round(time.Millisecond),
	)

	return result, nil
}

// removeStale deletes directories, songs and playlists the catalog no longer
// has, and refreshes songs whose row changed.
func (u *Updater) removeStale(g *dblock.Guard, want catalog, result *Result) {
	var doomed []*directory.Directory

	stack := []*directory.Directory{u.root}
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		w := want[d.GetPath()]
		if w == nil {
			doomed = append(doomed, d)
			continue
		}

		for _, s := range slices.Clone(d.Songs()) {
			row, ok := w.songs[s.URI]
			switch {
			case !ok:
				d.RemoveSong(g, s)
				result.SongsRemoved++
			case !s.Mtime.Equal(row.Mtime) || !s.Tag.Equal(row.Tag):
				s.Tag = row.Tag.Clone()
				s.Mtime = row.Mtime
				result.SongsUpdated++
			}
		}

		for _, p := range slices.Clone(d.Playlists()) {
			row, ok := w.playlists[p.Name]
			if !ok {
				d.RemovePlaylist(g, p)
				result.PlaylistsRemoved++
				continue
			}
			p.Mtime = row.Mtime
		}

		stack = append(stack, d.Children()...)
	}

	for _, d := range doomed {
		sub, _ := Count(g, d)
		result.DirsDeleted += sub.Directories + 1
		result.SongsRemoved += sub.Songs
		result.PlaylistsRemoved += sub.Playlists
		d.Delete(g)
	}
}

// addMissing creates directories parents first, then adds songs and playlists.
func (u *Updater) addMissing(g *dblock.Guard, want catalog, result *Result) {
	paths := make([]string, 0, len(want))
	for p := range want {
		paths = append(paths, p)
	}
	slices.SortFunc(paths, func(a, b string) int {
		if c := strings.Count(a, "/") - strings.Count(b, "/"); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	for _, p := range paths {
		w := want[p]
		d := u.ensureDir(g, p, result)

		for name, row := range w.songs {
			if d.FindSong(g, name) != nil {
				continue
			}
			s := directory.NewSong(name, d)
			s.Tag = row.Tag.Clone()
			s.Mtime = row.Mtime
			d.AddSong(g, s)
			result.SongsAdded++
		}

		for name, row := range w.playlists {
			if slices.ContainsFunc(d.Playlists(), func(p *directory.PlaylistInfo) bool { return p.Name == name }) {
				continue
			}
			d.AddPlaylist(g, directory.NewPlaylistInfo(name, d, row.Mtime))
			result.PlaylistsAdded++
		}
	}
}

func (u *Updater) ensureDir(g *dblock.Guard, path string, result *Result) *directory.Directory {
	if d := u.root.LookupDirectory(g, path); d != nil {
		return d
	}

	d := u.root
	for name := range strings.SplitSeq(path, "/") {
		child := d.FindChild(g, name)
		if child == nil {
			child = d.CreateChild(g, name)
			result.DirsCreated++
		}
		d = child
	}
	return d
}

func countDirs(g dblock.Holder, d *directory.Directory) int {
	s, _ := Count(g, d)
	return s.Directories
}

func recordMetrics(r *Result, took time.Duration) {
	metrics.UpdateRunsTotal.Inc()
	metrics.UpdateDuration.Observe(took.Seconds())

	for kind, n := range map[string]int{
		"dir_created":      r.DirsCreated,
		"dir_deleted":      r.DirsDeleted,
		"song_added":       r.SongsAdded,
		"song_updated":     r.SongsUpdated,
		"song_removed":     r.SongsRemoved,
		"playlist_added":   r.PlaylistsAdded,
		"playlist_removed": r.PlaylistsRemoved,
	} {
		if n > 0 {
			metrics.UpdateChangesTotal.WithLabelValues(kind).Add(float64(n))
		}
	}
}
