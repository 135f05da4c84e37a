package updater

import (
	"fmt"
	"time"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/playlist"
	"github.com/desertthunder/songdb/internal/shared"
)

// TreeLoader implements [playlist.SongLoader] by looking songs up in the tree.
// Each call takes the shared lock on its own.
type TreeLoader struct {
	lock *dblock.Lock
	root *directory.Directory
}

func NewTreeLoader(lock *dblock.Lock, root *directory.Directory) *TreeLoader {
	return &TreeLoader{lock: lock, root: root}
}

// LoadSong returns a detached copy of the song at uri.
func (l *TreeLoader) LoadSong(uri string) (*models.DetachedSong, error) {
	if playlist.IsAbsoluteOrHasScheme(uri) {
		return nil, fmt.Errorf("%w: %s is outside the music directory", shared.ErrSongNotFound, uri)
	}

	var out *models.DetachedSong
	err := l.lock.WithRead(func(g *dblock.ReadGuard) error {
		s := l.root.LookupSong(g, uri)
		if s == nil {
			return fmt.Errorf("%w: %s", shared.ErrSongNotFound, uri)
		}
		out = Detach(s)
		return nil
	})
	return out, err
}

// Detach copies s out of the tree. Call it while holding the lock.
func Detach(s *directory.Song) *models.DetachedSong {
	return &models.DetachedSong{
		URI:          s.Path(),
		Tag:          s.Tag.Clone(),
		LastModified: s.Mtime,
		StartTime:    time.Duration(s.StartMS) * time.Millisecond,
		EndTime:      time.Duration(s.EndMS) * time.Millisecond,
	}
}
