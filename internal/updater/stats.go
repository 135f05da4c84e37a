package updater

import (
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/metrics"
)

// Stats counts the entries below a directory, the directory itself excluded.
type Stats struct {
	Directories int `json:"directories"`
	Songs       int `json:"songs"`
	Playlists   int `json:"playlists"`
	Duration    int `json:"duration"` // seconds, sum of known song durations
}

// Count walks d recursively under g.
func Count(g dblock.Holder, d *directory.Directory) (Stats, error) {
	var s Stats
	err := d.Walk(g, directory.WalkOptions{
		Recursive: true,
		VisitDirectory: func(*directory.Directory) error {
			s.Directories++
			return nil
		},
		VisitSong: func(song *directory.Song) error {
			s.Songs++
			s.Duration += song.Tag.Duration
			return nil
		},
		VisitPlaylist: func(*directory.PlaylistInfo, *directory.Directory) error {
			s.Playlists++
			return nil
		},
	})
	return s, err
}

// Publish sets the tree gauges.
func (s Stats) Publish() {
	metrics.TreeDirectories.Set(float64(s.Directories))
	metrics.TreeSongs.Set(float64(s.Songs))
	metrics.TreePlaylists.Set(float64(s.Playlists))
}
