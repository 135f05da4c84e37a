package directory

import (
	"github.com/desertthunder/songdb/internal/dblock"
)

// SongFilter selects songs during a walk.
type SongFilter interface {
	Match(song *Song) bool
}

// Visitor callbacks. Returning a non-nil error stops the walk.
type (
	VisitDirectory func(d *Directory) error
	VisitSong      func(s *Song) error
	VisitPlaylist  func(p *PlaylistInfo, parent *Directory) error
)

// WalkOptions configures [Directory.Walk]. Nil callbacks skip their category; a nil Filter matches every song.
type WalkOptions struct {
	Recursive      bool
	Filter         SongFilter
	VisitDirectory VisitDirectory
	VisitSong      VisitSong
	VisitPlaylist  VisitPlaylist
}

// Walk visits the songs, then the playlists, then the children of d.
//
// Each child is passed to VisitDirectory and, when Recursive is set, walked
// before its next sibling. The first callback error aborts the whole walk and
// is returned unchanged.
func (d *Directory) Walk(g dblock.Holder, opts WalkOptions) error {
	d.assertHolds(g)
	return d.walk(opts)
}

func (d *Directory) walk(opts WalkOptions) error {
	if opts.VisitSong != nil {
		for _, song := range d.songs {
			if opts.Filter != nil && !opts.Filter.Match(song) {
				continue
			}
			if err := opts.VisitSong(song); err != nil {
				return err
			}
		}
	}

	if opts.VisitPlaylist != nil {
		for _, p := range d.playlists {
			if err := opts.VisitPlaylist(p, d); err != nil {
				return err
			}
		}
	}

	for _, child := range d.children {
		if opts.VisitDirectory != nil {
			if err := opts.VisitDirectory(child); err != nil {
				return err
			}
		}

		if opts.Recursive {
			if err := child.walk(opts); err != nil {
				return err
			}
		}
	}

	return nil
}
