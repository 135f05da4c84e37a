package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/playlist"
	"github.com/desertthunder/songdb/internal/shared"
	"github.com/desertthunder/songdb/internal/updater"
	"github.com/urfave/cli/v3"
)

// PlaylistEntry is one line of a playlist file after resolution against the tree.
type PlaylistEntry struct {
	models.DetachedSong
	Found bool `json:"found"`
}

// Playlist reads a stored playlist and resolves each entry against the tree.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	uri := cleanPath(cmd.StringArg("uri"))
	if uri == "" {
		return fmt.Errorf("%w: uri", shared.ErrMissingArgument)
	}
	if !playlist.IsPlaylist(uri) {
		return fmt.Errorf("%w: %s is not a playlist", shared.ErrUnsupportedFile, uri)
	}

	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	base, name := shared.SplitURI(uri)
	err := r.withWalk("playlist", func(g *dblock.ReadGuard) error {
		d := r.root.LookupDirectory(g, base)
		if d == nil {
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, uri)
		}
		for _, p := range d.Playlists() {
			if p.Name == name {
				return nil
			}
		}
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, uri)
	})
	if err != nil {
		return err
	}

	songs, err := r.readPlaylist(uri)
	if err != nil {
		return err
	}

	loader := updater.NewTreeLoader(r.lock, r.root)
	entries := make([]PlaylistEntry, 0, len(songs))
	for _, s := range songs {
		found := playlist.TranslateSong(s, base, loader)
		if !found && !cmd.Bool("missing") {
			r.logger.Debug("playlist entry not in tree", "playlist", uri, "entry", s.URI)
			continue
		}
		entries = append(entries, PlaylistEntry{DetachedSong: *s, Found: found})
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	for i, e := range entries {
		line := e.URI
		if title := e.Tag.Get(models.TagTitle); title != "" {
			artist := e.Tag.Get(models.TagArtist)
			if artist == "" {
				artist = "Unknown"
			}
			line = fmt.Sprintf("%s - %s (%s)", artist, title, e.URI)
		}
		if !e.Found {
			line += " [missing]"
		}
		r.writePlain("%d. %s\n", i+1, line)
	}
	return nil
}

func (r *Runner) readPlaylist(uri string) ([]*models.DetachedSong, error) {
	dir, err := r.musicDir()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(uri)))
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	return playlist.Parse(uri, f)
}
