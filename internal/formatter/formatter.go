// package formatter renders walk results as plain text, JSON, CSV or Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

// Kind is the entry category; its value doubles as the text line prefix.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindSong      Kind = "file"
	KindPlaylist  Kind = "playlist"
)

// Entry is a copy of one visited node, safe to use after the lock is released.
type Entry struct {
	Kind         Kind        `json:"type"`
	Path         string      `json:"path"`
	Tag          *models.Tag `json:"tag,omitempty"`
	LastModified time.Time   `json:"last_modified,omitzero"`
}

// Options configures [Collect].
type Options struct {
	Recursive bool
	Filter    directory.SongFilter
	// Limit stops collecting after that many songs; 0 means no limit.
	Limit int
}

// errLimit ends a walk early once Options.Limit songs were collected.
var errLimit = errors.New("limit reached")

// Collect walks dir under g and copies what it visits.
func Collect(g dblock.Holder, dir *directory.Directory, opts Options) ([]Entry, error) {
	var entries []Entry
	songs := 0

	err := dir.Walk(g, directory.WalkOptions{
		Recursive: opts.Recursive,
		Filter:    opts.Filter,
		VisitDirectory: func(d *directory.Directory) error {
			entries = append(entries, Entry{Kind: KindDirectory, Path: d.GetPath()})
			return nil
		},
		VisitSong: func(s *directory.Song) error {
			tag := s.Tag.Clone()
			entries = append(entries, Entry{Kind: KindSong, Path: s.Path(), Tag: &tag, LastModified: s.Mtime})
			songs++
			if opts.Limit > 0 && songs >= opts.Limit {
				return errLimit
			}
			return nil
		},
		VisitPlaylist: func(p *directory.PlaylistInfo, _ *directory.Directory) error {
			entries = append(entries, Entry{Kind: KindPlaylist, Path: p.Path(), LastModified: p.Mtime})
			return nil
		},
	})
	if err != nil && !errors.Is(err, errLimit) {
		return nil, err
	}
	return entries, nil
}

// Songs returns the song entries only.
func Songs(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind == KindSong {
			out = append(out, e)
		}
	}
	return out
}

// ExportToText writes one "kind: path" line per entry. With tags set, each
// song line is followed by "name: value" lines for its tag items.
func ExportToText(entries []Entry, tags bool) ([]byte, error) {
	var buf bytes.Buffer

	for _, e := range entries {
		fmt.Fprintf(&buf, "%s: %s\n", e.Kind, e.Path)
		if !tags || e.Tag == nil {
			continue
		}
		for _, item := range e.Tag.Items {
			fmt.Fprintf(&buf, "%s: %s\n", item.Type, item.Value)
		}
		if e.Tag.Duration > 0 {
			fmt.Fprintf(&buf, "duration: %d\n", e.Tag.Duration)
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes entries as an indented array.
func ExportToJSON(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entries: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts the song entries to CSV with columns: Path, Title, Artist, Album, Track, Disc, Duration
func ExportToCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Path", "Title", "Artist", "Album", "Track", "Disc", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range Songs(entries) {
		record := []string{
			e.Path,
			e.Tag.Get(models.TagTitle),
			e.Tag.Get(models.TagArtist),
			e.Tag.Get(models.TagAlbum),
			e.Tag.Get(models.TagTrack),
			e.Tag.Get(models.TagDisc),
			strconv.Itoa(e.Tag.Duration),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a titled listing: subdirectories and playlists as
// bullets, then a numbered song list.
func ExportToMarkdown(title string, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "/"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)

	var dirs, lists []Entry
	for _, e := range entries {
		switch e.Kind {
		case KindDirectory:
			dirs = append(dirs, e)
		case KindPlaylist:
			lists = append(lists, e)
		}
	}
	songs := Songs(entries)

	total := 0
	for _, s := range songs {
		total += s.Tag.Duration
	}
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(songs))
	fmt.Fprintf(&buf, "**Duration**: %s\n\n", shared.FormatDuration(total))

	if len(dirs) > 0 {
		buf.WriteString("## Directories\n\n")
		for _, d := range dirs {
			fmt.Fprintf(&buf, "- %s\n", d.Path)
		}
		buf.WriteString("\n")
	}

	if len(lists) > 0 {
		buf.WriteString("## Playlists\n\n")
		for _, p := range lists {
			fmt.Fprintf(&buf, "- %s\n", p.Path)
		}
		buf.WriteString("\n")
	}

	if len(songs) > 0 {
		buf.WriteString("## Songs\n\n")
		for i, s := range songs {
			name := s.Tag.Get(models.TagTitle)
			if name == "" {
				name = s.Path
			}
			artist := s.Tag.Get(models.TagArtist)
			if artist == "" {
				artist = "Unknown"
			}
			albumPart := ""
			if album := s.Tag.Get(models.TagAlbum); album != "" {
				albumPart = fmt.Sprintf(" (%s)", album)
			}
			fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, artist, name, albumPart, shared.FormatDuration(s.Tag.Duration))
		}
	}

	return buf.Bytes(), nil
}

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// Export renders entries in the given format. title is used by Markdown only.
func Export(format Format, title string, entries []Entry, tags bool) ([]byte, error) {
	switch format {
	case FormatText, "":
		return ExportToText(entries, tags)
	case FormatJSON:
		return ExportToJSON(entries)
	case FormatCSV:
		return ExportToCSV(entries)
	case FormatMarkdown:
		return ExportToMarkdown(title, entries)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders entries and writes them to path.
func WriteExport(path string, format Format, title string, entries []Entry) error {
	data, err := Export(format, title, entries, true)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
