package scanner

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/desertthunder/songdb/internal/models"
	"github.com/dhowden/tag"
)

// AudioExtensions lists the file types catalogued as songs.
var AudioExtensions = []string{".mp3", ".flac", ".ogg", ".oga", ".opus", ".m4a", ".mp4", ".aac", ".wav", ".dsf", ".wma"}

// IsAudio reports whether name has an audio extension.
func IsAudio(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range AudioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// TagReader extracts metadata from the file at path.
type TagReader func(path string) (models.Tag, error)

// ReadTags reads embedded metadata with github.com/dhowden/tag.
func ReadTags(path string) (models.Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Tag{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return models.Tag{}, fmt.Errorf("failed to read tags of %s: %w", path, err)
	}

	var t models.Tag
	t.Add(models.TagArtist, m.Artist())
	t.Add(models.TagAlbumArtist, m.AlbumArtist())
	t.Add(models.TagAlbum, m.Album())
	t.Add(models.TagTitle, m.Title())
	t.Add(models.TagTrack, numberOf(m.Track()))
	t.Add(models.TagDisc, numberOf(m.Disc()))
	t.Add(models.TagGenre, m.Genre())
	t.Add(models.TagComposer, m.Composer())
	if year := m.Year(); year > 0 {
		t.Add(models.TagDate, strconv.Itoa(year))
	}

	return t, nil
}

// numberOf formats track or disc values as "n" or "n/total".
func numberOf(n, total int) string {
	switch {
	case n <= 0:
		return ""
	case total > 0:
		return fmt.Sprintf("%d/%d", n, total)
	default:
		return strconv.Itoa(n)
	}
}
