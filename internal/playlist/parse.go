package playlist

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

// Extensions lists the stored playlist formats the scanner records.
var Extensions = []string{".m3u", ".m3u8", ".pls"}

// IsPlaylist reports whether name has a playlist extension.
func IsPlaylist(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Parse reads the entries of a playlist file, picking the format from name.
func Parse(name string, r io.Reader) ([]*models.DetachedSong, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".m3u", ".m3u8":
		return ParseM3U(r)
	case ".pls":
		return ParsePLS(r)
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedFile, name)
	}
}

// ParseM3U reads plain and extended M3U. #EXTINF supplies duration and title of the next entry.
func ParseM3U(r io.Reader) ([]*models.DetachedSong, error) {
	var (
		songs []*models.DetachedSong
		info  models.Tag
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			info = parseExtInf(strings.TrimPrefix(line, "#EXTINF:"))
		case strings.HasPrefix(line, "#"):
			continue
		default:
			songs = append(songs, &models.DetachedSong{URI: line, Tag: info})
			info = models.Tag{}
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read m3u: %w", err)
	}
	return songs, nil
}

// parseExtInf handles "123,Artist - Title".
func parseExtInf(s string) models.Tag {
	var tag models.Tag
	seconds, title, _ := strings.Cut(s, ",")
	if n, err := strconv.Atoi(strings.TrimSpace(seconds)); err == nil && n > 0 {
		tag.Duration = n
	}
	tag.Add(models.TagTitle, title)
	return tag
}

// ParsePLS reads FileN, TitleN and LengthN keys in entry order.
func ParsePLS(r io.Reader) ([]*models.DetachedSong, error) {
	entries := map[int]*models.DetachedSong{}
	titles := map[int]string{}
	lengths := map[int]int{}
	last := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}

		field, n := splitIndexedKey(key)
		if n <= 0 {
			continue
		}
		last = max(last, n)

		switch field {
		case "file":
			entries[n] = &models.DetachedSong{URI: strings.TrimSpace(value)}
		case "title":
			titles[n] = value
		case "length":
			if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && secs > 0 {
				lengths[n] = secs
			}
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pls: %w", err)
	}

	var songs []*models.DetachedSong
	for i := 1; i <= last; i++ {
		s, ok := entries[i]
		if !ok || s.URI == "" {
			continue
		}
		s.Tag.Add(models.TagTitle, titles[i])
		s.Tag.Duration = lengths[i]
		songs = append(songs, s)
	}
	return songs, nil
}

func splitIndexedKey(key string) (string, int) {
	key = strings.ToLower(strings.TrimSpace(key))
	i := len(key)
	for i > 0 && key[i-1] >= '0' && key[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(key[i:])
	if err != nil {
		return key, 0
	}
	return key[:i], n
}
