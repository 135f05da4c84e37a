// Package playlist turns entries of stored playlist files into songs that can be
// looked up in the tree.
package playlist

import (
	"strings"

	"github.com/desertthunder/songdb/internal/models"
)

// SongLoader resolves a normalized URI to a song with metadata, or fails.
type SongLoader interface {
	LoadSong(uri string) (*models.DetachedSong, error)
}

// TranslateSong normalizes song's URI relative to baseURI, the directory of the
// playlist file, and merges in the metadata of the song loader finds.
//
// It reports false when the loader cannot resolve the URI; song may already
// carry the normalized URI in that case.
func TranslateSong(song *models.DetachedSong, baseURI string, loader SongLoader) bool {
	if baseURI == "." {
		baseURI = ""
	}

	uri := song.URI
	if !IsAbsoluteOrHasScheme(uri) {
		uri = strings.ReplaceAll(uri, `\`, "/")
		if baseURI != "" {
			uri = strings.TrimSuffix(baseURI, "/") + "/" + uri
		}
	}

	song.URI = SquashDotSegments(uri)
	return checkLoadSong(song, loader)
}

func checkLoadSong(song *models.DetachedSong, loader SongLoader) bool {
	loaded, err := loader.LoadSong(song.URI)
	if err != nil || loaded == nil {
		return false
	}

	song.URI = loaded.URI
	if !song.HasRealURI() && loaded.HasRealURI() {
		song.RealURI = loaded.RealURI
	}

	mergeMetadata(song, loaded)
	return true
}

// mergeMetadata fills what the playlist entry left open from base.
func mergeMetadata(add *models.DetachedSong, base *models.DetachedSong) {
	if base.Tag.IsDefined() {
		add.Tag.Complement(base.Tag)
	}

	add.LastModified = base.LastModified

	if add.StartTime == 0 {
		add.StartTime = base.StartTime
	}
	if add.EndTime == 0 {
		add.EndTime = base.EndTime
	}
	if add.AudioFormat == "" {
		add.AudioFormat = base.AudioFormat
	}
}

// IsAbsoluteOrHasScheme reports whether uri is an absolute filesystem path or a URL like http://host/x.
func IsAbsoluteOrHasScheme(uri string) bool {
	if strings.HasPrefix(uri, "/") {
		return true
	}
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return false
	}
	for _, r := range scheme {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}

// SquashDotSegments removes "." segments and folds "name/.." pairs.
// Leading ".." segments that cannot be folded are kept.
func SquashDotSegments(uri string) string {
	segments := strings.Split(uri, "/")
	out := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch {
		case seg == ".":
			continue
		case seg == ".." && len(out) > 0 && out[len(out)-1] != ".." && out[len(out)-1] != "":
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	return strings.Join(out, "/")
}
