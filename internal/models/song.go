package models

import "time"

// DetachedSong is a song that does not belong to the tree, e.g. an entry read from a playlist file.
type DetachedSong struct {
	URI          string        `json:"uri"`
	RealURI      string        `json:"real_uri,omitempty"` // where the data actually lives, if different from URI
	Tag          Tag           `json:"tag"`
	LastModified time.Time     `json:"last_modified"`
	StartTime    time.Duration `json:"start_time,omitempty"`
	EndTime      time.Duration `json:"end_time,omitempty"`
	AudioFormat  string        `json:"audio_format,omitempty"` // e.g. "44100:16:2", empty if unknown
}

// HasRealURI reports whether the song is backed by a different location than its URI.
func (s *DetachedSong) HasRealURI() bool {
	return s.RealURI != ""
}

// GetRealURI returns RealURI, falling back to URI.
func (s *DetachedSong) GetRealURI() string {
	if s.HasRealURI() {
		return s.RealURI
	}
	return s.URI
}
