package models

import (
	"slices"
	"strings"
)

// TagType names one kind of song metadata.
type TagType int

const (
	TagArtist TagType = iota
	TagAlbumArtist
	TagAlbum
	TagTitle
	TagTrack
	TagDisc
	TagGenre
	TagDate
	TagComposer
	numTagTypes
)

var tagNames = [numTagTypes]string{
	TagArtist:      "artist",
	TagAlbumArtist: "albumartist",
	TagAlbum:       "album",
	TagTitle:       "title",
	TagTrack:       "track",
	TagDisc:        "disc",
	TagGenre:       "genre",
	TagDate:        "date",
	TagComposer:    "composer",
}

func (t TagType) String() string {
	if t < 0 || t >= numTagTypes {
		return ""
	}
	return tagNames[t]
}

// TagTypes returns every known tag type in declaration order.
func TagTypes() []TagType {
	types := make([]TagType, 0, numTagTypes)
	for t := TagType(0); t < numTagTypes; t++ {
		types = append(types, t)
	}
	return types
}

// ParseTagType resolves a case-insensitive tag name.
func ParseTagType(name string) (TagType, bool) {
	name = strings.ToLower(name)
	for t, n := range tagNames {
		if n == name {
			return TagType(t), true
		}
	}
	return 0, false
}

// TagItem is one value of one tag type.
type TagItem struct {
	Type  TagType `json:"type"`
	Value string  `json:"value"`
}

// Tag is the metadata of a song. A tag type may carry several values.
type Tag struct {
	Items    []TagItem `json:"items,omitempty"`
	Duration int       `json:"duration,omitempty"` // seconds, 0 if unknown
}

// IsDefined reports whether the tag carries any metadata at all.
func (t Tag) IsDefined() bool {
	return len(t.Items) > 0 || t.Duration > 0
}

// Add appends a value; empty values are ignored.
func (t *Tag) Add(tt TagType, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	t.Items = append(t.Items, TagItem{Type: tt, Value: value})
}

// Has reports whether at least one value of tt exists.
func (t Tag) Has(tt TagType) bool {
	return slices.ContainsFunc(t.Items, func(i TagItem) bool { return i.Type == tt })
}

// Values returns all values of tt in insertion order.
func (t Tag) Values(tt TagType) []string {
	var values []string
	for _, i := range t.Items {
		if i.Type == tt {
			values = append(values, i.Value)
		}
	}
	return values
}

// Get returns the first value of tt, or "".
func (t Tag) Get(tt TagType) string {
	for _, i := range t.Items {
		if i.Type == tt {
			return i.Value
		}
	}
	return ""
}

// Complement copies every tag type from other that t lacks entirely.
func (t *Tag) Complement(other Tag) {
	present := make(map[TagType]bool, len(t.Items))
	for _, i := range t.Items {
		present[i.Type] = true
	}

	for _, i := range other.Items {
		if !present[i.Type] {
			t.Items = append(t.Items, i)
		}
	}

	if t.Duration == 0 {
		t.Duration = other.Duration
	}
}

// Clone returns a deep copy.
func (t Tag) Clone() Tag {
	return Tag{Items: slices.Clone(t.Items), Duration: t.Duration}
}

// Equal reports whether both tags carry the same items in the same order.
func (t Tag) Equal(other Tag) bool {
	return t.Duration == other.Duration && slices.Equal(t.Items, other.Items)
}

// ApplyTagFallback calls f with the tag type that substitutes for tt, if any.
// AlbumArtist falls back to Artist.
func ApplyTagFallback(tt TagType, f func(TagType) bool) bool {
	if tt == TagAlbumArtist {
		return f(TagArtist)
	}
	return false
}

// ApplyTagWithFallback calls f with tt and, if that reports false, with its fallback.
func ApplyTagWithFallback(tt TagType, f func(TagType) bool) bool {
	return f(tt) || ApplyTagFallback(tt, f)
}
