package directory

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SongCompare orders two songs of the same directory, returning <0, 0 or >0.
type SongCompare func(a, b *Song) int

// Sorter orders a subtree: children by locale collation of their paths, songs by a [SongCompare].
// The collator is not safe for concurrent use; the exclusive guard that Sort demands serializes it.
type Sorter struct {
	collator *collate.Collator
	songs    SongCompare
}

// NewSorter builds a Sorter for the given locale. A nil compare falls back to [CompareSongs].
func NewSorter(locale language.Tag, compare SongCompare) *Sorter {
	if compare == nil {
		compare = CompareSongs
	}
	return &Sorter{
		collator: collate.New(locale),
		songs:    compare,
	}
}

// ParseLocale parses a BCP 47 tag, falling back to [language.Und] for empty input.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.Und, nil
	}
	return language.Parse(s)
}

// Sort orders d and every descendant. The sort is stable, so repeated runs are no-ops.
func (s *Sorter) Sort(g *dblock.Guard, d *Directory) {
	d.assertHolds(g)
	d.assertLive()

	stack := []*Directory{d}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		slices.SortStableFunc(n.children, func(a, b *Directory) int {
			return s.collator.CompareString(a.path, b.path)
		})
		slices.SortStableFunc(n.songs, s.songs)

		stack = append(stack, n.children...)
	}
}

// Sort orders d and its descendants with the default locale and song order.
func (d *Directory) Sort(g *dblock.Guard) {
	NewSorter(language.Und, nil).Sort(g, d)
}

// CompareSongs orders songs by disc number, then track number, then URI.
func CompareSongs(a, b *Song) int {
	if c := cmp.Compare(tagNumber(a.Tag, models.TagDisc), tagNumber(b.Tag, models.TagDisc)); c != 0 {
		return c
	}
	if c := cmp.Compare(tagNumber(a.Tag, models.TagTrack), tagNumber(b.Tag, models.TagTrack)); c != 0 {
		return c
	}
	return strings.Compare(a.URI, b.URI)
}

// tagNumber reads the leading number of values like "3" or "3/12"; missing values sort first.
func tagNumber(tag models.Tag, tt models.TagType) int {
	v := tag.Get(tt)
	if i := strings.IndexByte(v, '/'); i >= 0 {
		v = v[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}
