// Package songfilter selects songs during tree walks.
//
// A [Filter] is a conjunction of items. Exact filters back the find command,
// case-folding substring filters back search.
package songfilter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
	"golang.org/x/text/cases"
)

// Special item names accepted by [Parse] next to the tag names.
const (
	NameAny  = "any"
	NameFile = "file"
	NameBase = "base"
)

// Kind says what an item compares against.
type Kind int

const (
	KindTag  Kind = iota // one tag type, with fallback
	KindAny              // every tag value
	KindFile             // the song's full path
	KindBase             // directory scope, always exact
)

// Item is a single condition.
type Item struct {
	Kind     Kind
	Tag      models.TagType // used by KindTag only
	Value    string
	FoldCase bool
}

// Filter matches a song when every item matches. An empty filter matches everything.
type Filter struct {
	Items []Item
}

var folder = cases.Fold()

// Parse builds a filter from name/value pairs such as ["artist", "Nina Simone", "album", "Pastel Blues"].
func Parse(args []string, foldCase bool) (*Filter, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: expected tag/value pairs", shared.ErrMissingArgument)
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: tag %q has no value", shared.ErrInvalidArgument, args[len(args)-1])
	}

	f := &Filter{}
	for i := 0; i < len(args); i += 2 {
		item, err := parseItem(args[i], args[i+1], foldCase)
		if err != nil {
			return nil, err
		}
		f.Items = append(f.Items, item)
	}
	return f, nil
}

func parseItem(name, value string, foldCase bool) (Item, error) {
	switch strings.ToLower(name) {
	case NameAny:
		return Item{Kind: KindAny, Value: value, FoldCase: foldCase}, nil
	case NameFile:
		return Item{Kind: KindFile, Value: value, FoldCase: foldCase}, nil
	case NameBase:
		return Item{Kind: KindBase, Value: strings.Trim(value, "/")}, nil
	}

	tt, ok := models.ParseTagType(name)
	if !ok {
		return Item{}, fmt.Errorf("%w: unknown tag %q", shared.ErrInvalidArgument, name)
	}
	return Item{Kind: KindTag, Tag: tt, Value: value, FoldCase: foldCase}, nil
}

// Match implements [directory.SongFilter].
func (f *Filter) Match(s *directory.Song) bool {
	for _, item := range f.Items {
		if !item.Match(s) {
			return false
		}
	}
	return true
}

// Match reports whether s satisfies the item alone.
func (i Item) Match(s *directory.Song) bool {
	switch i.Kind {
	case KindFile:
		return i.matchValue(s.Path())
	case KindBase:
		return i.Value == "" || strings.HasPrefix(s.Path(), i.Value+"/")
	case KindAny:
		return slices.ContainsFunc(s.Tag.Items, func(t models.TagItem) bool {
			return i.matchValue(t.Value)
		})
	default:
		return i.matchTag(s.Tag)
	}
}

// matchTag looks at the item's tag type, or its fallback when the song lacks it.
// An empty value matches songs that carry neither.
func (i Item) matchTag(tag models.Tag) bool {
	matched := false
	present := models.ApplyTagWithFallback(i.Tag, func(tt models.TagType) bool {
		values := tag.Values(tt)
		if len(values) == 0 {
			return false
		}
		matched = slices.ContainsFunc(values, i.matchValue)
		return true
	})

	if !present {
		return i.Value == ""
	}
	return matched
}

func (i Item) matchValue(v string) bool {
	if i.FoldCase {
		return strings.Contains(folder.String(v), folder.String(i.Value))
	}
	return v == i.Value
}

func (i Item) String() string {
	name := i.Tag.String()
	switch i.Kind {
	case KindAny:
		name = NameAny
	case KindFile:
		name = NameFile
	case KindBase:
		name = NameBase
	}
	return fmt.Sprintf("%s=%q", name, i.Value)
}

func (f *Filter) String() string {
	parts := make([]string, 0, len(f.Items))
	for _, i := range f.Items {
		parts = append(parts, i.String())
	}
	return strings.Join(parts, " ")
}
