package ui

import (
	"fmt"
	"path"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songdb/internal/formatter"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

var _ list.Item = entryItem{}

// entryItem wraps [formatter.Entry] to implement [list.Item].
type entryItem struct {
	entry formatter.Entry
}

func (i entryItem) FilterValue() string { return path.Base(i.entry.Path) }

func (i entryItem) Title() string {
	name := path.Base(i.entry.Path)
	if i.entry.Kind == formatter.KindDirectory {
		name += "/"
	}
	return styles.Entry(i.entry.Kind, name)
}

func (i entryItem) Description() string {
	if i.entry.Kind != formatter.KindSong || i.entry.Tag == nil {
		return string(i.entry.Kind)
	}

	tag := i.entry.Tag
	desc := tag.Get(models.TagArtist)
	if desc == "" {
		desc = "Unknown"
	}
	if title := tag.Get(models.TagTitle); title != "" {
		desc = fmt.Sprintf("%s - %s", desc, title)
	}
	if album := tag.Get(models.TagAlbum); album != "" {
		desc = fmt.Sprintf("%s • %s", desc, album)
	}
	if tag.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(tag.Duration))
	}
	return desc
}

func toItems(entries []formatter.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}
