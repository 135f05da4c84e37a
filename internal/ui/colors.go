package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/songdb/internal/formatter"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	dir      lipgloss.Style
	song     lipgloss.Style
	playlist lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

// NewPalette builds a palette from the foreground colors of titles (t),
// directories (d), errors (e), playlists (p) and help text (h).
func NewPalette(t, d, e, p, h string) *Palette {
	return &Palette{
		title:    NewBold(t),
		dir:      NewBold(d),
		song:     lipgloss.NewStyle(),
		playlist: NewStyle(p),
		err:      NewBold(e),
		help:     NewEm(h),
	}
}

// DefaultPalette returns the palette used by the CLI.
func DefaultPalette() *Palette {
	return styles
}

// Entry colors s according to the entry kind.
func (p *Palette) Entry(kind formatter.Kind, s string) string {
	switch kind {
	case formatter.KindDirectory:
		return p.dir.Render(s)
	case formatter.KindPlaylist:
		return p.playlist.Render(s)
	default:
		return p.song.Render(s)
	}
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) Error(s string) string { return p.err.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
