package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/formatter"
	"github.com/desertthunder/songdb/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DirectoryView ViewState = iota
	SongView
)

// Model represents the TUI application state.
type Model struct {
	lock   *dblock.Lock
	root   *directory.Directory
	view   ViewState
	path   string
	width  int
	height int
	list   list.Model
	song   *formatter.Entry
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a browser that starts at path.
func NewModel(lock *dblock.Lock, root *directory.Directory, path string) *Model {
	return &Model{
		lock: lock,
		root: root,
		view: DirectoryView,
		path: path,
		list: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help: help.New(),
		keys: newKeyMap(),
	}
}

// Listing collects the direct entries of the directory at path under the shared lock.
func Listing(lock *dblock.Lock, root *directory.Directory, path string) ([]formatter.Entry, error) {
	var entries []formatter.Entry
	err := lock.WithRead(func(g *dblock.ReadGuard) error {
		d := root.LookupDirectory(g, path)
		if d == nil {
			return fmt.Errorf("%w: %s", shared.ErrDirNotFound, path)
		}

		var err error
		entries, err = formatter.Collect(g, d, formatter.Options{})
		return err
	})
	return entries, err
}

// Init loads the starting directory.
func (m *Model) Init() tea.Cmd {
	return m.load(m.path)
}

// Path returns the directory currently shown.
func (m *Model) Path() string {
	return m.path
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch m.view {
		case DirectoryView:
			return m.handleDirectoryKeys(msg)
		case SongView:
			return m.handleSongKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgListingLoaded:
			l := msg.data.(listing)
			if l.err != nil {
				m.err = l.err
				return m, nil
			}
			m.err = nil
			m.path = l.path
			m.view = DirectoryView
			m.list.Title = "/" + l.path
			m.list.ResetFilter()
			cmd := m.list.SetItems(toItems(l.entries))
			m.list.ResetSelected()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.Error(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	switch m.view {
	case SongView:
		return m.renderSong()
	default:
		return fmt.Sprintf("%s\n\n%s", m.list.View(), m.help.ShortHelpView(m.keys.ShortHelp()))
	}
}

func (m *Model) handleDirectoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.load(m.path)
	case key.Matches(msg, m.keys.back):
		if m.err != nil {
			m.err = nil
			return m, nil
		}
		if directory.IsRootURI(m.path) {
			return m, nil
		}
		parent, _ := shared.SplitURI(m.path)
		return m, m.load(parent)
	case key.Matches(msg, m.keys.enter):
		selected, ok := m.list.SelectedItem().(entryItem)
		if !ok {
			return m, nil
		}
		switch selected.entry.Kind {
		case formatter.KindDirectory:
			return m, m.load(selected.entry.Path)
		case formatter.KindSong:
			m.song = &selected.entry
			m.view = SongView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleSongKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.song = nil
		m.view = DirectoryView
	}
	return m, nil
}

func (m *Model) load(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := Listing(m.lock, m.root, path)
		return listingMsg(path, entries, err)
	}
}

func (m *Model) renderSong() string {
	var b strings.Builder
	b.WriteString(styles.Title(m.song.Path))
	b.WriteString("\n\n")

	if m.song.Tag != nil {
		for _, item := range m.song.Tag.Items {
			fmt.Fprintf(&b, "%-12s %s\n", item.Type.String()+":", item.Value)
		}
		if m.song.Tag.Duration > 0 {
			fmt.Fprintf(&b, "%-12s %s\n", "duration:", shared.FormatDuration(m.song.Tag.Duration))
		}
	}
	if !m.song.LastModified.IsZero() {
		fmt.Fprintf(&b, "%-12s %s\n", "modified:", m.song.LastModified.Format("2006-01-02 15:04:05"))
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return b.String()
}
