package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdb/internal/formatter"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgListingLoaded MsgKind = iota
)

type listing struct {
	path    string
	entries []formatter.Entry
	err     error
}

// listingMsg is the constructor for [MsgListingLoaded]
func listingMsg(path string, entries []formatter.Entry, err error) Msg {
	return Msg{kind: MsgListingLoaded, data: listing{path: path, entries: entries, err: err}}
}
