package ui

import (
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/formatter"
)

// RenderTree draws d and its descendants. depth limits how many directory
// levels are expanded; 0 expands everything.
func RenderTree(g dblock.Holder, d *directory.Directory, depth int, p *Palette) (string, error) {
	label := "/"
	if !d.IsRoot() {
		label = d.GetName() + "/"
	}

	t, err := buildTree(g, d, depth, p)
	if err != nil {
		return "", err
	}
	return t.Root(p.Title(label)).String(), nil
}

func buildTree(g dblock.Holder, d *directory.Directory, depth int, p *Palette) (*tree.Tree, error) {
	t := tree.New().Enumerator(tree.RoundedEnumerator).EnumeratorStyle(p.help)

	var children []*directory.Directory
	err := d.Walk(g, directory.WalkOptions{
		VisitSong: func(s *directory.Song) error {
			t.Child(p.Entry(formatter.KindSong, s.URI))
			return nil
		},
		VisitPlaylist: func(pl *directory.PlaylistInfo, _ *directory.Directory) error {
			t.Child(p.Entry(formatter.KindPlaylist, pl.Name))
			return nil
		},
		VisitDirectory: func(child *directory.Directory) error {
			children = append(children, child)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		label := p.Entry(formatter.KindDirectory, child.GetName()+"/")
		if depth == 1 {
			t.Child(label)
			continue
		}

		sub, err := buildTree(g, child, max(depth-1, 0), p)
		if err != nil {
			return nil, err
		}
		t.Child(sub.Root(label))
	}

	return t, nil
}
