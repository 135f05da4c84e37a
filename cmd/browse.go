package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive tree browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	path := cleanPath(cmd.StringArg("path"))
	if err := r.withWalk("browse", func(g *dblock.ReadGuard) error {
		_, err := r.lookupDir(g, path)
		return err
	}); err != nil {
		return err
	}

	// Log lines would corrupt the alternate screen.
	r.logger.SetOutput(io.Discard)

	p := tea.NewProgram(ui.NewModel(r.lock, r.root, path), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
