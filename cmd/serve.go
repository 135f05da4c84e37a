package main

import (
	"context"
	"errors"
	"net"

	"github.com/desertthunder/songdb/internal/server"
	"github.com/desertthunder/songdb/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Serve exposes the tree over HTTP. With --watch the music directory is
// rescanned on change while the server runs.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(ctx, cmd); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr
	}

	mux := server.NewMux(server.NewTreeHandler(r.lock, r.root), server.Logging(r.logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx, addr, mux, r.logger, func(a net.Addr) {
			r.writePlain("Serving %s on http://%s (Ctrl+C to stop)\n", r.config.Library.MusicDir, a)
		})
	})

	if cmd.Bool("watch") {
		dir, err := r.musicDir()
		if err != nil {
			return err
		}
		g.Go(func() error {
			return r.scanner.Watch(gctx, dir, func(ctx context.Context) error {
				return r.refresh(ctx, dir)
			})
		})
	}

	return g.Wait()
}

// refresh rescans dir and applies the catalog to the tree. When HTTP readers
// hold the tree the update waits for them after logging the delay.
func (r *Runner) refresh(ctx context.Context, dir string) error {
	if _, err := r.scanner.Scan(ctx, dir, nil); err != nil {
		return err
	}

	_, err := r.updater.TryUpdate(ctx, nil)
	if errors.Is(err, shared.ErrTreeBusy) {
		r.logger.Debug("tree busy, waiting for readers", "dir", dir)
		_, err = r.updater.Update(ctx, nil)
	}
	return err
}
