package main

import (
	"context"

	"github.com/desertthunder/reelx/internal/server"
	"github.com/urfave/cli/v3"
)

// MockServe runs the in-memory movies service until the context is cancelled.
func (r *Runner) MockServe(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Mock.Addr
	}

	backend := server.NewBackend(server.BackendOpts{PageSize: cmd.Int("page-size"), Logger: r.logger})
	handler := server.NewHandler(backend, r.logger)

	ready := make(chan string, 1)
	go func() {
		select {
		case bound := <-ready:
			r.logger.Info("mock service listening", "addr", bound)
			r.writePlain("Mock service on http://%s (sign in as demo/demo123)\n", bound)
		case <-ctx.Done():
		}
	}()

	return server.ListenAndServe(ctx, addr, handler, ready)
}
