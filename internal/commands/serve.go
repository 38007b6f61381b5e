package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kibe0711-png/financial-report-creator/internal/pipeline"
	"github.com/kibe0711-png/financial-report-creator/internal/server"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, func(ctx context.Context, p *project) error {
				if addr == "" {
					addr = p.cfg.Server.Addr
				}
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return runServe(ctx, p, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from frc.yaml)")
	return cmd
}

func runServe(ctx context.Context, p *project, addr string) error {
	srv := server.New(p.store, pipeline.New(p.classifier), p.log, server.Options{
		MaxUploadBytes:  p.cfg.Server.MaxUploadBytes,
		ReadTimeout:     p.cfg.Server.ReadTimeout,
		WriteTimeout:    p.cfg.Server.WriteTimeout,
		ShutdownTimeout: p.cfg.Server.ShutdownTimeout,
	})
	err := srv.Run(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
