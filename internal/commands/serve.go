package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				if addr == "" {
					addr = e.cfg.Server.Addr
				}
				srv := &http.Server{
					Addr:              addr,
					Handler:           api.NewServer(e.svc, e.logger).Handler(),
					ReadHeaderTimeout: 10 * time.Second,
					WriteTimeout:      60 * time.Second,
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				errCh := make(chan error, 1)
				go func() {
					e.logger.Info().Str("addr", addr).Msg("HTTP server listening")
					errCh <- srv.ListenAndServe()
				}()

				select {
				case err := <-errCh:
					if !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("serving: %w", err)
					}
					return nil
				case <-ctx.Done():
				}

				e.logger.Info().Msg("Shutdown signal received")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutting down: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
