package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tidbyt.dev/bustimes/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the departures tools over MCP (/sse and /mcp)",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

var listenAddress string

func init() {
	serveCmd.Flags().StringVarP(&listenAddress, "listen-address", "l", ":8787", "Address to listen on")
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	s := newService(cfg, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           tools.NewHandler(tools.NewServer(s, logger)),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting bustimes tool server", "address", cfg.ListenAddress, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}
	logger.Info("server shut down")

	return nil
}
