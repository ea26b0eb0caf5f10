package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmf-industrial/taller-kiosk/internal/server"
)

var (
	serveAddr   string
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend for the browser kiosk",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides TALLER_ADDR and the configured value)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "Directory containing the built kiosk frontend (overrides TALLER_STATIC)")
}

// envOrDefault returns the environment value for key, or fallback when unset.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, store, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	addr := serveAddr
	if addr == "" {
		addr = envOrDefault("TALLER_ADDR", cfg.Listen)
	}
	staticDir := serveStatic
	if staticDir == "" {
		staticDir = os.Getenv("TALLER_STATIC")
	}

	srv := server.New(r, logger, cfg.AdminPassword, staticDir)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Engine(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("kiosk backend listening", "addr", addr, "storage", cfg.Storage)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
