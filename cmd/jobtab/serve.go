package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobtab/jobtab/internal/config"
	"github.com/jobtab/jobtab/internal/jobsearch"
	"github.com/jobtab/jobtab/internal/store"
	"github.com/jobtab/jobtab/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API (foreground)",
}

func init() {
	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServer()
	}
	serveCmd.Flags().String("host", "", "override the configured listen host")
	serveCmd.Flags().Int("port", 0, "override the configured listen port")
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "jobtab version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := dataFile
	if path == "" {
		path = cfg.Storage.DataFile
	}
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	slog.Info("storage ready", "path", path, "applications", s.Len())

	jobs := jobsearch.NewService(jobsearch.Options{
		USAJobsEmail: cfg.Jobs.USAJobsEmail,
		AdzunaAppID:  cfg.Jobs.AdzunaAppID,
		AdzunaAPIKey: cfg.Jobs.AdzunaAPIKey,
		RapidAPIKey:  cfg.Jobs.RapidAPIKey,
	})
	for _, p := range jobs.Providers() {
		slog.Info("job provider", "name", p.Name(), "configured", p.Configured())
	}

	host := cfg.Server.Host
	if f := serveCmd.Flags().Lookup("host"); f.Changed {
		host = f.Value.String()
	}
	port := cfg.Server.Port
	if f := serveCmd.Flags().Lookup("port"); f.Changed {
		port, _ = serveCmd.Flags().GetInt("port")
	}

	handler := web.NewHandler(web.Deps{
		Store:   s,
		Jobs:    jobs,
		Version: version,
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "jobtab listening on http://%s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
