package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/claimsportal/internal/config"
	"github.com/user/claimsportal/internal/eventlog"
	"github.com/user/claimsportal/internal/prompt"
	"github.com/user/claimsportal/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg)

	counter := prompt.NewCounter(cfg.AzureOpenAI.Model)
	chatSvc := newChatService(cfg, counter)
	ingestSvc := newIngestService(cfg, counter)
	logs := eventlog.NewStore(filepath.Join(cfg.DataDir, "event_logs"))

	srv := server.New(chatSvc, ingestSvc, logs, server.Options{
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   filepath.Join(cfg.DataDir, "uploads"),
	})

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("claimsportal started",
			"addr", cfg.Addr,
			"data_dir", cfg.DataDir,
			"log_level", cfg.LogLevel,
			"chat_configured", cfg.ChatConfigured(),
			"ingest_configured", cfg.IngestConfigured(),
			"ocr_enabled", cfg.OCREnabled(),
		)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
