package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pos-workshop/internal/api"
)

var (
	serveStore   string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the POS API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :4000)")
	serveCmd.Flags().String("base-path", "", "route prefix for the API (default /api)")
	serveCmd.Flags().Bool("create-indexes", false, "create the lab indexes on startup")
	serveCmd.Flags().StringVar(&serveStore, "store", "mongo", "backing store: mongo or memory")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "generated files to load with --store memory (default generator.output_dir)")
}

func runServe(cmd *cobra.Command, args []string) error {
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataDir := serveDataDir
	if dataDir == "" {
		dataDir = cfg.Generator.OutputDir
	}
	repo, closeRepo, err := openRepository(ctx, serveStore, dataDir)
	if err != nil {
		log.Fatal("Failed to open store", zap.String("store", serveStore), zap.Error(err))
	}
	defer closeRepo()

	server := api.NewServer(repo, log, cfg.Server.BasePath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
