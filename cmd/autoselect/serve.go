package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kingrea/autoselect/internal/catalogserver"
	"github.com/kingrea/autoselect/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings := catalogserver.SettingsFromConfig(cfg)
	if !settings.Enabled {
		return errors.New("catalog server is disabled (server.enabled or AUTOSELECT_SERVER_ENABLED)")
	}

	logger, err := logging.New(cfg.LogsDir(), serverLogName)
	if err != nil {
		return err
	}
	defer logger.Close()

	cat, err := openCatalog(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	watchCatalog(ctx, cat, logger)

	gin.SetMode(gin.ReleaseMode)
	server := catalogserver.NewServer(settings, cat, catalogserver.WithLogger(logger))
	if err := server.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d items from %s on %s\n", cat.Len(), cat.Path(), server.BaseURL())

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Printf("catalogserver: stopped")
	return nil
}
