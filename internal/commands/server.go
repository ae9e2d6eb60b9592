package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"evalgo.org/modelapi/internal/api"
	"evalgo.org/modelapi/internal/jsonapi"
	"evalgo.org/modelapi/internal/logging"
	"evalgo.org/modelapi/internal/resource"
	"evalgo.org/modelapi/internal/storage"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  `Start the HTTP resource API with the Echo framework`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	registry, err := buildRegistry(cfg, log)
	if err != nil {
		return err
	}

	keyCase, err := jsonapi.ParseKeyCase(cfg.JSONAPI.KeyCase)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to close storage")
		}
	}()

	var (
		hub       *api.Hub
		publisher resource.Publisher
	)
	if cfg.Events.Enabled {
		hub = api.NewHub(log)
		publisher = hub
	}

	service := resource.NewService(registry, store, jsonapi.NewAdapter(registry, keyCase), publisher, log)
	server := api.New(cfg, service, hub, log)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
