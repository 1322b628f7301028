package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fundwatch/internal/api"
	"github.com/wonny/fundwatch/internal/api/handlers"
)

// apiCmd runs the read-only status API server.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the status API server",
	Long: `Serves health, tracked funds, latest signals, and per-fund series
slices over HTTP.

Example:
  go run ./cmd/fundwatch api`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	fundHandler := handlers.NewFundHandler(a.store, a.signals, a.cache, a.strategy.Funds, a.log)
	router := api.NewRouter(fundHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
