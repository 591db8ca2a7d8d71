package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"learnbase/api"
	"learnbase/config"
	"learnbase/logger"

	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the web application",
	Long: `Serves the note pages, the JSON endpoints and uploaded images.
Press Ctrl+C to shut down gracefully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("--- Server Command: Run ---")

		cfg := config.AppConfig
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cfg.Server.Port == "" {
			logger.Error("Server Command: Server port is empty after checking flag and config, defaulting to 5000")
			cfg.Server.Port = "5000"
		}

		router, err := api.NewRouter(cfg)
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server Command: Listening on %s (profile %s)", server.Addr, cfg.Profile)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("Server Command: ListenAndServe error: %v", err)
				return err
			}
		case <-ctx.Done():
			logger.Info("Server Command: Shutdown signal received...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server Command: Graceful shutdown failed: %v", err)
			return err
		}
		logger.Info("Server Command: Gracefully stopped.")
		return nil
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverHost, "host", "0.0.0.0", "Interface to listen on (overrides config)")
	serverCmd.Flags().StringVarP(&serverPort, "port", "p", "5000", "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
