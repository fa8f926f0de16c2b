package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/database/postgres"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
	"github.com/kudzaitsapo/fileflow-web/internal/web"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the FileFlow web dashboard.
The dashboard proxies every data request to the FileFlow backend set by
FILEFLOW_BACKEND_URL. Sessions are kept in memory, or in PostgreSQL when
DATABASE_URL is set.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("session-secret", "", "Secret for signing session cookies (defaults to random)")
	serveCmd.Flags().Bool("secure-cookies", false, "Always set the Secure attribute on cookies")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "Extra CORS origins for the JSON API")
	serveCmd.Flags().Bool("dev-cors", false, "Accept credentialed CORS requests from any localhost origin")
}

// resolveServeConfig applies flags, letting environment variables override them.
func resolveServeConfig(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Web.Port == 0 {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cfg.Web.Host == "" {
		cfg.Web.Host = mustGetString(cmd, "host")
	}
	if cfg.Web.SessionSecret == "" {
		cfg.Web.SessionSecret = mustGetString(cmd, "session-secret")
	}
	if mustGetBool(cmd, "secure-cookies") {
		cfg.Web.SecureCookies = true
	}
	if len(cfg.Web.AllowedOrigins) == 0 {
		cfg.Web.AllowedOrigins = mustGetStringSlice(cmd, "allowed-origins")
	}
	if mustGetBool(cmd, "dev-cors") {
		cfg.Web.AllowLocalhost = true
	}
}

// openSessionRepository connects to PostgreSQL when configured. A nil
// repository keeps sessions in memory.
func openSessionRepository(ctx context.Context, cfg *config.DatabaseConfig) (middleware.SessionRepository, *postgres.Pool, error) {
	if cfg.URL == "" {
		logging.Info().Msg("DATABASE_URL not set, sessions are kept in memory")
		return nil, nil, nil
	}

	logging.Info().Msg("connecting to PostgreSQL database")
	pool, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	logging.Info().Msg("session persistence enabled (PostgreSQL)")
	return postgres.NewSessionRepository(pool), pool, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeConfig(cmd, cfg)

	if cfg.Backend.URL == "" {
		return errors.New("FILEFLOW_BACKEND_URL environment variable is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionRepo, pool, err := openSessionRepository(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	server, err := web.NewServer(cfg, sessionRepo)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logging.Info().Msg("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("error during shutdown")
		}
	}()

	logging.Info().
		Str("addr", fmt.Sprintf("http://%s:%d", cfg.Web.Host, cfg.Web.Port)).
		Str("backend", cfg.Backend.URL).
		Msg("starting FileFlow web dashboard")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
