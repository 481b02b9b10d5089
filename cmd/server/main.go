package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mcoot/wordlobby/internal/api"
	"github.com/mcoot/wordlobby/internal/config"
	"github.com/mcoot/wordlobby/internal/factory"
)

func main() {
	// A local .env is optional; real environment variables still win
	_ = godotenv.Load()

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "wordlobby-server",
		Short: "Run the word lobby game server",
		Long: `Serve the word lobby game over HTTP: the cookie-based /init, /join and
/submit routes plus the JSON API under /api/v1.

Settings come from defaults, then the YAML file given by --config (or
wordlobby.yaml in the working directory or /etc/wordlobby), then
WORDLOBBY_* environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	factoryCfg, err := factory.ConfigFrom(cfg, logger)
	if err != nil {
		return err
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.LoadWords(ctx, cfg.Game.WordFile); err != nil {
		logger.Error("failed to load word list", slog.String("error", err.Error()))
		return err
	}

	go app.RunMaintenance(ctx, cfg.Game.CleanupInterval)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		Words:          app.WordService,
		HubManager:     app.HubManager,
	})
	server := api.NewServer(router, api.ServerConfigFrom(cfg.Server), logger)
	// end event streams first so draining is not held open by watchers
	server.OnShutdown(app.HubManager.Close)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.String("evaluator_policy", cfg.Game.EvaluatorPolicy),
		slog.String("win_rule", cfg.Game.WinRule))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
