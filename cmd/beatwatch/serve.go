package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"beatwatch.beatmonitor.org/internal/app"
	"beatwatch.beatmonitor.org/internal/appconf"
	"beatwatch.beatmonitor.org/internal/beatwatch"
	"beatwatch.beatmonitor.org/internal/restapi"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Ingest a data directory and serve the REST API",
	Long: `Parse every raw file under the data directory, store the recordings in
SQLite and serve them over the REST API.

With --watch, files dropped into the directory while the server runs are
ingested as they appear.

Example:
  beatwatch serve --data-dir ./data --api-keys secret1,secret2
  beatwatch serve --config beatwatch.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", "", "YAML config file; explicit flags still win")
	serveCmd.Flags().Int("port", 4000, "API server port")
	serveCmd.Flags().String("env", "development", "Environment (development|test|production)")
	serveCmd.Flags().String("api-keys", "test", "Comma separated API keys")
	serveCmd.Flags().Int("rate-limit", 100, "Requests per second allowed per API key (0 blocks everything, negative disables limiting)")
	serveCmd.Flags().String("data-dir", "", "Directory containing raw BEATwatch files")
	serveCmd.Flags().String("db", "beatwatch.db", "SQLite database path, or :memory:")
	serveCmd.Flags().String("timezone", "", "IANA timezone of the records (default UTC)")
	serveCmd.Flags().Float64("file-version", 0, "BEATwatch release that wrote the files")
	serveCmd.Flags().Bool("watch", false, "Ingest new files as they appear in the data directory")
	serveCmd.Flags().Bool("verbose", false, "Enable debug logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		fc, err := loadFileConfig(configPath)
		if err != nil {
			return err
		}
		applyFileConfig(cmd, fc)
	}

	port, _ := cmd.Flags().GetInt("port")
	envFlag, _ := cmd.Flags().GetString("env")
	apiKeysFlag, _ := cmd.Flags().GetString("api-keys")
	rateLimit, _ := cmd.Flags().GetInt("rate-limit")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	dbPath, _ := cmd.Flags().GetString("db")
	timezone, _ := cmd.Flags().GetString("timezone")
	fileVersion, _ := cmd.Flags().GetFloat64("file-version")
	watch, _ := cmd.Flags().GetBool("watch")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var apiKeys []string
	for _, k := range strings.Split(apiKeysFlag, ",") {
		if k = strings.TrimSpace(k); k != "" {
			apiKeys = append(apiKeys, k)
		}
	}

	env := appconf.EnvFlagToEnvironment(envFlag)
	logger := newLogger(verbose)

	appConfig := appconf.Config{
		Port:      port,
		Env:       env,
		ApiKeys:   apiKeys,
		RateLimit: rateLimit,
		Verbose:   verbose,
	}
	bwConfig := beatwatch.Config{
		DataDir:     dataDir,
		DBPath:      dbPath,
		Timezone:    timezone,
		FileVersion: fileVersion,
		Watch:       watch,
		Verbose:     verbose,
		Env:         env,
	}

	manager, err := beatwatch.InitManager(bwConfig, logger)
	if err != nil {
		logger.Error("failed to initialize beatwatch manager", "error", err)
		return err
	}
	defer manager.Shutdown()

	manager.PrintStatistics()

	application := &app.Application{
		Config:          appConfig,
		BeatwatchConfig: bwConfig,
		Logger:          logger,
		Manager:         manager,
	}
	api := restapi.NewRestAPI(application)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr, "env", env.String())

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
