package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Skufu/medplat/internal/config"
	"github.com/Skufu/medplat/internal/dataset"
	"github.com/Skufu/medplat/internal/forecast"
	"github.com/Skufu/medplat/internal/ingest"
	"github.com/Skufu/medplat/internal/server"
	"github.com/Skufu/medplat/internal/store"
)

// @title MedPlat API
// @version 1.0
// @description Upload tabular data and query, chart, summarize and forecast it.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "medplat",
		Short:         "MedPlat analytics API",
		Long:          "Serves the upload, query, chart, anomaly and forecast API. Runs serve when no subcommand is given.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $CONFIG_FILE)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a CSV, JSON or XLSX file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			n, batchID, err := importFile(cmd.Context(), st, args[0], replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows from %s (batch %s)\n", n, filepath.Base(args[0]), batchID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing rows before importing")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	gin.SetMode(cfg.GinMode)
	logger := newLogger(cfg.GinMode)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	forecaster := forecast.NewService(
		forecast.ProcessRunner{Python: cfg.PythonBin},
		cfg.ForecastConcurrency,
		cfg.ForecastTimeout,
		logger,
	)
	api := server.NewAPI(st, forecaster, server.Options{
		SampleSize:     cfg.SampleSize,
		DataLimit:      cfg.DataLimit,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AllowOrigins:   cfg.AllowOrigins,
		StaticDir:      cfg.StaticDir,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.ForecastTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("server listening on :%s (store=%s)", cfg.Port, st.Driver())
	waitForShutdown(srv)
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(ctx, store.Options{
		Driver:      store.Driver(cfg.StoreDriver),
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return st, nil
}

type rowWriter interface {
	InsertRows(ctx context.Context, batchID string, rows []dataset.Row) (int, error)
	DeleteRows(ctx context.Context) (int64, error)
}

// importFile parses path by extension and stores its rows as one batch.
func importFile(ctx context.Context, st rowWriter, path string, replace bool) (int, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ingest.ParseFile(filepath.Base(path), f)
	if err != nil {
		return 0, "", fmt.Errorf("parse %s: %w", path, err)
	}

	if replace {
		if _, err := st.DeleteRows(ctx); err != nil {
			return 0, "", err
		}
	}

	batchID := uuid.NewString()
	n, err := st.InsertRows(ctx, batchID, rows)
	if err != nil {
		return 0, "", err
	}
	return n, batchID, nil
}

func newLogger(mode string) *slog.Logger {
	if mode == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
