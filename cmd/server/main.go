package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/offerdesk/api"
	dbfs "github.com/garnizeh/offerdesk/db"
	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/internal/db"
	"github.com/garnizeh/offerdesk/internal/jobs"
	"github.com/garnizeh/offerdesk/internal/letter"
	"github.com/garnizeh/offerdesk/internal/notify"
	"github.com/garnizeh/offerdesk/internal/repository/sqlite"
	"github.com/garnizeh/offerdesk/internal/workflow"
	"golang.org/x/sync/errgroup"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(*configPath, logger); err != nil {
		logger.Error("server exited with error", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("server exited")
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	api.SetLogger(logger)
	workflow.SetLogger(logger)
	notify.SetLogger(logger)
	letter.SetLogger(logger)

	logger.Info("starting offerdesk", slog.String("version", version), slog.String("build_time", buildTime))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := db.Migrate(ctx, database, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		return err
	}
	repo := sqlite.New(database, logger)

	base, err := notify.New(cfg.Notifier, logger)
	if err != nil {
		return err
	}
	if c, ok := base.(io.Closer); ok {
		defer c.Close()
	}
	notifier := notify.NewRecorder(base, repo)

	pool := jobs.NewWorkerPool(jobs.NewRepository(database), map[string]jobs.Handler{
		jobs.TypeRedeliver: jobs.RedeliverHandler(notifier),
	}, logger, cfg.Jobs.Workers)

	svc, err := workflow.New(workflow.Config{
		Offers:                repo,
		Roles:                 repo,
		Composer:              letter.NewComposer(cfg.Company, cfg.Clock()),
		Delivery:              notifier,
		Alerts:                notifier,
		Retry:                 jobs.NewRetrier(pool, cfg.Jobs.MaxAttempts),
		Location:              cfg.Location(),
		NotificationEmail:     cfg.Workflow.NotificationEmail,
		Company:               cfg.Company.Name,
		DefaultContractMonths: cfg.Workflow.DefaultContractMonths,
		DefaultHRName:         cfg.Workflow.DefaultHRName,
	})
	if err != nil {
		return err
	}

	handler := api.SetupRoutes(cfg, version, buildTime, api.Deps{
		DB:            database.GetConn(),
		Workflow:      svc,
		Offers:        repo,
		Roles:         repo,
		Operators:     repo,
		Notifications: repo,
		Notifier:      notifier,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return pool.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		// Give outstanding requests 30 seconds to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
