package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/crossjob/internal/cli"
	"github.com/alexanderramin/crossjob/internal/config"
	"github.com/alexanderramin/crossjob/internal/db"
	"github.com/alexanderramin/crossjob/internal/events"
	"github.com/alexanderramin/crossjob/internal/metrics"
	"github.com/alexanderramin/crossjob/internal/repository"
	"github.com/alexanderramin/crossjob/internal/schema"
	"github.com/alexanderramin/crossjob/internal/service"
	"github.com/alexanderramin/crossjob/internal/wizard"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	if err := cli.NewRootCmd(&cli.App{}, setup).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup wires the App from the effective configuration. Everything opened
// here is released by the returned cleanup.
func setup(cmd *cobra.Command, app *cli.App) (func(), error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.Log.Calls {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (func(), error) {
		cleanup()
		return nil, err
	}

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	closers = append(closers, func() { database.Close() })

	// Schema sources: the offline table, optionally watched on disk, with
	// the remote service in front of it when configured.
	table := schema.DefaultTable()
	if cfg.Schema.TablePath != "" {
		if table, err = schema.LoadTable(cfg.Schema.TablePath); err != nil {
			return fail(err)
		}
	}
	offline := schema.NewTableSource(table)
	if cfg.Schema.TablePath != "" {
		w, err := schema.NewWatcher(cfg.Schema.TablePath, offline, logger)
		if err != nil {
			return fail(err)
		}
		if err := w.Start(context.Background()); err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = w.Stop() })
	}
	var src wizard.SchemaSource = offline
	if cfg.Schema.RemoteURL != "" {
		remote := schema.NewHTTPSource(schema.HTTPConfig{BaseURL: cfg.Schema.RemoteURL, Timeout: cfg.Schema.RemoteTimeout})
		src = schema.NewFallbackSource(remote, offline)
	}

	var pub events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return fail(err)
		}
		pub = nc
		closers = append(closers, nc.Close)
	}

	reg := prometheus.NewRegistry()
	promObserver, err := metrics.NewObserver(reg)
	if err != nil {
		return fail(err)
	}
	observers := wizard.MultiObserver{promObserver}
	var useCaseObservers []service.UseCaseObserver
	if cfg.Log.Calls {
		observers = append(observers, wizard.NewLogObserver(os.Stderr))
		useCaseObservers = append(useCaseObservers, service.NewLogUseCaseObserver(os.Stderr))
	}
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, reg, logger)
		if _, err := srv.Start(); err != nil {
			return fail(fmt.Errorf("starting metrics server: %w", err))
		}
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	applicants := repository.NewSQLiteApplicantRepo(database)
	app.Applicants = service.NewApplicantService(applicants)
	app.Profiles = service.NewProfileService(
		applicants,
		repository.NewSQLiteProfileStepRepo(database),
		repository.NewSQLiteBadgeRepo(database),
		repository.NewSQLiteSubmissionRepo(database),
		db.NewSQLiteUnitOfWork(database),
		pub,
		useCaseObservers...,
	)
	app.Schemas = src
	app.Table = offline.Table
	app.SchemaTimeout = cfg.Schema.LoadTimeout
	app.Publisher = pub
	app.Observer = observers
	app.Autosave = wizard.AutosaveConfig{Debounce: cfg.Autosave.Debounce, SavedRevert: cfg.Autosave.SavedRevert}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	return cleanup, nil
}
