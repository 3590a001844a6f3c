package app

import (
	"context"
	"fmt"

	"github.com/auto-dns/docker-hoster/internal/config"
	"github.com/auto-dns/docker-hoster/internal/core"
	"github.com/auto-dns/docker-hoster/internal/docker"
	"github.com/auto-dns/docker-hoster/internal/event"
	"github.com/auto-dns/docker-hoster/internal/hostsfile"
	"github.com/auto-dns/docker-hoster/internal/inspector"
	dockerCli "github.com/docker/docker/client"
	"github.com/rs/zerolog"
)

// App wires the runtime adapter, inspector, store, reconciler and watcher
// together and owns their lifecycle.
type App struct {
	cfg        *config.Config
	logger     zerolog.Logger
	runtime    *docker.Runtime
	store      *hostsfile.Store
	reconciler *core.Reconciler
	watcher    *event.Watcher
}

// New creates a new App by wiring up all dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	opts := []dockerCli.Opt{dockerCli.WithAPIVersionNegotiation()}
	if cfg.Docker.Host != "" {
		opts = append(opts, dockerCli.WithHost(cfg.Docker.Host))
	} else {
		opts = append(opts, dockerCli.FromEnv)
	}
	cli, err := dockerCli.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	runtime := docker.NewRuntime(cli, logger)
	store := hostsfile.NewStore(cfg.HostsFile.Path, logger)
	insp := inspector.New(cfg, logger)
	rec := core.NewReconciler(runtime, insp, store, logger)
	watcher := event.NewWatcher(runtime, rec, logger)

	return &App{
		cfg:        cfg,
		logger:     logger,
		runtime:    runtime,
		store:      store,
		reconciler: rec,
		watcher:    watcher,
	}, nil
}

// Initialize checks daemon liveness and performs one synchronous reconcile
// so entries exist before any event arrives.
func (a *App) Initialize(ctx context.Context) error {
	a.logger.Info().
		Str("hosts_file", a.cfg.HostsFile.Path).
		Bool("label_filter", a.cfg.Filter.Enable).
		Str("hostname_policy", a.cfg.Hostnames.Policy).
		Msg("Starting docker-hoster")
	if a.cfg.Filter.Enable {
		a.logger.Info().
			Str("label_key", a.cfg.Filter.LabelKey).
			Str("label_value", a.cfg.Filter.LabelValue).
			Msg("Label filter enabled")
	}

	if err := a.runtime.Ping(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Cannot reach the docker daemon; check that it is running and that the socket (or DOCKER_HOST) is accessible")
		return err
	}

	if err := a.reconciler.Reconcile(ctx); err != nil {
		return fmt.Errorf("initial reconcile: %w", err)
	}
	return nil
}

// Run initializes the application and blocks listening for container events
// until the watcher stops or errors.
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}
	return a.watcher.Listen(ctx)
}

// Cleanup stops the watcher, strips managed entries from the hosts file and
// releases the docker connection. Each step's failure is logged but does not
// prevent later steps from running; Cleanup is safe after a partial
// initialization.
func (a *App) Cleanup() {
	a.logger.Info().Msg("Shutting down docker-hoster")

	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.store != nil {
		if err := a.store.Strip(); err != nil {
			a.logger.Error().Err(err).Msg("Stripping managed hosts entries")
		}
	}
	if a.runtime != nil {
		if err := a.runtime.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Closing docker client")
		}
	}
}
