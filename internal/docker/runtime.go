// Package docker adapts the docker daemon API to the container runtime
// capability the core consumes: listing running containers as snapshots and
// streaming container lifecycle events.
package docker

import (
	"context"
	"fmt"

	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"
	"github.com/rs/zerolog"
)

type Runtime struct {
	logger zerolog.Logger
	cli    apiClient
}

func NewRuntime(cli apiClient, logger zerolog.Logger) *Runtime {
	return &Runtime{
		logger: logger,
		cli:    cli,
	}
}

// Ping checks daemon liveness once at startup.
func (r *Runtime) Ping(ctx context.Context) error {
	if _, err := r.cli.Ping(ctx); err != nil {
		return fmt.Errorf("pinging docker daemon: %w", err)
	}
	return nil
}

// ListRunningContainers returns a snapshot for every running container.
// An inspect failure for one container is logged and that container is
// skipped; a failing list propagates.
func (r *Runtime) ListRunningContainers(ctx context.Context) ([]domain.ContainerSnapshot, error) {
	containers, err := r.cli.ContainerList(ctx, container.ListOptions{All: false})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	snapshots := make([]domain.ContainerSnapshot, 0, len(containers))
	for _, c := range containers {
		inspect, err := r.cli.ContainerInspect(ctx, c.ID)
		if err != nil {
			r.logger.Error().Err(err).Str("container_id", truncateID(c.ID)).Msg("Inspecting container")
			continue
		}
		snapshots = append(snapshots, snapshotFromInspect(inspect))
	}
	return snapshots, nil
}

// StreamEvents subscribes to container lifecycle events and converts them to
// domain events. The returned channels follow the docker client contract: the
// event channel closes when the stream ends, the error channel delivers at
// most one transport error. Reconnecting is the caller's concern.
func (r *Runtime) StreamEvents(ctx context.Context) (<-chan domain.ContainerEvent, <-chan error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("type", "container")
	filterArgs.Add("event", string(domain.ActionStart))
	filterArgs.Add("event", string(domain.ActionStop))
	filterArgs.Add("event", string(domain.ActionDie))
	filterArgs.Add("event", string(domain.ActionDestroy))
	filterArgs.Add("event", string(domain.ActionRename))

	msgCh, errCh := r.cli.Events(ctx, events.ListOptions{Filters: filterArgs})

	out := make(chan domain.ContainerEvent)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				if err != nil {
					errs <- err
					return
				}
			case msg, ok := <-msgCh:
				if !ok {
					r.logger.Debug().Msg("Docker events channel closed")
					return
				}
				event, ok := eventFromMessage(msg)
				if !ok {
					r.logger.Debug().Str("type", string(msg.Type)).Str("action", string(msg.Action)).Msg("Ignoring event")
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, errs
}

func (r *Runtime) Close() error {
	return r.cli.Close()
}
