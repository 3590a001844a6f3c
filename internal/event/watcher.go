// Package event consumes the runtime's container lifecycle stream and
// triggers reconciliation. There is exactly one consumer and one action, so
// this is a pull loop over channels rather than a callback registry.
package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/rs/zerolog"
)

type reconciler interface {
	Reconcile(ctx context.Context) error
}

type eventSource interface {
	StreamEvents(ctx context.Context) (<-chan domain.ContainerEvent, <-chan error)
}

const (
	stateIdle int32 = iota
	stateListening
	stateStopped
)

type Watcher struct {
	logger     zerolog.Logger
	source     eventSource
	reconciler reconciler
	state      atomic.Int32
}

func NewWatcher(source eventSource, rec reconciler, logger zerolog.Logger) *Watcher {
	return &Watcher{
		logger:     logger,
		source:     source,
		reconciler: rec,
	}
}

// Listen blocks consuming the event stream until the stream ends, a
// transport error occurs, the context is cancelled, or Stop has been
// observed. A reconcile failure during a callback is logged and the loop
// continues; a transport failure terminates Listen and propagates so the
// caller can decide whether to reconnect or exit.
func (w *Watcher) Listen(ctx context.Context) error {
	// A Stop issued before Listen wins; otherwise idle -> listening.
	w.state.CompareAndSwap(stateIdle, stateListening)
	defer w.state.Store(stateStopped)

	events, errs := w.source.StreamEvents(ctx)
	w.logger.Info().Msg("Listening for container events")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Event watcher cancelled by context")
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("event stream: %w", err)
			}
		case event, ok := <-events:
			if !ok {
				// The stream may close on a transport failure; prefer
				// reporting the failure over a clean end.
				select {
				case err := <-errs:
					if err != nil {
						return fmt.Errorf("event stream: %w", err)
					}
				default:
				}
				w.logger.Info().Msg("Event stream ended")
				return nil
			}
			// Stop is best-effort: it takes effect at the next item.
			if w.state.Load() == stateStopped {
				w.logger.Info().Msg("Event watcher stopped")
				return nil
			}
			if !event.Action.TriggersReconcile() {
				continue
			}
			w.logger.Info().
				Str("action", string(event.Action)).
				Str("container", event.ContainerName).
				Str("container_id", event.ContainerID).
				Msg("Container event")
			if err := w.reconciler.Reconcile(ctx); err != nil {
				w.logger.Error().Err(err).Str("action", string(event.Action)).Msg("Reconcile after event failed")
			}
		}
	}
}

// Stop requests that the listen loop exit. Because stream consumption is a
// blocking pull, the request is observed at the next received item; cancel
// the listen context to unblock an idle stream.
func (w *Watcher) Stop() {
	w.state.Store(stateStopped)
}
