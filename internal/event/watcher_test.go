package event

import (
	"context"
	"errors"
	"testing"

	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	events chan domain.ContainerEvent
	errs   chan error
}

func newFakeSource(buffer int) *fakeSource {
	return &fakeSource{
		events: make(chan domain.ContainerEvent, buffer),
		errs:   make(chan error, 1),
	}
}

func (f *fakeSource) StreamEvents(ctx context.Context) (<-chan domain.ContainerEvent, <-chan error) {
	return f.events, f.errs
}

type countingReconciler struct {
	calls int
	err   error
}

func (c *countingReconciler) Reconcile(ctx context.Context) error {
	c.calls++
	return c.err
}

func startEvent(name string) domain.ContainerEvent {
	return domain.ContainerEvent{Action: domain.ActionStart, ContainerID: "abc123def456", ContainerName: name}
}

func TestListenTriggersReconcileOnEvent(t *testing.T) {
	source := newFakeSource(2)
	rec := &countingReconciler{}
	w := NewWatcher(source, rec, zerolog.Nop())

	source.events <- startEvent("web")
	source.events <- domain.ContainerEvent{Action: domain.ActionDie, ContainerName: "db"}
	close(source.events)

	require.NoError(t, w.Listen(context.Background()))
	require.Equal(t, 2, rec.calls)
}

func TestListenIgnoresUnwatchedActions(t *testing.T) {
	source := newFakeSource(2)
	rec := &countingReconciler{}
	w := NewWatcher(source, rec, zerolog.Nop())

	source.events <- domain.ContainerEvent{Action: domain.Action("create"), ContainerName: "web"}
	source.events <- domain.ContainerEvent{Action: domain.Action("exec_start"), ContainerName: "web"}
	close(source.events)

	require.NoError(t, w.Listen(context.Background()))
	require.Equal(t, 0, rec.calls)
}

func TestListenSurvivesReconcileFailure(t *testing.T) {
	source := newFakeSource(2)
	rec := &countingReconciler{err: errors.New("write failed")}
	w := NewWatcher(source, rec, zerolog.Nop())

	source.events <- startEvent("web")
	source.events <- startEvent("db")
	close(source.events)

	// One bad reconcile must not stop future event processing.
	require.NoError(t, w.Listen(context.Background()))
	require.Equal(t, 2, rec.calls)
}

func TestListenPropagatesStreamError(t *testing.T) {
	source := newFakeSource(0)
	rec := &countingReconciler{}
	w := NewWatcher(source, rec, zerolog.Nop())

	source.errs <- errors.New("connection reset")

	err := w.Listen(context.Background())
	require.ErrorContains(t, err, "event stream")
	require.ErrorContains(t, err, "connection reset")
	require.Equal(t, 0, rec.calls)
}

func TestStopObservedAtNextEvent(t *testing.T) {
	source := newFakeSource(1)
	rec := &countingReconciler{}
	w := NewWatcher(source, rec, zerolog.Nop())

	w.Stop()
	source.events <- startEvent("web")

	require.NoError(t, w.Listen(context.Background()))
	require.Equal(t, 0, rec.calls)
}

func TestListenReturnsOnContextCancel(t *testing.T) {
	source := newFakeSource(0)
	rec := &countingReconciler{}
	w := NewWatcher(source, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, w.Listen(ctx))
	require.Equal(t, 0, rec.calls)
}
