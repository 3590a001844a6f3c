// Package core implements reconciliation: the full recomputation of desired
// hosts file content from the current container list, followed by one atomic
// write and a diff log against the previous pass.
package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/auto-dns/docker-hoster/internal/util"
	"github.com/rs/zerolog"
)

// Reconciler rebuilds the managed block from scratch on every pass. The
// previous grouping it keeps is used only to log a diff; it is replaced
// wholesale after each successful pass and is never the source of truth.
type Reconciler struct {
	logger    zerolog.Logger
	runtime   containerLister
	inspector entryExtractor
	store     entryStore

	// previous maps container name to the sorted hostnames it contributed
	// in the most recent successful reconcile. Owned exclusively by the
	// Reconciler; concurrency is serialized by the store's lock and the
	// single-consumer event loop.
	previous map[string][]string
}

func NewReconciler(runtime containerLister, inspector entryExtractor, store entryStore, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		logger:    logger,
		runtime:   runtime,
		inspector: inspector,
		store:     store,
		previous:  make(map[string][]string),
	}
}

// Reconcile lists running containers, extracts entries per container with
// fault isolation, and replaces the managed block. A listing failure
// propagates; a single container's extraction failure never aborts the pass.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	snapshots, err := r.runtime.ListRunningContainers(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	var entries []domain.HostEntry
	for _, snapshot := range snapshots {
		extracted, err := r.inspector.Extract(snapshot)
		if err != nil {
			r.logger.Error().Err(err).Str("container", snapshot.Name).Msg("Extracting host entries")
			continue
		}
		entries = append(entries, extracted...)
	}
	entries = dedupeAndSort(entries)

	if err := r.store.Replace(entries); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	next := groupByOwner(entries)
	r.logDiff(len(snapshots), entries, next)
	r.previous = next

	return nil
}

// dedupeAndSort collapses duplicate (address, hostname) pairs and imposes a
// stable order so that identical container state always produces an
// identical managed block.
func dedupeAndSort(entries []domain.HostEntry) []domain.HostEntry {
	seen := make(map[string]struct{}, len(entries))
	deduped := entries[:0]
	for _, e := range entries {
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		deduped = append(deduped, e)
	}
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].Hostname != deduped[j].Hostname {
			return deduped[i].Hostname < deduped[j].Hostname
		}
		return deduped[i].Address < deduped[j].Address
	})
	return deduped
}

func groupByOwner(entries []domain.HostEntry) map[string][]string {
	grouped := make(map[string][]string)
	for _, e := range entries {
		grouped[e.Owner] = append(grouped[e.Owner], e.Hostname)
	}
	for owner := range grouped {
		sort.Strings(grouped[owner])
	}
	return grouped
}

func (r *Reconciler) logDiff(containerCount int, entries []domain.HostEntry, next map[string][]string) {
	added := util.Filter(util.SortedKeys(next), func(owner string) bool {
		_, existed := r.previous[owner]
		return !existed
	})
	removed := util.Filter(util.SortedKeys(r.previous), func(owner string) bool {
		_, exists := next[owner]
		return !exists
	})

	event := r.logger.Info().
		Int("entries", len(entries)).
		Int("containers", containerCount)
	if len(added) > 0 {
		event = event.Strs("added", added)
	}
	if len(removed) > 0 {
		event = event.Strs("removed", removed)
	}
	event.Msg("Hosts file reconciled")
}
