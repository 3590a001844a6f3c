package core

import (
	"context"

	"github.com/auto-dns/docker-hoster/internal/domain"
)

type containerLister interface {
	ListRunningContainers(ctx context.Context) ([]domain.ContainerSnapshot, error)
}

type entryExtractor interface {
	Extract(snapshot domain.ContainerSnapshot) ([]domain.HostEntry, error)
}

type entryStore interface {
	Replace(entries []domain.HostEntry) error
}
