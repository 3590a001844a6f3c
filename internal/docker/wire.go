package docker

import (
	"strings"

	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/auto-dns/docker-hoster/internal/util"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
)

const truncatedIDLength = 12

func truncateID(id string) string {
	if len(id) > truncatedIDLength {
		return id[:truncatedIDLength]
	}
	return id
}

// snapshotFromInspect converts a docker inspect response into a fixed-shape
// snapshot. Network attachments are ordered by network name so that snapshot
// content is deterministic given the same container state; docker reports
// them as a map.
func snapshotFromInspect(inspect container.InspectResponse) domain.ContainerSnapshot {
	snapshot := domain.ContainerSnapshot{
		ID:          inspect.ID,
		TruncatedID: truncateID(inspect.ID),
		Name:        strings.TrimPrefix(inspect.Name, "/"),
	}

	if inspect.Config != nil {
		snapshot.Hostname = inspect.Config.Hostname
		snapshot.Labels = inspect.Config.Labels
	}

	if inspect.NetworkSettings == nil || inspect.NetworkSettings.Networks == nil {
		return snapshot
	}

	networks := inspect.NetworkSettings.Networks
	for _, name := range util.SortedKeys(networks) {
		endpoint := networks[name]
		if endpoint == nil {
			continue
		}
		address := endpoint.IPAddress
		if address == "" {
			address = endpoint.GlobalIPv6Address
		}
		snapshot.Networks = append(snapshot.Networks, domain.NetworkAttachment{
			Name:    name,
			Address: address,
			Aliases: endpoint.Aliases,
		})
	}

	return snapshot
}

// eventFromMessage converts a docker event message into a domain event.
// Returns false for non-container events and actions outside the watched set.
func eventFromMessage(msg events.Message) (domain.ContainerEvent, bool) {
	if msg.Type != events.ContainerEventType {
		return domain.ContainerEvent{}, false
	}
	action := domain.Action(msg.Action)
	if !action.TriggersReconcile() {
		return domain.ContainerEvent{}, false
	}
	return domain.ContainerEvent{
		Action:        action,
		ContainerID:   truncateID(msg.Actor.ID),
		ContainerName: msg.Actor.Attributes["name"],
	}, true
}
