package docker

import (
	"testing"

	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/network"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFromInspect(t *testing.T) {
	inspect := container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:   "0123456789abcdef0123456789abcdef",
			Name: "/web",
		},
		Config: &container.Config{
			Hostname: "web-internal",
			Labels:   map[string]string{"hoster.enable": "true"},
		},
		NetworkSettings: &container.NetworkSettings{
			Networks: map[string]*network.EndpointSettings{
				"frontend": {IPAddress: "10.0.1.2", Aliases: []string{"fe"}},
				"backend":  {IPAddress: "10.0.0.2"},
				"v6only":   {GlobalIPv6Address: "fd00::2"},
			},
		},
	}

	snapshot := snapshotFromInspect(inspect)

	require.Equal(t, "web", snapshot.Name)
	require.Equal(t, "0123456789ab", snapshot.TruncatedID)
	require.Equal(t, "web-internal", snapshot.Hostname)
	require.Equal(t, "true", snapshot.Labels["hoster.enable"])

	// Attachments are ordered by network name, not map iteration order.
	require.Equal(t, []domain.NetworkAttachment{
		{Name: "backend", Address: "10.0.0.2"},
		{Name: "frontend", Address: "10.0.1.2", Aliases: []string{"fe"}},
		{Name: "v6only", Address: "fd00::2"},
	}, snapshot.Networks)
}

func TestSnapshotFromInspectWithoutNetworks(t *testing.T) {
	inspect := container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{ID: "abc", Name: "/lonely"},
	}

	snapshot := snapshotFromInspect(inspect)
	require.Equal(t, "lonely", snapshot.Name)
	require.Empty(t, snapshot.Networks)
	require.Empty(t, snapshot.Hostname)
}

func TestEventFromMessage(t *testing.T) {
	tests := []struct {
		name   string
		msg    events.Message
		wantOK bool
		action domain.Action
	}{
		{
			name: "container start",
			msg: events.Message{
				Type:   events.ContainerEventType,
				Action: "start",
				Actor:  events.Actor{ID: "0123456789abcdef", Attributes: map[string]string{"name": "web"}},
			},
			wantOK: true,
			action: domain.ActionStart,
		},
		{
			name: "container rename",
			msg: events.Message{
				Type:   events.ContainerEventType,
				Action: "rename",
				Actor:  events.Actor{ID: "0123456789abcdef", Attributes: map[string]string{"name": "web2"}},
			},
			wantOK: true,
			action: domain.ActionRename,
		},
		{
			name:   "network event ignored",
			msg:    events.Message{Type: events.NetworkEventType, Action: "connect"},
			wantOK: false,
		},
		{
			name:   "unwatched container action ignored",
			msg:    events.Message{Type: events.ContainerEventType, Action: "exec_start: ls"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := eventFromMessage(tt.msg)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				require.Equal(t, tt.action, event.Action)
				require.Equal(t, "0123456789ab", event.ContainerID)
				require.NotEmpty(t, event.ContainerName)
			}
		})
	}
}
