package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostsLine(t *testing.T) {
	entry := NewHostEntry("172.17.0.2", "web", "web")
	assert.Equal(t, "172.17.0.2\tweb\t# docker-hoster: web", entry.HostsLine())
}

func TestKeyIgnoresOwner(t *testing.T) {
	a := NewHostEntry("10.0.0.2", "db", "db-primary")
	b := NewHostEntry("10.0.0.2", "db", "db-replica")
	c := NewHostEntry("10.0.0.3", "db", "db-primary")

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestActionTriggersReconcile(t *testing.T) {
	tests := []struct {
		action Action
		want   bool
	}{
		{ActionStart, true},
		{ActionStop, true},
		{ActionDie, true},
		{ActionDestroy, true},
		{ActionRename, true},
		{Action("create"), false},
		{Action("exec_start"), false},
		{Action(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.TriggersReconcile())
		})
	}
}
