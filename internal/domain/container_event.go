package domain

// Action is a container lifecycle action reported by the runtime.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionDie     Action = "die"
	ActionDestroy Action = "destroy"
	ActionRename  Action = "rename"
)

// TriggersReconcile reports whether the action changes the desired hosts
// file content and therefore requires a full reconcile.
func (a Action) TriggersReconcile() bool {
	switch a {
	case ActionStart, ActionStop, ActionDie, ActionDestroy, ActionRename:
		return true
	}
	return false
}

// ContainerEvent is one container-level lifecycle notification.
type ContainerEvent struct {
	Action        Action
	ContainerID   string
	ContainerName string
}
