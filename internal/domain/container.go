package domain

// NetworkAttachment is one network a container is connected to, with the
// address assigned on that network. Address may be empty when the runtime has
// not (yet) assigned one; Aliases may be nil.
type NetworkAttachment struct {
	Name    string
	Address string
	Aliases []string
}

// ContainerSnapshot is a read-only view of one running container at
// inspection time. Snapshots are rebuilt from the runtime on every reconcile
// pass and never cached across passes.
type ContainerSnapshot struct {
	ID          string
	TruncatedID string
	Name        string
	Hostname    string
	Labels      map[string]string
	Networks    []NetworkAttachment
}
