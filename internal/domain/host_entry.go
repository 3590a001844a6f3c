package domain

import "fmt"

// MarkerToken is the per-line token identifying entries owned by docker-hoster.
const MarkerToken = "docker-hoster"

// HostEntry is one address-to-hostname mapping destined for the hosts file.
// Owner is the contributing container's display name; it is carried for the
// persisted comment and diagnostics only and does not participate in identity.
type HostEntry struct {
	Address  string
	Hostname string
	Owner    string
}

func NewHostEntry(address, hostname, owner string) HostEntry {
	return HostEntry{
		Address:  address,
		Hostname: hostname,
		Owner:    owner,
	}
}

// Key identifies an entry for deduplication. Two entries with the same
// address and hostname are the same entry regardless of owner.
func (e HostEntry) Key() string {
	return e.Address + "|" + e.Hostname
}

// HostsLine renders the entry in managed-block line format:
// <address>\t<hostname>\t# <marker>: <owner>
func (e HostEntry) HostsLine() string {
	return fmt.Sprintf("%s\t%s\t# %s: %s", e.Address, e.Hostname, MarkerToken, e.Owner)
}

func (e HostEntry) String() string {
	return fmt.Sprintf("%s -> %s (%s)", e.Hostname, e.Address, e.Owner)
}
