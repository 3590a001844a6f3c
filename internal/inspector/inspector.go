// Package inspector turns container snapshots into host entries: label-based
// inclusion filtering, hostname derivation, and address selection.
package inspector

import (
	"sort"

	"github.com/auto-dns/docker-hoster/internal/config"
	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/auto-dns/docker-hoster/internal/util"
	"github.com/rs/zerolog"
)

type Inspector struct {
	logger zerolog.Logger
	filter config.FilterConfig
	policy string
}

func New(cfg *config.Config, logger zerolog.Logger) *Inspector {
	return &Inspector{
		logger: logger,
		filter: cfg.Filter,
		policy: cfg.Hostnames.Policy,
	}
}

// shouldInclude applies the label filter. With filtering disabled every
// container is included; otherwise the container's labels must carry the
// configured key with exactly the configured value.
func (i *Inspector) shouldInclude(snapshot domain.ContainerSnapshot) bool {
	if !i.filter.Enable {
		return true
	}
	value, ok := snapshot.Labels[i.filter.LabelKey]
	included := ok && value == i.filter.LabelValue
	if !included {
		i.logger.Debug().
			Str("container", snapshot.Name).
			Str("label_key", i.filter.LabelKey).
			Msg("Container excluded by label filter")
	}
	return included
}

// hostnames returns the deduplicated, sorted hostname candidates for a
// snapshot. Under the "name" policy the container name is the sole candidate;
// the "rich" policy adds the configured container hostname and any network
// aliases. Candidates equal to the truncated container ID are dropped, which
// skips runtime-assigned defaults.
func (i *Inspector) hostnames(snapshot domain.ContainerSnapshot) []string {
	candidates := []string{snapshot.Name}

	if i.policy == config.PolicyRich {
		candidates = append(candidates, snapshot.Hostname)
		for _, attachment := range snapshot.Networks {
			candidates = append(candidates, attachment.Aliases...)
		}
	}

	candidates = util.Filter(candidates, func(h string) bool {
		return h != "" && h != snapshot.TruncatedID
	})

	seen := make(map[string]struct{}, len(candidates))
	var hostnames []string
	for _, h := range candidates {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		hostnames = append(hostnames, h)
	}
	sort.Strings(hostnames)
	return hostnames
}

// Extract returns the host entries one container contributes.
//
// Address policy is first-network-only: attachments are walked in snapshot
// order (sorted by network name) and the first one carrying an address wins,
// yielding one entry per hostname. A container with no usable hostname or no
// addressed network contributes nothing; both cases are logged, not errors.
func (i *Inspector) Extract(snapshot domain.ContainerSnapshot) ([]domain.HostEntry, error) {
	if !i.shouldInclude(snapshot) {
		return nil, nil
	}

	hostnames := i.hostnames(snapshot)
	if len(hostnames) == 0 {
		i.logger.Warn().Str("container", snapshot.Name).Msg("Container has no usable hostnames")
		return nil, nil
	}

	for _, attachment := range snapshot.Networks {
		if attachment.Address == "" {
			i.logger.Debug().
				Str("container", snapshot.Name).
				Str("network", attachment.Name).
				Msg("Network attachment has no address")
			continue
		}

		entries := util.Map(hostnames, func(hostname string) domain.HostEntry {
			return domain.NewHostEntry(attachment.Address, hostname, snapshot.Name)
		})
		i.logger.Debug().
			Str("container", snapshot.Name).
			Str("network", attachment.Name).
			Str("address", attachment.Address).
			Strs("hostnames", hostnames).
			Msg("Extracted host entries")
		return entries, nil
	}

	i.logger.Debug().Str("container", snapshot.Name).Msg("Container has no addressed networks")
	return nil, nil
}
