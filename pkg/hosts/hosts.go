// Package hosts defines the host inventory model and the merge logic that
// combines DHCP lease and ARP observations into one canonical view per IP.
package hosts

import "strings"

// Observation is a single raw host sighting from one of the firewall's
// tables, normalized to the three fields this tool cares about. An
// observation without an IP carries no actionable information.
type Observation struct {
	IP       string
	MAC      string
	Hostname string
}

// Host is the canonical reconciled view of one IP after merging lease and
// ARP observations. At most one Host exists per IP per run.
type Host struct {
	IP       string
	MAC      string
	Hostname string
}

// Merge combines lease and ARP observations into a mapping keyed by IP.
//
// ARP entries populate the map first; lease entries then overwrite whole
// records for any IP present in both, so lease-derived mac and hostname
// always win. ARP carries no hostname, so ARP-only IPs end up with an
// empty hostname. Observations whose IP is empty after trimming are
// dropped silently.
func Merge(leases, arp []Observation) map[string]Host {
	merged := make(map[string]Host)

	for _, o := range arp {
		ip := strings.TrimSpace(o.IP)
		if ip == "" {
			continue
		}
		merged[ip] = Host{
			IP:  ip,
			MAC: strings.TrimSpace(o.MAC),
		}
	}

	for _, o := range leases {
		ip := strings.TrimSpace(o.IP)
		if ip == "" {
			continue
		}
		merged[ip] = Host{
			IP:       ip,
			MAC:      strings.TrimSpace(o.MAC),
			Hostname: strings.TrimSpace(o.Hostname),
		}
	}

	return merged
}
