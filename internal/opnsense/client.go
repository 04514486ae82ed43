// Package opnsense fetches raw host observations from an OPNsense
// firewall: the DHCPv4 lease table and the ARP cache.
package opnsense

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jfenner/leasesync/internal/transport"
	"github.com/jfenner/leasesync/pkg/errors"
	"github.com/jfenner/leasesync/pkg/hosts"
)

const system = "opnsense"

// Client talks to the OPNsense API with key/secret basic auth.
type Client struct {
	baseURL string
	http    *transport.Client
	logger  zerolog.Logger
}

// New creates an OPNsense client for the given host. tlsCfg may be nil
// for default verification.
func New(host, key, secret string, tlsCfg *tls.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://" + host,
		http: transport.New(
			&transport.BasicAuth{Username: key, Password: secret},
			transport.WithTLSConfig(tlsCfg),
		),
		logger: logger.With().Str("system", system).Logger(),
	}
}

// leaseRow is one entry of the lease search response.
type leaseRow struct {
	Address  string `json:"address"`
	MAC      string `json:"mac"`
	Hostname string `json:"hostname"`
}

// leasesResponse is the payload of the lease search endpoint. A missing
// rows field decodes to nil and is treated as no leases.
type leasesResponse struct {
	Rows []leaseRow `json:"rows"`
}

// arpEntry is one entry of the ARP table response.
type arpEntry struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

// Leases returns the active DHCPv4 leases as host observations.
func (c *Client) Leases(ctx context.Context) ([]hosts.Observation, error) {
	endpoint := c.baseURL + "/api/dhcpv4/leases/searchLease"

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(system, endpoint, err)
	}

	var payload leasesResponse
	if err := transport.DecodeResponse(resp, &payload, system, endpoint); err != nil {
		return nil, err
	}

	observations := make([]hosts.Observation, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		observations = append(observations, hosts.Observation{
			IP:       row.Address,
			MAC:      row.MAC,
			Hostname: row.Hostname,
		})
	}

	c.logger.Debug().Int("count", len(observations)).Msg("Fetched DHCP leases")
	return observations, nil
}

// ARPTable returns the firewall's ARP cache as host observations. ARP
// carries no hostname. A response body that is not a JSON array is
// tolerated as an empty table, with a diagnostic, rather than an error.
func (c *Client) ARPTable(ctx context.Context) ([]hosts.Observation, error) {
	endpoint := c.baseURL + "/api/diagnostics/interface/getArp"

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(system, endpoint, err)
	}

	var entries []arpEntry
	if err := transport.DecodeResponse(resp, &entries, system, endpoint); err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			// Some firmware versions answer with an object here. Indistinguishable
			// from an empty table for our purposes, but worth a diagnostic.
			c.logger.Warn().Str("endpoint", endpoint).Msg("ARP response is not an array, treating as empty")
			return nil, nil
		}
		return nil, err
	}

	observations := make([]hosts.Observation, 0, len(entries))
	for _, e := range entries {
		observations = append(observations, hosts.Observation{
			IP:  e.IP,
			MAC: e.MAC,
		})
	}

	c.logger.Debug().Int("count", len(observations)).Msg("Fetched ARP table")
	return observations, nil
}

// String identifies the client in logs.
func (c *Client) String() string {
	return fmt.Sprintf("opnsense(%s)", c.baseURL)
}
