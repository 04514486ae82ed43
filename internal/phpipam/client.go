// Package phpipam reads and writes address records in a phpIPAM instance
// through its REST API. Authentication exchanges the app id and code for
// a short-lived token carried on every subsequent request.
package phpipam

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jfenner/leasesync/internal/transport"
	"github.com/jfenner/leasesync/pkg/errors"
	"github.com/jfenner/leasesync/pkg/hosts"
)

const (
	system = "phpipam"

	// tokenHeader is the header phpIPAM expects the session token on.
	tokenHeader = "phpipam-token"
)

// Address is an existing phpIPAM address record. ID is opaque to this
// tool and passed through unchanged when targeting updates; phpIPAM
// returns it as either a number or a string depending on version.
type Address struct {
	ID       json.Number `json:"id"`
	IP       string      `json:"ip"`
	MAC      string      `json:"mac"`
	Hostname string      `json:"hostname"`
}

// Client talks to the phpIPAM API for one application id.
type Client struct {
	baseURL string

	// authHTTP carries the app-id/app-code basic auth used only for the
	// token handshake; api carries the token for everything after it.
	authHTTP *transport.Client
	api      *transport.Client
	token    *transport.TokenAuth

	logger zerolog.Logger
}

// New creates a phpIPAM client. scheme must be "http" or "https",
// validated upstream at configuration load.
func New(scheme, host, appID, appCode string, logger zerolog.Logger) *Client {
	token := &transport.TokenAuth{Header: tokenHeader}
	return &Client{
		baseURL:  fmt.Sprintf("%s://%s/api/%s", scheme, host, appID),
		authHTTP: transport.New(&transport.BasicAuth{Username: appID, Password: appCode}),
		api:      transport.New(token),
		token:    token,
		logger:   logger.With().Str("system", system).Logger(),
	}
}

// tokenResponse is the payload of the user authentication endpoint.
type tokenResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// addressesResponse is the payload of the subnet addresses endpoint.
type addressesResponse struct {
	Data []Address `json:"data"`
}

// createRequest is the body of an address creation.
type createRequest struct {
	SubnetID string `json:"subnetId"`
	IP       string `json:"ip"`
	MAC      string `json:"mac"`
	Hostname string `json:"hostname"`
}

// updateRequest is the body of an address update. IP and subnet are not
// re-sent; the record id in the URL targets the write.
type updateRequest struct {
	MAC      string `json:"mac"`
	Hostname string `json:"hostname"`
}

// Authenticate exchanges the app credentials for a session token. A 2xx
// response without a token is a distinct fatal authentication failure.
func (c *Client) Authenticate(ctx context.Context) error {
	endpoint := c.baseURL + "/user/"

	resp, err := c.authHTTP.PostJSON(ctx, endpoint, nil)
	if err != nil {
		return errors.WrapAPI(system, endpoint, err)
	}

	var payload tokenResponse
	if err := transport.DecodeResponse(resp, &payload, system, endpoint); err != nil {
		return err
	}

	if payload.Data.Token == "" {
		return &errors.AuthenticationError{
			System:  system,
			Method:  "app_code",
			Message: "no token in response",
		}
	}

	c.token.Token = payload.Data.Token
	c.logger.Debug().Msg("Authenticated against phpIPAM")
	return nil
}

// Addresses returns the existing address records of a subnet keyed by IP.
// A not-found response means the subnet has no addresses yet and yields
// an empty map, not an error. Records without an IP are skipped.
func (c *Client) Addresses(ctx context.Context, subnetID string) (map[string]Address, error) {
	endpoint := fmt.Sprintf("%s/subnets/%s/addresses/", c.baseURL, subnetID)

	resp, err := c.api.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(system, endpoint, err)
	}

	var payload addressesResponse
	if err := transport.DecodeResponse(resp, &payload, system, endpoint); err != nil {
		if errors.IsNotFound(err) {
			c.logger.Debug().Str("subnet", subnetID).Msg("Subnet has no addresses yet")
			return map[string]Address{}, nil
		}
		return nil, err
	}

	existing := make(map[string]Address, len(payload.Data))
	for _, addr := range payload.Data {
		if addr.IP == "" {
			continue
		}
		existing[addr.IP] = addr
	}

	c.logger.Debug().Int("count", len(existing)).Str("subnet", subnetID).Msg("Fetched existing addresses")
	return existing, nil
}

// Create adds a new address record to the subnet.
func (c *Client) Create(ctx context.Context, subnetID string, h hosts.Host) error {
	endpoint := c.baseURL + "/addresses/"

	resp, err := c.api.PostJSON(ctx, endpoint, createRequest{
		SubnetID: subnetID,
		IP:       h.IP,
		MAC:      h.MAC,
		Hostname: h.Hostname,
	})
	if err != nil {
		return errors.WrapAPI(system, endpoint, err)
	}

	return transport.DecodeResponse(resp, nil, system, endpoint)
}

// Update rewrites the mac and hostname of an existing address record.
func (c *Client) Update(ctx context.Context, id string, h hosts.Host) error {
	endpoint := fmt.Sprintf("%s/addresses/%s/", c.baseURL, id)

	resp, err := c.api.PutJSON(ctx, endpoint, updateRequest{
		MAC:      h.MAC,
		Hostname: h.Hostname,
	})
	if err != nil {
		return errors.WrapAPI(system, endpoint, err)
	}

	return transport.DecodeResponse(resp, nil, system, endpoint)
}
