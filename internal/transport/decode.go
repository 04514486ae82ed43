package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jfenner/leasesync/pkg/errors"
	"github.com/jfenner/leasesync/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure.
// A non-2xx status becomes an *errors.APIError carrying the status code
// and response body; a 404 satisfies errors.Is(err, errors.ErrNotFound)
// so callers can tolerate it where the remote contract allows. A nil
// target checks the status and discards the body.
func DecodeResponse(resp *http.Response, target any, system, endpoint string) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapAPI(system, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			System:     system,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    string(body),
		}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}

	return nil
}
