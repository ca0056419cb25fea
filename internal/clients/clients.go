// Package clients holds the HTTP clients for the external services the
// skill depends on: the ReCollect address directory, ArcGIS geocoding and
// feature servers, the distance-matrix API, the Alexa device-address API,
// Boston open-data endpoints, and the Slack feedback webhook.
//
// Every client is constructed from explicit configuration and shares one
// *http.Client; none of them reads the environment.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBadAPIResponse marks a non-success status or an unexpected payload
// shape from an external dependency. Handlers surface it as a generic
// "something went wrong" answer.
var ErrBadAPIResponse = errors.New("bad API response")

// getJSON issues a GET and decodes the JSON body into out. A non-200
// status is reported as ErrBadAPIResponse with the status attached.
func getJSON(ctx context.Context, httpc *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrBadAPIResponse, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadAPIResponse, err)
	}
	return nil
}

// decodeJSONBody decodes an already-received response body into out,
// mapping decode failures to ErrBadAPIResponse.
func decodeJSONBody(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadAPIResponse, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
