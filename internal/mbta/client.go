package mbta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/awaikar-syr/departby/internal/logging"
	"github.com/awaikar-syr/departby/internal/models"
)

// DefaultBaseURL is the public MBTA v3 API endpoint.
const DefaultBaseURL = "https://api-v3.mbta.com"

// maxBodySize caps feed responses. A predictions response for a single
// stop is a few KB; anything near this limit is a broken upstream.
const maxBodySize = 5 * 1024 * 1024

// newFeedHTTPClient builds a dedicated HTTP client with explicit timeouts
// and transport limits, avoiding the pitfalls of http.DefaultClient (no
// timeout, shared global state). The transport is cloned from
// http.DefaultTransport to preserve its proxy, dialer, and HTTP/2 defaults.
func newFeedHTTPClient() *http.Client {
	var transport *http.Transport
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		transport = t.Clone()
	} else {
		transport = &http.Transport{}
	}
	transport.MaxIdleConns = 20
	transport.MaxIdleConnsPerHost = 5
	transport.IdleConnTimeout = 90 * time.Second
	transport.TLSHandshakeTimeout = 10 * time.Second

	return &http.Client{
		// Absolute safety net per request. Callers also pass a context
		// with its own deadline; the stricter of the two wins.
		Timeout:   10 * time.Second,
		Transport: transport,
	}
}

// Client fetches predictions from the MBTA v3 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL;
// apiKey may be empty for anonymous (rate-limited) access.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newFeedHTTPClient(),
		logger:     logger.With(slog.String("component", "mbta_client")),
	}
}

// GetPredictions fetches predictions for the station, route, and
// direction in s, with stop, vehicle, and trip records included. The
// upstream sorts by departure time; that order is preserved.
func (c *Client) GetPredictions(ctx context.Context, s models.Settings) (*PredictionsResponse, error) {
	q := url.Values{}
	q.Set("filter[stop]", s.StationID)
	q.Set("filter[route]", s.RouteID)
	q.Set("filter[direction_id]", fmt.Sprintf("%d", s.DirectionID))
	q.Set("include", "stop,vehicle,trip")
	q.Set("sort", "departure_time")

	endpoint := fmt.Sprintf("%s/predictions?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute predictions request: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "http_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predictions fetch failed: %s returned %s", c.baseURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, fmt.Errorf("predictions response exceeds size limit of %d bytes", maxBodySize)
	}

	var out PredictionsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode predictions response: %w", err)
	}
	return &out, nil
}
