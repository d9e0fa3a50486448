package restapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaikar-syr/departby/internal/app"
	"github.com/awaikar-syr/departby/internal/appconf"
	"github.com/awaikar-syr/departby/internal/clock"
	"github.com/awaikar-syr/departby/internal/countdown"
	"github.com/awaikar-syr/departby/internal/feed"
	"github.com/awaikar-syr/departby/internal/logging"
	"github.com/awaikar-syr/departby/internal/mbta"
	"github.com/awaikar-syr/departby/internal/metrics"
	"github.com/awaikar-syr/departby/internal/settings"
)

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

// feedBody renders an upstream predictions response with one southbound
// Braintree train per offset, departing that many minutes after testNow,
// each with a vehicle in transit to South Station.
func feedBody(offsets ...int) string {
	var data []string
	for i, offset := range offsets {
		departure := testNow.Add(time.Duration(offset) * time.Minute).Format(time.RFC3339)
		data = append(data, fmt.Sprintf(`{
			"id": "pred-%d",
			"type": "prediction",
			"attributes": {"departure_time": %q, "direction_id": 0},
			"relationships": {
				"vehicle": {"data": {"id": "veh-%d", "type": "vehicle"}},
				"trip": {"data": {"id": "trip-1", "type": "trip"}}
			}
		}`, i, departure, i))
	}
	var included []string
	for i := range offsets {
		included = append(included, fmt.Sprintf(
			`{"id": "veh-%d", "type": "vehicle", "attributes": {"current_stop_sequence": 100, "current_status": "IN_TRANSIT_TO"}}`, i))
	}
	included = append(included, `{"id": "trip-1", "type": "trip", "attributes": {"headsign": "Braintree"}}`)

	return fmt.Sprintf(`{"data": [%s], "included": [%s]}`,
		strings.Join(data, ","), strings.Join(included, ","))
}

type testServer struct {
	api     *RestAPI
	mux     *http.ServeMux
	clock   *clock.MockClock
	store   *settings.Store
	manager *feed.Manager
	engine  *countdown.Engine
}

// createTestAPI wires a full API over an in-memory settings store and a
// stubbed upstream. A nil feedHandler serves an empty feed.
func createTestAPI(t *testing.T, cfg appconf.Config, feedHandler http.HandlerFunc) *testServer {
	t.Helper()

	if feedHandler == nil {
		feedHandler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": [], "included": []}`))
		}
	}
	upstream := httptest.NewServer(feedHandler)
	t.Cleanup(upstream.Close)

	store, err := settings.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mock := clock.NewMockClock(testNow)
	logger := logging.NewLogger(false)
	m := metrics.New()
	client := mbta.NewClient(upstream.URL, "", logger)
	manager := feed.NewManager(client, store, mock, logger, m, time.Minute)
	engine := countdown.NewEngine(mock)
	manager.OnUpdate(feed.CountdownRetargeter(engine))

	application := &app.Application{
		Config:      cfg,
		Logger:      logger,
		Clock:       mock,
		Metrics:     m,
		Settings:    store,
		FeedManager: manager,
		Countdown:   engine,
	}

	api := NewRestAPI(application)
	mux := http.NewServeMux()
	api.SetRoutes(mux)
	t.Cleanup(api.Shutdown)

	return &testServer{
		api:     api,
		mux:     mux,
		clock:   mock,
		store:   store,
		manager: manager,
		engine:  engine,
	}
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.ResponseModel with the payload left raw so
// each test can decode it into the expected shape.
type envelope struct {
	Code        int             `json:"code"`
	CurrentTime int64           `json:"currentTime"`
	Data        json.RawMessage `json:"data"`
	Text        string          `json:"text"`
	Version     int             `json:"version"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSetRoutesMethodsAndPaths(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	okPaths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/departby/predictions.json"},
		{http.MethodGet, "/api/departby/route-map.json"},
		{http.MethodGet, "/api/departby/countdown.json"},
		{http.MethodGet, "/api/departby/settings.json"},
		{http.MethodGet, "/api/departby/current-time.json"},
		{http.MethodGet, "/api/departby/health.json"},
		{http.MethodGet, "/metrics"},
	}
	for _, tc := range okPaths {
		rec := ts.serve(httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := ts.serve(httptest.NewRequest(http.MethodPost, "/api/departby/predictions.json", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/nope.json", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResponseEnvelope(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/current-time.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, "OK", env.Text)
	assert.Equal(t, 2, env.Version)
	assert.Equal(t, testNow.UnixMilli(), env.CurrentTime)
}

func TestLiveEndpointsDisableCaching(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestRequestIDOnResponses(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/current-time.json", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/departby/current-time.json", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec = ts.serve(req)
	assert.Equal(t, "client-supplied-id", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpointExposesApplicationMetrics(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	// Drive one API request so the HTTP counters have a sample.
	ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/current-time.json", nil))

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "departby_http_requests_total")
}

func TestRateLimitExceeded(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{RateLimit: 1}, nil)

	first := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/current-time.json", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/current-time.json", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRateLimitExemptKeys(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{RateLimit: 1, ApiKeys: []string{"exempt-key"}}, nil)

	for i := 0; i < 5; i++ {
		rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/current-time.json?key=exempt-key", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
