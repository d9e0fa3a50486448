package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaikar-syr/departby/internal/appconf"
	"github.com/awaikar-syr/departby/internal/countdown"
)

func TestCountdownNoTarget(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/countdown.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data CountdownData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Nil(t, data.Target)
	assert.True(t, data.Countdown.IsExpired)
}

func TestCountdownTracksHeroDeadline(t *testing.T) {
	// One train 8 minutes out; with the default 6-minute walk the
	// depart-by instant is 2 minutes away.
	ts := createTestAPI(t, appconf.Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody(8)))
	})
	require.NoError(t, ts.manager.Refresh(context.Background()))

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/countdown.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data CountdownData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	require.NotNil(t, data.Target)
	assert.Equal(t, testNow.Add(2*time.Minute).Format(time.RFC3339), *data.Target)
	assert.Equal(t, int64(120), data.Countdown.TotalSeconds)
	assert.Equal(t, 2, data.Countdown.Minutes)
	assert.False(t, data.Countdown.IsExpired)
	assert.Equal(t, countdown.UrgencyLeavingSoon, data.Urgency)
}

func TestCountdownUrgencyAfterDeadline(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody(8)))
	})
	require.NoError(t, ts.manager.Refresh(context.Background()))

	// 150 seconds later the deadline is 30 seconds gone: still "now".
	ts.clock.Advance(150 * time.Second)
	target := ts.engine.Target()
	ts.engine.SetTarget(target)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/countdown.json", nil))
	var data CountdownData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, int64(-30), data.Countdown.TotalSeconds)
	assert.True(t, data.Countdown.IsExpired)
	assert.Equal(t, countdown.UrgencyNow, data.Urgency)
}
