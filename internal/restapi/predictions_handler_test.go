package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaikar-syr/departby/internal/appconf"
	"github.com/awaikar-syr/departby/internal/models"
)

func TestPredictionsBeforeFirstPoll(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data models.PredictionsData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.NotNil(t, data.Predictions)
	assert.Empty(t, data.Predictions)
}

func TestPredictionsServesRankedSnapshot(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody(14, 8)))
	})
	require.NoError(t, ts.manager.Refresh(context.Background()))

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data models.PredictionsData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	require.Len(t, data.Predictions, 2)
	assert.Equal(t, 2, *data.Predictions[0].MinutesUntilDeparture)
	assert.Equal(t, 8, *data.Predictions[1].MinutesUntilDeparture)
	assert.Equal(t, "Braintree", *data.Predictions[0].Branch)
}

func TestPredictionsUnavailableBeforeFirstSuccess(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	require.Error(t, ts.manager.Refresh(context.Background()))

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "predictions unavailable", decodeEnvelope(t, rec).Text)
}

func TestPredictionsKeepServingAfterPollFailure(t *testing.T) {
	failing := false
	ts := createTestAPI(t, appconf.Config{}, func(w http.ResponseWriter, r *http.Request) {
		if failing {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(feedBody(8)))
	})

	require.NoError(t, ts.manager.Refresh(context.Background()))
	failing = true
	require.Error(t, ts.manager.Refresh(context.Background()))

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data models.PredictionsData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Len(t, data.Predictions, 1)
}

func TestPredictionsAPIKeyEnforcement(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{ApiKeys: []string{"valid-key"}}, nil)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "permission denied", decodeEnvelope(t, rec).Text)

	rec = ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json?key=wrong", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json?key=valid-key", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyNotEnforcedWhenUnconfigured(t *testing.T) {
	ts := createTestAPI(t, appconf.Config{}, nil)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/api/departby/predictions.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
