package hotspots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityshield/dispatch/core/hotspot"
)

func TestHandler(t *testing.T) {
	pred := hotspot.New(hotspot.DefaultZones(), nil, nil)
	h := NewHandler(pred)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hotspots", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []hotspot.Prediction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	for _, p := range list {
		assert.NotEmpty(t, p.Name)
		assert.Greater(t, p.RiskScore, 0.7)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/hotspots", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
