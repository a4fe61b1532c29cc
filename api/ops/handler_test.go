package ops

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityshield/dispatch/core/dispatch"
	"github.com/communityshield/dispatch/core/events"
	"github.com/communityshield/dispatch/core/fleet"
	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/internal/eventbus"
)

type nopLog struct{}

func (nopLog) Debugf(string, ...any)         {}
func (nopLog) Debugw(string, map[string]any) {}
func (nopLog) Infof(string, ...any)          {}
func (nopLog) Warnf(string, ...any)          {}
func (nopLog) Errorf(string, ...any)         {}

func ptr(f float64) *float64 { return &f }

func seed(t *testing.T) (*dispatch.Policy, incident.Store) {
	t.Helper()
	reg := fleet.NewMemoryRegistry([]model.PatrolUnit{
		{ID: "U-001", Name: "Alpha 1", Lat: -1.28, Lng: 36.82},
	})
	store := incident.NewMemoryStore()
	_, err := store.Create(incident.CreateParams{
		ID:        "INC-1",
		Type:      "Robbery",
		Location:  "CBD",
		Lat:       ptr(-1.282),
		Lng:       ptr(36.821),
		Severity:  model.SeverityHigh,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	policy, err := dispatch.NewPolicy(reg, store, nil, nil, nopLog{})
	require.NoError(t, err)
	return policy, store
}

func TestDispatchHandler(t *testing.T) {
	policy, store := seed(t)
	h := NewDispatchHandler(policy)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dispatch", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status     string `json:"status"`
		Dispatched int    `json:"dispatched"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Dispatched)

	inc, err := store.Get("INC-1")
	require.NoError(t, err)
	assert.Equal(t, model.IncidentAssigned, inc.Status)
}

func TestDispatchHandlerMethodNotAllowed(t *testing.T) {
	policy, _ := seed(t)
	h := NewDispatchHandler(policy)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dispatch", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEmergencyHandler(t *testing.T) {
	_, store := seed(t)
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.SubscribeBuffered(1)

	h := NewEmergencyHandler(store, bus)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/emergency", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Escalated int `json:"escalated"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Escalated)

	inc, err := store.Get("INC-1")
	require.NoError(t, err)
	assert.Equal(t, model.SeverityCritical, inc.Severity)

	select {
	case e := <-sub:
		esc, ok := e.(events.EscalationEvent)
		require.True(t, ok)
		assert.Equal(t, 1, esc.Escalated)
	case <-time.After(time.Second):
		t.Fatal("no escalation event published")
	}
}

func TestMapZoomHandler(t *testing.T) {
	h := NewMapZoomHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/map/zoom/westlands", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view MapView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "westlands", view.Location)
	assert.Equal(t, -1.2635, view.Lat)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/map/zoom/cbd", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, -1.2834, view.Lat)
	assert.Equal(t, 36.8235, view.Lng)
	assert.Equal(t, 15, view.Zoom)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/map/zoom/kibera", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, -1.3120, view.Lat)
	assert.Equal(t, 36.7890, view.Lng)
	assert.Equal(t, 15, view.Zoom)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/map/zoom/atlantis", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/map/zoom/cbd", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
