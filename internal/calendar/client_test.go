package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func newTestClient(t *testing.T, server *httptest.Server, baseURL string) *Client {
	t.Helper()

	client, err := NewClient(context.Background(), server.Client(), baseURL)
	require.NoError(t, err)
	return client
}

func TestCreateEventSendsGoogleShape(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/team@example.com/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt-1"}`))
	}))
	defer server.Close()

	stockholm := time.FixedZone("CET", 3600)
	id, err := newTestClient(t, server, server.URL).CreateEvent(context.Background(), "team@example.com", Event{
		Summary:     "Acme - Camera",
		Description: "  night shoot  ",
		Start:       time.Date(2024, time.March, 1, 22, 0, 0, 0, stockholm),
		End:         time.Date(2024, time.March, 2, 2, 0, 0, 0, stockholm),
		TimeZone:    "Europe/Stockholm",
	})

	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)
	assert.Equal(t, "Acme - Camera", got["summary"])
	assert.Equal(t, "night shoot", got["description"])
	assert.Equal(t, map[string]any{"dateTime": "2024-03-01T22:00:00+01:00", "timeZone": "Europe/Stockholm"}, got["start"])
}

func TestDeleteEventTreatsMissingAsDeleted(t *testing.T) {
	statuses := []int{http.StatusNoContent, http.StatusGone, http.StatusNotFound}
	for _, status := range statuses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/calendars/primary/events/evt-9", r.URL.Path)
			w.WriteHeader(status)
		}))
		err := newTestClient(t, server, server.URL+"/").DeleteEvent(context.Background(), "primary", "evt-9")
		server.Close()
		assert.NoError(t, err, "status %d", status)
	}
}

func TestDeleteEventSurfacesOtherFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := newTestClient(t, server, server.URL).DeleteEvent(context.Background(), "primary", "evt-9")
	require.Error(t, err)
	assert.False(t, IsGone(err))
}

func TestAPIErrorsCarryGoogleMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Insufficient Permission"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server, server.URL).CreateCalendar(context.Background(), "Freelancer Admin App", "Europe/Stockholm")

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Code)
	assert.Equal(t, "Insufficient Permission", apiErr.Message)
}

func TestCreateCalendar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Freelancer Admin App", body["summary"])
		assert.Equal(t, "Europe/Stockholm", body["timeZone"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cal-123@group.calendar.google.com"}`))
	}))
	defer server.Close()

	id, err := newTestClient(t, server, server.URL).CreateCalendar(context.Background(), "Freelancer Admin App", "Europe/Stockholm")
	require.NoError(t, err)
	assert.Equal(t, "cal-123@group.calendar.google.com", id)
}

func TestNewClientRequiresHTTPClient(t *testing.T) {
	_, err := NewClient(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
