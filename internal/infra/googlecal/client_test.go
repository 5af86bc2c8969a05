//go:build unit

package googlecal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/googlecal"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*googlecal.Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := googlecal.NewClient(config.CalendarConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	return client, srv
}

func TestFetchEventsInRange(t *testing.T) {
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	t.Run("returns busy windows and skips cancelled items", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/calendars/grill@example.org/events", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
			assert.Equal(t, start.Format(time.RFC3339), r.URL.Query().Get("timeMin"))
			assert.Equal(t, end.Format(time.RFC3339), r.URL.Query().Get("timeMax"))

			payload := map[string]any{
				"items": []map[string]any{
					{
						"id":    "evt-1",
						"start": map[string]any{"dateTime": start.Format(time.RFC3339)},
						"end":   map[string]any{"dateTime": start.Add(time.Hour).Format(time.RFC3339)},
					},
					{
						"id":     "evt-2",
						"status": "cancelled",
						"start":  map[string]any{"dateTime": start.Format(time.RFC3339)},
						"end":    map[string]any{"dateTime": end.Format(time.RFC3339)},
					},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(payload))
		})
		defer srv.Close()

		windows, err := client.FetchEventsInRange(context.Background(), "grill@example.org", start, end)

		require.NoError(t, err)
		require.Len(t, windows, 1)
		assert.Equal(t, "grill@example.org", windows[0].CalendarID)
		assert.True(t, windows[0].Window.Start().Equal(start))
	})

	t.Run("maps server errors to external failures", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "backend exploded", http.StatusInternalServerError)
		})
		defer srv.Close()

		_, err := client.FetchEventsInRange(context.Background(), "grill@example.org", start, end)
		assert.True(t, infra.IsKind(err, infra.KindExternalFailure))
	})
}

func TestInsertEvent(t *testing.T) {
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/grill@example.org/events", r.URL.Path)

		var res map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&res))
		assert.Equal(t, "Grill", res["summary"])
		attendees, ok := res["attendees"].([]any)
		require.True(t, ok)
		require.Len(t, attendees, 1)

		res["id"] = "ext-evt-9"
		require.NoError(t, json.NewEncoder(w).Encode(res))
	})
	defer srv.Close()

	ext, err := client.InsertEvent(context.Background(), "grill@example.org", commands.ExternalEventBody{
		Summary:       "Grill",
		Description:   "Name: Jan Novak",
		Start:         start,
		End:           start.Add(2 * time.Hour),
		TimeZone:      "Europe/Prague",
		AttendeeEmail: "jnovak@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "ext-evt-9", ext.ID)
	assert.Equal(t, "Grill", ext.Summary)
	assert.True(t, ext.Start.Equal(start))
}

func TestGetEvent(t *testing.T) {
	t.Run("missing event maps to not found", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		defer srv.Close()

		_, err := client.GetEvent(context.Background(), "grill@example.org", "missing")
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestDeleteEvent(t *testing.T) {
	var gotPath string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	require.NoError(t, client.DeleteEvent(context.Background(), "grill@example.org", "evt-1"))
	assert.Equal(t, "/calendars/grill@example.org/events/evt-1", gotPath)
}

func TestCreateCalendar(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars", r.URL.Path)

		var res map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&res))
		assert.Equal(t, "Grill", res["summary"])

		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"id":      "new-cal@example.org",
			"summary": "Grill",
		}))
	})
	defer srv.Close()

	id, err := client.CreateCalendar(context.Background(), "Grill")
	require.NoError(t, err)
	assert.Equal(t, "new-cal@example.org", id)
}

func TestCheckCalendarAccess(t *testing.T) {
	t.Run("accessible", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"id": "cal"}))
		})
		defer srv.Close()
		assert.NoError(t, client.CheckCalendarAccess(context.Background(), "cal@example.org"))
	})

	t.Run("unknown calendar", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		defer srv.Close()

		err := client.CheckCalendarAccess(context.Background(), "cal@example.org")
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
