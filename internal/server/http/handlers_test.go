package internalhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louro2023/agendaflow/internal/app"
	"github.com/louro2023/agendaflow/internal/schedule"
	"github.com/louro2023/agendaflow/internal/storage"
	memorystorage "github.com/louro2023/agendaflow/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	a := app.New(memorystorage.New(), schedule.Validator{}, nil)
	return NewServer(Config{Host: "127.0.0.1", Port: 0}, a)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func createTestEvent(t *testing.T, s *Server, date, clock string) storage.Event {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/api/events",
		`{"title":"Feira","description":"Feira de ciências","date":"`+date+`","time":"`+clock+`","requesterId":"u1","requesterName":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var e storage.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestCreateEventHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := newTestServer(t)
		e := createTestEvent(t, s, "2024-06-10", "10:00")
		require.NotEmpty(t, e.ID)
		require.Equal(t, storage.Pending, e.Status)
		require.Equal(t, "10:00", e.Clock.String())
	})

	t.Run("conflict returns 409 with details", func(t *testing.T) {
		s := newTestServer(t)
		first := createTestEvent(t, s, "2024-06-10", "10:00")

		rec := doRequest(t, s, http.MethodPost, "/api/events",
			`{"title":"Outro","date":"2024-06-10","time":"10:30"}`)
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp conflictResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 30, resp.GapMinutes)
		require.Equal(t, first.ID, resp.ConflictingEvent.ID)
		require.Contains(t, resp.Error, "30 minutos")
		require.Contains(t, resp.Error, "Feira")
	})

	t.Run("malformed date", func(t *testing.T) {
		s := newTestServer(t)
		rec := doRequest(t, s, http.MethodPost, "/api/events",
			`{"title":"Feira","date":"10/06/2024","time":"10:00"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed time", func(t *testing.T) {
		s := newTestServer(t)
		rec := doRequest(t, s, http.MethodPost, "/api/events",
			`{"title":"Feira","date":"2024-06-10","time":"25:99"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventListingHandlers(t *testing.T) {
	s := newTestServer(t)
	createTestEvent(t, s, "2024-06-10", "08:00")
	createTestEvent(t, s, "2024-06-10", "14:00")
	createTestEvent(t, s, "2024-07-01", "08:00")

	t.Run("all", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/events", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var events []storage.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
		require.Len(t, events, 3)
	})

	t.Run("day", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/events/day?date=2024-06-10", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var events []storage.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
		require.Len(t, events, 2)
	})

	t.Run("day bad date", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/events/day?date=junk", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("month", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/events/month?month=2024-07", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var events []storage.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
		require.Len(t, events, 1)
	})
}

func TestEventDecisionHandler(t *testing.T) {
	s := newTestServer(t)
	e := createTestEvent(t, s, "2024-06-10", "10:00")

	t.Run("approve", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/api/events/"+e.ID+"/status", `{"status":"APPROVED"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var got storage.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, storage.Approved, got.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/api/events/"+e.ID+"/status", `{"status":"MAYBE"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/api/events/"+e.ID+"/status", `{"status":"PENDING"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing event", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/api/events/missing/status", `{"status":"APPROVED"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRemoveEventHandler(t *testing.T) {
	s := newTestServer(t)
	e := createTestEvent(t, s, "2024-06-10", "10:00")

	rec := doRequest(t, s, http.MethodDelete, "/api/events/"+e.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, "/api/events/"+e.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	s := newTestServer(t)
	_, err := s.app.CreateUser(context.Background(), storage.User{
		Name: "Admin", Email: "admin@demo.com", Password: "123", Role: storage.Admin, Active: true,
	})
	require.NoError(t, err)

	t.Run("success hides password", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/login", `{"email":"admin@demo.com","password":"123"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), `"password"`)
		var u storage.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
		require.Equal(t, storage.Admin, u.Role)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/login", `{"email":"admin@demo.com","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandlers(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/users",
		`{"name":"Maria","email":"maria@demo.com","password":"123","role":"COMMON","active":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var u storage.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	require.NotEmpty(t, u.ID)

	t.Run("duplicate email", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/users",
			`{"name":"Other","email":"maria@demo.com","password":"123","role":"COMMON"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("deactivate blocks login", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/api/users/"+u.ID+"/active", `{"active":false}`)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, s, http.MethodPost, "/api/login", `{"email":"maria@demo.com","password":"123"}`)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("list hides passwords", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/users", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), `"password"`)
	})
}

func TestSyncAndHealthHandlers(t *testing.T) {
	s := newTestServer(t)
	createTestEvent(t, s, "2024-06-10", "10:00")

	rec := doRequest(t, s, http.MethodGet, "/api/sync", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp syncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)

	rec = doRequest(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestExportICSHandler(t *testing.T) {
	s := newTestServer(t)
	approved := createTestEvent(t, s, "2024-06-10", "10:00")
	createTestEvent(t, s, "2024-06-11", "10:00") // stays pending

	rec := doRequest(t, s, http.MethodPut, "/api/events/"+approved.ID+"/status", `{"status":"APPROVED"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/export/ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")

	body := rec.Body.String()
	require.Contains(t, body, "BEGIN:VCALENDAR")
	require.Contains(t, body, "SUMMARY:Feira")
	// Only approved events are exported.
	require.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
}
