package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingerMock struct {
	err   error
	calls int
}

func (m *pingerMock) Ping(_ context.Context) error {
	m.calls++
	return m.err
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("test-version", Component{Name: "database", Pinger: &pingerMock{err: errors.New("down")}})

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestReady_AllUp(t *testing.T) {
	t.Parallel()

	db, sessions := &pingerMock{}, &pingerMock{}
	h := NewHealthHandler("v", Component{"database", db}, Component{"sessions", sessions})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if db.calls != 1 || sessions.calls != 1 {
		t.Errorf("expected each component pinged once, got db=%d sessions=%d", db.calls, sessions.calls)
	}
}

func TestReady_ComponentDown(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("v",
		Component{"database", &pingerMock{}},
		Component{"sessions", &pingerMock{err: errors.New("connection refused")}},
	)

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp.Status != "down" {
		t.Errorf("expected status 'down', got %q", resp.Status)
	}
}

func TestHealth_ReportsComponents(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("1.2.3",
		Component{"database", &pingerMock{}},
		Component{"sessions", &pingerMock{err: errors.New("timeout")}},
	)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	resp := decode(t, rec)
	if resp.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", resp.Version)
	}
	db, ok := resp.Components["database"]
	if !ok || db.Status != "ok" || db.Latency == "" {
		t.Errorf("unexpected database status: %+v", db)
	}
	if s := resp.Components["sessions"]; s.Status != "down" {
		t.Errorf("expected sessions down, got %+v", s)
	}
}

func TestHealth_AllUp(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("v", Component{"database", &pingerMock{}})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHealthHandler("v", Component{"database", &pingerMock{}}).Routes())
	defer srv.Close()

	for _, path := range []string{"/live", "/ready", "/health"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Post(srv.URL+"/live", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST /live: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /live: expected 405, got %d", resp.StatusCode)
	}
}
