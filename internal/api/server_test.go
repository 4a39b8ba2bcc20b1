package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"farmstead/internal/game"
	"farmstead/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := game.NewService(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, playerID string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestMissingIdentityHeader(t *testing.T) {
	ts := newTestServer(t)
	status, _ := call(t, ts, http.MethodGet, "/v1/profile", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("status: %d", status)
	}
}

func TestRegisterFarmProfile(t *testing.T) {
	ts := newTestServer(t)

	status, out := call(t, ts, http.MethodPost, "/v1/register", "p1", map[string]any{"display_name": "Alice"})
	if status != http.StatusCreated {
		t.Fatalf("register status: %d body: %v", status, out)
	}

	status, out = call(t, ts, http.MethodPost, "/v1/register", "p1", map[string]any{"display_name": "Alice"})
	if status != http.StatusOK {
		t.Fatalf("repeat register status: %d body: %v", status, out)
	}

	status, out = call(t, ts, http.MethodPost, "/v1/farm", "p1", nil)
	if status != http.StatusOK {
		t.Fatalf("farm status: %d body: %v", status, out)
	}
	if _, ok := out["gains"]; !ok {
		t.Fatalf("farm response missing gains: %v", out)
	}

	status, out = call(t, ts, http.MethodGet, "/v1/profile", "p1", nil)
	if status != http.StatusOK {
		t.Fatalf("profile status: %d", status)
	}
	if out["display_name"] != "Alice" {
		t.Fatalf("profile: %v", out)
	}
}

func TestFarmCooldownStatus(t *testing.T) {
	ts := newTestServer(t)
	call(t, ts, http.MethodPost, "/v1/register", "p1", nil)

	if status, _ := call(t, ts, http.MethodPost, "/v1/farm", "p1", nil); status != http.StatusOK {
		t.Fatalf("first farm status: %d", status)
	}
	status, out := call(t, ts, http.MethodPost, "/v1/farm", "p1", nil)
	if status != http.StatusTooManyRequests {
		t.Fatalf("cooldown status: %d body: %v", status, out)
	}
}

func TestUnregisteredPlayer(t *testing.T) {
	ts := newTestServer(t)
	status, _ := call(t, ts, http.MethodPost, "/v1/farm", "ghost", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status: %d", status)
	}
}

func TestGamblingGateStatus(t *testing.T) {
	ts := newTestServer(t)
	call(t, ts, http.MethodPost, "/v1/register", "p1", nil)

	status, _ := call(t, ts, http.MethodPost, "/v1/gamble", "p1", map[string]any{"stake": 100})
	if status != http.StatusForbidden {
		t.Fatalf("plinko gate status: %d", status)
	}

	status, _ = call(t, ts, http.MethodGet, "/v1/leaderboard/charisma", "p1", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("bad category status: %d", status)
	}
}
