package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ideaspark/wireframe/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:        dir,
		DatabasePath:   filepath.Join(dir, "test.db"),
		AssetDir:       filepath.Join(dir, "assets"),
		AllowedOrigins: "http://localhost:5173",
	}
	s, err := New(cfg, config.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/documents", strings.NewReader(`{"name":"Home","template":"hero"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	var doc struct {
		ID string `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&doc)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/snapshots/latest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("latest = %d", rec.Code)
	}
	snapshot := rec.Body.String()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/export/code?name=Home", strings.NewReader(snapshot)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "function Home") {
		t.Errorf("export code = %d %s", rec.Code, rec.Body)
	}
}

func TestPreflight(t *testing.T) {
	h := newTestServer(t).Handler()
	req := httptest.NewRequest("OPTIONS", "/api/documents", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestInvalidSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.HistoryCapacity = 0
	dir := t.TempDir()
	if _, err := New(&config.Config{DatabasePath: filepath.Join(dir, "x.db")}, settings); err == nil {
		t.Error("New() accepted invalid settings")
	}
}
