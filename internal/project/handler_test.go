package project

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/store"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	r := mux.NewRouter()
	NewHandler(NewService(db, "")).Routes(r.PathPrefix("/api").Subrouter())
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createDocument(t *testing.T, r http.Handler, body string) string {
	t.Helper()
	rec := do(r, "POST", "/api/documents", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var doc store.Document
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	return doc.ID
}

func TestCreateAndFetchDocument(t *testing.T) {
	r := newTestRouter(t)
	id := createDocument(t, r, `{"name":"Landing","device":"mobile","template":"header"}`)

	rec := do(r, "GET", "/api/documents/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = do(r, "GET", "/api/documents/"+id+"/snapshots/latest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("latest status = %d", rec.Code)
	}
	s, err := document.Deserialize(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if s.CanvasSize.Width != 375 || s.CanvasSize.Height != 667 {
		t.Errorf("canvas = %+v, want mobile", s.CanvasSize)
	}
	if len(s.Elements) != 1 {
		t.Errorf("len(Elements) = %d, want 1", len(s.Elements))
	}

	rec = do(r, "GET", "/api/documents", "")
	var docs []store.Document
	json.NewDecoder(rec.Body).Decode(&docs)
	if len(docs) != 1 || docs[0].Name != "Landing" {
		t.Errorf("list = %+v", docs)
	}
}

func TestCreateValidation(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"no name", `{"name":"  "}`, http.StatusBadRequest},
		{"unknown device", `{"name":"x","device":"watch"}`, http.StatusBadRequest},
		{"unknown template", `{"name":"x","template":"carousel"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(r, "POST", "/api/documents", tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSaveSnapshot(t *testing.T) {
	r := newTestRouter(t)
	id := createDocument(t, r, `{"name":"Doc"}`)

	rec := do(r, "POST", "/api/documents/"+id+"/snapshots", `{"elements":"nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid snapshot status = %d, want 400", rec.Code)
	}

	body := `{"schema":"wireframe","version":1,"canvasSize":{"width":375,"height":667},"elements":[]}`
	rec = do(r, "POST", "/api/documents/"+id+"/snapshots", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body)
	}
	var snap store.Snapshot
	json.NewDecoder(rec.Body).Decode(&snap)
	if snap.Version != 2 {
		t.Errorf("version = %d, want 2", snap.Version)
	}

	rec = do(r, "GET", "/api/documents/"+id+"/snapshots", "")
	var snaps []store.Snapshot
	json.NewDecoder(rec.Body).Decode(&snaps)
	if len(snaps) != 2 {
		t.Errorf("len(snapshots) = %d, want 2", len(snaps))
	}

	if rec := do(r, "POST", "/api/documents/doc_missing/snapshots", body); rec.Code != http.StatusNotFound {
		t.Errorf("unknown document status = %d, want 404", rec.Code)
	}
}

func TestDeleteDocument(t *testing.T) {
	r := newTestRouter(t)
	id := createDocument(t, r, `{"name":"Gone"}`)

	if rec := do(r, "DELETE", "/api/documents/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	for _, path := range []string{"/api/documents/" + id, "/api/documents/" + id + "/snapshots/latest"} {
		if rec := do(r, "GET", path, ""); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}
	if rec := do(r, "DELETE", "/api/documents/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSeedSitemap(t *testing.T) {
	r := newTestRouter(t)
	body := `{"name":"Home","children":[{"name":"Products"},{"name":"About Us"}]}`

	rec := do(r, "POST", "/api/sitemap", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var pages []SeededPage
	if err := json.NewDecoder(rec.Body).Decode(&pages); err != nil {
		t.Fatal(err)
	}
	wantPaths := []string{"/home", "/home/products", "/home/about-us"}
	if len(pages) != len(wantPaths) {
		t.Fatalf("len(pages) = %d, want %d", len(pages), len(wantPaths))
	}
	for i, p := range pages {
		if p.Path != wantPaths[i] {
			t.Errorf("pages[%d].Path = %q, want %q", i, p.Path, wantPaths[i])
		}
		if rec := do(r, "GET", "/api/documents/"+p.DocumentID+"/snapshots/latest", ""); rec.Code != http.StatusOK {
			t.Errorf("page %s snapshot status = %d", p.Name, rec.Code)
		}
	}

	if rec := do(r, "POST", "/api/sitemap", `[]`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty sitemap status = %d, want 400", rec.Code)
	}
}

func TestTemplates(t *testing.T) {
	r := newTestRouter(t)
	rec := do(r, "GET", "/api/templates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Templates   []string `json:"templates"`
		GridPresets []string `json:"gridPresets"`
	}
	json.NewDecoder(rec.Body).Decode(&got)
	if len(got.Templates) != 14 || len(got.GridPresets) == 0 {
		t.Errorf("templates = %v, presets = %v", got.Templates, got.GridPresets)
	}
}
