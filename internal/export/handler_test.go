package export

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ideaspark/wireframe/internal/render"
)

const doc = `{"schema":"wireframe","version":1,"canvasSize":{"width":200,"height":100},"background":"#ffffff",
"elements":[{"id":"el_a","kind":"rectangle","bounds":{"x":10,"y":10,"width":50,"height":40},"style":{"fill":"#ff0000"}}]}`

func TestPNG(t *testing.T) {
	h := NewHandler(nil)
	rec := httptest.NewRecorder()
	h.PNG(rec, httptest.NewRequest("POST", "/export/png?scale=2&name=my%20home", strings.NewReader(doc)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="my-home.png"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
}

func TestPNGScaleFallsBack(t *testing.T) {
	for _, q := range []string{"", "?scale=0", "?scale=abc", "?scale=100"} {
		rec := httptest.NewRecorder()
		NewHandler(nil).PNG(rec, httptest.NewRequest("POST", "/export/png"+q, strings.NewReader(doc)))
		img, err := png.Decode(rec.Body)
		if err != nil {
			t.Fatalf("%q: %v", q, err)
		}
		if img.Bounds().Dx() != 200 {
			t.Errorf("%q: width = %d, want 200", q, img.Bounds().Dx())
		}
	}
}

func TestRejectsInvalidDocument(t *testing.T) {
	h := NewHandler(nil)
	handlers := map[string]http.HandlerFunc{"png": h.PNG, "code": h.Code, "commands": h.Commands}
	for name, fn := range handlers {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest("POST", "/export/"+name, strings.NewReader(`{"schema":"other"}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", name, rec.Code)
		}
	}
}

func TestCode(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil).Code(rec, httptest.NewRequest("POST", "/export/code?name=landing", strings.NewReader(doc)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "export default function") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestCommands(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil).Commands(rec, httptest.NewRequest("POST", "/export/commands", strings.NewReader(doc)))
	var cmds []render.DrawCommand
	if err := json.NewDecoder(rec.Body).Decode(&cmds); err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 2 || cmds[1].ElementID != "el_a" {
		t.Errorf("commands = %+v", cmds)
	}
}
