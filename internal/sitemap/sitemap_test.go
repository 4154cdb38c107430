package sitemap

import (
	"errors"
	"testing"

	"github.com/ideaspark/wireframe/internal/scene"
)

const shop = `{
	"name": "Home",
	"type": "page",
	"path": "/",
	"children": [
		{"name": "Products", "type": "page", "children": [{"name": "Green Tea", "type": "section"}]},
		{"name": "About Us"}
	]
}`

func TestParse(t *testing.T) {
	roots, err := Parse([]byte(shop))
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 || len(roots[0].Children) != 2 {
		t.Fatalf("roots = %+v", roots)
	}
	if got := roots[0].Children[1].Type; got != TypePage {
		t.Errorf("default type = %q, want page", got)
	}

	list, err := Parse([]byte(`[{"name":"A"},{"name":"B","type":"section"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[1].Type != TypeSection {
		t.Errorf("array roots = %+v", list)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, input string
	}{
		{"empty", ""},
		{"not json", "{"},
		{"no name", `{"type":"page"}`},
		{"bad type", `{"name":"x","type":"widget"}`},
		{"nested no name", `[{"name":"x","children":[{"name":" "}]}]`},
		{"empty array", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); !errors.Is(err, ErrInvalidSitemap) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidSitemap", tt.input, err)
			}
		})
	}
}

func TestToScenePage(t *testing.T) {
	roots, err := Parse([]byte(shop))
	if err != nil {
		t.Fatal(err)
	}
	s := ToScene(roots[0])
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	// header, title, two nav labels, content, content title, footer, footer text
	if len(s.Elements) != 8 {
		t.Fatalf("len(Elements) = %d, want 8", len(s.Elements))
	}

	tests := []struct {
		id     string
		bounds scene.Bounds
		text   string
	}{
		{"home-header", scene.Bounds{Width: 1280, Height: 80}, ""},
		{"home-title", scene.Bounds{X: 20, Y: 25, Width: 300, Height: 40}, "Home"},
		{"home-nav-1", scene.Bounds{X: 520, Y: 30, Width: 100, Height: 30}, "About Us"},
		{"home-content", scene.Bounds{X: 40, Y: 120, Width: 1200, Height: 400}, ""},
		{"home-content-title", scene.Bounds{X: 60, Y: 140, Width: 600, Height: 40}, "Home Content"},
		{"home-footer", scene.Bounds{Y: 600, Width: 1280, Height: 100}, ""},
	}
	for _, tt := range tests {
		el, err := s.Query(tt.id)
		if err != nil {
			t.Errorf("Query(%q) error = %v", tt.id, err)
			continue
		}
		if el.Bounds != tt.bounds {
			t.Errorf("%s bounds = %+v, want %+v", tt.id, el.Bounds, tt.bounds)
		}
		if tt.text != "" {
			if got := el.Attrs.(scene.Text).Content; got != tt.text {
				t.Errorf("%s text = %q, want %q", tt.id, got, tt.text)
			}
		}
	}

	content, _ := s.Query("home-content")
	if dash := content.Attrs.(scene.Shape).Dash; len(dash) != 2 {
		t.Errorf("content dash = %v, want [5 5]", dash)
	}
}

func TestToSceneDeterministic(t *testing.T) {
	roots, _ := Parse([]byte(shop))
	if !ToScene(roots[0]).Equal(ToScene(roots[0])) {
		t.Error("ToScene() differs between calls")
	}
}

func TestToSceneSection(t *testing.T) {
	s := ToScene(Node{Name: "Green Tea", Type: TypeSection})
	if len(s.Elements) != 0 {
		t.Errorf("section scene has %d elements, want 0", len(s.Elements))
	}
	if s.CanvasSize != scene.DefaultCanvas {
		t.Errorf("canvas = %+v", s.CanvasSize)
	}
}

func TestToProject(t *testing.T) {
	roots, _ := Parse([]byte(shop))
	p := ToProject("Tea Shop", roots)

	wantPaths := []string{"/", "/products", "/products/green-tea", "/about-us"}
	if len(p.Pages) != len(wantPaths) {
		t.Fatalf("len(Pages) = %d, want %d", len(p.Pages), len(wantPaths))
	}
	for i, want := range wantPaths {
		if p.Pages[i].Path != want {
			t.Errorf("page %d path = %q, want %q", i, p.Pages[i].Path, want)
		}
	}
	if p.Pages[1].Name != "Products" || len(p.Pages[1].Scene.Elements) != 7 {
		t.Errorf("products page = %q with %d elements", p.Pages[1].Name, len(p.Pages[1].Scene.Elements))
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"About Us", "about-us"},
		{"  FAQ & Help!! ", "faq-help"},
		{"***", "page"},
		{"Café 2", "café-2"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
