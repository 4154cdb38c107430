package document

import (
	"fmt"

	"github.com/ideaspark/wireframe/internal/scene"
	"github.com/ideaspark/wireframe/internal/templates"
	"github.com/ideaspark/wireframe/internal/typeid"
)

// NewSampleProject returns a two page project built from the storefront and
// dashboard templates, used to seed new installations.
func NewSampleProject(projectID, name string) (Project, error) {
	if name == "" {
		name = "Untitled"
	}
	p := Project{ID: projectID, Name: name}

	pages := []struct {
		name, path string
		build      func(scene.Size) []scene.Element
	}{
		{"Home", "/", templates.Ecommerce},
		{"Dashboard", "/dashboard", templates.Dashboard},
	}
	for _, pg := range pages {
		s := scene.New(scene.DefaultCanvas, scene.DefaultBackground)
		for _, el := range pg.build(s.CanvasSize) {
			var err error
			if s, _, err = s.Insert(el, -1); err != nil {
				return Project{}, fmt.Errorf("sample page %s: %w", pg.name, err)
			}
		}
		p.Pages = append(p.Pages, Page{
			ID:           typeid.NewPageID(),
			Name:         pg.name,
			Path:         pg.path,
			DevicePreset: "desktop",
			Scene:        s,
		})
	}
	return p, nil
}
