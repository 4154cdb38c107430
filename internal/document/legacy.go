package document

import (
	"encoding/json"
	"fmt"

	"github.com/ideaspark/wireframe/internal/scene"
)

// legacyComponent is one entry of the component list older editors stored
// as a bare JSON array.
type legacyComponent struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Left    *float64       `json:"left"`
	Top     *float64       `json:"top"`
	Width   *float64       `json:"width"`
	Height  *float64       `json:"height"`
	Content string         `json:"content"`
	Style   map[string]any `json:"style"`
}

func importLegacy(data []byte) (scene.Scene, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return scene.Scene{}, parseErr("", "legacy document is not an array", err)
	}

	s := scene.New(scene.DefaultCanvas, "")
	for i, raw := range items {
		path := fmt.Sprintf("[%d]", i)
		var c legacyComponent
		if err := json.Unmarshal(raw, &c); err != nil {
			return scene.Scene{}, parseErr(path, "legacy component has wrong field types", err)
		}
		if c.ID == "" {
			return scene.Scene{}, parseErr(path+".id", "missing required field", nil)
		}
		if c.Left == nil || c.Top == nil || c.Width == nil || c.Height == nil {
			return scene.Scene{}, parseErr(path, "left, top, width and height are required", nil)
		}

		attrs, err := legacyAttributes(c)
		if err != nil {
			return scene.Scene{}, parseErr(path+".type", err.Error(), err)
		}
		minW, minH := scene.MinSize(attrs.Kind())
		s.Elements = append(s.Elements, scene.Element{
			ID: c.ID,
			Bounds: scene.Bounds{
				X:      *c.Left,
				Y:      *c.Top,
				Width:  max(*c.Width, minW),
				Height: max(*c.Height, minH),
			},
			Attrs: attrs,
		})
	}

	out, err := s.Normalize()
	if err != nil {
		return scene.Scene{}, parseErr("", err.Error(), err)
	}
	return out, nil
}

func legacyAttributes(c legacyComponent) (scene.Attributes, error) {
	fill := styleString(c.Style, "backgroundColor")
	switch c.Type {
	case "header":
		return scene.Section{Title: "Header", Fill: or(fill, "#f3f4f6")}, nil
	case "footer":
		return scene.Section{Title: "Footer", Fill: or(fill, "#1f2937")}, nil
	case "section":
		return scene.Section{Title: or(c.Content, "Section Title"), Fill: or(fill, "#f9fafb")}, nil
	case "text":
		return scene.Text{Content: or(c.Content, "Text content"), FontSize: 16, Color: or(styleString(c.Style, "color"), "#1f2937")}, nil
	case "image":
		return scene.Image{Fill: or(fill, "#e5e7eb")}, nil
	case "button":
		return scene.Button{Label: or(c.Content, "Button"), Fill: or(fill, "#3b82f6"), Color: "#ffffff", CornerRadius: 4}, nil
	case "card":
		return scene.Card{Title: "Product Title", Body: "Product description goes here", Fill: or(fill, "#ffffff"), Stroke: "#e5e7eb", CornerRadius: 6}, nil
	}
	return nil, fmt.Errorf("legacy type %q: %w", c.Type, scene.ErrUnknownKind)
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func styleString(style map[string]any, key string) string {
	v, _ := style[key].(string)
	return v
}
