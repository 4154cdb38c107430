// Package sitemap turns a page tree into seeded wireframe scenes.
package sitemap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/scene"
	"github.com/ideaspark/wireframe/internal/typeid"
)

var ErrInvalidSitemap = errors.New("invalid sitemap")

type NodeType string

const (
	TypePage    NodeType = "page"
	TypeSection NodeType = "section"
)

// Node is one entry of the page tree.
type Node struct {
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Path     string   `json:"path,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// Parse reads a single root node or an array of roots. A missing type
// means page.
func Parse(data []byte) ([]Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrInvalidSitemap)
	}

	var roots []Node
	if data[0] == '[' {
		if err := json.Unmarshal(data, &roots); err != nil {
			return nil, fmt.Errorf("decode sitemap: %w: %v", ErrInvalidSitemap, err)
		}
	} else {
		var root Node
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("decode sitemap: %w: %v", ErrInvalidSitemap, err)
		}
		roots = []Node{root}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no pages: %w", ErrInvalidSitemap)
	}

	for i := range roots {
		if err := normalize(&roots[i], fmt.Sprintf("[%d]", i)); err != nil {
			return nil, err
		}
	}
	return roots, nil
}

func normalize(n *Node, path string) error {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return fmt.Errorf("%s: node without name: %w", path, ErrInvalidSitemap)
	}
	switch n.Type {
	case "":
		n.Type = TypePage
	case TypePage, TypeSection:
	default:
		return fmt.Errorf("%s: node %q has type %q: %w", path, n.Name, n.Type, ErrInvalidSitemap)
	}
	for i := range n.Children {
		if err := normalize(&n.Children[i], fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

const textColor = "#333333"

// ToScene lays out the placeholder page for n: a header band with the page
// title and one navigation label per child, a dashed content area and a
// footer. Sections produce an empty scene. Element ids derive from the node
// name, so the result depends only on n.
func ToScene(n Node) scene.Scene {
	s := scene.New(scene.DefaultCanvas, scene.DefaultBackground)
	if n.Type == TypeSection {
		return s
	}

	key := slug(n.Name)
	id := func(part string) string { return key + "-" + part }
	band := scene.Shape{Fill: "#f5f5f5", Stroke: "#dddddd", StrokeWidth: 1}
	label := func(content string, size float64) scene.Text {
		return scene.Text{Content: content, FontFamily: "Arial", FontSize: size, Color: textColor}
	}

	s.Elements = append(s.Elements,
		scene.Element{ID: id("header"), Bounds: scene.Bounds{Width: 1280, Height: 80}, Attrs: band},
		scene.Element{ID: id("title"), Bounds: scene.Bounds{X: 20, Y: 25, Width: 300, Height: 40}, Attrs: label(n.Name, 24)},
	)
	for i, child := range n.Children {
		s.Elements = append(s.Elements, scene.Element{
			ID:     id(fmt.Sprintf("nav-%d", i)),
			Bounds: scene.Bounds{X: 400 + float64(i)*120, Y: 30, Width: 100, Height: 30},
			Attrs:  label(child.Name, 16),
		})
	}
	s.Elements = append(s.Elements,
		scene.Element{
			ID:     id("content"),
			Bounds: scene.Bounds{X: 40, Y: 120, Width: 1200, Height: 400},
			Attrs:  scene.Shape{Fill: "rgba(220,220,220,0.3)", Stroke: "#cccccc", StrokeWidth: 1, Dash: []float64{5, 5}},
		},
		scene.Element{ID: id("content-title"), Bounds: scene.Bounds{X: 60, Y: 140, Width: 600, Height: 40}, Attrs: label(n.Name+" Content", 20)},
		scene.Element{ID: id("footer"), Bounds: scene.Bounds{Y: 600, Width: 1280, Height: 100}, Attrs: band},
		scene.Element{ID: id("footer-text"), Bounds: scene.Bounds{X: 20, Y: 640, Width: 300, Height: 30}, Attrs: label("Footer", 16)},
	)
	return s
}

// ToProject creates one page per node, depth first. Pages without a path
// get one built from their ancestors' paths and their own name.
func ToProject(name string, roots []Node) document.Project {
	p := document.Project{ID: typeid.NewDocumentID(), Name: name}
	var visit func(n Node, parent string)
	visit = func(n Node, parent string) {
		path := n.Path
		if path == "" {
			path = strings.TrimSuffix(parent, "/") + "/" + slug(n.Name)
		}
		p.Pages = append(p.Pages, document.Page{
			ID:           typeid.NewPageID(),
			Name:         n.Name,
			Path:         path,
			DevicePreset: "desktop",
			Scene:        ToScene(n),
		})
		for _, c := range n.Children {
			visit(c, path)
		}
	}
	for _, r := range roots {
		visit(r, "")
	}
	return p
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "page"
	}
	return out
}
