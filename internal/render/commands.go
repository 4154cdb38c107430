// Package render compiles scenes into flat draw command lists and rasterizes
// them. Overlay commands (grid, selection, handle) exist only in the command
// list and are never part of a scene.
package render

import (
	"encoding/json"
	"math"

	"github.com/ideaspark/wireframe/internal/scene"
)

// Draw operations.
const (
	OpRect      = "rect"
	OpText      = "text"
	OpLine      = "line"
	OpImage     = "image"
	OpGrid      = "grid"
	OpSelection = "selection"
	OpHandle    = "handle"
)

const (
	SelectionColor = "#2563eb"
	GridColor      = "#e5e7eb"
)

// DrawCommand is a single drawing operation. A client executes the list in
// order on a 2D context.
type DrawCommand struct {
	Op           string       `json:"op"`
	ElementID    string       `json:"elementId,omitempty"` // for hit correlation
	Bounds       scene.Bounds `json:"bounds"`
	Fill         string       `json:"fill,omitempty"`
	Stroke       string       `json:"stroke,omitempty"`
	StrokeWidth  float64      `json:"strokeWidth,omitempty"`
	CornerRadius float64      `json:"cornerRadius,omitempty"`
	Dash         []float64    `json:"dash,omitempty"`
	Opacity      float64      `json:"opacity"`

	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	Color      string  `json:"color,omitempty"`
	Align      string  `json:"align,omitempty"`
	VAlign     string  `json:"valign,omitempty"` // "middle" centres the text block vertically

	Src     string  `json:"src,omitempty"`     // image source
	Spacing float64 `json:"spacing,omitempty"` // grid cell size
}

// Overlay describes the editor chrome drawn over the scene.
type Overlay struct {
	GridSize   float64 // no grid when <= 1
	SelectedID string
}

// Compile generates the draw command list for s in painter's order (back
// to front): background, grid, elements, then selection chrome.
func Compile(s scene.Scene, o Overlay) []DrawCommand {
	canvas := scene.Bounds{Width: s.CanvasSize.Width, Height: s.CanvasSize.Height}
	commands := []DrawCommand{{Op: OpRect, Bounds: canvas, Fill: background(s), Opacity: 1}}

	if o.GridSize > 1 {
		commands = append(commands, DrawCommand{
			Op:          OpGrid,
			Bounds:      canvas,
			Stroke:      GridColor,
			StrokeWidth: 1,
			Spacing:     o.GridSize,
			Opacity:     1,
		})
	}

	for _, el := range s.Elements {
		compileElement(el, 1, &commands)
	}

	if o.SelectedID == "" {
		return commands
	}
	sel, err := s.Query(o.SelectedID)
	if err != nil {
		return commands
	}
	commands = append(commands, DrawCommand{
		Op:          OpSelection,
		ElementID:   sel.ID,
		Bounds:      sel.Bounds,
		Stroke:      SelectionColor,
		StrokeWidth: 1,
		Dash:        []float64{4, 4},
		Opacity:     1,
	})
	if !sel.Locks.Scaling {
		commands = append(commands, DrawCommand{
			Op:        OpHandle,
			ElementID: sel.ID,
			Bounds:    HandleBounds(sel.Bounds),
			Fill:      SelectionColor,
			Opacity:   1,
		})
	}
	return commands
}

func background(s scene.Scene) string {
	if s.Background == "" {
		return scene.DefaultBackground
	}
	return s.Background
}

// compileElement emits the commands for el. Group opacity multiplies into
// its children.
func compileElement(el scene.Element, parentAlpha float64, commands *[]DrawCommand) {
	alpha := parentAlpha * el.Alpha()
	base := DrawCommand{ElementID: el.ID, Bounds: el.Bounds, Opacity: alpha}
	b := el.Bounds

	switch a := el.Attrs.(type) {
	case scene.Group:
		for _, c := range el.Children {
			compileElement(c, alpha, commands)
		}

	case scene.Shape:
		cmd := base
		cmd.Op = OpRect
		cmd.Fill, cmd.Stroke, cmd.StrokeWidth = a.Fill, a.Stroke, strokeWidth(a.Stroke, a.StrokeWidth)
		cmd.CornerRadius, cmd.Dash = a.CornerRadius, a.Dash
		*commands = append(*commands, cmd)

	case scene.Text:
		cmd := base
		cmd.Op = OpText
		cmd.Text = a.Content
		cmd.FontFamily, cmd.FontSize, cmd.FontWeight = a.FontFamily, fontSize(a.FontSize), a.FontWeight
		cmd.Color, cmd.Align = textColor(a.Color), a.Align
		*commands = append(*commands, cmd)

	case scene.Image:
		cmd := base
		cmd.Op = OpImage
		cmd.Src, cmd.Fill, cmd.Stroke = a.Src, a.Fill, a.Stroke
		cmd.Text = a.Alt
		*commands = append(*commands, cmd)

	case scene.Button:
		box := base
		box.Op = OpRect
		box.Fill, box.CornerRadius = a.Fill, a.CornerRadius
		label := base
		label.Op = OpText
		label.Text, label.FontSize, label.Color = a.Label, fontSize(a.FontSize), textColor(a.Color)
		label.Align, label.VAlign = "center", "middle"
		*commands = append(*commands, box, label)

	case scene.Card:
		box := base
		box.Op = OpRect
		box.Fill, box.Stroke, box.StrokeWidth, box.CornerRadius = a.Fill, a.Stroke, strokeWidth(a.Stroke, 0), a.CornerRadius
		*commands = append(*commands, box)
		y := b.Y + 16
		if a.Title != "" {
			title := base
			title.Op = OpText
			title.Bounds = inset(scene.Bounds{X: b.X, Y: y, Width: b.Width, Height: 24}, 16, 0)
			title.Text, title.FontSize, title.FontWeight, title.Color = a.Title, 18, "bold", textColor("")
			*commands = append(*commands, title)
			y += 32
		}
		if a.Body != "" {
			body := base
			body.Op = OpText
			body.Bounds = inset(scene.Bounds{X: b.X, Y: y, Width: b.Width, Height: max(b.Bottom()-y-16, 10)}, 16, 0)
			body.Text, body.FontSize, body.Color = a.Body, 14, "#6b7280"
			*commands = append(*commands, body)
		}

	case scene.Section:
		box := base
		box.Op = OpRect
		box.Fill, box.Stroke, box.StrokeWidth, box.Dash = a.Fill, a.Stroke, strokeWidth(a.Stroke, 0), a.Dash
		*commands = append(*commands, box)
		if a.Title != "" {
			title := base
			title.Op = OpText
			title.Bounds = inset(scene.Bounds{X: b.X, Y: b.Y + 16, Width: b.Width, Height: 28}, 16, 0)
			title.Text, title.FontSize, title.FontWeight, title.Color = a.Title, 20, "bold", textColor("")
			*commands = append(*commands, title)
		}

	case scene.Line:
		cmd := base
		cmd.Op = OpLine
		cmd.Stroke = a.Stroke
		if cmd.Stroke == "" {
			cmd.Stroke = "#000000"
		}
		cmd.StrokeWidth, cmd.Dash = math.Max(a.StrokeWidth, 1), a.Dash
		*commands = append(*commands, cmd)
	}
}

func strokeWidth(stroke string, w float64) float64 {
	if stroke == "" {
		return 0
	}
	if w <= 0 {
		return 1
	}
	return w
}

func fontSize(v float64) float64 {
	if v <= 0 {
		return 16
	}
	return v
}

func textColor(c string) string {
	if c == "" {
		return "#1f2937"
	}
	return c
}

func inset(b scene.Bounds, dx, dy float64) scene.Bounds {
	return scene.Bounds{X: b.X + dx, Y: b.Y + dy, Width: max(b.Width-2*dx, 0), Height: max(b.Height-2*dy, 0)}
}

// ToJSON serializes draw commands.
func ToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
