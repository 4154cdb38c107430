package templates

import (
	"strings"
	"unicode/utf8"

	"github.com/ideaspark/wireframe/internal/scene"
)

const fontFamily = "Arial"

// builder collects the parts of one template in coordinates relative to
// the template origin.
type builder struct {
	ox, oy float64
	parts  []scene.Element
}

func at(x, y float64) *builder {
	return &builder{ox: x, oy: y}
}

func (b *builder) add(x, y, w, h float64, attrs scene.Attributes) *builder {
	b.parts = append(b.parts, scene.Element{
		Bounds: scene.Bounds{X: b.ox + x, Y: b.oy + y, Width: w, Height: h},
		Locks:  scene.LockAll,
		Attrs:  attrs,
	})
	return b
}

func (b *builder) rect(x, y, w, h float64, s scene.Shape) *builder {
	return b.add(x, y, w, h, s)
}

// text places a label sized from its content.
func (b *builder) text(x, y float64, t scene.Text) *builder {
	if t.FontSize == 0 {
		t.FontSize = 16
	}
	if t.FontFamily == "" {
		t.FontFamily = fontFamily
	}
	w, h := MeasureText(t.Content, t.FontSize)
	return b.add(x, y, w, h, t)
}

// wrapped places a text block with a fixed width.
func (b *builder) wrapped(x, y, w float64, lines int, t scene.Text) *builder {
	if t.FontFamily == "" {
		t.FontFamily = fontFamily
	}
	return b.add(x, y, w, max(float64(lines)*t.FontSize*1.3, 10), t)
}

func (b *builder) build() scene.Element {
	return scene.Element{Attrs: scene.Group{}, Children: b.parts}
}

// MeasureText estimates the box of a text label at the given font size.
func MeasureText(content string, fontSize float64) (float64, float64) {
	lines := strings.Split(content, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	w := float64(widest) * fontSize * 0.6
	h := float64(len(lines)) * fontSize * 1.3
	return max(w, 10), max(h, 10)
}
