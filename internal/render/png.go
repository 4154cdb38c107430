package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ideaspark/wireframe/internal/scene"
)

var ErrInvalidCanvas = errors.New("invalid canvas size")

// maxDimension bounds the raster in pixels per side.
const maxDimension = 8192

// ImageResolver loads the bitmap behind an image element's source.
type ImageResolver interface {
	ResolveImage(src string) (image.Image, error)
}

type Options struct {
	Scale    float64 // pixels per scene unit, 1 when zero
	Overlay  Overlay
	Resolver ImageResolver
}

var (
	regularFont = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(goregular.TTF) })
	boldFont    = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(gobold.TTF) })
)

// PNG rasterizes s and writes it as a PNG image.
func PNG(w io.Writer, s scene.Scene, opts Options) error {
	dc, err := paint(s, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize draws s into an in-memory image.
func Rasterize(s scene.Scene, opts Options) (image.Image, error) {
	dc, err := paint(s, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func paint(s scene.Scene, opts Options) (*gg.Context, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(s.CanvasSize.Width * scale))
	h := int(math.Ceil(s.CanvasSize.Height * scale))
	if w <= 0 || h <= 0 || w > maxDimension || h > maxDimension {
		return nil, fmt.Errorf("%vx%v at scale %v: %w", s.CanvasSize.Width, s.CanvasSize.Height, scale, ErrInvalidCanvas)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)

	p := &painter{dc: dc, resolver: opts.Resolver, faces: make(map[faceKey]font.Face)}
	for _, cmd := range Compile(s, opts.Overlay) {
		if err := p.draw(cmd); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

type faceKey struct {
	bold bool
	size float64
}

type painter struct {
	dc       *gg.Context
	resolver ImageResolver
	faces    map[faceKey]font.Face
}

func (p *painter) draw(cmd DrawCommand) error {
	switch cmd.Op {
	case OpRect:
		p.rect(cmd.Bounds, cmd.CornerRadius, cmd)
	case OpText:
		return p.text(cmd)
	case OpLine:
		b := cmd.Bounds
		if c, ok := ParseColor(cmd.Stroke, cmd.Opacity); ok {
			p.dc.DrawLine(b.X, b.Y, b.Right(), b.Bottom())
			p.stroke(c, cmd.StrokeWidth, cmd.Dash)
		}
	case OpImage:
		p.image(cmd)
	case OpGrid:
		p.grid(cmd)
	case OpSelection:
		b := cmd.Bounds
		if c, ok := ParseColor(cmd.Stroke, 1); ok {
			p.dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
			p.stroke(c, cmd.StrokeWidth, cmd.Dash)
		}
	case OpHandle:
		b := cmd.Bounds
		if c, ok := ParseColor(cmd.Fill, 1); ok {
			p.dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
			p.dc.SetColor(c)
			p.dc.Fill()
		}
	}
	return nil
}

func (p *painter) path(b scene.Bounds, radius float64) {
	if radius > 0 {
		p.dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, math.Min(radius, math.Min(b.Width, b.Height)/2))
		return
	}
	p.dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
}

func (p *painter) rect(b scene.Bounds, radius float64, cmd DrawCommand) {
	fill, hasFill := ParseColor(cmd.Fill, cmd.Opacity)
	stroke, hasStroke := ParseColor(cmd.Stroke, cmd.Opacity)
	hasStroke = hasStroke && cmd.StrokeWidth > 0
	if !hasFill && !hasStroke {
		return
	}

	p.path(b, radius)
	if hasFill {
		p.dc.SetColor(fill)
		if hasStroke {
			p.dc.FillPreserve()
		} else {
			p.dc.Fill()
		}
	}
	if hasStroke {
		p.stroke(stroke, cmd.StrokeWidth, cmd.Dash)
	}
}

func (p *painter) stroke(c color.Color, width float64, dash []float64) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(math.Max(width, 1))
	p.dc.SetDash(dash...)
	p.dc.Stroke()
	p.dc.SetDash()
}

func (p *painter) text(cmd DrawCommand) error {
	c, ok := ParseColor(cmd.Color, cmd.Opacity)
	if !ok || cmd.Text == "" {
		return nil
	}
	face, err := p.face(isBold(cmd.FontWeight), cmd.FontSize)
	if err != nil {
		return err
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(c)

	b := cmd.Bounds
	x, ax, align := b.X, 0.0, gg.AlignLeft
	switch cmd.Align {
	case "center":
		x, ax, align = b.X+b.Width/2, 0.5, gg.AlignCenter
	case "right":
		x, ax, align = b.Right(), 1, gg.AlignRight
	}
	y, ay := b.Y, 0.0
	if cmd.VAlign == "middle" {
		y, ay = b.Y+b.Height/2, 0.5
	}
	p.dc.DrawStringWrapped(cmd.Text, x, y, ax, ay, math.Max(b.Width, 1), 1.3, align)
	return nil
}

func (p *painter) face(bold bool, size float64) (font.Face, error) {
	key := faceKey{bold: bold, size: size}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	load := regularFont
	if bold {
		load = boldFont
	}
	ttf, err := load()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	p.faces[key] = f
	return f, nil
}

func isBold(weight string) bool {
	if weight == "bold" || weight == "bolder" {
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(weight))
	return err == nil && n >= 600
}

func (p *painter) image(cmd DrawCommand) {
	b := cmd.Bounds
	if p.resolver != nil && cmd.Src != "" && !b.IsEmpty() {
		if img, err := p.resolver.ResolveImage(cmd.Src); err == nil {
			ib := img.Bounds()
			if ib.Dx() > 0 && ib.Dy() > 0 {
				p.dc.Push()
				p.dc.Translate(b.X, b.Y)
				p.dc.Scale(b.Width/float64(ib.Dx()), b.Height/float64(ib.Dy()))
				p.dc.DrawImage(img, -ib.Min.X, -ib.Min.Y)
				p.dc.Pop()
				return
			}
		}
	}

	// Placeholder: a filled box with a cross.
	placeholder := cmd
	if placeholder.Fill == "" {
		placeholder.Fill = "#e5e7eb"
	}
	if placeholder.Stroke == "" {
		placeholder.Stroke = "#9ca3af"
	}
	placeholder.StrokeWidth = 1
	p.rect(b, 0, placeholder)
	if c, ok := ParseColor(placeholder.Stroke, cmd.Opacity); ok {
		p.dc.DrawLine(b.X, b.Y, b.Right(), b.Bottom())
		p.dc.DrawLine(b.Right(), b.Y, b.X, b.Bottom())
		p.stroke(c, 1, nil)
	}
}

func (p *painter) grid(cmd DrawCommand) {
	c, ok := ParseColor(cmd.Stroke, cmd.Opacity)
	if !ok || cmd.Spacing <= 1 {
		return
	}
	b := cmd.Bounds
	for x := b.X + cmd.Spacing; x < b.Right(); x += cmd.Spacing {
		p.dc.DrawLine(x, b.Y, x, b.Bottom())
	}
	for y := b.Y + cmd.Spacing; y < b.Bottom(); y += cmd.Spacing {
		p.dc.DrawLine(b.X, y, b.Right(), y)
	}
	p.stroke(c, 1, nil)
}
