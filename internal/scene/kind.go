package scene

import (
	"fmt"
	"slices"
)

type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindButton    Kind = "button"
	KindCard      Kind = "card"
	KindSection   Kind = "section"
	KindGroup     Kind = "group"
	KindLine      Kind = "line"
)

var kinds = []Kind{
	KindRectangle, KindText, KindImage, KindButton,
	KindCard, KindSection, KindGroup, KindLine,
}

// Kinds returns every element kind in declaration order.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(kinds, k) {
		return "", fmt.Errorf("kind %q: %w", s, ErrUnknownKind)
	}
	return k, nil
}

// MinSize returns the smallest width and height an element of kind may have.
// Groups have no minimum of their own; their bounds follow their children.
func MinSize(k Kind) (float64, float64) {
	switch k {
	case KindImage, KindButton, KindCard, KindSection:
		return 50, 30
	case KindText:
		return 10, 10
	case KindRectangle:
		return 1, 1
	case KindLine, KindGroup:
		return 0, 0
	}
	return 0, 0
}

// Attributes is the kind-specific style of an element. The set of
// implementations is closed: Shape, Text, Image, Button, Card, Section,
// Group and Line.
type Attributes interface {
	Kind() Kind
	sealed()
}

// Shape styles a rectangle.
type Shape struct {
	Fill         string    `json:"fill,omitempty"`
	Stroke       string    `json:"stroke,omitempty"`
	StrokeWidth  float64   `json:"strokeWidth,omitempty"`
	CornerRadius float64   `json:"cornerRadius,omitempty"`
	Dash         []float64 `json:"dash,omitempty"`
}

type Text struct {
	Content    string  `json:"text"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	Color      string  `json:"color,omitempty"`
	Align      string  `json:"align,omitempty"`
}

// Image references an uploaded asset id or a URL.
type Image struct {
	Src    string `json:"src,omitempty"`
	Alt    string `json:"alt,omitempty"`
	Fill   string `json:"fill,omitempty"`
	Stroke string `json:"stroke,omitempty"`
}

type Button struct {
	Label        string  `json:"label"`
	Fill         string  `json:"fill,omitempty"`
	Color        string  `json:"color,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
	FontSize     float64 `json:"fontSize,omitempty"`
}

type Card struct {
	Title        string  `json:"title,omitempty"`
	Body         string  `json:"body,omitempty"`
	Fill         string  `json:"fill,omitempty"`
	Stroke       string  `json:"stroke,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

type Section struct {
	Title  string    `json:"title,omitempty"`
	Fill   string    `json:"fill,omitempty"`
	Stroke string    `json:"stroke,omitempty"`
	Dash   []float64 `json:"dash,omitempty"`
}

type Group struct{}

// Line runs from the top-left to the bottom-right corner of its bounds.
type Line struct {
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
}

func (Shape) Kind() Kind   { return KindRectangle }
func (Text) Kind() Kind    { return KindText }
func (Image) Kind() Kind   { return KindImage }
func (Button) Kind() Kind  { return KindButton }
func (Card) Kind() Kind    { return KindCard }
func (Section) Kind() Kind { return KindSection }
func (Group) Kind() Kind   { return KindGroup }
func (Line) Kind() Kind    { return KindLine }

func (Shape) sealed()   {}
func (Text) sealed()    {}
func (Image) sealed()   {}
func (Button) sealed()  {}
func (Card) sealed()    {}
func (Section) sealed() {}
func (Group) sealed()   {}
func (Line) sealed()    {}

// DefaultAttributes returns the zero style for a kind.
func DefaultAttributes(k Kind) (Attributes, error) {
	switch k {
	case KindRectangle:
		return Shape{}, nil
	case KindText:
		return Text{}, nil
	case KindImage:
		return Image{}, nil
	case KindButton:
		return Button{}, nil
	case KindCard:
		return Card{}, nil
	case KindSection:
		return Section{}, nil
	case KindGroup:
		return Group{}, nil
	case KindLine:
		return Line{}, nil
	}
	return nil, fmt.Errorf("kind %q: %w", k, ErrUnknownKind)
}

func cloneAttrs(a Attributes) Attributes {
	switch v := a.(type) {
	case Shape:
		v.Dash = cloneFloats(v.Dash)
		return v
	case Section:
		v.Dash = cloneFloats(v.Dash)
		return v
	case Line:
		v.Dash = cloneFloats(v.Dash)
		return v
	case Text, Image, Button, Card, Group:
		return v
	}
	return a
}

func cloneFloats(f []float64) []float64 {
	if len(f) == 0 {
		return nil
	}
	return slices.Clone(f)
}
