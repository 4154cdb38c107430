// Package scene is the wireframe document model: an ordered list of placed
// elements on a canvas. Every operation is a pure function of the receiver
// and returns a new Scene; the receiver is never modified.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/ideaspark/wireframe/internal/typeid"
)

var (
	ErrInvalidBounds = errors.New("invalid bounds")
	ErrNotFound      = errors.New("element not found")
	ErrUnknownKind   = errors.New("unknown element kind")
	ErrDuplicateID   = errors.New("duplicate element id")
	ErrInvalidID     = errors.New("invalid element id")
	ErrInvalidStyle  = errors.New("invalid style")
	ErrInvalidCanvas = errors.New("invalid canvas")
)

const DefaultBackground = "#ffffff"

// DefaultCanvas is the desktop device size.
var DefaultCanvas = Size{Width: 1280, Height: 800}

// Scene is the document for one page. Elements are in paint order, back to front.
type Scene struct {
	Elements   []Element
	CanvasSize Size
	Background string
	Extra      map[string]json.RawMessage
}

func New(canvas Size, background string) Scene {
	if background == "" {
		background = DefaultBackground
	}
	return Scene{CanvasSize: canvas, Background: background}
}

func (s Scene) Clone() Scene {
	out := s
	out.Elements = cloneElements(s.Elements)
	if len(s.Extra) == 0 {
		out.Extra = nil
	} else {
		out.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// Equal reports structural equality. Nil and empty collections are equal.
func (s Scene) Equal(other Scene) bool {
	return reflect.DeepEqual(s.Clone(), other.Clone())
}

// Patch is a shallow update. Nil fields are left unchanged. Style is a JSON
// object merged over the element's current attributes.
type Patch struct {
	X       *float64        `json:"x,omitempty"`
	Y       *float64        `json:"y,omitempty"`
	Width   *float64        `json:"width,omitempty"`
	Height  *float64        `json:"height,omitempty"`
	Opacity *float64        `json:"opacity,omitempty"`
	Locks   *Locks          `json:"locks,omitempty"`
	Style   json.RawMessage `json:"style,omitempty"`
}

// Move returns a patch that sets the position.
func Move(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// SetSize returns a patch that sets the size.
func SetSize(w, h float64) Patch {
	return Patch{Width: &w, Height: &h}
}

func (p Patch) apply(e Element) (Element, error) {
	b := e.Bounds
	if p.X != nil {
		b.X = *p.X
	}
	if p.Y != nil {
		b.Y = *p.Y
	}
	if p.Width != nil {
		b.Width = *p.Width
	}
	if p.Height != nil {
		b.Height = *p.Height
	}

	if e.IsGroup() {
		if !b.finite() || b.Width < 0 || b.Height < 0 {
			return e, fmt.Errorf("group %q bounds %+v: %w", e.ID, b, ErrInvalidBounds)
		}
		switch {
		case b.Width != e.Bounds.Width || b.Height != e.Bounds.Height:
			e = e.Resize(b)
		case b.X != e.Bounds.X || b.Y != e.Bounds.Y:
			e = e.Translate(b.X-e.Bounds.X, b.Y-e.Bounds.Y)
		}
	} else {
		if err := CheckBounds(e.Kind(), b); err != nil {
			return e, fmt.Errorf("element %q: %w", e.ID, err)
		}
		e.Bounds = b
	}

	if p.Opacity != nil {
		o := *p.Opacity
		if math.IsNaN(o) || o < 0 || o > 1 {
			return e, fmt.Errorf("opacity %v: %w", o, ErrInvalidStyle)
		}
		e.Opacity = o
	}
	if p.Locks != nil {
		e.Locks = *p.Locks
	}
	if len(p.Style) > 0 {
		attrs, err := MergeStyle(e.Attrs, p.Style)
		if err != nil {
			return e, fmt.Errorf("element %q: %w: %v", e.ID, ErrInvalidStyle, err)
		}
		e.Attrs = attrs
	}
	return e, nil
}

// Insert adds el at index (appending when index is out of range) and returns
// the new scene and the id assigned to el. Fresh ids are generated for el
// and all of its descendants.
func (s Scene) Insert(el Element, index int) (Scene, string, error) {
	if el.Attrs == nil {
		return s, "", fmt.Errorf("insert: %w", ErrUnknownKind)
	}
	el = assignIDs(el.Clone()).fit()
	if err := el.validate(make(map[string]bool)); err != nil {
		return s, "", fmt.Errorf("insert: %w", err)
	}

	out := s.Clone()
	if index < 0 || index > len(out.Elements) {
		index = len(out.Elements)
	}
	out.Elements = slices.Insert(out.Elements, index, el)
	return out, el.ID, nil
}

// Remove deletes the element and all of its descendants. A group left
// without children is removed as well.
func (s Scene) Remove(id string) (Scene, error) {
	out := s.Clone()
	list, found, err := edit(out.Elements, id, func(list []Element, i int) ([]Element, error) {
		return slices.Delete(list, i, i+1), nil
	})
	if err != nil {
		return s, err
	}
	if !found {
		return s, fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	out.Elements = list
	return out, nil
}

// Update applies p to the element. Ancestor groups are refit afterwards.
func (s Scene) Update(id string, p Patch) (Scene, error) {
	out := s.Clone()
	list, found, err := edit(out.Elements, id, func(list []Element, i int) ([]Element, error) {
		el, err := p.apply(list[i])
		if err != nil {
			return list, err
		}
		list[i] = el
		return list, nil
	})
	if !found {
		return s, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return s, fmt.Errorf("update %q: %w", id, err)
	}
	out.Elements = list
	return out, nil
}

// Reorder moves the element to newIndex among its siblings. Out of range
// indices are clamped.
func (s Scene) Reorder(id string, newIndex int) (Scene, error) {
	out := s.Clone()
	list, found, err := edit(out.Elements, id, func(list []Element, i int) ([]Element, error) {
		el := list[i]
		list = slices.Delete(list, i, i+1)
		return slices.Insert(list, max(0, min(newIndex, len(list))), el), nil
	})
	if err != nil {
		return s, err
	}
	if !found {
		return s, fmt.Errorf("reorder %q: %w", id, ErrNotFound)
	}
	out.Elements = list
	return out, nil
}

func (s Scene) BringToFront(id string) (Scene, error) {
	return s.Reorder(id, math.MaxInt)
}

func (s Scene) SendToBack(id string) (Scene, error) {
	return s.Reorder(id, 0)
}

// Duplicate copies the element with fresh ids, offset by (dx, dy), and
// places the copy directly above the original.
func (s Scene) Duplicate(id string, dx, dy float64) (Scene, string, error) {
	var newID string
	out := s.Clone()
	list, found, err := edit(out.Elements, id, func(list []Element, i int) ([]Element, error) {
		dup := assignIDs(list[i].Clone().Translate(dx, dy))
		newID = dup.ID
		return slices.Insert(list, i+1, dup), nil
	})
	if err != nil {
		return s, "", err
	}
	if !found {
		return s, "", fmt.Errorf("duplicate %q: %w", id, ErrNotFound)
	}
	out.Elements = list
	return out, newID, nil
}

// Query returns a copy of the element with the given id, searching groups.
func (s Scene) Query(id string) (Element, error) {
	var hit Element
	found := false
	s.Walk(func(el Element) bool {
		if el.ID == id {
			hit, found = el.Clone(), true
			return false
		}
		return true
	})
	if !found {
		return Element{}, fmt.Errorf("query %q: %w", id, ErrNotFound)
	}
	return hit, nil
}

func (s Scene) Contains(id string) bool {
	_, err := s.Query(id)
	return err == nil
}

// Walk visits every element depth first in paint order.
func (s Scene) Walk(fn func(Element) bool) {
	for _, el := range s.Elements {
		if !el.Walk(fn) {
			return
		}
	}
}

// IDs returns every element id depth first.
func (s Scene) IDs() []string {
	var ids []string
	s.Walk(func(el Element) bool {
		ids = append(ids, el.ID)
		return true
	})
	return ids
}

// Validate checks the canvas, id uniqueness and element bounds. The canvas
// must have a positive finite size and a background colour.
func (s Scene) Validate() error {
	if !positive(s.CanvasSize.Width) || !positive(s.CanvasSize.Height) {
		return fmt.Errorf("canvas %vx%v: %w", s.CanvasSize.Width, s.CanvasSize.Height, ErrInvalidCanvas)
	}
	if s.Background == "" {
		return fmt.Errorf("empty background: %w", ErrInvalidCanvas)
	}
	seen := make(map[string]bool)
	for _, el := range s.Elements {
		if err := el.validate(seen); err != nil {
			return err
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Normalize refits group bounds from their children and validates the result.
func (s Scene) Normalize() (Scene, error) {
	out := s.Clone()
	for i := range out.Elements {
		out.Elements[i] = out.Elements[i].fit()
	}
	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}

func assignIDs(el Element) Element {
	el.ID = typeid.NewElementID()
	for i := range el.Children {
		el.Children[i] = assignIDs(el.Children[i])
	}
	return el
}

// edit finds the sibling list holding id, replaces it with fn's result and
// refits every ancestor group on the way back up.
func edit(list []Element, id string, fn func([]Element, int) ([]Element, error)) ([]Element, bool, error) {
	for i := range list {
		if list[i].ID == id {
			out, err := fn(list, i)
			return out, true, err
		}
	}
	for i := range list {
		if len(list[i].Children) == 0 {
			continue
		}
		children, found, err := edit(list[i].Children, id, fn)
		if !found {
			continue
		}
		if err != nil {
			return list, true, err
		}
		if len(children) == 0 {
			return slices.Delete(list, i, i+1), true, nil
		}
		list[i].Children = children
		list[i].Bounds = unionBounds(children)
		return list, true, nil
	}
	return list, false, nil
}
