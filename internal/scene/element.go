package scene

import (
	"encoding/json"
	"fmt"
	"math"
)

// Locks restricts what direct manipulation may do to an element.
type Locks struct {
	Movement bool `json:"movement,omitempty"`
	Scaling  bool `json:"scaling,omitempty"`
	Rotation bool `json:"rotation,omitempty"`
}

// LockAll is applied to decorative template parts.
var LockAll = Locks{Movement: true, Scaling: true, Rotation: true}

// Element is one placed object. Its kind is the kind of its attributes.
type Element struct {
	ID     string
	Bounds Bounds
	Locks  Locks
	// Opacity in (0, 1]. Zero means unset and renders opaque.
	Opacity  float64
	Attrs    Attributes
	Children []Element // groups only
	// Extra holds document fields this version does not understand.
	Extra map[string]json.RawMessage
}

func (e Element) Kind() Kind {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs.Kind()
}

func (e Element) IsGroup() bool {
	return e.Kind() == KindGroup
}

// Alpha returns the effective opacity.
func (e Element) Alpha() float64 {
	if e.Opacity <= 0 {
		return 1
	}
	return math.Min(e.Opacity, 1)
}

// Clone returns a deep copy. Empty slices and maps come back nil.
func (e Element) Clone() Element {
	out := e
	out.Attrs = cloneAttrs(e.Attrs)
	out.Children = cloneElements(e.Children)
	if len(e.Extra) == 0 {
		out.Extra = nil
	} else {
		out.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func cloneElements(els []Element) []Element {
	if len(els) == 0 {
		return nil
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}

// Walk visits e and its descendants depth first. Returning false stops the walk.
func (e Element) Walk(fn func(Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Translate moves e and every descendant by the same delta.
func (e Element) Translate(dx, dy float64) Element {
	e.Bounds = e.Bounds.Translate(dx, dy)
	if len(e.Children) > 0 {
		children := make([]Element, len(e.Children))
		for i, c := range e.Children {
			children[i] = c.Translate(dx, dy)
		}
		e.Children = children
	}
	return e
}

// Resize sets the bounds of e. Group children are scaled proportionally
// and clamped to their own minimum size, after which the group is refit.
func (e Element) Resize(to Bounds) Element {
	if !e.IsGroup() {
		e.Bounds = to
		return e
	}
	m := Refit(e.Bounds, to)
	children := make([]Element, len(e.Children))
	for i, c := range e.Children {
		children[i] = c.transform(m)
	}
	e.Children = children
	e.Bounds = unionBounds(children)
	return e
}

func (e Element) transform(m Matrix2D) Element {
	b := m.TransformBounds(e.Bounds)
	if e.IsGroup() {
		return e.Resize(b)
	}
	minW, minH := MinSize(e.Kind())
	b.Width = max(b.Width, minW)
	b.Height = max(b.Height, minH)
	e.Bounds = b
	return e
}

// fit recomputes group bounds bottom up.
func (e Element) fit() Element {
	if !e.IsGroup() || len(e.Children) == 0 {
		return e
	}
	for i := range e.Children {
		e.Children[i] = e.Children[i].fit()
	}
	e.Bounds = unionBounds(e.Children)
	return e
}

func unionBounds(els []Element) Bounds {
	if len(els) == 0 {
		return Bounds{}
	}
	b := els[0].Bounds
	for _, el := range els[1:] {
		b = b.Union(el.Bounds)
	}
	return b
}

// CheckBounds reports whether b is acceptable for an element of kind k.
func CheckBounds(k Kind, b Bounds) error {
	if !b.finite() {
		return fmt.Errorf("%s bounds %+v not finite: %w", k, b, ErrInvalidBounds)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%s size %vx%v negative: %w", k, b.Width, b.Height, ErrInvalidBounds)
	}
	minW, minH := MinSize(k)
	if b.Width < minW || b.Height < minH {
		return fmt.Errorf("%s size %vx%v below minimum %vx%v: %w", k, b.Width, b.Height, minW, minH, ErrInvalidBounds)
	}
	return nil
}

func (e Element) validate(seen map[string]bool) error {
	if e.Attrs == nil {
		return fmt.Errorf("element %q has no kind: %w", e.ID, ErrUnknownKind)
	}
	if e.ID == "" {
		return fmt.Errorf("%s element without id: %w", e.Kind(), ErrInvalidID)
	}
	if seen[e.ID] {
		return fmt.Errorf("element %q: %w", e.ID, ErrDuplicateID)
	}
	seen[e.ID] = true

	if e.IsGroup() {
		if len(e.Children) == 0 {
			return fmt.Errorf("group %q has no children: %w", e.ID, ErrInvalidBounds)
		}
		for _, c := range e.Children {
			if err := c.validate(seen); err != nil {
				return err
			}
		}
		return nil
	}
	if len(e.Children) > 0 {
		return fmt.Errorf("%s element %q has children: %w", e.Kind(), e.ID, ErrInvalidBounds)
	}
	if err := CheckBounds(e.Kind(), e.Bounds); err != nil {
		return fmt.Errorf("element %q: %w", e.ID, err)
	}
	return nil
}
