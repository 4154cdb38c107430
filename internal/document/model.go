// Package document converts scenes to and from the persisted JSON format.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/ideaspark/wireframe/internal/scene"
)

const (
	Schema  = "wireframe"
	Version = 1
)

// Document is the persisted form of a scene.
type Document struct {
	Schema     string     `json:"schema" jsonschema:"enum=wireframe"`
	Version    int        `json:"version" jsonschema:"minimum=1"`
	CanvasSize scene.Size `json:"canvasSize"`
	Background string     `json:"background,omitempty"`
	Elements   []Record   `json:"elements"`
}

// Record is the persisted form of an element.
type Record struct {
	ID       string          `json:"id" jsonschema:"minLength=1"`
	Kind     scene.Kind      `json:"kind" jsonschema:"enum=rectangle,enum=text,enum=image,enum=button,enum=card,enum=section,enum=group,enum=line"`
	Bounds   scene.Bounds    `json:"bounds"`
	Locks    *scene.Locks    `json:"locks,omitempty"`
	Opacity  float64         `json:"opacity,omitempty" jsonschema:"minimum=0,maximum=1"`
	Style    json.RawMessage `json:"style,omitempty"`
	Children []Record        `json:"children,omitempty"`

	extra map[string]json.RawMessage
}

func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	data, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, r.extra)
}

// Serialize encodes a scene. It never fails: non-finite numbers are
// written as zero.
func Serialize(s scene.Scene) []byte {
	doc := Document{
		Schema:     Schema,
		Version:    Version,
		CanvasSize: scene.Size{Width: finite(s.CanvasSize.Width), Height: finite(s.CanvasSize.Height)},
		Background: s.Background,
		Elements:   make([]Record, 0, len(s.Elements)),
	}
	for _, el := range s.Elements {
		doc.Elements = append(doc.Elements, toRecord(el))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		// Every value is a string, a finite number or pre-encoded JSON.
		return []byte(`{"schema":"wireframe","version":1,"elements":[]}`)
	}
	out, err := appendExtra(data, s.Extra)
	if err != nil {
		return data
	}
	return out
}

// SerializeIndent is Serialize with two-space indentation.
func SerializeIndent(s scene.Scene) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, Serialize(s), "", "  "); err != nil {
		return Serialize(s)
	}
	return buf.Bytes()
}

func toRecord(el scene.Element) Record {
	r := Record{
		ID:      el.ID,
		Kind:    el.Kind(),
		Bounds:  finiteBounds(el.Bounds),
		Opacity: finite(el.Opacity),
		extra:   el.Extra,
	}
	if el.Locks != (scene.Locks{}) {
		locks := el.Locks
		r.Locks = &locks
	}
	if !el.IsGroup() {
		r.Style = scene.EncodeStyle(el.Attrs)
	}
	for _, c := range el.Children {
		r.Children = append(r.Children, toRecord(c))
	}
	return r
}

// Deserialize decodes a document produced by Serialize. A bare JSON array
// is read as the legacy component list. Unknown fields are kept in the
// scene's Extra maps.
func Deserialize(data []byte) (scene.Scene, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return scene.Scene{}, parseErr("", "empty document", nil)
	}
	if trimmed[0] == '[' {
		return importLegacy(trimmed)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return scene.Scene{}, parseErr("", "document is not a JSON object", err)
	}

	s := scene.New(scene.DefaultCanvas, "")
	rawElements, ok := fields["elements"]
	if !ok {
		return scene.Scene{}, parseErr("elements", "missing required field", nil)
	}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		raw := fields[key]
		switch key {
		case "elements":
		case "schema":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return scene.Scene{}, parseErr(key, "must be a string", err)
			}
			if v != Schema {
				return scene.Scene{}, parseErr(key, fmt.Sprintf("unsupported schema %q", v), nil)
			}
		case "version":
			var v int
			if err := json.Unmarshal(raw, &v); err != nil {
				return scene.Scene{}, parseErr(key, "must be an integer", err)
			}
			if v < 1 || v > Version {
				return scene.Scene{}, parseErr(key, fmt.Sprintf("unsupported version %d", v), nil)
			}
		case "canvasSize":
			var sz scene.Size
			if err := json.Unmarshal(raw, &sz); err != nil {
				return scene.Scene{}, parseErr(key, "must be {width, height}", err)
			}
			if sz.Width <= 0 || sz.Height <= 0 {
				return scene.Scene{}, parseErr(key, "width and height must be positive", nil)
			}
			s.CanvasSize = sz
		case "background":
			if err := json.Unmarshal(raw, &s.Background); err != nil {
				return scene.Scene{}, parseErr(key, "must be a string", err)
			}
			if s.Background == "" {
				return scene.Scene{}, parseErr(key, "must not be empty", nil)
			}
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]json.RawMessage)
			}
			s.Extra[key] = compact(raw)
		}
	}

	elements, err := decodeElements(rawElements, "elements")
	if err != nil {
		return scene.Scene{}, err
	}
	s.Elements = elements

	out, err := s.Normalize()
	if err != nil {
		return scene.Scene{}, parseErr("elements", err.Error(), err)
	}
	return out, nil
}

func decodeElements(raw json.RawMessage, path string) ([]scene.Element, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, parseErr(path, "must be an array", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]scene.Element, 0, len(list))
	for i, item := range list {
		el, err := decodeElement(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

type wireBounds struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

func decodeElement(raw json.RawMessage, path string) (scene.Element, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return scene.Element{}, parseErr(path, "element must be an object", err)
	}

	var el scene.Element

	kindRaw, ok := fields["kind"]
	if !ok {
		return el, parseErr(path+".kind", "missing required field", nil)
	}
	var kindName string
	if err := json.Unmarshal(kindRaw, &kindName); err != nil {
		return el, parseErr(path+".kind", "must be a string", err)
	}
	kind, err := scene.ParseKind(kindName)
	if err != nil {
		return el, parseErr(path+".kind", fmt.Sprintf("unknown kind %q", kindName), err)
	}

	idRaw, ok := fields["id"]
	if !ok {
		return el, parseErr(path+".id", "missing required field", nil)
	}
	if err := json.Unmarshal(idRaw, &el.ID); err != nil || el.ID == "" {
		return el, parseErr(path+".id", "must be a non-empty string", err)
	}

	boundsRaw, ok := fields["bounds"]
	if !ok {
		return el, parseErr(path+".bounds", "missing required field", nil)
	}
	var wb wireBounds
	if err := json.Unmarshal(boundsRaw, &wb); err != nil {
		return el, parseErr(path+".bounds", "must be {x, y, width, height}", err)
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"x", wb.X}, {"y", wb.Y}, {"width", wb.Width}, {"height", wb.Height}} {
		if f.v == nil {
			return el, parseErr(path+".bounds."+f.name, "missing required field", nil)
		}
	}
	el.Bounds = scene.Bounds{X: *wb.X, Y: *wb.Y, Width: *wb.Width, Height: *wb.Height}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		raw := fields[key]
		switch key {
		case "kind", "id", "bounds", "style", "children":
		case "locks":
			if err := json.Unmarshal(raw, &el.Locks); err != nil {
				return el, parseErr(path+".locks", "must be an object of booleans", err)
			}
		case "opacity":
			if err := json.Unmarshal(raw, &el.Opacity); err != nil {
				return el, parseErr(path+".opacity", "must be a number", err)
			}
			if el.Opacity < 0 || el.Opacity > 1 {
				return el, parseErr(path+".opacity", "must be between 0 and 1", nil)
			}
		default:
			if el.Extra == nil {
				el.Extra = make(map[string]json.RawMessage)
			}
			el.Extra[key] = compact(raw)
		}
	}

	style := fields["style"]
	if len(style) > 0 && !isObject(style) && !isNull(style) {
		return el, parseErr(path+".style", "must be an object", nil)
	}
	if isNull(style) {
		style = nil
	}
	el.Attrs, err = scene.DecodeStyle(kind, style)
	if err != nil {
		return el, parseErr(path+".style", err.Error(), err)
	}

	if childrenRaw, ok := fields["children"]; ok && !isNull(childrenRaw) {
		if kind != scene.KindGroup {
			return el, parseErr(path+".children", fmt.Sprintf("%s elements cannot have children", kind), nil)
		}
		el.Children, err = decodeElements(childrenRaw, path+".children")
		if err != nil {
			return el, err
		}
	}
	if kind == scene.KindGroup && len(el.Children) == 0 {
		return el, parseErr(path+".children", "group must have children", scene.ErrInvalidBounds)
	}
	return el, nil
}

// appendExtra splices extra members into an encoded JSON object. Keys the
// object already has are not overwritten.
func appendExtra(obj []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return obj, nil
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(obj, &known); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(bytes.TrimSpace(obj), []byte("}")))
	empty := len(known) == 0
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		if _, ok := known[key]; ok || !json.Valid(extra[key]) {
			continue
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(compact(extra[key]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func finiteBounds(b scene.Bounds) scene.Bounds {
	return scene.Bounds{X: finite(b.X), Y: finite(b.Y), Width: finite(b.Width), Height: finite(b.Height)}
}
