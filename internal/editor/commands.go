package editor

import (
	"context"
	"fmt"
	"io"

	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/render"
	"github.com/ideaspark/wireframe/internal/scene"
	"github.com/ideaspark/wireframe/internal/snap"
	"github.com/ideaspark/wireframe/internal/templates"
)

// InsertOrigin is where new elements are placed.
const InsertOrigin = 20

// DuplicateOffset is the distance between an element and its duplicate.
const DuplicateOffset = 20

// NewElement returns an element of kind k with its default size and
// content, placed at the insert origin.
func NewElement(k scene.Kind) (scene.Element, error) {
	var (
		w, h  float64
		attrs scene.Attributes
	)
	switch k {
	case scene.KindText:
		w, h, attrs = 300, 100, scene.Text{Content: "Text content", FontFamily: "Arial", FontSize: 16, Color: "#1f2937"}
	case scene.KindImage:
		w, h, attrs = 300, 200, scene.Image{Fill: "#e5e7eb", Stroke: "#d1d5db"}
	case scene.KindButton:
		w, h, attrs = 120, 40, scene.Button{Label: "Button", Fill: "#3b82f6", Color: "#ffffff", CornerRadius: 4}
	case scene.KindCard:
		w, h, attrs = 250, 300, scene.Card{Title: "Product Title", Body: "Product description goes here", Fill: "#ffffff", Stroke: "#e5e7eb", CornerRadius: 6}
	case scene.KindSection:
		w, h, attrs = 800, 400, scene.Section{Title: "Section Title", Fill: "#f9fafb", Stroke: "#e5e7eb"}
	case scene.KindRectangle:
		w, h, attrs = 200, 120, scene.Shape{Fill: "#e5e7eb", Stroke: "#9ca3af", StrokeWidth: 1}
	case scene.KindLine:
		w, h, attrs = 200, 0, scene.Line{Stroke: "#1f2937", StrokeWidth: 2}
	case scene.KindGroup:
		return scene.Element{}, fmt.Errorf("%s: %w", k, ErrNotInsertable)
	default:
		return scene.Element{}, fmt.Errorf("kind %q: %w", k, scene.ErrUnknownKind)
	}
	return scene.Element{
		Bounds: scene.Bounds{X: InsertOrigin, Y: InsertOrigin, Width: w, Height: h},
		Attrs:  attrs,
	}, nil
}

// InsertElement adds a default element of kind k, selects it and returns
// its id.
func (c *Controller) InsertElement(k scene.Kind) (string, error) {
	el, err := NewElement(k)
	if err != nil {
		return "", err
	}
	return c.insert(el)
}

// InsertTemplate adds the named template group and selects it.
func (c *Controller) InsertTemplate(name string) (string, error) {
	c.mu.Lock()
	canvas := c.scene.CanvasSize
	c.mu.Unlock()

	el, err := templates.Build(name, canvas)
	if err != nil {
		return "", err
	}
	return c.insert(el)
}

func (c *Controller) insert(el scene.Element) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	next, id, err := c.scene.Insert(el, -1)
	if err != nil {
		return "", err
	}
	c.commit(next)
	c.selected = id
	return id, nil
}

// Select makes id the selection. An empty id clears it.
func (c *Controller) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	if id != "" && !c.scene.Contains(id) {
		return fmt.Errorf("select %q: %w", id, scene.ErrNotFound)
	}
	c.selected = id
	return nil
}

// DeleteSelected removes the selected element with its descendants and
// clears the selection.
func (c *Controller) DeleteSelected() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	if c.selected == "" {
		return ErrNoSelection
	}
	next, err := c.scene.Remove(c.selected)
	c.selected = ""
	if err != nil {
		return err
	}
	c.commit(next)
	return nil
}

// DuplicateSelected copies the selection, offset down and right, and
// selects the copy.
func (c *Controller) DuplicateSelected() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	if c.selected == "" {
		return "", ErrNoSelection
	}
	next, id, err := c.scene.Duplicate(c.selected, DuplicateOffset, DuplicateOffset)
	if err != nil {
		return "", err
	}
	c.commit(next)
	c.selected = id
	return id, nil
}

// UpdateElement applies p to element id. Position changes on a movement
// locked element and size changes on a scaling locked one are rejected,
// unless p also lifts the lock.
func (c *Controller) UpdateElement(id string, p scene.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	el, err := c.scene.Query(id)
	if err != nil {
		return err
	}
	locks := el.Locks
	if p.Locks != nil {
		locks = *p.Locks
	}
	if locks.Movement && (changes(p.X, el.Bounds.X) || changes(p.Y, el.Bounds.Y)) {
		return fmt.Errorf("move %q: %w", id, ErrLocked)
	}
	if locks.Scaling && (changes(p.Width, el.Bounds.Width) || changes(p.Height, el.Bounds.Height)) {
		return fmt.Errorf("resize %q: %w", id, ErrLocked)
	}

	next, err := c.scene.Update(id, p)
	if err != nil {
		return err
	}
	if !next.Equal(c.scene) {
		c.commit(next)
	}
	return nil
}

func changes(v *float64, current float64) bool {
	return v != nil && *v != current
}

func (c *Controller) BringToFront() error {
	return c.reorder(scene.Scene.BringToFront)
}

func (c *Controller) SendToBack() error {
	return c.reorder(scene.Scene.SendToBack)
}

func (c *Controller) reorder(fn func(scene.Scene, string) (scene.Scene, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	if c.selected == "" {
		return ErrNoSelection
	}
	next, err := fn(c.scene, c.selected)
	if err != nil {
		return err
	}
	if !next.Equal(c.scene) {
		c.commit(next)
	}
	return nil
}

// Undo steps back one history entry. It reports false at the oldest entry.
func (c *Controller) Undo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	if !c.history.CanUndo() {
		return false
	}
	s, _ := c.history.Undo()
	c.restore(s)
	return true
}

// Redo steps forward one history entry. It reports false at the newest entry.
func (c *Controller) Redo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	if !c.history.CanRedo() {
		return false
	}
	s, _ := c.history.Redo()
	c.restore(s)
	return true
}

func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}

// SetGridSize changes the snap cell. Non-positive sizes are rejected with
// snap.ErrInvalidConfiguration.
func (c *Controller) SetGridSize(cell float64) error {
	grid, err := snap.NewGrid(cell)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.grid = grid
	c.mu.Unlock()
	return nil
}

// SetGridPreset changes the snap cell to a named preset.
func (c *Controller) SetGridPreset(name string) error {
	cell, err := snap.Preset(name)
	if err != nil {
		return err
	}
	return c.SetGridSize(cell)
}

func (c *Controller) GridSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Cell()
}

// SetDevicePreset resizes the canvas to a device preset. The change is
// recorded in history.
func (c *Controller) SetDevicePreset(name string) error {
	size, err := DeviceSize(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endGesture()

	c.device = name
	if c.scene.CanvasSize == size {
		return nil
	}
	next := c.scene.Clone()
	next.CanvasSize = size
	c.commit(next)
	return nil
}

func (c *Controller) DevicePreset() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device
}

// ExportImage writes the scene as a PNG without editor overlays.
func (c *Controller) ExportImage(w io.Writer, scale float64) error {
	s := c.Scene()
	return render.PNG(w, s, render.Options{Scale: scale, Resolver: c.resolver})
}

// SaveDocument persists the serialized scene under the controller's
// document id.
func (c *Controller) SaveDocument(ctx context.Context) error {
	if c.persister == nil {
		return ErrNoPersister
	}
	c.mu.Lock()
	data := document.Serialize(c.scene)
	version := c.version
	c.mu.Unlock()

	if err := c.persister.Save(ctx, c.docID, data); err != nil {
		return fmt.Errorf("save document %s: %w", c.docID, err)
	}

	c.mu.Lock()
	c.saved = max(c.saved, version)
	c.mu.Unlock()
	c.logger.Info("document saved", "document", c.docID, "bytes", len(data))
	return nil
}

// LoadDocument replaces the scene with the persisted document. On failure
// the scene is left unchanged.
func (c *Controller) LoadDocument(ctx context.Context) error {
	if c.persister == nil {
		return ErrNoPersister
	}
	data, err := c.persister.Load(ctx, c.docID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", c.docID, err)
	}
	return c.Import(data)
}

// Import replaces the scene with a serialized document and starts a new
// history. A *document.ParseError leaves the scene unchanged.
func (c *Controller) Import(data []byte) error {
	s, err := document.Deserialize(data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = Idle
	c.gesture = gesture{}
	c.scene = s
	c.selected = ""
	c.history.Reset(s)
	c.version++
	c.saved = c.version
	if d := deviceFor(s.CanvasSize); d != "" {
		c.device = d
	}
	return nil
}

func deviceFor(size scene.Size) string {
	for _, d := range devices {
		if d.Size == size {
			return d.Name
		}
	}
	return ""
}
