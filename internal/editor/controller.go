// Package editor is the interactive core of the wireframe editor: it owns
// the live scene, interprets pointer gestures, records history and exposes
// the command surface used by the server, the CLI and MCP tools.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/history"
	"github.com/ideaspark/wireframe/internal/render"
	"github.com/ideaspark/wireframe/internal/scene"
	"github.com/ideaspark/wireframe/internal/snap"
)

var (
	ErrNoSelection   = errors.New("no element selected")
	ErrLocked        = errors.New("element is locked")
	ErrNotInsertable = errors.New("kind cannot be inserted directly")
	ErrNoPersister   = errors.New("no persistence configured")
)

// Persister loads and stores serialized documents by id.
type Persister interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
}

type Mode int

const (
	Idle Mode = iota
	Dragging
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	}
	return "idle"
}

type Options struct {
	DocumentID      string
	Persister       Persister
	Resolver        render.ImageResolver
	GridSize        float64 // 1 when zero
	HistoryCapacity int
	Device          string // DefaultDevice when empty
	Background      string
	Logger          *slog.Logger
}

// Controller is safe for concurrent use. Every method takes the lock, so
// a session hub and an MCP server may drive the same controller.
type Controller struct {
	mu sync.Mutex

	scene    scene.Scene
	history  *history.Log
	selected string
	grid     snap.Grid
	device   string

	mode    Mode
	gesture gesture

	docID     string
	persister Persister
	resolver  render.ImageResolver
	logger    *slog.Logger

	// version counts accepted changes; saved is the version last persisted.
	version uint64
	saved   uint64
}

// gesture is the state captured on pointer down.
type gesture struct {
	id               string
	anchorX, anchorY float64
	start            scene.Bounds
	before           scene.Scene
}

// New creates a controller with an empty scene sized for opts.Device.
func New(opts Options) (*Controller, error) {
	device := opts.Device
	if device == "" {
		device = DefaultDevice
	}
	size, err := DeviceSize(device)
	if err != nil {
		return nil, err
	}
	cell := opts.GridSize
	if cell == 0 {
		cell = 1
	}
	grid, err := snap.NewGrid(cell)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		scene:     scene.New(size, opts.Background),
		history:   history.New(opts.HistoryCapacity),
		grid:      grid,
		device:    device,
		docID:     opts.DocumentID,
		persister: opts.Persister,
		resolver:  opts.Resolver,
		logger:    logger,
	}
	c.history.Reset(c.scene)
	return c, nil
}

// Scene returns a copy of the live scene.
func (c *Controller) Scene() scene.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene.Clone()
}

// Selection returns the selected element id, or "".
func (c *Controller) Selection() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) DocumentID() string {
	return c.docID
}

// Dirty reports whether the scene changed since it was last loaded or saved.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version != c.saved
}

// Document returns the serialized scene.
func (c *Controller) Document() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return document.Serialize(c.scene)
}

// DrawCommands compiles the scene with grid and selection overlays.
func (c *Controller) DrawCommands() []render.DrawCommand {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.Compile(c.scene, render.Overlay{GridSize: c.grid.Cell(), SelectedID: c.selected})
}

// State is a consistent snapshot of everything a client displays.
type State struct {
	Document []byte
	Selected string
	Mode     Mode
	GridSize float64
	Device   string
	CanUndo  bool
	CanRedo  bool
	Dirty    bool
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Document: document.Serialize(c.scene),
		Selected: c.selected,
		Mode:     c.mode,
		GridSize: c.grid.Cell(),
		Device:   c.device,
		CanUndo:  c.history.CanUndo(),
		CanRedo:  c.history.CanRedo(),
		Dirty:    c.version != c.saved,
	}
}

// commit replaces the scene after an accepted change and records it.
func (c *Controller) commit(s scene.Scene) {
	c.scene = s
	c.history.Record(s)
	c.version++
}

// restore puts a history entry back without recording it.
func (c *Controller) restore(s scene.Scene) {
	c.scene = s
	c.version++
	if c.selected != "" && !s.Contains(c.selected) {
		c.selected = ""
	}
	if d := deviceFor(s.CanvasSize); d != "" {
		c.device = d
	}
}

// PointerDown starts a gesture at (x, y). It reports whether the scene or
// selection changed. A press on empty canvas abandons any active gesture
// without recording it and clears the selection.
func (c *Controller) PointerDown(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	onHandle := false
	if c.selected != "" {
		if sel, err := c.scene.Query(c.selected); err == nil && render.HandleAt(sel.Bounds, x, y) && !sel.Locks.Scaling {
			onHandle = true
		}
	}

	id := ""
	if !onHandle {
		id = render.HitTest(c.scene, x, y)
	}
	if !onHandle && id == "" {
		changed := c.cancelGesture()
		if c.selected != "" {
			c.selected = ""
			changed = true
		}
		return changed
	}

	changed := c.endGesture()

	if onHandle {
		if sel, err := c.scene.Query(c.selected); err == nil {
			c.begin(Resizing, sel, x, y)
		}
		return changed
	}

	if c.selected != id {
		c.selected = id
		changed = true
	}
	el, err := c.scene.Query(id)
	if err != nil || el.Locks.Movement {
		return changed
	}
	c.begin(Dragging, el, x, y)
	return changed
}

func (c *Controller) begin(mode Mode, el scene.Element, x, y float64) {
	c.mode = mode
	c.gesture = gesture{id: el.ID, anchorX: x, anchorY: y, start: el.Bounds, before: c.scene}
}

// PointerMove updates the active gesture. Offsets are measured from the
// pointer down position and snapped to the grid. Moves outside a gesture
// are ignored.
func (c *Controller) PointerMove(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.gesture
	var patch scene.Patch
	switch c.mode {
	case Dragging:
		nx, ny := c.grid.Point(g.start.X+(x-g.anchorX), g.start.Y+(y-g.anchorY))
		patch = scene.Move(nx, ny)
	case Resizing:
		el, err := c.scene.Query(g.id)
		if err != nil {
			c.mode = Idle
			return false
		}
		minW, minH := minimum(el.Kind())
		w, h := c.grid.Point(g.start.Width+(x-g.anchorX), g.start.Height+(y-g.anchorY))
		patch = scene.SetSize(max(w, minW), max(h, minH))
	default:
		return false
	}

	next, err := c.scene.Update(g.id, patch)
	if err != nil {
		c.logger.Warn("gesture update rejected", "element", g.id, "mode", c.mode, "error", err)
		return false
	}
	if next.Equal(c.scene) {
		return false
	}
	c.scene = next
	return true
}

// minimum is the resize floor for a kind. Groups keep at least one unit so
// their children can be scaled back up.
func minimum(k scene.Kind) (float64, float64) {
	w, h := scene.MinSize(k)
	if k == scene.KindGroup {
		return max(w, 1), max(h, 1)
	}
	return w, h
}

// PointerUp ends the gesture and records one history entry if the scene
// changed during it.
func (c *Controller) PointerUp(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endGesture()
}

// cancelGesture abandons the active gesture and puts back the scene from
// the pointer down.
func (c *Controller) cancelGesture() bool {
	if c.mode == Idle {
		return false
	}
	c.mode = Idle
	g := c.gesture
	c.gesture = gesture{}
	if c.scene.Equal(g.before) {
		return false
	}
	c.scene = g.before
	c.version++
	return true
}

func (c *Controller) endGesture() bool {
	if c.mode == Idle {
		return false
	}
	c.mode = Idle
	g := c.gesture
	c.gesture = gesture{}
	if c.scene.Equal(g.before) {
		return false
	}
	c.history.Record(c.scene)
	c.version++
	c.logger.Debug("gesture committed", "element", g.id)
	return true
}
