package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ideaspark/wireframe/internal/scene"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command names accepted by Execute.
const (
	CmdInsertElement     = "insert_element"
	CmdInsertTemplate    = "insert_template"
	CmdSelectElement     = "select_element"
	CmdUpdateElement     = "update_element"
	CmdDeleteSelected    = "delete_selected"
	CmdDuplicateSelected = "duplicate_selected"
	CmdBringToFront      = "bring_to_front"
	CmdSendToBack        = "send_to_back"
	CmdUndo              = "undo"
	CmdRedo              = "redo"
	CmdSetGridSize       = "set_grid_size"
	CmdSetGridPreset     = "set_grid_preset"
	CmdSetDevicePreset   = "set_device_preset"
	CmdImportDocument    = "import_document"
	CmdSaveDocument      = "save_document"
)

// Command is the serialized form of one editor command. Only the fields
// the named command uses are read.
type Command struct {
	Name     string          `json:"name"`
	Kind     scene.Kind      `json:"kind,omitempty"`
	Template string          `json:"template,omitempty"`
	ID       string          `json:"id,omitempty"`
	Patch    *scene.Patch    `json:"patch,omitempty"`
	GridSize float64         `json:"gridSize,omitempty"`
	Preset   string          `json:"preset,omitempty"`
	Device   string          `json:"device,omitempty"`
	Document json.RawMessage `json:"document,omitempty"`
}

// Result reports the outcome of a command. ID is set by commands that
// create an element.
type Result struct {
	ID      string `json:"id,omitempty"`
	Changed bool   `json:"changed"`
}

// observable is the controller state a client can see. Execute compares it
// before and after a command to report Changed.
type observable struct {
	version  uint64
	dirty    bool
	selected string
	cell     float64
	device   string
	mode     Mode
}

func (c *Controller) observe() observable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return observable{
		version:  c.version,
		dirty:    c.version != c.saved,
		selected: c.selected,
		cell:     c.grid.Cell(),
		device:   c.device,
		mode:     c.mode,
	}
}

// Execute runs a named command. Changed reports whether anything a client
// renders differs afterwards.
func (c *Controller) Execute(ctx context.Context, cmd Command) (Result, error) {
	before := c.observe()
	var (
		id  string
		err error
	)
	switch cmd.Name {
	case CmdInsertElement:
		id, err = c.InsertElement(cmd.Kind)
	case CmdInsertTemplate:
		id, err = c.InsertTemplate(cmd.Template)
	case CmdSelectElement:
		err = c.Select(cmd.ID)
	case CmdUpdateElement:
		if cmd.Patch == nil {
			return Result{}, fmt.Errorf("%s: missing patch", cmd.Name)
		}
		target := cmd.ID
		if target == "" {
			target = c.Selection()
		}
		if target == "" {
			return Result{}, ErrNoSelection
		}
		err = c.UpdateElement(target, *cmd.Patch)
	case CmdDeleteSelected:
		err = c.DeleteSelected()
	case CmdDuplicateSelected:
		id, err = c.DuplicateSelected()
	case CmdBringToFront:
		err = c.BringToFront()
	case CmdSendToBack:
		err = c.SendToBack()
	case CmdUndo:
		c.Undo()
	case CmdRedo:
		c.Redo()
	case CmdSetGridSize:
		err = c.SetGridSize(cmd.GridSize)
	case CmdSetGridPreset:
		err = c.SetGridPreset(cmd.Preset)
	case CmdSetDevicePreset:
		err = c.SetDevicePreset(cmd.Device)
	case CmdImportDocument:
		err = c.Import(cmd.Document)
	case CmdSaveDocument:
		err = c.SaveDocument(ctx)
	default:
		return Result{}, fmt.Errorf("%q: %w", cmd.Name, ErrUnknownCommand)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{ID: id, Changed: c.observe() != before}, nil
}
