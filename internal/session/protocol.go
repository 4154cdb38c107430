package session

import (
	"encoding/json"

	"github.com/ideaspark/wireframe/internal/editor"
)

type Message struct {
	Type       string          `json:"type"`
	DocumentID string          `json:"documentId,omitempty"`
	ClientID   string          `json:"clientId,omitempty"`
	Seq        int64           `json:"seq,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeCommand     = "command"

	// Server to client
	TypeWelcome   = "welcome"
	TypeSceneSync = "scene.sync"
	TypeError     = "error"

	// Both directions
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CommandPayload is the editor command plus the client's request id,
// echoed back in errors.
type CommandPayload struct {
	editor.Command
	RequestID string `json:"requestId,omitempty"`
}

type WelcomePayload struct {
	ClientID   string          `json:"clientId"`
	DocumentID string          `json:"documentId"`
	Devices    []editor.Device `json:"devices"`
}

// SceneSyncPayload carries the full editor state after a change.
type SceneSyncPayload struct {
	Document json.RawMessage `json:"document"`
	Selected string          `json:"selected,omitempty"`
	Mode     string          `json:"mode"`
	GridSize float64         `json:"gridSize"`
	Device   string          `json:"device"`
	CanUndo  bool            `json:"canUndo"`
	CanRedo  bool            `json:"canRedo"`
	Dirty    bool            `json:"dirty"`
	// CreatedID is the element made by the command that caused this sync.
	CreatedID string `json:"createdId,omitempty"`
}

type ErrorPayload struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

type PresencePayload struct {
	Cursor *PointerPayload `json:"cursor,omitempty"`
	Name   string          `json:"name,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}

func syncPayload(st editor.State, created string) SceneSyncPayload {
	return SceneSyncPayload{
		Document:  st.Document,
		Selected:  st.Selected,
		Mode:      st.Mode.String(),
		GridSize:  st.GridSize,
		Device:    st.Device,
		CanUndo:   st.CanUndo,
		CanRedo:   st.CanRedo,
		Dirty:     st.Dirty,
		CreatedID: created,
	}
}
