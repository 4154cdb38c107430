package session

import (
	"sync"

	"github.com/ideaspark/wireframe/internal/editor"
)

// Room is one open document and the clients editing it.
type Room struct {
	documentID string
	ctrl       *editor.Controller
	clients    map[string]*Client // guarded by Hub.mu

	// mu orders message handling so syncs go out in seq order.
	mu        sync.Mutex
	seq       int64
	presences map[string]*PresencePayload
}

func newRoom(documentID string, ctrl *editor.Controller) *Room {
	return &Room{
		documentID: documentID,
		ctrl:       ctrl,
		clients:    make(map[string]*Client),
		presences:  make(map[string]*PresencePayload),
	}
}

// syncMessage snapshots the editor state. Callers hold r.mu.
func (r *Room) syncMessage(created string) *Message {
	r.seq++
	msg := newMessage(TypeSceneSync, syncPayload(r.ctrl.State(), created))
	msg.DocumentID = r.documentID
	msg.Seq = r.seq
	return msg
}

func (r *Room) updatePresence(clientID string, p *PresencePayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presences[clientID] = p
}

func (r *Room) removePresence(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.presences, clientID)
}

func (r *Room) presenceState() *Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make(map[string]*PresencePayload, len(r.presences))
	for k, v := range r.presences {
		all[k] = v
	}
	return newMessage(TypePresenceState, PresenceStatePayload{Presences: all})
}
