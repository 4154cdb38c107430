// Package session hosts live editing sessions: every open document gets a
// room with one editor controller shared by the room's WebSocket clients.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ideaspark/wireframe/internal/editor"
)

const (
	autosaveInterval = 30 * time.Second
	saveTimeout      = 10 * time.Second
)

// OptionsFunc returns the controller options for a newly opened document.
type OptionsFunc func(documentID string) editor.Options

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // documentID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	persister editor.Persister
	options   OptionsFunc
}

// NewHub creates a hub that loads rooms through persister. A nil persister
// starts every room with an empty scene and never saves.
func NewHub(persister editor.Persister, options OptionsFunc) *Hub {
	if options == nil {
		options = func(string) editor.Options { return editor.Options{} }
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		persister:  persister,
		options:    options,
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	ticker := time.NewTicker(autosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveAll()
		case <-h.stop:
			h.saveAll()
			h.closeAll()
			return
		}
	}
}

// Stop saves every dirty document, disconnects all clients and waits for
// Run to return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Register adds the client to its document's room. It returns once the
// room is open and the welcome is queued, so messages the client reads
// afterwards always find the room.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
		return
	}
	select {
	case <-client.joined:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Rooms returns the ids of the open documents.
func (h *Hub) Rooms() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.rooms))
	for id := range h.rooms {
		ids = append(ids, id)
	}
	return ids
}

// openRoom returns the room for a document, loading it on first use. Only
// the Run goroutine creates rooms.
func (h *Hub) openRoom(documentID string) (*Room, error) {
	h.mu.RLock()
	room, ok := h.rooms[documentID]
	h.mu.RUnlock()
	if ok {
		return room, nil
	}

	opts := h.options(documentID)
	opts.DocumentID = documentID
	opts.Persister = h.persister
	ctrl, err := editor.New(opts)
	if err != nil {
		return nil, err
	}
	if h.persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := ctrl.LoadDocument(ctx)
		cancel()
		if err != nil {
			return nil, err
		}
	}

	room = newRoom(documentID, ctrl)
	h.mu.Lock()
	h.rooms[documentID] = room
	h.mu.Unlock()
	slog.Info("document opened", "document", documentID)
	return room, nil
}

func (h *Hub) addClient(client *Client) {
	defer close(client.joined)

	room, err := h.openRoom(client.DocumentID)
	if err != nil {
		slog.Error("open document", "error", err, "document", client.DocumentID)
		client.Send(newMessage(TypeError, ErrorPayload{Message: fmt.Sprintf("open document: %v", err)}))
		client.close()
		return
	}

	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	client.Send(newMessage(TypeWelcome, WelcomePayload{
		ClientID:   client.ClientID,
		DocumentID: client.DocumentID,
		Devices:    editor.Devices(),
	}))
	room.mu.Lock()
	client.Send(room.syncMessage(""))
	room.mu.Unlock()
	client.Send(room.presenceState())

	join := newMessage(TypePresenceJoin, PresencePayload{Name: client.Name})
	join.ClientID = client.ClientID
	h.broadcastToRoom(client.DocumentID, join, client.ClientID)

	slog.Info("client joined", "client", client.ClientID, "document", client.DocumentID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DocumentID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := room.clients[client.ClientID]; !member {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.DocumentID)
	}
	h.mu.Unlock()

	room.removePresence(client.ClientID)
	slog.Info("client left", "client", client.ClientID, "document", client.DocumentID)

	if empty {
		h.save(room)
		slog.Info("document closed", "document", client.DocumentID)
		return
	}

	leave := newMessage(TypePresenceLeave, PresenceLeavePayload{ClientID: client.ClientID})
	h.broadcastToRoom(client.DocumentID, leave, "")
}

func (h *Hub) save(room *Room) {
	if h.persister == nil || !room.ctrl.Dirty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := room.ctrl.SaveDocument(ctx); err != nil {
		slog.Error("save document", "error", err, "document", room.documentID)
	}
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.save(r)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			c.close()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	h.mu.RLock()
	room, ok := h.rooms[sender.DocumentID]
	h.mu.RUnlock()
	if !ok {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "document " + sender.DocumentID + " is not open"}))
		return
	}

	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		h.handlePointer(room, sender, msg)
	case TypeCommand:
		h.handleCommand(ctx, room, sender, msg)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(room, sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) handlePointer(room *Room, sender *Client, msg *Message) {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "invalid pointer payload"}))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	var changed bool
	switch msg.Type {
	case TypePointerDown:
		changed = room.ctrl.PointerDown(p.X, p.Y)
	case TypePointerMove:
		changed = room.ctrl.PointerMove(p.X, p.Y)
	case TypePointerUp:
		changed = room.ctrl.PointerUp(p.X, p.Y)
	}
	if changed {
		h.broadcastToRoom(room.documentID, room.syncMessage(""), "")
	}
}

func (h *Hub) handleCommand(ctx context.Context, room *Room, sender *Client, msg *Message) {
	var p CommandPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "invalid command payload"}))
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	res, err := room.ctrl.Execute(ctx, p.Command)
	if err != nil {
		slog.Debug("command rejected", "command", p.Name, "error", err, "client", sender.ClientID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: err.Error(), RequestID: p.RequestID}))
		return
	}
	if res.Changed {
		h.broadcastToRoom(room.documentID, room.syncMessage(res.ID), "")
	}
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}
	presence.Name = sender.Name
	room.updatePresence(sender.ClientID, &presence)

	out := newMessage(TypePresenceUpdate, presence)
	out.ClientID = sender.ClientID
	h.broadcastToRoom(room.documentID, out, sender.ClientID)
}

func (h *Hub) broadcastToRoom(documentID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[documentID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// Handler upgrades GET /ws/documents/{id} to a session connection.
// origins are full origins ("http://localhost:5173").
func (h *Hub) Handler(origins []string) http.HandlerFunc {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		patterns = append(patterns, o)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		documentID := mux.Vars(r)["id"]
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "Anonymous"
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: patterns})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(h, conn, documentID, uuid.NewString(), name)
		h.Register(client)

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
