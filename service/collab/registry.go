package collab

import (
	"sync"

	"github.com/gorilla/websocket"

	"CollabProject/tools/ids"
)

const defaultSendQueueSize = 64

// Registry owns every live connection and its (identity, room) association.
// All mutation goes through the coordinator; operations are atomic under one
// lock so concurrent opens/closes never leave a dangling room reference.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*Client
	byDoc  map[string]map[string]*Client // docID -> connID -> client
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Client),
		byDoc:  make(map[string]map[string]*Client),
	}
}

// Open registers a new connection with no room and no identity.
func (r *Registry) Open(ws *websocket.Conn) *Client {
	c := NewClient(ids.GenerateString(), ws, defaultSendQueueSize)
	r.mu.Lock()
	r.byConn[c.ConnID] = c
	r.mu.Unlock()
	return c
}

// AttachIdentity binds a resolved user identity. Idempotent, last write wins.
func (r *Registry) AttachIdentity(connID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.byConn[connID]; c != nil {
		c.UserID = userID
	}
}

// Join puts the connection into a document room. A connection joins at most
// one room for its lifetime: joining a different room is a no-op, and so is
// rejoining the same one. Returns true only when the connection newly joined.
func (r *Registry) Join(connID, docID string) bool {
	if docID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byConn[connID]
	if c == nil || c.DocID != "" {
		return false
	}
	c.DocID = docID
	room := r.byDoc[docID]
	if room == nil {
		room = make(map[string]*Client)
		r.byDoc[docID] = room
	}
	room[connID] = c
	return true
}

// Close removes the connection and returns its last known identity and room
// so the caller can settle presence exactly once.
func (r *Registry) Close(connID string) (userID, docID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byConn[connID]
	if c == nil {
		return "", ""
	}
	delete(r.byConn, connID)
	if c.DocID != "" {
		if room := r.byDoc[c.DocID]; room != nil {
			delete(room, connID)
			if len(room) == 0 {
				delete(r.byDoc, c.DocID)
			}
		}
	}
	return c.UserID, c.DocID
}

// Snapshot reads the connection's current identity and room.
func (r *Registry) Snapshot(connID string) (userID, docID string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.byConn[connID]
	if c == nil {
		return "", "", false
	}
	return c.UserID, c.DocID, true
}

// ListRoom snapshots the clients joined to a room, optionally excluding one
// connection (the originator of a broadcast).
func (r *Registry) ListRoom(docID, excludeConnID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room := r.byDoc[docID]
	if len(room) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(room))
	for id, c := range room {
		if id == excludeConnID {
			continue
		}
		out = append(out, c)
	}
	return out
}
