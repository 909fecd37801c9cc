package collab

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"CollabProject/logger"
	"CollabProject/service/storage"
)

// Coordinator orchestrates the registry, presence tracker, router and
// debouncer across the connection lifecycle. It holds no state of its own.
type Coordinator struct {
	reg      *Registry
	presence *PresenceTracker
	router   *Router
	resolver TokenVerifier
	debounce *Debouncer

	// notifyMu keeps each presence count and its notification enqueue
	// atomic: notifications reach the fanout queue in the order the
	// counts were computed, so peers never see a leave reordered after
	// a join that happened later.
	notifyMu sync.Mutex
}

func NewCoordinator(reg *Registry, presence *PresenceTracker, router *Router, resolver TokenVerifier, debounce *Debouncer) *Coordinator {
	return &Coordinator{
		reg:      reg,
		presence: presence,
		router:   router,
		resolver: resolver,
		debounce: debounce,
	}
}

// Connect registers the channel and resolves its credential once. A failed
// resolution leaves the connection anonymous; it is never rejected for that.
func (co *Coordinator) Connect(ws *websocket.Conn, credential string) *Client {
	c := co.reg.Open(ws)
	if userID, ok := co.resolver.VerifyToken(credential); ok {
		co.reg.AttachIdentity(c.ConnID, userID)
	}
	return c
}

// JoinRoom enters the connection into a document room. Anonymous connections
// join for broadcast purposes but never count toward presence.
func (co *Coordinator) JoinRoom(connID, docID string) {
	if !co.reg.Join(connID, docID) {
		return
	}
	userID, _, ok := co.reg.Snapshot(connID)
	if !ok || userID == "" {
		return
	}
	co.notifyMu.Lock()
	defer co.notifyMu.Unlock()
	if changed, count := co.presence.Enter(docID, userID); changed {
		co.router.NotifyAll(docID, BuildPresence(EvtUserJoined, count))
		go co.mirrorPresence(docID, count)
	}
}

// Edit broadcasts the content to the room immediately and hands it to the
// debouncer tagged with the connection's identity as of submission time.
// The broadcast and the persist path are independent: a later discarded
// flush does not affect what peers already saw.
func (co *Coordinator) Edit(connID, docID string, content json.RawMessage) {
	userID, joined, ok := co.reg.Snapshot(connID)
	if !ok {
		return
	}
	if docID == "" {
		docID = joined
	}
	if docID == "" {
		logger.Debugf("[collab] edit without document conn=%s", connID)
		return
	}
	co.router.Broadcast(docID, connID, BuildDocumentUpdated(content))
	co.debounce.Submit(docID, userID, content)
}

// RelayComment forwards a comment-lifecycle event to the room. Pure relay:
// the originating request already persisted the comment over REST.
func (co *Coordinator) RelayComment(connID, docID, event string, payload json.RawMessage) {
	if !IsCommentEvent(event) {
		return
	}
	if docID == "" {
		_, docID, _ = co.reg.Snapshot(connID)
	}
	if docID == "" {
		return
	}
	co.router.Broadcast(docID, connID, BuildCommentRelay(event, payload))
}

// Disconnect settles the connection exactly once: close the registry entry,
// recompute presence, and notify the room if this was the user's last
// connection there. Any pending debounced write is left to fire on its own.
func (co *Coordinator) Disconnect(connID string) {
	userID, docID := co.reg.Close(connID)
	if userID == "" || docID == "" {
		return
	}
	co.notifyMu.Lock()
	defer co.notifyMu.Unlock()
	if changed, count := co.presence.Leave(docID, userID); changed {
		co.router.NotifyAll(docID, BuildPresence(EvtUserLeft, count))
		go co.mirrorPresence(docID, count)
	}
}

// mirrorPresence pushes the count to redis for outside observers.
// Best-effort and always on its own goroutine: the in-memory tables stay
// authoritative and a hung redis must not stall a client's read loop.
func (co *Coordinator) mirrorPresence(docID string, count int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := storage.MirrorPresence(ctx, docID, count); err != nil {
		logger.Debugf("[collab] presence mirror failed doc=%s err=%v", docID, err)
	}
}
