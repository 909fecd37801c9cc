package collab

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Realtime channel events. Client→server events carry a documentId; the
// content/payload bodies are opaque to the engine and forwarded untouched.
const (
	EvtJoinDocument    = "join-document"
	EvtEditDocument    = "edit-document"
	EvtCommentAdded    = "comment-added"
	EvtCommentUpdated  = "comment-updated"
	EvtCommentDeleted  = "comment-deleted"
	EvtCommentResolved = "comment-resolved"

	EvtDocumentUpdated = "document-updated"
	EvtUserJoined      = "user-joined"
	EvtUserLeft        = "user-left"
)

// Frame is the wire shape of a client-submitted event.
type Frame struct {
	Event      string          `json:"event"`
	DocumentID string          `json:"documentId,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, errors.Wrap(err, "unmarshal frame")
	}
	if frame.Event == "" {
		return nil, errors.New("frame missing event")
	}
	return frame, nil
}

func IsCommentEvent(event string) bool {
	switch event {
	case EvtCommentAdded, EvtCommentUpdated, EvtCommentDeleted, EvtCommentResolved:
		return true
	}
	return false
}

// ---- server-built frames ----

func BuildDocumentUpdated(content json.RawMessage) []byte {
	raw, _ := json.Marshal(struct {
		Event   string          `json:"event"`
		Content json.RawMessage `json:"content"`
	}{EvtDocumentUpdated, content})
	return raw
}

// BuildPresence carries the new distinct-user count for user-joined/user-left.
func BuildPresence(event string, count int) []byte {
	raw, _ := json.Marshal(struct {
		Event string `json:"event"`
		Count int    `json:"count"`
	}{event, count})
	return raw
}

func BuildCommentRelay(event string, payload json.RawMessage) []byte {
	raw, _ := json.Marshal(struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}{event, payload})
	return raw
}
