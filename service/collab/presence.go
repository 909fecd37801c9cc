package collab

import "sync"

// PresenceTracker maintains, per room, how many live connections each user
// has. The displayed count is the number of distinct users, never the raw
// connection count, so a second tab neither bumps the count nor makes it
// flicker down when closed.
type PresenceTracker struct {
	mu    sync.Mutex
	rooms map[string]map[string]int // docID -> userID -> connection count
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{rooms: make(map[string]map[string]int)}
}

// Enter increments the user's connection count in the room. changed is true
// on the 0→1 transition, when the distinct-user count actually grew.
func (t *PresenceTracker) Enter(docID, userID string) (changed bool, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room := t.rooms[docID]
	if room == nil {
		room = make(map[string]int)
		t.rooms[docID] = room
	}
	room[userID]++
	return room[userID] == 1, len(room)
}

// Leave decrements the user's connection count. changed is true on the 1→0
// transition. Empty user entries and empty rooms are removed so abandoned
// documents don't leak memory.
func (t *PresenceTracker) Leave(docID, userID string) (changed bool, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room := t.rooms[docID]
	if room == nil || room[userID] == 0 {
		return false, len(room)
	}
	room[userID]--
	if room[userID] > 0 {
		return false, len(room)
	}
	delete(room, userID)
	if len(room) == 0 {
		delete(t.rooms, docID)
		return true, 0
	}
	return true, len(room)
}

// Count returns the current distinct-user count, 0 if the room is absent.
func (t *PresenceTracker) Count(docID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rooms[docID])
}
