package collab

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]string // credential -> userID

func (v staticVerifier) VerifyToken(credential string) (string, bool) {
	userID, ok := v[credential]
	return userID, ok
}

type outFrame struct {
	Event   string          `json:"event"`
	Content json.RawMessage `json:"content"`
	Payload json.RawMessage `json:"payload"`
	Count   int             `json:"count"`
}

func recvFrame(t *testing.T, c *Client) outFrame {
	t.Helper()
	select {
	case raw := <-c.Send:
		var f outFrame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(2 * time.Second):
		t.Fatalf("conn %s: no frame delivered", c.ConnID)
		return outFrame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("conn %s: unexpected frame %s", c.ConnID, raw)
	default:
	}
}

func newTestEngine(store *fakeStore, clk clock.Clock) *Coordinator {
	reg := NewRegistry()
	router := NewRouter(reg)
	debounce := NewDebouncer(500*time.Millisecond, clk, store, store)
	verifier := staticVerifier{"tokA": "alice", "tokB": "bob", "tokO": "olivia"}
	return NewCoordinator(reg, NewPresenceTracker(), router, verifier, debounce)
}

func TestEditBroadcastAndDebouncedPersist(t *testing.T) {
	mock := clock.NewMock()
	store := newFakeStore()
	store.allow("alice", "doc1")
	co := newTestEngine(store, mock)

	a := co.Connect(nil, "tokA")
	co.JoinRoom(a.ConnID, "doc1")
	assert.Equal(t, EvtUserJoined, recvFrame(t, a).Event)

	b := co.Connect(nil, "tokB")
	co.JoinRoom(b.ConnID, "doc1")
	assert.Equal(t, 2, recvFrame(t, a).Count)
	assert.Equal(t, 2, recvFrame(t, b).Count)

	co.Edit(a.ConnID, "doc1", json.RawMessage(`"X"`))

	got := recvFrame(t, b)
	assert.Equal(t, EvtDocumentUpdated, got.Event)
	assert.Equal(t, `"X"`, string(got.Content))
	// the originator never receives an echo of its own edit
	assertNoFrame(t, a)

	assert.Empty(t, store.recorded())
	mock.Add(500 * time.Millisecond)
	writes := waitRecorded(t, store, 1)
	assert.Equal(t, "doc1", writes[0].docID)
	assert.Equal(t, `"X"`, writes[0].content)
}

func TestPresenceLifecycleNotifications(t *testing.T) {
	store := newFakeStore()
	co := newTestEngine(store, clock.NewMock())

	a := co.Connect(nil, "tokA")
	co.JoinRoom(a.ConnID, "doc1")
	f := recvFrame(t, a)
	assert.Equal(t, EvtUserJoined, f.Event)
	assert.Equal(t, 1, f.Count)

	b := co.Connect(nil, "tokB")
	co.JoinRoom(b.ConnID, "doc1")
	assert.Equal(t, 2, recvFrame(t, a).Count)
	assert.Equal(t, 2, recvFrame(t, b).Count)

	co.Disconnect(a.ConnID)
	f = recvFrame(t, b)
	assert.Equal(t, EvtUserLeft, f.Event)
	assert.Equal(t, 1, f.Count)

	co.Disconnect(b.ConnID)
	assert.Equal(t, 0, co.presence.Count("doc1"))
	assert.Empty(t, co.reg.byDoc)
}

func TestMultiTabPresence(t *testing.T) {
	store := newFakeStore()
	co := newTestEngine(store, clock.NewMock())

	a1 := co.Connect(nil, "tokA")
	co.JoinRoom(a1.ConnID, "doc1")
	assert.Equal(t, 1, recvFrame(t, a1).Count)

	// second tab of the same user joins silently
	a2 := co.Connect(nil, "tokA")
	co.JoinRoom(a2.ConnID, "doc1")
	assertNoFrame(t, a1)
	assertNoFrame(t, a2)

	b := co.Connect(nil, "tokB")
	co.JoinRoom(b.ConnID, "doc1")
	assert.Equal(t, 2, recvFrame(t, a1).Count)
	assert.Equal(t, 2, recvFrame(t, a2).Count)
	assert.Equal(t, 2, recvFrame(t, b).Count)

	// closing one of two tabs must not change the reported count
	co.Disconnect(a1.ConnID)
	assertNoFrame(t, a2)
	assertNoFrame(t, b)

	co.Disconnect(a2.ConnID)
	f := recvFrame(t, b)
	assert.Equal(t, EvtUserLeft, f.Event)
	assert.Equal(t, 1, f.Count)
}

func TestAnonymousConnection(t *testing.T) {
	mock := clock.NewMock()
	store := newFakeStore()
	co := newTestEngine(store, mock)

	b := co.Connect(nil, "tokB")
	co.JoinRoom(b.ConnID, "doc1")
	assert.Equal(t, 1, recvFrame(t, b).Count)

	// invalid credential degrades to anonymous, the connection stays usable
	anon := co.Connect(nil, "garbage")
	co.JoinRoom(anon.ConnID, "doc1")
	assertNoFrame(t, b) // no presence change

	co.Edit(anon.ConnID, "doc1", json.RawMessage(`"hi"`))
	got := recvFrame(t, b)
	assert.Equal(t, EvtDocumentUpdated, got.Event)
	assert.Equal(t, `"hi"`, string(got.Content))

	// anonymous edits are never persisted
	mock.Add(500 * time.Millisecond)
	settle()
	assert.Empty(t, store.recorded())

	co.Disconnect(anon.ConnID)
	assertNoFrame(t, b)
}

func TestCommentRelay(t *testing.T) {
	store := newFakeStore()
	co := newTestEngine(store, clock.NewMock())

	a := co.Connect(nil, "tokA")
	co.JoinRoom(a.ConnID, "doc1")
	recvFrame(t, a)
	b := co.Connect(nil, "tokB")
	co.JoinRoom(b.ConnID, "doc1")
	recvFrame(t, a)
	recvFrame(t, b)

	payload := json.RawMessage(`{"id":"c1","content":"looks good"}`)
	co.RelayComment(a.ConnID, "doc1", EvtCommentAdded, payload)

	got := recvFrame(t, b)
	assert.Equal(t, EvtCommentAdded, got.Event)
	assert.JSONEq(t, string(payload), string(got.Payload))
	assertNoFrame(t, a)
}

// An edit that names a document the connection never joined still reaches
// that room's peers and the debouncer; the degraded path is safe, not fatal.
func TestEditWithoutJoin(t *testing.T) {
	mock := clock.NewMock()
	store := newFakeStore()
	store.allow("alice", "doc1")
	co := newTestEngine(store, mock)

	b := co.Connect(nil, "tokB")
	co.JoinRoom(b.ConnID, "doc1")
	recvFrame(t, b)

	a := co.Connect(nil, "tokA")
	co.Edit(a.ConnID, "doc1", json.RawMessage(`"drive-by"`))

	assert.Equal(t, EvtDocumentUpdated, recvFrame(t, b).Event)
	mock.Add(500 * time.Millisecond)
	waitRecorded(t, store, 1)
}

// A flush may fire after the submitting connection closed; the pending write
// carries identity and content on its own and persists regardless.
func TestFlushAfterDisconnect(t *testing.T) {
	mock := clock.NewMock()
	store := newFakeStore()
	store.allow("alice", "doc1")
	co := newTestEngine(store, mock)

	a := co.Connect(nil, "tokA")
	co.JoinRoom(a.ConnID, "doc1")
	recvFrame(t, a)

	co.Edit(a.ConnID, "doc1", json.RawMessage(`"last words"`))
	co.Disconnect(a.ConnID)

	mock.Add(500 * time.Millisecond)
	writes := waitRecorded(t, store, 1)
	assert.Equal(t, `"last words"`, writes[0].content)
}

// Presence notifications must reach peers in the order the counts were
// computed, even when joins and disconnects race on different goroutines:
// the last delivered count always matches the live distinct count.
func TestPresenceNotificationsOrderedUnderChurn(t *testing.T) {
	store := newFakeStore()
	co := newTestEngine(store, clock.NewMock())

	obs := co.Connect(nil, "tokO")
	co.JoinRoom(obs.ConnID, "doc1")
	assert.Equal(t, 1, recvFrame(t, obs).Count)

	for i := 0; i < 200; i++ {
		a := co.Connect(nil, "tokA")
		b := co.Connect(nil, "tokB")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); co.JoinRoom(a.ConnID, "doc1") }()
		go func() { defer wg.Done(); co.JoinRoom(b.ConnID, "doc1") }()
		wg.Wait()

		counts := []int{recvFrame(t, obs).Count, recvFrame(t, obs).Count}
		assert.ElementsMatch(t, []int{2, 3}, counts)
		require.Equal(t, 3, counts[1], "stale count delivered last")

		wg.Add(2)
		go func() { defer wg.Done(); co.Disconnect(a.ConnID) }()
		go func() { defer wg.Done(); co.Disconnect(b.ConnID) }()
		wg.Wait()

		counts = []int{recvFrame(t, obs).Count, recvFrame(t, obs).Count}
		assert.ElementsMatch(t, []int{1, 2}, counts)
		require.Equal(t, 1, counts[1], "stale count delivered last")
	}
}

func TestJoinUnknownConnection(t *testing.T) {
	store := newFakeStore()
	co := newTestEngine(store, clock.NewMock())

	// must be a harmless no-op
	co.JoinRoom("missing", "doc1")
	co.Edit("missing", "doc1", json.RawMessage(`"x"`))
	co.Disconnect("missing")
	assert.Equal(t, 0, co.presence.Count("doc1"))
}
