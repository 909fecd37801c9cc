package collab

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOpenAttachClose(t *testing.T) {
	r := NewRegistry()

	c := r.Open(nil)
	require.NotEmpty(t, c.ConnID)

	userID, docID, ok := r.Snapshot(c.ConnID)
	assert.True(t, ok)
	assert.Empty(t, userID)
	assert.Empty(t, docID)

	r.AttachIdentity(c.ConnID, "alice")
	// attach is idempotent, last write wins
	r.AttachIdentity(c.ConnID, "alice")

	userID, _, _ = r.Snapshot(c.ConnID)
	assert.Equal(t, "alice", userID)

	userID, docID = r.Close(c.ConnID)
	assert.Equal(t, "alice", userID)
	assert.Empty(t, docID)

	// close is settled exactly once
	userID, docID = r.Close(c.ConnID)
	assert.Empty(t, userID)
	assert.Empty(t, docID)
}

func TestRegistryJoinOnce(t *testing.T) {
	r := NewRegistry()
	c := r.Open(nil)

	assert.True(t, r.Join(c.ConnID, "doc1"))
	// rejoining the same room is a no-op
	assert.False(t, r.Join(c.ConnID, "doc1"))
	// a connection only ever joins one room
	assert.False(t, r.Join(c.ConnID, "doc2"))

	_, docID, _ := r.Snapshot(c.ConnID)
	assert.Equal(t, "doc1", docID)

	assert.Len(t, r.ListRoom("doc1", ""), 1)
	assert.Empty(t, r.ListRoom("doc2", ""))
}

func TestRegistryListRoomExcludesOriginator(t *testing.T) {
	r := NewRegistry()
	a := r.Open(nil)
	b := r.Open(nil)
	r.Join(a.ConnID, "doc1")
	r.Join(b.ConnID, "doc1")

	peers := r.ListRoom("doc1", a.ConnID)
	require.Len(t, peers, 1)
	assert.Equal(t, b.ConnID, peers[0].ConnID)

	assert.Len(t, r.ListRoom("doc1", ""), 2)
}

func TestRegistryCloseCleansRoom(t *testing.T) {
	r := NewRegistry()
	a := r.Open(nil)
	r.Join(a.ConnID, "doc1")

	userID, docID := r.Close(a.ConnID)
	assert.Empty(t, userID)
	assert.Equal(t, "doc1", docID)
	assert.Empty(t, r.ListRoom("doc1", ""))
	assert.Empty(t, r.byDoc)
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := r.Open(nil)
			r.AttachIdentity(c.ConnID, "user")
			r.Join(c.ConnID, "doc1")
			r.ListRoom("doc1", "")
			r.Close(c.ConnID)
		}()
	}
	wg.Wait()

	assert.Empty(t, r.byConn)
	assert.Empty(t, r.byDoc)
}
