package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Without a configured redis the mirror must degrade to a no-op; engine
// state never depends on it.
func TestMirrorNoopWithoutRedis(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, MirrorPresence(ctx, "doc1", 3))
	assert.NoError(t, MirrorPresence(ctx, "doc1", 0))

	count, err := LookupPresence(ctx, "doc1")
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}
