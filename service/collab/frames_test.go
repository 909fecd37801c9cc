package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"event":"edit-document","documentId":"doc1","content":{"ops":[1,2]}}`))
	require.NoError(t, err)
	assert.Equal(t, EvtEditDocument, f.Event)
	assert.Equal(t, "doc1", f.DocumentID)
	assert.JSONEq(t, `{"ops":[1,2]}`, string(f.Content))
}

func TestParseFrameMalformed(t *testing.T) {
	_, err := ParseFrame([]byte(`{not json`))
	assert.Error(t, err)

	_, err = ParseFrame([]byte(`{"documentId":"doc1"}`))
	assert.Error(t, err, "missing event name")
}

func TestBuildPresenceFrame(t *testing.T) {
	var got outFrame
	require.NoError(t, json.Unmarshal(BuildPresence(EvtUserLeft, 3), &got))
	assert.Equal(t, EvtUserLeft, got.Event)
	assert.Equal(t, 3, got.Count)
}

func TestContentStaysOpaque(t *testing.T) {
	// arbitrary blobs pass through untouched, the engine never interprets them
	blob := json.RawMessage(`{"delta":[{"insert":"héllo"}],"v":9}`)
	var got outFrame
	require.NoError(t, json.Unmarshal(BuildDocumentUpdated(blob), &got))
	assert.JSONEq(t, string(blob), string(got.Content))
}

func TestIsCommentEvent(t *testing.T) {
	assert.True(t, IsCommentEvent(EvtCommentAdded))
	assert.True(t, IsCommentEvent(EvtCommentResolved))
	assert.False(t, IsCommentEvent(EvtEditDocument))
}
