package storage

import (
	"context"
	"strconv"
	"time"

	"CollabProject/service/storage/redis"
)

// presence key: collab:presence:<docID>
// Value: current distinct-user count for the document's room. The in-memory
// room tables stay authoritative; this mirror exists so other services can
// read live presence without a hop through the engine. Best-effort only.
func presenceKey(docID string) string { return "collab:presence:" + docID }

const mirrorTTL = 24 * time.Hour

// MirrorPresence records the distinct-user count for a document room.
// A zero count deletes the key. No-op when redis is not configured.
func MirrorPresence(ctx context.Context, docID string, count int) error {
	rdb := redis.GetRedis()
	if rdb == nil {
		return nil
	}
	if count <= 0 {
		return rdb.Del(ctx, presenceKey(docID)).Err()
	}
	return rdb.Set(ctx, presenceKey(docID), strconv.Itoa(count), mirrorTTL).Err()
}

// LookupPresence reads the mirrored count, 0 when absent or redis is down.
func LookupPresence(ctx context.Context, docID string) (int, error) {
	rdb := redis.GetRedis()
	if rdb == nil {
		return 0, nil
	}
	val, err := rdb.Get(ctx, presenceKey(docID)).Int()
	if err != nil {
		return 0, nil
	}
	return val, nil
}
