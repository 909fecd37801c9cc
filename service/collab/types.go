package collab

import (
	"context"
	"time"
)

// Collaborator capabilities consumed by the engine. The engine never reads
// ownership or sharing itself; it only asks these questions.

type TokenVerifier interface {
	VerifyToken(credential string) (userID string, ok bool)
}

type AccessChecker interface {
	CheckAccess(ctx context.Context, userID, docID string) bool
}

type ContentWriter interface {
	WriteContent(ctx context.Context, docID string, content []byte, ts time.Time) error
}
