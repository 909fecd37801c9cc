package collab

import (
	"CollabProject/logger"
	"CollabProject/tools/security"
)

// Resolver maps an opaque credential to a user identity. A missing or
// invalid credential yields an anonymous connection, never an error: the
// connection stays open as a broadcast observer, it just doesn't count
// toward presence and can't pass the flush-time authorization check.
type Resolver struct {
	opts security.Options
}

func NewResolver(secret []byte) *Resolver {
	return &Resolver{opts: security.DefaultOptions(secret)}
}

func (r *Resolver) VerifyToken(credential string) (string, bool) {
	if credential == "" {
		return "", false
	}
	userID, err := security.Verify(r.opts, credential)
	if err != nil {
		logger.Debugf("token verify failed, continuing anonymous: %v", err)
		return "", false
	}
	return userID, true
}
