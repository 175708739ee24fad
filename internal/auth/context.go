package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	ctxKeyID contextKey = iota
	ctxKeyName
)

// ContextWithKey stores the authenticated API key's identity on the context.
func ContextWithKey(ctx context.Context, keyID uuid.UUID, keyName string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyID, keyID)
	return context.WithValue(ctx, ctxKeyName, keyName)
}

// KeyIDFromContext returns the authenticated API key's ID, if any.
func KeyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyID).(uuid.UUID)
	return id, ok
}

// KeyNameFromContext returns the authenticated API key's name, if any.
func KeyNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ctxKeyName).(string)
	return name, ok
}
