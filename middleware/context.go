package middleware

import (
	"context"

	"barhop-server/models"
)

// Typed context keys for values the middleware chain hands to handlers:
// the authenticated principal's id and the documents loaded from path params.
type contextKey int

const (
	principalIDKey contextKey = iota
	userKey
	barKey
)

func ContextWithPrincipalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, principalIDKey, id)
}

func PrincipalIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(principalIDKey).(string)
	return id, ok
}

func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

func ContextWithBar(ctx context.Context, bar *models.Bar) context.Context {
	return context.WithValue(ctx, barKey, bar)
}

func BarFromContext(ctx context.Context) (*models.Bar, bool) {
	bar, ok := ctx.Value(barKey).(*models.Bar)
	return bar, ok
}
