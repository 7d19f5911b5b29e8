package client

import "context"

type contextKey string

const authorizationKey contextKey = "authorization"

// WithAuthorization stores an Authorization header value to be sent on
// upstream calls made with ctx.
func WithAuthorization(ctx context.Context, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, authorizationKey, value)
}

func authorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authorizationKey).(string)
	return v
}
