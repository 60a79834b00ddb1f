package middleware

import "context"

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeySession ctxKey = "session"
	ctxKeyHTMX    ctxKey = "htmx.info"
	ctxKeyCSRF    ctxKey = "csrf.token"
)

// WithHTMX stores htmx request metadata.
func WithHTMX(ctx context.Context, info HTMXInfo) context.Context {
	return context.WithValue(ctx, ctxKeyHTMX, info)
}

// HTMXInfoFromContext returns the htmx metadata, or the zero value.
func HTMXInfoFromContext(ctx context.Context) HTMXInfo {
	info, _ := ctx.Value(ctxKeyHTMX).(HTMXInfo)
	return info
}

// IsHTMX returns whether this is an htmx request
func IsHTMX(ctx context.Context) bool {
	return HTMXInfoFromContext(ctx).IsHTMX
}

// CSRFToken returns the token to embed in forms and htmx headers.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxKeyCSRF).(string)
	return token
}
