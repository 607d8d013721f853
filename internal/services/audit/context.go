package audit

import "context"

type ctxKey string

const clientIPKey ctxKey = "audit_client_ip"

// WithClientIP stores the request's client address for later audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFromContext extracts the client address, or "" when absent.
func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
