package log

import "context"

type correlationIDKey struct{}

// WithCorrelationID returns a copy of ctx tagged with id. Every entry logged with the
// returned context carries it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
