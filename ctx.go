package members

import "context"

var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithContext sets the Session in the given context. Transitional provider
// state lives on the Session, so keying it per request context keeps
// concurrent members from observing each other's in-flight identities.
func WithContext(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, session)
}

// FromContext finds the Session in the context.
func FromContext(ctx context.Context) (*Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(*Session)
	return raw, ok
}
