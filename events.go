package reqx

import "context"

// SessionEvent is emitted when the server answers with one of the illegal
// token codes. The request layer only reports it; wiping local state and
// reloading is up to the listener.
type SessionEvent struct {
	Code    int
	URL     string
	Message string
}

// SessionListener receives session invalidation events. Listeners are
// called synchronously on the goroutine that issued the request, before
// the request returns.
type SessionListener interface {
	SessionInvalidated(ctx context.Context, ev SessionEvent)
}

// SessionListenerFunc adapts a function to the SessionListener interface.
type SessionListenerFunc func(ctx context.Context, ev SessionEvent)

func (f SessionListenerFunc) SessionInvalidated(ctx context.Context, ev SessionEvent) {
	f(ctx, ev)
}
