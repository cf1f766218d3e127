// Package session owns the forced reset of the client session.
//
// The request layer only reports responses carrying an illegal token code.
// A Controller registered on the client reacts by wiping every persisted
// value and running the reload hook, which rebuilds the application state
// from scratch.
//
// Usage:
//
//	store, err := filestore.New(path)
//	if err != nil {
//	    return err
//	}
//	storage := reqx.NewStorage(store)
//	client := reqx.New(reqx.WithStorage(storage))
//
//	ctrl := session.NewController(storage, func(ctx context.Context) error {
//	    cart.Reset()
//	    user.Reset()
//	    return nil
//	})
//	ctrl.Attach(client)
//
//	go func() {
//	    for range ctrl.Reloaded() {
//	        fmt.Println("session reset, please log in again")
//	    }
//	}()
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bluescreen10/reqx"
)

var _ reqx.SessionListener = &Controller{}

// ReloadFunc rebuilds the application state after local storage has been
// wiped.
type ReloadFunc func(ctx context.Context) error

// Controller wipes storage and reloads the application when the server
// rejects the session token. It is safe for concurrent use. Events
// arriving while a reset is running, including those raised by requests
// the reload hook issues, are coalesced into that reset.
type Controller struct {
	storage *reqx.Storage
	reload  ReloadFunc
	log     zerolog.Logger

	mu        sync.Mutex
	resetting bool
	resets    int
	last      reqx.SessionEvent
	reloaded  chan struct{}
}

// NewController returns a controller clearing storage and calling reload.
// A nil reload only clears storage.
func NewController(storage *reqx.Storage, reload ReloadFunc) *Controller {
	return &Controller{
		storage:  storage,
		reload:   reload,
		log:      zerolog.Nop(),
		reloaded: make(chan struct{}, 1),
	}
}

// SetLogger sets the logger used to report resets.
func (c *Controller) SetLogger(log zerolog.Logger) {
	c.log = log
}

// Attach registers the controller as a session listener of client.
func (c *Controller) Attach(client *reqx.Client) {
	client.OnSessionInvalid(c)
}

// SessionInvalidated clears every persisted value and runs the reload
// hook. It never retries or asks for confirmation. No lock is held while
// storage is cleared or the hook runs, so the hook may use the controller
// and the client freely.
func (c *Controller) SessionInvalidated(ctx context.Context, ev reqx.SessionEvent) {
	c.mu.Lock()
	c.last = ev
	if c.resetting {
		c.mu.Unlock()
		c.log.Debug().Int("code", ev.Code).Str("url", ev.URL).Msg("Session reset already running")
		return
	}
	c.resetting = true
	c.resets++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.resetting = false
		c.mu.Unlock()
	}()

	c.log.Warn().Int("code", ev.Code).Str("url", ev.URL).Msg("Resetting session")

	if c.storage != nil {
		if err := c.storage.Clear(ctx); err != nil {
			c.log.Err(err).Msg("Failed to clear local storage")
		}
	}

	if c.reload != nil {
		if err := c.reload(ctx); err != nil {
			c.log.Err(err).Msg("Failed to reload application state")
		}
	}

	// coalesce signals the consumer has not read yet
	select {
	case c.reloaded <- struct{}{}:
	default:
	}
}

// Reloaded returns a channel receiving a value after each reset. Resets
// happening before the previous signal was read are coalesced.
func (c *Controller) Reloaded() <-chan struct{} {
	return c.reloaded
}

// Resets returns how many resets were performed. Coalesced events are
// not counted.
func (c *Controller) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}

// LastEvent returns the event that caused the latest reset.
func (c *Controller) LastEvent() (reqx.SessionEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.resets > 0
}
