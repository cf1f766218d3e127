package reqx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Fingerprint identifies a logically unique request. It joins the url,
// the lower cased method, the JSON encoded params and the JSON encoded
// normalized body with '&'. Map keys are encoded in sorted order, so the
// result does not depend on how the request was built. Empty params
// encode like nil params.
func Fingerprint(req *Request) (string, error) {
	p := req.Params
	if len(p) == 0 {
		p = nil
	}
	params, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("reqx: failed to encode params: %w", err)
	}

	body, err := req.Body.Normalize()
	if err != nil {
		return "", err
	}
	encodedBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("reqx: failed to encode body: %w", err)
	}

	return strings.Join([]string{
		req.URL,
		strings.ToLower(req.method()),
		string(params),
		string(encodedBody),
	}, "&"), nil
}

type pendingEntry struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// PendingTracker keeps one cancellation handle per in-flight fingerprint.
// It is safe for concurrent use by multiple goroutines.
type PendingTracker struct {
	mu      sync.Mutex
	lastID  uint64
	entries map[string]pendingEntry
}

// NewPendingTracker returns an empty tracker.
func NewPendingTracker() *PendingTracker {
	return &PendingTracker{entries: map[string]pendingEntry{}}
}

// Register stores cancel under fp and returns the id of the new entry.
// If fp is already tracked nothing is stored and ok is false.
func (t *PendingTracker) Register(fp string, cancel context.CancelCauseFunc) (id uint64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[fp]; exists {
		return 0, false
	}

	t.lastID++
	t.entries[fp] = pendingEntry{id: t.lastID, cancel: cancel}
	return t.lastID, true
}

// Resolve cancels the request tracked under fp with ErrSuperseded and
// forgets it. It reports whether an entry existed.
func (t *PendingTracker) Resolve(fp string) bool {
	t.mu.Lock()
	e, ok := t.entries[fp]
	if ok {
		delete(t.entries, fp)
	}
	t.mu.Unlock()

	if ok && e.cancel != nil {
		e.cancel(ErrSuperseded)
	}
	return ok
}

// Supersede cancels the request tracked under fp with ErrSuperseded and
// tracks cancel in its place, in one step. It returns the id of the new
// entry and whether an older request was cancelled.
func (t *PendingTracker) Supersede(fp string, cancel context.CancelCauseFunc) (id uint64, superseded bool) {
	t.mu.Lock()
	old, superseded := t.entries[fp]
	t.lastID++
	id = t.lastID
	t.entries[fp] = pendingEntry{id: id, cancel: cancel}
	t.mu.Unlock()

	if superseded && old.cancel != nil {
		old.cancel(ErrSuperseded)
	}
	return id, superseded
}

// Release forgets fp only while it still belongs to the request with the
// given id, so a request finishing after being superseded leaves its
// successor tracked.
func (t *PendingTracker) Release(fp string, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[fp]; ok && e.id == id {
		delete(t.entries, fp)
	}
}

// Len returns the number of tracked requests.
func (t *PendingTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Has reports whether fp is tracked.
func (t *PendingTracker) Has(fp string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[fp]
	return ok
}
