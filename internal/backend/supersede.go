package backend

import (
	"context"
	"sync"
)

// Operation classes whose requests supersede each other when re-triggered
// rapidly by the UI.
const (
	ClassList   = "list"
	ClassDetail = "detail"
)

// Token identifies one tracked request so its issuer can later check
// whether it is still the most recent of its class.
type Token struct {
	class string
	gen   uint64
}

type flight struct {
	cancel context.CancelFunc
	gen    uint64
}

// SupersessionTracker ensures that for each operation class only the most
// recently issued request is allowed to land: starting a new request
// cancels the prior in-flight one. Safe for concurrent use.
type SupersessionTracker struct {
	mu       sync.Mutex
	inflight map[string]*flight
	gens     map[string]uint64
}

// NewSupersessionTracker creates an empty tracker.
func NewSupersessionTracker() *SupersessionTracker {
	return &SupersessionTracker{
		inflight: make(map[string]*flight),
		gens:     make(map[string]uint64),
	}
}

// Begin registers a new request for the class, cancelling any prior
// in-flight request first. The returned context governs the new request;
// the token lets the issuer check freshness and release the entry.
func (t *SupersessionTracker) Begin(parent context.Context, class string) (context.Context, Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.inflight[class]; ok {
		prev.cancel()
	}

	t.gens[class]++
	gen := t.gens[class]

	ctx, cancel := context.WithCancel(parent)
	t.inflight[class] = &flight{cancel: cancel, gen: gen}

	return ctx, Token{class: class, gen: gen}
}

// Current reports whether the token still names the most recent request of
// its class. A result arriving for a superseded token must be discarded.
func (t *SupersessionTracker) Current(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[tok.class] == tok.gen
}

// Finish releases the tracked entry if the token is still current.
// Safe to call after the request completed either way.
func (t *SupersessionTracker) Finish(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.inflight[tok.class]
	if !ok || f.gen != tok.gen {
		return
	}
	f.cancel()
	delete(t.inflight, tok.class)
}
