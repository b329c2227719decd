package services

import (
	"sync"

	"github.com/google/uuid"
)

// Tracker arbitrates overlapping generation requests for the same
// target. Each logical operation ("ad-image", "slide-3", ...) gets a
// token when it starts; a newer request for the same target supersedes
// any older in-flight one, and a stale result is simply discarded when
// its token no longer matches.
type Tracker struct {
	mu      sync.Mutex
	current map[string]uuid.UUID
}

func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]uuid.UUID)}
}

// Begin registers a new request for target and returns its token.
// Any previously issued token for the same target becomes stale.
func (t *Tracker) Begin(target string) uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	token := uuid.New()
	t.current[target] = token
	return token
}

// Commit reports whether the result belonging to token may be applied.
// It returns false when a newer request superseded this one. On success
// the target is cleared so InProgress reads false again.
func (t *Tracker) Commit(target string, token uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current[target] != token {
		return false
	}
	delete(t.current, target)
	return true
}

// InProgress reports whether target has an uncommitted request.
func (t *Tracker) InProgress(target string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.current[target]
	return ok
}
