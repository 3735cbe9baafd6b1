// Package tracker holds the transient "category chosen, amount not yet
// given" state for each actor in each group.
package tracker

import "sync"

// key scopes pending state to one actor within one group. Two groups
// never share a pending transaction even for the same actor.
type key struct {
	groupKey string
	actorID  string
}

// Tracker records at most one pending category per (group, actor).
// State is in-memory only; an in-flight, unconfirmed entry is an
// accepted loss across process restarts.
type Tracker struct {
	mu      sync.Mutex
	pending map[key]string
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{pending: make(map[key]string)}
}

// Select stores category as the actor's pending choice. If a previous
// category was still awaiting an amount it is replaced, and the replaced
// category is returned so callers can tell the actor it was discarded.
func (t *Tracker) Select(groupKey, actorID, category string) (replaced string, hadPending bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key{groupKey, actorID}
	replaced, hadPending = t.pending[k]
	t.pending[k] = category
	return replaced, hadPending
}

// Pending reports the actor's pending category, if any.
func (t *Tracker) Pending(groupKey, actorID string) (category string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	category, ok = t.pending[key{groupKey, actorID}]
	return category, ok
}

// Clear discards the actor's pending category. It is called both when a
// valid amount completes the flow and when the actor cancels.
func (t *Tracker) Clear(groupKey, actorID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, key{groupKey, actorID})
}
