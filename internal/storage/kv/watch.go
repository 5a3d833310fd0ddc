package kv

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
)

const watchBuffer = 16

type hubKey struct {
	key   string
	scope Scope
}

// hub fans one key's changes out to its subscribers. It is created on the
// first Watch and released when the last subscription closes.
type hub struct {
	order []string
	subs  map[string]*WatchSub
}

// WatchSub is an explicit watch handle. C carries the stored JSON value; a
// nil message means the key was removed or is absent. The current value is
// replayed immediately on subscription.
type WatchSub struct {
	ID string
	C  chan json.RawMessage

	store *Store
	key   hubKey
}

// Watch subscribes to changes of one key. Subscribers of the same key share
// one hub; each gets its own buffered channel, and a subscriber that stops
// draining loses updates rather than blocking the store.
func (s *Store) Watch(key string, scope Scope) *WatchSub {
	sub := &WatchSub{
		ID:    uuid.NewString(),
		C:     make(chan json.RawMessage, watchBuffer),
		store: s,
		key:   hubKey{key: key, scope: scope},
	}

	// Read before registering so the replayed value is first on the channel.
	current, ok := s.GetRaw(key, scope)

	s.mu.Lock()

	h, exists := s.hubs[sub.key]
	if !exists {
		h = &hub{order: nil, subs: make(map[string]*WatchSub)}
		s.hubs[sub.key] = h
	}

	h.order = append(h.order, sub.ID)
	h.subs[sub.ID] = sub

	if !ok {
		current = nil
	}

	sub.sendLocked(current)

	s.mu.Unlock()

	return sub
}

// Close unregisters the subscription and closes its channel. The hub is
// dropped when its last subscriber leaves.
func (w *WatchSub) Close() {
	w.store.mu.Lock()

	h, exists := w.store.hubs[w.key]
	if !exists {
		w.store.mu.Unlock()

		return
	}

	if _, ok := h.subs[w.ID]; !ok {
		w.store.mu.Unlock()

		return
	}

	delete(h.subs, w.ID)

	h.order = slices.DeleteFunc(h.order, func(id string) bool { return id == w.ID })

	if len(h.subs) == 0 {
		delete(w.store.hubs, w.key)
	}

	close(w.C)

	w.store.mu.Unlock()
}

// sendLocked must be called with the store mutex held, which serializes it
// against Close so a closed channel can never be written to.
func (w *WatchSub) sendLocked(value json.RawMessage) {
	select {
	case w.C <- value:
	default:
		w.store.l.LogWarn("Watch subscriber %s for key %s is not draining, dropping update", w.ID, w.key.key)
	}
}

func (s *Store) notify(key string, scope Scope, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, exists := s.hubs[hubKey{key: key, scope: scope}]
	if !exists {
		return
	}

	for _, id := range h.order {
		h.subs[id].sendLocked(value)
	}
}
