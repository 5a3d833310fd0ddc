package state

import (
	"slices"
	"sync"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/travel"
)

// Field marks one snapshot field inside a Patch as "to be replaced". The
// zero value leaves the field untouched.
type Field[T any] struct {
	set   bool
	value T
}

func Set[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

func (f Field[T]) apply(current T) T {
	if f.set {
		return f.value
	}

	return current
}

// Patch is an all-or-nothing partial update: the produced snapshot equals the
// previous one except for the fields that were Set. An empty Patch still
// produces (and broadcasts) a snapshot.
type Patch struct {
	User                Field[*travel.User]
	SelectedDestination Field[*travel.Destination]
	SelectedPackage     Field[*travel.Package]
	Cart                Field[[]travel.Booking]
	IsLoading           Field[bool]
	Error               Field[string]
	SearchTerm          Field[string]
	Filters             Field[Filters]

	// transform runs after the field replacements, against the snapshot the
	// patch is applied to. Commands that derive the new value from the
	// previous one (cart edits, filter merges) use it so queued updates see
	// their predecessor's result instead of the snapshot at enqueue time.
	transform func(Snapshot) Snapshot
}

type Store struct {
	mu        sync.Mutex
	l         *logger.Logger
	snapshot  Snapshot
	observers []*Subscription
	queue     []Patch
	draining  bool
}

func NewStore(l *logger.Logger) *Store {
	//nolint:exhaustruct
	return &Store{
		l:        l,
		snapshot: initialSnapshot(),
	}
}

// Get returns the current snapshot. The cart slice is copied so callers can
// never mutate store-owned state through the returned value.
func (s *Store) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copySnapshotLocked()
}

func (s *Store) copySnapshotLocked() Snapshot {
	snap := s.snapshot
	snap.Cart = slices.Clone(s.snapshot.Cart)

	return snap
}

// Update applies a partial update and broadcasts the resulting snapshot to
// every observer. Updates triggered from inside an observer callback are
// queued and applied after the current one finishes, preserving the
// one-at-a-time ordering guarantee.
func (s *Store) Update(p Patch) {
	s.mu.Lock()
	s.enqueueLocked(p)
}

// Reset restores the exact initial snapshot in a single broadcast.
func (s *Store) Reset() {
	initial := initialSnapshot()

	s.Update(Patch{
		User:                Set(initial.User),
		SelectedDestination: Set(initial.SelectedDestination),
		SelectedPackage:     Set(initial.SelectedPackage),
		Cart:                Set(initial.Cart),
		IsLoading:           Set(initial.IsLoading),
		Error:               Set(initial.Error),
		SearchTerm:          Set(initial.SearchTerm),
		Filters:             Set(initial.Filters),
	})
}

// enqueueLocked takes ownership of the held mutex and releases it before
// returning. Only one caller drains at a time; the rest just append.
func (s *Store) enqueueLocked(p Patch) {
	s.queue = append(s.queue, p)

	if s.draining {
		s.mu.Unlock()

		return
	}

	s.draining = true

	// A panicking observer must not leave the store stuck in draining mode
	// with the mutex held; later updates would enqueue forever.
	defer func() {
		s.draining = false
		s.mu.Unlock()
	}()

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]

		s.applyLocked(next)

		snap := s.copySnapshotLocked()
		observers := slices.Clone(s.observers)

		s.deliver(observers, snap)
	}
}

// deliver runs the callbacks with the mutex released and reacquires it even
// when one of them panics.
func (s *Store) deliver(observers []*Subscription, snap Snapshot) {
	s.mu.Unlock()
	defer s.mu.Lock()

	for _, sub := range observers {
		sub.deliver(snap)
	}
}

func (s *Store) applyLocked(p Patch) {
	snap := s.snapshot

	snap.User = p.User.apply(snap.User)
	snap.SelectedDestination = p.SelectedDestination.apply(snap.SelectedDestination)
	snap.SelectedPackage = p.SelectedPackage.apply(snap.SelectedPackage)
	snap.IsLoading = p.IsLoading.apply(snap.IsLoading)
	snap.Error = p.Error.apply(snap.Error)
	snap.SearchTerm = p.SearchTerm.apply(snap.SearchTerm)
	snap.Filters = p.Filters.apply(snap.Filters)

	if p.Cart.set {
		snap.Cart = slices.Clone(p.Cart.value)
	}

	if p.transform != nil {
		snap = p.transform(snap)
	}

	s.snapshot = snap
}

// Subscription is an explicit observer handle; Close unregisters it.
type Subscription struct {
	store  *Store
	fn     func(Snapshot)
	closed bool
}

// Subscribe registers an observer and replays the current snapshot to it
// immediately. Afterwards the observer sees every emitted snapshot in
// emission order.
func (s *Store) Subscribe(fn func(Snapshot)) *Subscription {
	sub := &Subscription{store: s, fn: fn, closed: false}

	s.mu.Lock()
	s.observers = append(s.observers, sub)
	snap := s.copySnapshotLocked()
	s.mu.Unlock()

	sub.deliver(snap)

	return sub
}

func (sub *Subscription) deliver(snap Snapshot) {
	sub.store.mu.Lock()
	closed := sub.closed
	sub.store.mu.Unlock()

	if closed {
		return
	}

	sub.fn(snap)
}

func (sub *Subscription) Close() {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()

	if sub.closed {
		return
	}

	sub.closed = true

	sub.store.observers = slices.DeleteFunc(sub.store.observers, func(s *Subscription) bool {
		return s == sub
	})
}
