package state

import (
	"slices"

	"github.com/roamly/roamly/internal/travel"
)

// Select observes a single field: fn fires with the value at subscription
// time and again only when the derived value actually changes, even though
// the store broadcasts on every update.
func Select[T comparable](s *Store, get func(Snapshot) T, fn func(T)) *Subscription {
	return SelectFunc(s, get, func(a, b T) bool { return a == b }, fn)
}

// SelectFunc is Select for types without built-in equality.
func SelectFunc[T any](s *Store, get func(Snapshot) T, equal func(a, b T) bool, fn func(T)) *Subscription {
	var (
		last T
		seen bool
	)

	return s.Subscribe(func(snap Snapshot) {
		v := get(snap)

		if seen && equal(last, v) {
			return
		}

		last = v
		seen = true

		fn(v)
	})
}

func (s *Store) OnUser(fn func(*travel.User)) *Subscription {
	return Select(s, func(snap Snapshot) *travel.User { return snap.User }, fn)
}

func (s *Store) OnSelectedDestination(fn func(*travel.Destination)) *Subscription {
	return Select(s, func(snap Snapshot) *travel.Destination { return snap.SelectedDestination }, fn)
}

func (s *Store) OnSelectedPackage(fn func(*travel.Package)) *Subscription {
	return Select(s, func(snap Snapshot) *travel.Package { return snap.SelectedPackage }, fn)
}

func (s *Store) OnLoading(fn func(bool)) *Subscription {
	return Select(s, func(snap Snapshot) bool { return snap.IsLoading }, fn)
}

func (s *Store) OnError(fn func(string)) *Subscription {
	return Select(s, func(snap Snapshot) string { return snap.Error }, fn)
}

func (s *Store) OnSearchTerm(fn func(string)) *Subscription {
	return Select(s, func(snap Snapshot) string { return snap.SearchTerm }, fn)
}

func (s *Store) OnFilters(fn func(Filters)) *Subscription {
	return Select(s, func(snap Snapshot) Filters { return snap.Filters }, fn)
}

func (s *Store) OnCart(fn func([]travel.Booking)) *Subscription {
	return SelectFunc(s,
		func(snap Snapshot) []travel.Booking { return snap.Cart },
		cartsEqual,
		fn,
	)
}

func (s *Store) OnCartCount(fn func(int)) *Subscription {
	return Select(s, func(snap Snapshot) int { return len(snap.Cart) }, fn)
}

func cartsEqual(a, b []travel.Booking) bool {
	return slices.EqualFunc(a, b, func(x, y travel.Booking) bool { return x.ID == y.ID })
}
