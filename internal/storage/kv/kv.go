// Package kv wraps a persistent key-value medium with typed access,
// expiry-based invalidation and per-key change notification. There are two
// scopes: session (in-memory, process lifetime) and local (on disk).
//
// Storage failures and malformed envelopes never escape this package as
// errors; they are logged and reported as absent, matching the fail-safe
// contract of the rest of the application.
package kv

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/roamly/roamly/internal/logger"
)

type Scope string

const (
	ScopeSession Scope = "session"
	ScopeLocal   Scope = "local"
)

// envelope wraps every stored value with its write timestamp and optional
// expiry, both in milliseconds.
type envelope struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`
	Expiry    *int64          `json:"expiry,omitempty"`
}

func (e envelope) expired(now time.Time) bool {
	if e.Expiry == nil || *e.Expiry <= 0 {
		return false
	}

	return now.UnixMilli()-e.Timestamp > *e.Expiry
}

type Config struct {
	L *logger.Logger
	// DataDir backs the local scope. Empty falls back to an in-memory
	// medium, losing durability but keeping every other guarantee.
	DataDir string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type Store struct {
	mu      sync.Mutex
	l       *logger.Logger
	mediums map[Scope]Medium
	hubs    map[hubKey]*hub
	now     func() time.Time
}

func New(conf Config) (*Store, error) {
	now := conf.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	var local Medium

	if conf.DataDir == "" {
		conf.L.LogWarn("No data dir configured, local scope is not durable")

		local = newMemoryMedium()
	} else {
		fileBacked, err := newFileMedium(conf.DataDir)
		if err != nil {
			return nil, err
		}

		local = fileBacked
	}

	return &Store{
		mu: sync.Mutex{},
		l:  conf.L,
		mediums: map[Scope]Medium{
			ScopeSession: newMemoryMedium(),
			ScopeLocal:   local,
		},
		hubs: make(map[hubKey]*hub),
		now:  now,
	}, nil
}

func (s *Store) medium(scope Scope) Medium {
	if m, ok := s.mediums[scope]; ok {
		return m
	}

	return s.mediums[ScopeLocal]
}

// Set stores value under key with an optional time-to-live; ttl <= 0 means no
// expiry. Failures are logged and swallowed.
func (s *Store) Set(key string, value any, scope Scope, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.l.LogErrorf("Could not marshal value for key %s: %v", key, err.Error())

		return
	}

	env := envelope{
		Key:       key,
		Value:     data,
		Timestamp: s.now().UnixMilli(),
		Expiry:    nil,
	}

	if ttl > 0 {
		ms := ttl.Milliseconds()
		env.Expiry = &ms
	}

	raw, err := json.Marshal(env)
	if err != nil {
		s.l.LogErrorf("Could not marshal envelope for key %s: %v", key, err.Error())

		return
	}

	if err := s.medium(scope).Write(key, raw); err != nil {
		s.l.LogErrorf("Could not store key %s: %v", key, err.Error())

		return
	}

	s.notify(key, scope, data)
}

// GetRaw returns the stored JSON value. Expired entries are deleted as a side
// effect and reported absent, as are malformed envelopes and medium failures.
func (s *Store) GetRaw(key string, scope Scope) (json.RawMessage, bool) {
	raw, ok, err := s.medium(scope).Read(key)
	if err != nil {
		s.l.LogErrorf("Could not read key %s: %v", key, err.Error())

		return nil, false
	}

	if !ok {
		return nil, false
	}

	var env envelope

	if err := json.Unmarshal(raw, &env); err != nil {
		s.l.LogErrorf("Malformed envelope for key %s, treating as absent: %v", key, err.Error())

		return nil, false
	}

	if env.expired(s.now()) {
		s.Remove(key, scope)

		return nil, false
	}

	return env.Value, true
}

// Get unmarshals the stored value into T.
func Get[T any](s *Store, key string, scope Scope) (T, bool) {
	var out T

	raw, ok := s.GetRaw(key, scope)
	if !ok {
		return out, false
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		s.l.LogErrorf("Could not unmarshal value for key %s: %v", key, err.Error())

		var zero T

		return zero, false
	}

	return out, true
}

func (s *Store) Remove(key string, scope Scope) {
	if err := s.medium(scope).Delete(key); err != nil {
		s.l.LogErrorf("Could not remove key %s: %v", key, err.Error())

		return
	}

	s.notify(key, scope, nil)
}

func (s *Store) Clear(scope Scope) {
	keys := s.Keys(scope)

	if err := s.medium(scope).Clear(); err != nil {
		s.l.LogErrorf("Could not clear %s scope: %v", scope, err.Error())

		return
	}

	for _, key := range keys {
		s.notify(key, scope, nil)
	}
}

// Has reports presence through Get, so expiry is honored.
func (s *Store) Has(key string, scope Scope) bool {
	_, ok := s.GetRaw(key, scope)

	return ok
}

// Keys lists the stored keys as-is; expired entries linger until read or
// cleaned.
func (s *Store) Keys(scope Scope) []string {
	keys, err := s.medium(scope).Keys()
	if err != nil {
		s.l.LogErrorf("Could not list %s keys: %v", scope, err.Error())

		return nil
	}

	return keys
}

// SizeBytes sums key and stored-envelope lengths.
func (s *Store) SizeBytes(scope Scope) int {
	var size int

	for _, key := range s.Keys(scope) {
		raw, ok, err := s.medium(scope).Read(key)
		if err != nil || !ok {
			continue
		}

		size += len(key) + len(raw)
	}

	return size
}

// CleanExpired deletes every expired or malformed entry in the scope and
// returns how many were removed.
func (s *Store) CleanExpired(scope Scope) int {
	var removed int

	now := s.now()

	for _, key := range s.Keys(scope) {
		raw, ok, err := s.medium(scope).Read(key)
		if err != nil || !ok {
			continue
		}

		var env envelope

		if err := json.Unmarshal(raw, &env); err != nil {
			s.Remove(key, scope)

			removed++

			continue
		}

		if env.expired(now) {
			s.Remove(key, scope)

			removed++
		}
	}

	return removed
}

// Typed is a single-key, single-scope view over the store.
type Typed[T any] struct {
	store *Store
	key   string
	scope Scope
}

func NewTyped[T any](store *Store, key string, scope Scope) Typed[T] {
	return Typed[T]{store: store, key: key, scope: scope}
}

func (t Typed[T]) Set(value T, ttl time.Duration) { t.store.Set(t.key, value, t.scope, ttl) }

func (t Typed[T]) Get() (T, bool) { return Get[T](t.store, t.key, t.scope) }

func (t Typed[T]) Remove() { t.store.Remove(t.key, t.scope) }

func (t Typed[T]) Has() bool { return t.store.Has(t.key, t.scope) }

func (t Typed[T]) Watch() *WatchSub { return t.store.Watch(t.key, t.scope) }
