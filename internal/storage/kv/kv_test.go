package kv

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly/internal/logger"
)

func testLogger() *logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return logger.New(l)
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()

	c := &clock{now: time.UnixMilli(1_700_000_000_000).UTC()}

	store, err := New(Config{L: testLogger(), DataDir: t.TempDir(), Now: c.Now})
	require.NoError(t, err)

	return store, c
}

type profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	want := profile{Name: "Priya", Email: "priya@example.com"}
	store.Set("profile", want, ScopeSession, 0)

	got, ok := Get[profile](store, "profile", ScopeSession)
	require.True(t, ok)
	assert.Equal(t, want, got)

	assert.True(t, store.Has("profile", ScopeSession))
	assert.False(t, store.Has("profile", ScopeLocal), "scopes are isolated")
}

func TestGetAbsentKey(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	_, ok := Get[profile](store, "nope", ScopeSession)
	assert.False(t, ok)
	assert.False(t, store.Has("nope", ScopeSession))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	store.Set("token", "abc", ScopeLocal, 0)
	require.True(t, store.Has("token", ScopeLocal))

	store.Remove("token", ScopeLocal)
	assert.False(t, store.Has("token", ScopeLocal))

	store.Remove("token", ScopeLocal) // removing twice is fine
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	store, c := newTestStore(t)

	store.Set("short", "value", ScopeSession, 10*time.Millisecond)
	store.Set("forever", "value", ScopeSession, 0)

	_, ok := Get[string](store, "short", ScopeSession)
	require.True(t, ok, "fresh entry is readable")

	c.Advance(10 * time.Millisecond)
	_, ok = Get[string](store, "short", ScopeSession)
	require.True(t, ok, "an entry exactly at its ttl is still alive")

	c.Advance(time.Millisecond)
	_, ok = Get[string](store, "short", ScopeSession)
	assert.False(t, ok, "past the ttl the entry is gone")

	assert.NotContains(t, store.Keys(ScopeSession), "short", "expired read deletes the entry")

	c.Advance(time.Hour)
	_, ok = Get[string](store, "forever", ScopeSession)
	assert.True(t, ok, "no ttl means no expiry")
}

func TestLocalScopeSurvivesRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first, err := New(Config{L: testLogger(), DataDir: dir, Now: nil})
	require.NoError(t, err)

	first.Set("profile", profile{Name: "Priya", Email: "p@example.com"}, ScopeLocal, 0)
	first.Set("transient", "gone", ScopeSession, 0)

	second, err := New(Config{L: testLogger(), DataDir: dir, Now: nil})
	require.NoError(t, err)

	got, ok := Get[profile](second, "profile", ScopeLocal)
	require.True(t, ok, "local scope is durable")
	assert.Equal(t, "Priya", got.Name)

	_, ok = Get[string](second, "transient", ScopeSession)
	assert.False(t, ok, "session scope dies with the process")
}

func TestKeysAreEscapedOnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := New(Config{L: testLogger(), DataDir: dir, Now: nil})
	require.NoError(t, err)

	store.Set("user/7:cart", "value", ScopeLocal, 0)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")

	got, ok := Get[string](store, "user/7:cart", ScopeLocal)
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestMalformedEnvelopeIsAbsent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := New(Config{L: testLogger(), DataDir: dir, Now: nil})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	_, ok := store.GetRaw("broken", ScopeLocal)
	assert.False(t, ok, "a corrupt envelope reads as absent, never as an error")
}

func TestClear(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	store.Set("a", 1, ScopeSession, 0)
	store.Set("b", 2, ScopeSession, 0)
	store.Set("keep", 3, ScopeLocal, 0)

	store.Clear(ScopeSession)

	assert.Empty(t, store.Keys(ScopeSession))
	assert.True(t, store.Has("keep", ScopeLocal), "clear is scoped")
}

func TestSizeBytes(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	assert.Zero(t, store.SizeBytes(ScopeSession))

	store.Set("a", "value", ScopeSession, 0)
	assert.Positive(t, store.SizeBytes(ScopeSession))
}

func TestCleanExpired(t *testing.T) {
	t.Parallel()

	store, c := newTestStore(t)

	store.Set("a", 1, ScopeSession, 10*time.Millisecond)
	store.Set("b", 2, ScopeSession, 10*time.Millisecond)
	store.Set("c", 3, ScopeSession, 0)

	c.Advance(20 * time.Millisecond)

	removed := store.CleanExpired(ScopeSession)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"c"}, store.Keys(ScopeSession))

	assert.Zero(t, store.CleanExpired(ScopeSession), "second pass finds nothing")
}

func TestWatch(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	store.Set("cart", []int{1}, ScopeSession, 0)

	sub := store.Watch("cart", ScopeSession)
	defer sub.Close()

	replay := <-sub.C
	assert.JSONEq(t, "[1]", string(replay), "current value is replayed on subscription")

	store.Set("cart", []int{1, 2}, ScopeSession, 0)
	assert.JSONEq(t, "[1,2]", string(<-sub.C))

	store.Remove("cart", ScopeSession)
	assert.Nil(t, <-sub.C, "removal notifies with nil")
}

func TestWatchAbsentKeyReplaysNil(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	sub := store.Watch("nope", ScopeSession)
	defer sub.Close()

	assert.Nil(t, <-sub.C)
}

func TestWatchScopeIsolation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	sub := store.Watch("key", ScopeSession)
	defer sub.Close()

	<-sub.C // drain the replay

	store.Set("key", "local only", ScopeLocal, 0)

	select {
	case v := <-sub.C:
		t.Fatalf("session watcher saw a local write: %s", v)
	default:
	}
}

func TestWatchFanOut(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	subA := store.Watch("key", ScopeSession)
	defer subA.Close()

	subB := store.Watch("key", ScopeSession)
	defer subB.Close()

	<-subA.C
	<-subB.C

	store.Set("key", 7, ScopeSession, 0)

	assert.JSONEq(t, "7", string(<-subA.C))
	assert.JSONEq(t, "7", string(<-subB.C))
}

func TestWatchCloseReleasesHub(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	sub := store.Watch("key", ScopeSession)
	<-sub.C

	sub.Close()
	sub.Close() // closing twice is fine

	_, open := <-sub.C
	assert.False(t, open, "channel closes with the subscription")

	store.mu.Lock()
	_, exists := store.hubs[hubKey{key: "key", scope: ScopeSession}]
	store.mu.Unlock()

	assert.False(t, exists, "last close drops the hub")
}

func TestClearNotifiesWatchers(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	store.Set("key", 1, ScopeSession, 0)

	sub := store.Watch("key", ScopeSession)
	defer sub.Close()

	<-sub.C

	store.Clear(ScopeSession)
	assert.Nil(t, <-sub.C)
}

func TestTypedView(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	view := NewTyped[profile](store, "profile", ScopeLocal)

	_, ok := view.Get()
	require.False(t, ok)

	view.Set(profile{Name: "Priya", Email: "p@example.com"}, 0)
	require.True(t, view.Has())

	got, ok := view.Get()
	require.True(t, ok)
	assert.Equal(t, "Priya", got.Name)

	view.Remove()
	assert.False(t, view.Has())
}

func TestEnvelopeShapeOnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	c := &clock{now: time.UnixMilli(1_700_000_000_000).UTC()}

	store, err := New(Config{L: testLogger(), DataDir: dir, Now: c.Now})
	require.NoError(t, err)

	store.Set("key", "value", ScopeLocal, time.Minute)

	raw, err := os.ReadFile(filepath.Join(dir, "key.json"))
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))

	assert.Equal(t, "key", env.Key)
	assert.JSONEq(t, `"value"`, string(env.Value))
	assert.Equal(t, int64(1_700_000_000_000), env.Timestamp)
	require.NotNil(t, env.Expiry)
	assert.Equal(t, int64(60_000), *env.Expiry)
}
