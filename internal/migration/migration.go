package migration

import (
	"context"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/storage/kv"
)

type storage interface {
	Remove(key string, scope kv.Scope)
	CleanExpired(scope kv.Scope) int
}

// Keys written by earlier revisions that are no longer read. The persisted
// booking mirror is also dropped so every run starts from an empty booking
// store, matching the in-memory repository.
var legacyKeys = []string{"bookings", "authToken"}

// Up runs the startup storage housekeeping: drop stale keys and purge
// expired envelopes from both scopes.
func Up(_ context.Context, l *logger.Logger, store storage) error {
	for _, key := range legacyKeys {
		store.Remove(key, kv.ScopeLocal)
	}

	purged := store.CleanExpired(kv.ScopeLocal) + store.CleanExpired(kv.ScopeSession)

	l.LogInfo("Storage housekeeping done, %d expired entries purged", purged)

	return nil
}
