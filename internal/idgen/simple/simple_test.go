package simple

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIDStartsAtOneAndIncrements(t *testing.T) {
	t.Parallel()

	g := New()
	ctx := context.Background()

	for want := 1; want <= 5; want++ {
		got, err := g.GetID(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGetIDIsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	const goroutines = 50

	g := New()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int]bool, goroutines)
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			id, err := g.GetID(context.Background())
			assert.NoError(t, err)

			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Len(t, ids, goroutines, "every id is unique")
}
