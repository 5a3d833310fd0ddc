package simple

import (
	"context"
	"sync"
)

// Generator hands out monotonically increasing ids starting at 1. Ids are
// never reused, even after the record they were assigned to is deleted.
type Generator struct {
	mu      sync.Mutex
	counter int
}

func New() *Generator {
	//nolint:exhaustruct
	return &Generator{}
}

func (g *Generator) GetID(_ context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter++

	return g.counter, nil
}
