package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator yields the sequence "{prefix}-1", "{prefix}-2", ... so tests
// can predict the ids services assign to slots, definitions and exceptions.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   uint64
}

// NewIDGenerator builds a generator with the given prefix, defaulting to
// "id" when empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}

// NextFunc adapts the generator to the `idGenerator func() string` the
// services take. A nil generator yields empty ids.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Reset restarts the sequence so a fresh scenario inside the same test can
// count from one again.
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	g.next = 0
	g.mu.Unlock()
}
