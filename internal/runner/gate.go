// Package runner serializes whole-store passes. Merges and syncs
// read-modify-write the same whole-file snapshot, so the store path is a
// single-writer resource; concurrent invocations are rejected rather than
// interleaved.
package runner

import (
	"errors"
	"sync"
)

// ErrRunInProgress means another run currently holds the store.
var ErrRunInProgress = errors.New("runner: a run against this store is already in progress")

// Gate is a single-flight gate keyed by store path. It is safe for
// concurrent use.
type Gate struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{active: make(map[string]bool)}
}

// Acquire claims the store path for one run. It returns a release func on
// success and ErrRunInProgress when the path is already claimed. Release is
// idempotent.
func (g *Gate) Acquire(path string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active[path] {
		return nil, ErrRunInProgress
	}
	g.active[path] = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.active, path)
		})
	}
	return release, nil
}
