package runner

import (
	"errors"
	"testing"
)

func TestGateSerializesSamePath(t *testing.T) {
	g := NewGate()

	release, err := g.Acquire("/tmp/store.json")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if _, err := g.Acquire("/tmp/store.json"); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second Acquire err = %v, want ErrRunInProgress", err)
	}

	release()
	release2, err := g.Acquire("/tmp/store.json")
	if err != nil {
		t.Errorf("Acquire after release: %v", err)
	}
	release2()
}

func TestGateAllowsDistinctPaths(t *testing.T) {
	g := NewGate()

	r1, err := g.Acquire("/tmp/a.json")
	if err != nil {
		t.Fatalf("Acquire a: %v", err)
	}
	defer r1()

	r2, err := g.Acquire("/tmp/b.json")
	if err != nil {
		t.Fatalf("Acquire b: %v", err)
	}
	defer r2()
}

func TestGateReleaseIdempotent(t *testing.T) {
	g := NewGate()

	release, err := g.Acquire("/tmp/store.json")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	release()
	release()

	// A double release must not free a claim someone else holds.
	r2, err := g.Acquire("/tmp/store.json")
	if err != nil {
		t.Fatalf("re-Acquire: %v", err)
	}
	release()
	if _, err := g.Acquire("/tmp/store.json"); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("stale release freed an active claim: err = %v", err)
	}
	r2()
}
