// Copyright 2025 Certen Protocol
//
// Test doubles for pkg/collab's collaborator interfaces. Not a
// production cache/RNG backend — those remain external per spec §1 —
// this package only exists so pkg/verifier, pkg/calendar, and
// pkg/stamp tests can exercise the real injection points instead of
// passing nil.

package collabtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// MemCache is an in-memory collab.Cache for tests.
type MemCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemCache returns an empty MemCache.
func NewMemCache() *MemCache {
	return &MemCache{items: make(map[string][]byte)}
}

func (c *MemCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *MemCache) Put(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *MemCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// CryptoRNG satisfies collab.RNG using crypto/rand, the same source a
// production caller would use; kept here because stamp tests need a
// concrete RNG and the core itself must not hardcode one.
type CryptoRNG struct{}

func (CryptoRNG) RandomBytes16() ([16]byte, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return b, fmt.Errorf("collabtest: read random bytes: %w", err)
	}
	return b, nil
}

// FixedRNG always returns the same 16 bytes, for deterministic tests
// (spec §8 scenario S3 fixes the nonce).
type FixedRNG struct {
	Value [16]byte
}

func (f FixedRNG) RandomBytes16() ([16]byte, error) {
	return f.Value, nil
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time {
	return f.At
}
