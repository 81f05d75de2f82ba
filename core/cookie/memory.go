// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cookie

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	attrs     Attributes
	expiresAt time.Time // zero means session cookie
}

// MemoryStore is a map-backed Store that honours MaxAge. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[CookieName]memoryEntry

	// now is replaceable in tests.
	now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[CookieName]memoryEntry),
		now:     time.Now,
	}
}

// Read returns the named value, or "" if it is unset or expired.
func (s *MemoryStore) Read(name CookieName) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[name]
	if !ok {
		return "", nil
	}

	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		return "", nil
	}

	return entry.value, nil
}

// Write stores value under name.
func (s *MemoryStore) Write(name CookieName, value string, attrs Attributes) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value, attrs: attrs}
	if attrs.MaxAge > 0 {
		entry.expiresAt = s.now().Add(attrs.MaxAge)
	}

	s.entries[name] = entry

	return nil
}

// Attributes returns the attributes the named cookie was last written with.
func (s *MemoryStore) Attributes(name CookieName) (Attributes, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[name]

	return entry.attrs, ok
}
