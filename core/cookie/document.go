// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cookie

import (
	"strings"
	"sync"
)

const (
	cookieSeparator = ";"
	attrSeparator   = "="
)

// DocumentStore keeps cookies as a single "a=1; b=2" string, the way document.cookie
// exposes them. Attributes are accepted on Write but, as in a browser, are not
// readable back through the string.
type DocumentStore struct {
	mu  sync.Mutex
	raw string
}

// NewDocumentStore returns a store seeded with a raw cookie string.
func NewDocumentStore(raw string) *DocumentStore {
	return &DocumentStore{raw: raw}
}

// Read scans the raw string for the first entry named name.
func (s *DocumentStore) Read(name CookieName) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range strings.Split(s.raw, cookieSeparator) {
		key, value, _ := strings.Cut(strings.TrimSpace(entry), attrSeparator)
		if key == string(name) {
			return value, nil
		}
	}

	return "", nil
}

// Write sets name to value. An existing entry is replaced in place; otherwise the
// pair is appended.
func (s *DocumentStore) Write(name CookieName, value string, _ Attributes) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pair := string(name) + attrSeparator + value

	var entries []string

	replaced := false

	for _, entry := range strings.Split(s.raw, cookieSeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key, _, _ := strings.Cut(entry, attrSeparator)
		if key == string(name) && !replaced {
			entry = pair
			replaced = true
		}

		entries = append(entries, entry)
	}

	if !replaced {
		entries = append(entries, pair)
	}

	s.raw = strings.Join(entries, cookieSeparator+" ")

	return nil
}

// String returns the raw cookie string.
func (s *DocumentStore) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.raw
}
