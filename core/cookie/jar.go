// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cookie

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// JarStore is a Store backed by an http.CookieJar scoped to one origin.
//
// Install Jar() on the http.Client that talks to that origin so written cookies
// are sent with later requests, just as a browser would send them.
type JarStore struct {
	jar  *cookiejar.Jar
	base *url.URL
}

// NewJarStore creates a jar for the origin of baseURL.
func NewJarStore(baseURL *url.URL) (*JarStore, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	base := *baseURL
	if base.Path == "" {
		base.Path = "/"
	}

	return &JarStore{jar: jar, base: &base}, nil
}

// Jar returns the underlying jar.
func (s *JarStore) Jar() http.CookieJar {
	return s.jar
}

// Read returns the named cookie as the jar would send it to the base URL.
func (s *JarStore) Read(name CookieName) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	for _, c := range s.jar.Cookies(s.base) {
		if c.Name == string(name) {
			return c.Value, nil
		}
	}

	return "", nil
}

// Write sets the named cookie for the base URL.
func (s *JarStore) Write(name CookieName, value string, attrs Attributes) error {
	if name == "" {
		return ErrEmptyName
	}

	s.jar.SetCookies(s.base, []*http.Cookie{attrs.HTTPCookie(name, value, time.Now())})

	return nil
}
