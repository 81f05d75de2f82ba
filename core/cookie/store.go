// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cookie

import (
	"errors"
	"net/http"
	"time"
)

// ErrEmptyName is returned when a cookie is read or written without a name.
//
// Reading every cookie at once is not supported.
var ErrEmptyName = errors.New("name must be a string with length greater than 0")

// DefaultMaxAge is how long written cookies live unless Attributes says otherwise.
const DefaultMaxAge = 30 * 24 * time.Hour

// Store reads and writes individual cookies.
type Store interface {
	// Read returns the value of the named cookie, or "" if it is not set.
	Read(name CookieName) (string, error)

	// Write sets the named cookie, replacing any previous value.
	Write(name CookieName, value string, attrs Attributes) error
}

// Attributes are the cookie attributes applied on Write.
type Attributes struct {
	Path     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// DefaultAttributes returns the attributes used for the CSRF cookie.
//
// HTTPOnly stays off: the client has to read the token back to put it in a header.
func DefaultAttributes(secure bool) Attributes {
	return Attributes{
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// HTTPCookie builds the http.Cookie that Write would set at time now.
func (a Attributes) HTTPCookie(name CookieName, value string, now time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     a.Path,
		Domain:   a.Domain,
		Secure:   a.Secure,
		HttpOnly: a.HTTPOnly,
		SameSite: a.SameSite,
	}

	if a.MaxAge > 0 {
		c.Expires = now.Add(a.MaxAge)
		c.MaxAge = int(a.MaxAge.Seconds())
	}

	return c
}

// ParseSameSite converts a config value (lax, strict, none) into an http.SameSite.
func ParseSameSite(s string) (http.SameSite, bool) {
	switch s {
	case "lax", "Lax", "":
		return http.SameSiteLaxMode, true
	case "strict", "Strict":
		return http.SameSiteStrictMode, true
	case "none", "None":
		return http.SameSiteNoneMode, true
	default:
		return http.SameSiteDefaultMode, false
	}
}
