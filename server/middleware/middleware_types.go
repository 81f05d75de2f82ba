// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import "net/http"

// Middleware runs before next and decides whether and how to call it.
type Middleware func(w http.ResponseWriter, r *http.Request, next http.Handler)

// Wrap binds m to next as a plain handler.
func Wrap(m Middleware, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m(w, r, next)
	}
}

// FromHandlerWrapper adapts the func(http.Handler) http.Handler shape used by
// third-party packages.
func FromHandlerWrapper(wrapper func(http.Handler) http.Handler) Middleware {
	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		wrapper(next).ServeHTTP(w, r)
	}
}
