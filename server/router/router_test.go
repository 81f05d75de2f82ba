// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cssload/cssload/core/requests"
	"codeberg.org/cssload/cssload/core/stylesheet"
	"codeberg.org/cssload/cssload/server/middleware/set_request_context"
	"codeberg.org/cssload/cssload/server/routes"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != stylesheet.Endpoint {
			http.NotFound(w, r)

			return
		}

		_, _ = io.WriteString(w, `{"path": "/static/`+r.URL.Query().Get(stylesheet.DomainKey)+`.css"}`)
	}))
	t.Cleanup(upstream.Close)

	base, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	router := NewRouter()
	router.DefineRoutes(&routes.Pages{
		Client:        requests.NewClient(requests.WithBaseURL(base)),
		DefaultDomain: "default",
		FetchTimeout:  5 * time.Second,
	})
	router.RegisterMiddleware()

	return router
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	tests := []struct {
		name     string
		target   string
		status   int
		contains string
	}{
		{"Health check", "/healthz", http.StatusOK, "ok"},
		{"Fragment", "/stylesheet?domain=games", http.StatusOK, `<link rel="stylesheet" href="/static/games.css">`},
		{"Index", "/", http.StatusOK, `href="/static/default.css"`},
		{"Unknown path", "/nope", http.StatusNotFound, "404 Not Found"},
		{"Short link", "/d/games", http.StatusPermanentRedirect, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.contains)
			assert.NotEmpty(t, rr.Header().Get(set_request_context.RequestIDHeader))
			assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
		})
	}
}

func TestIndexThroughMiddleware(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?domain=games", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	// The page span and the upstream span both report their timing.
	assert.NotEmpty(t, rr.Header().Values("Server-Timing"))

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	href, _ := doc.Find(`head link[rel="stylesheet"]`).Attr("href")
	assert.Equal(t, "/static/games.css", href)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/stylesheet", nil))

	// POST falls through to the catch-all.
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
