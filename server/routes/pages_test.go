// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
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
)

// newPages starts a fake upstream and returns Pages talking to it.
//
// The upstream answers per domain: "slow" hangs until the request is canceled,
// "broken" fails with 500, "shapeless" returns an object without a path, and any
// other domain gets /static/<domain>.css.
func newPages(t *testing.T, timeout time.Duration) (*Pages, *upstreamEvents) {
	t.Helper()

	events := &upstreamEvents{
		started:  make(chan struct{}, 1),
		canceled: make(chan struct{}, 1),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != stylesheet.Endpoint {
			http.NotFound(w, r)

			return
		}

		switch domain := r.URL.Query().Get(stylesheet.DomainKey); domain {
		case "slow":
			events.started <- struct{}{}
			<-r.Context().Done()
			events.canceled <- struct{}{}
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "shapeless":
			_, _ = io.WriteString(w, `{"href": "/x.css"}`)
		default:
			_, _ = io.WriteString(w, `{"path": "/static/`+domain+`.css"}`)
		}
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return &Pages{
		Client:        requests.NewClient(requests.WithBaseURL(base)),
		DefaultDomain: "default",
		FetchTimeout:  timeout,
	}, events
}

type upstreamEvents struct {
	started  chan struct{}
	canceled chan struct{}
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("upstream request was not %s", what)
	}
}

func TestStylesheetFragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"Query domain", "/stylesheet?domain=games", `<link rel="stylesheet" href="/static/games.css">`},
		{"Default domain", "/stylesheet", `<link rel="stylesheet" href="/static/default.css">`},
		{"Upstream failure", "/stylesheet?domain=broken", `<div><p>Response Error</p><p>issue with sending from `},
		{"Missing path", "/stylesheet?domain=shapeless", `<div><p>Can Not load</p></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pages, _ := newPages(t, 5*time.Second)

			rr := httptest.NewRecorder()
			require.NoError(t, pages.StylesheetFragment(rr, httptest.NewRequest(http.MethodGet, tt.target, nil)))

			assert.Contains(t, rr.Body.String(), tt.want)
			assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
		})
	}
}

func TestFragmentTimeoutRendersLoading(t *testing.T) {
	t.Parallel()

	pages, events := newPages(t, 50*time.Millisecond)

	rr := httptest.NewRecorder()
	require.NoError(t, pages.StylesheetFragment(rr, httptest.NewRequest(http.MethodGet, "/stylesheet?domain=slow", nil)))

	assert.Equal(t, `<div><p>Data is Loading...</p></div>`, rr.Body.String())

	// Closing the hook abandons the upstream call.
	waitFor(t, events.canceled, "canceled")
}

func TestFragmentClientDisconnect(t *testing.T) {
	t.Parallel()

	pages, events := newPages(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stylesheet?domain=slow", nil).WithContext(ctx)

	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = pages.StylesheetFragment(httptest.NewRecorder(), req)
	}()

	waitFor(t, events.started, "started")
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not return after the client went away")
	}

	waitFor(t, events.canceled, "canceled")
}

func TestIndexPage(t *testing.T) {
	t.Parallel()

	pages, _ := newPages(t, 5*time.Second)

	rr := httptest.NewRecorder()
	require.NoError(t, pages.IndexPage(rr, httptest.NewRequest(http.MethodGet, "/?domain=games", nil)))

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	href, ok := doc.Find(`head link[rel="stylesheet"]`).Attr("href")
	require.True(t, ok)
	assert.Equal(t, "/static/games.css", href)

	value, _ := doc.Find("input#domain").Attr("value")
	assert.Equal(t, "games", value)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	require.NoError(t, Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil)))

	assert.Equal(t, "ok", rr.Body.String())
}
