// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package token

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cssload/cssload/core/apierror"
	"codeberg.org/cssload/cssload/core/cookie"
)

func newTokenServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.URL.Path != DefaultPath {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestGetTokenUsesStoredCookie(t *testing.T) {
	t.Parallel()

	srv, hits := newTokenServer(t, http.StatusOK, `{"token":"fresh"}`)

	store := cookie.NewMemoryStore()
	require.NoError(t, store.Write(cookie.CSRFCookie, "cached", cookie.DefaultAttributes(false)))

	p := NewProvider(store, srv.Client(), srv.URL+DefaultPath, cookie.DefaultAttributes(false))

	got, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", got)
	assert.Zero(t, hits.Load())
}

func TestGetTokenFetchesAndStores(t *testing.T) {
	t.Parallel()

	srv, hits := newTokenServer(t, http.StatusOK, `{"token":"abc"}`)

	store := cookie.NewMemoryStore()
	attrs := cookie.DefaultAttributes(false)
	p := NewProvider(store, srv.Client(), srv.URL+DefaultPath, attrs)

	got, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	stored, err := store.Read(cookie.CSRFCookie)
	require.NoError(t, err)
	assert.Equal(t, "abc", stored)

	written, ok := store.Attributes(cookie.CSRFCookie)
	require.True(t, ok)
	assert.Equal(t, attrs, written)

	// Second call is served from the store.
	_, err = p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetTokenFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"Non-OK status", http.StatusInternalServerError, `{"token":"abc"}`, apierror.ErrHTTPStatus},
		{"Invalid JSON", http.StatusOK, `{"token":`, apierror.ErrInvalidJSON},
		{"Numeric token", http.StatusOK, `{"token":42}`, apierror.ErrMalformedCSRFToken},
		{"Object token", http.StatusOK, `{"token":{"v":"abc"}}`, apierror.ErrMalformedCSRFToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTokenServer(t, tt.status, tt.body)

			store := cookie.NewMemoryStore()
			p := NewProvider(store, srv.Client(), srv.URL+DefaultPath, cookie.DefaultAttributes(false))

			_, err := p.GetToken(context.Background())
			require.ErrorIs(t, err, tt.wantErr)

			stored, _ := store.Read(cookie.CSRFCookie)
			assert.Empty(t, stored)
		})
	}
}

func TestGetTokenMissingField(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"token":null}`, `{"token":""}`, `{"token":0}`} {
		srv, _ := newTokenServer(t, http.StatusOK, body)

		store := cookie.NewMemoryStore()
		p := NewProvider(store, srv.Client(), srv.URL+DefaultPath, cookie.DefaultAttributes(false))

		got, err := p.GetToken(context.Background())
		require.NoError(t, err, body)
		assert.Empty(t, got, body)
	}
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestGetTokenNetworkFailure(t *testing.T) {
	t.Parallel()

	p := NewProvider(cookie.NewMemoryStore(), failingDoer{}, "http://upstream.test/api/token", cookie.Attributes{})

	_, err := p.GetToken(context.Background())
	require.ErrorIs(t, err, apierror.ErrNetworkUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetTokenStatusErrorNamesURL(t *testing.T) {
	t.Parallel()

	srv, _ := newTokenServer(t, http.StatusForbidden, `{}`)

	p := NewProvider(cookie.NewMemoryStore(), srv.Client(), srv.URL+DefaultPath, cookie.Attributes{})

	_, err := p.GetToken(context.Background())

	var statusErr *apierror.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, srv.URL+DefaultPath, statusErr.URL)
}
