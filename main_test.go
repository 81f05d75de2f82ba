// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/cssload/cssload/config"
	"codeberg.org/cssload/cssload/core/cookie"
	"codeberg.org/cssload/cssload/core/query"
	"codeberg.org/cssload/cssload/core/requests"
)

func TestNewClientSendsCSRFThroughJar(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /custom/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"token": "jar-token"}`)
	})
	mux.HandleFunc("POST /api/save", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(string(cookie.CSRFCookie))
		if err != nil || c.Value != r.Header.Get("X-CSRFToken") {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		_, _ = io.WriteString(w, `{"saved": true, "ua": "`+r.UserAgent()+`"}`)
	})

	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	base, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	var cfg config.ServerConfig

	cfg.Upstream.BaseURL = base
	cfg.Upstream.TokenPath = "/custom/token"
	cfg.Upstream.UserAgent = "cssload-test"
	cfg.Upstream.RateBurst = 1
	cfg.Cookie.Secure = config.SecureAuto
	cfg.Cookie.SameSite = http.SameSiteStrictMode
	cfg.Cookie.MaxAge = time.Hour

	client, err := newClient(&cfg)
	require.NoError(t, err)

	result, err := requests.Fetch[gjson.Result](context.Background(), client, requests.Descriptor{
		URL:    "/api/save",
		Method: http.MethodPost,
		Data:   query.Params{{Key: "a", Value: 1}},
	}, nil)
	require.NoError(t, err)

	assert.True(t, result.Get("saved").Bool())
	assert.Equal(t, "cssload-test", result.Get("ua").String())

	token, err := client.Store().Read(cookie.CSRFCookie)
	require.NoError(t, err)
	assert.Equal(t, "jar-token", token)
}
