// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"time"

	"codeberg.org/cssload/cssload/core/cookie"
	"codeberg.org/cssload/cssload/core/token"
)

const (
	defaultUpstreamTimeout  = 10 * time.Second
	defaultPageFetchTimeout = 2 * time.Second
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	// Host and Port are filled in during validation unless a unix socket is used.
	cfg.Basic.Host = ""
	cfg.Basic.Port = ""

	cfg.Upstream.RawBaseURL = "http://localhost:8000"
	cfg.Upstream.TokenPath = token.DefaultPath
	cfg.Upstream.UserAgent = "cssload/" + BuildVersion
	cfg.Upstream.AcceptLanguage = "en-US,en;q=0.5"
	cfg.Upstream.RateLimit = 0
	cfg.Upstream.RateBurst = 1
	cfg.Upstream.Timeout = defaultUpstreamTimeout

	cfg.Cookie.Secure = SecureAuto
	cfg.Cookie.RawSameSite = "lax"
	cfg.Cookie.MaxAge = cookie.DefaultMaxAge

	cfg.Page.DefaultDomain = ""
	cfg.Page.FetchTimeout = defaultPageFetchTimeout

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/cssload/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
