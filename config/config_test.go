// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests in this file touch the process environment and the working directory,
// so they do not run in parallel.

func TestLoadFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *ServerConfig)
	}{
		{
			name: "Defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Basic.Host)
				assert.Equal(t, "8383", cfg.Basic.Port)
				assert.Equal(t, "http://localhost:8000", cfg.Upstream.BaseURL.String())
				assert.Equal(t, "/api/token", cfg.Upstream.TokenPath)
				assert.Equal(t, http.SameSiteLaxMode, cfg.Cookie.SameSite)
				assert.False(t, cfg.CookieSecure())
			},
		},
		{
			name: "Overrides",
			env: map[string]string{
				"CSSLOAD_HOST":           "0.0.0.0",
				"CSSLOAD_PORT":           "9000",
				"CSSLOAD_UPSTREAM":       "https://api.example.test/",
				"CSSLOAD_RATE_LIMIT":     "2.5",
				"CSSLOAD_RATE_BURST":     "4",
				"CSSLOAD_TIMEOUT":        "3s",
				"CSSLOAD_DEFAULT_DOMAIN": "games",
				"CSSLOAD_LOG_OUTPUTS":    "/dev/stderr, /dev/stdout",
			},
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Basic.Host)
				assert.Equal(t, "9000", cfg.Basic.Port)
				assert.Equal(t, "https://api.example.test", cfg.Upstream.BaseURL.String())
				assert.InDelta(t, 2.5, cfg.Upstream.RateLimit, 0.0001)
				assert.Equal(t, 4, cfg.Upstream.RateBurst)
				assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
				assert.Equal(t, "games", cfg.Page.DefaultDomain)
				assert.Equal(t, []string{"/dev/stderr", "/dev/stdout"}, cfg.Log.Outputs)
				assert.True(t, cfg.CookieSecure(), "https upstream implies secure cookies")
			},
		},
		{
			name:    "Upstream without scheme",
			env:     map[string]string{"CSSLOAD_UPSTREAM": "api.example.test"},
			wantErr: true,
		},
		{
			name:    "Bad accept language",
			env:     map[string]string{"CSSLOAD_ACCEPTLANGUAGE": "!!"},
			wantErr: true,
		},
		{
			name:    "Negative rate limit",
			env:     map[string]string{"CSSLOAD_RATE_LIMIT": "-1"},
			wantErr: true,
		},
		{
			name:    "Unknown same site",
			env:     map[string]string{"CSSLOAD_COOKIE_SAMESITE": "sometimes"},
			wantErr: true,
		},
		{
			name:    "SameSite none over http",
			env:     map[string]string{"CSSLOAD_COOKIE_SAMESITE": "none"},
			wantErr: true,
		},
		{
			name:    "Unparsable duration",
			env:     map[string]string{"CSSLOAD_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name: "Unix socket",
			env:  map[string]string{"CSSLOAD_UNIXSOCKET": "/tmp/cssload.sock", "CSSLOAD_UNIXSOCKET_PERMISSIONS": "660"},
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()
				assert.Empty(t, cfg.Basic.Host)
				assert.Equal(t, os.FileMode(0o660), cfg.Basic.UnixSocketPermissions)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &ServerConfig{}
			err := cfg.load("")

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
upstream:
  baseURL: http://from-yaml.test
  timeout: 5s
page:
  defaultDomain: yaml-domain
`), 0o600))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(`
# comment
CSSLOAD_DEFAULT_DOMAIN="dotenv-domain"
CSSLOAD_USER_AGENT='agent/1'
`), 0o600))

	t.Setenv("CSSLOAD_DEFAULT_DOMAIN", "env-domain")
	// Registers a cleanup that removes the value the .env file exports.
	t.Setenv("CSSLOAD_USER_AGENT", "")
	require.NoError(t, os.Unsetenv("CSSLOAD_USER_AGENT"))

	cfg := &ServerConfig{}
	require.NoError(t, cfg.load(configPath))

	assert.Equal(t, "http://from-yaml.test", cfg.Upstream.BaseURL.String())
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "env-domain", cfg.Page.DefaultDomain)
	assert.Equal(t, "agent/1", cfg.Upstream.UserAgent)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := &ServerConfig{}
	require.NoError(t, cfg.load(""))

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "timeout: 10s")

	var back ServerConfig
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg.Upstream.Timeout, back.Upstream.Timeout)
	assert.Equal(t, cfg.Upstream.RawBaseURL, back.Upstream.RawBaseURL)
}

func TestReadEnvRejectsNonStruct(t *testing.T) {
	t.Parallel()

	var n int

	require.ErrorIs(t, readEnv(&n), errExpectedPointerToStruct)
	require.ErrorIs(t, readEnv(ServerConfig{}), errExpectedPointerToStruct)
}

func TestUnquote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", unquote(`"a b"`))
	assert.Equal(t, "x", unquote(`'x'`))
	assert.Equal(t, `"mixed'`, unquote(`"mixed'`))
	assert.Empty(t, unquote(`""`))
}
