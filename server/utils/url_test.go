// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/cssload/cssload/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		urlType  string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://example.com", "Test", false, "https://example.com"},
		{"Valid URL with path", "https://example.com/path", "Test", false, "https://example.com/path"},
		{"Missing scheme", "example.com", "Test", true, ""},
		{"Missing host", "https://", "Test", true, ""},
		{"Trailing slash", "https://example.com/", "Test", false, "https://example.com"},
		{"Path with trailing slash", "https://example.com/path/", "Test", false, "https://example.com/path"},
		{"Empty URL", "", "Test", true, ""},
		{"Port kept", "http://localhost:8000/", "Test", false, "http://localhost:8000"},
		{"URL with query params", "https://example.com/path?q=test", "Test", false, "https://example.com/path?q=test"},
		{"URL with fragment", "https://example.com/path#fragment", "Test", false, "https://example.com/path#fragment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, tt.urlType)
			if (err != nil) != tt.wantErr {
				t.Errorf("utils.ParseURL() error = %v, wantErr %v", err, tt.wantErr)

				return
			}

			if !tt.wantErr {
				if got.String() != tt.expected {
					t.Errorf("utils.ParseURL() got = %v, want %v", got, tt.expected)
				}
			}
		})
	}
}

func TestGetQueryParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   string
		defaults []string
		want     string
	}{
		{"Present", "/?domain=example", nil, "example"},
		{"Absent without default", "/", nil, ""},
		{"Absent with default", "/", []string{"fallback"}, "fallback"},
		{"Empty uses default", "/?domain=", []string{"fallback"}, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", tt.target, nil)
			assert.Equal(t, tt.want, utils.GetQueryParam(r, "domain", tt.defaults...))
		})
	}
}

func TestGetOriginFromURL(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]string{
		"https://example.com/path?q=1": "https://example.com",
		"http://localhost:8000":        "http://localhost:8000",
		"/relative":                    "",
	} {
		u, err := url.Parse(raw)
		if assert.NoError(t, err) {
			assert.Equal(t, want, utils.GetOriginFromURL(*u), raw)
		}
	}
}
