// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"

	"codeberg.org/cssload/cssload/config"
	"codeberg.org/cssload/cssload/server/utils"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Cssload-Version and Cssload-Revision are added dynamically in SetResponseHeaders.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// baseCSP defines static CSP directives that don't change.
	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"script-src 'none'",
		"img-src 'self' data:",
		"font-src 'self'",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}

	defaultPermissionsPolicy = []string{
		"camera=()",
		"geolocation=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	cacheControl := "private, no-cache"
	if config.Global.Development.InDevelopment {
		cacheControl = "no-store"
	}

	headers.Set("Cache-Control", cacheControl)
	headers.Set("Cssload-Version", config.BuildVersion)
	headers.Set("Cssload-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", buildCSP())

	next.ServeHTTP(w, r)
}

// buildCSP allows stylesheets from this origin and from the upstream, since the
// loader links to whatever path the upstream hands back.
func buildCSP() string {
	styleSrc := "style-src 'self'"

	if base := config.Global.Upstream.BaseURL; base != nil {
		if origin := utils.GetOriginFromURL(*base); origin != "" {
			styleSrc += " " + origin
		}
	}

	directives := make([]string, 0, len(baseCSP)+1)
	directives = append(directives, baseCSP...)
	directives = append(directives, styleSrc)

	return strings.Join(directives, "; ") + ";"
}
