// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/url"
)

// redirectPathVarToQuery redirects to targetPath, moving the path variable
// pathVar into the query parameter queryKey.
//
// Example:   /d/example   ->   /?domain=example
func redirectPathVarToQuery(targetPath, pathVar, queryKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := targetPath
		if v := r.PathValue(pathVar); v != "" {
			target += "?" + url.Values{queryKey: {v}}.Encode()
		}

		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	}
}
