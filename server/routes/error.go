// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/cssload/cssload/assets/views"
	"codeberg.org/cssload/cssload/server/request_context"
)

// ErrorPage writes the status code in the request context and renders the error page.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)
	if rc.StatusCode < http.StatusBadRequest {
		rc.StatusCode = http.StatusInternalServerError
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(rc.StatusCode)

	pageData := views.ErrorData{
		Title:      "Error",
		Error:      rc.RequestError,
		StatusCode: rc.StatusCode,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Err(err).Msg("Failed to render the error page")
	}
}

// NotFound marks the request as 404; CatchError renders the page.
func NotFound(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return nil
}
