// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/cssload/cssload/server/request_context"
)

// RequestIDHeader echoes the request ID back to the client.
const RequestIDHeader = "X-Request-Id"

// WithRequestContext is a middleware that attaches a RequestContext to each HTTP request,
// along with a logger carrying its request ID.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := request_context.WithRequestContext(r.Context())
	id := request_context.FromContext(ctx).RequestID

	ctx = log.Logger.With().Str("request_id", id).Logger().WithContext(ctx)

	w.Header().Set(RequestIDHeader, id)

	next.ServeHTTP(w, r.WithContext(ctx))
}
