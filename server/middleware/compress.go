// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
)

// minCompressSize is the smallest body worth compressing. The loader fragment
// alone stays below it.
const minCompressSize = 512

// Compress gzips responses for clients that accept it.
func Compress() Middleware {
	wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(minCompressSize))
	if err != nil {
		log.Warn().Err(err).Msg("Falling back to default gzip settings")

		return FromHandlerWrapper(func(h http.Handler) http.Handler { return gzhttp.GzipHandler(h) })
	}

	return FromHandlerWrapper(func(h http.Handler) http.Handler { return wrapper(h) })
}
