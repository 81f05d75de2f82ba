// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware chain of the cssload host server.

Middleware have the signature of Middleware and are registered on the router in
router.RegisterMiddleware; the first one registered runs outermost.
*/
package middleware
