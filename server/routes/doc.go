// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes holds the HTTP handlers of the host server.

Page handlers return an error instead of writing one; middleware.CatchError turns
it into the error page.
*/
package routes
