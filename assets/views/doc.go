// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the full pages served by the host server.

Pages share layout, which places the page-specific head content (such as the
stylesheet loader) inside <head>.
*/
package views
