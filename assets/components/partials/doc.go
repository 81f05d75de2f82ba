// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package partials holds components that are rendered on their own or placed into
pages by backend code, such as the stylesheet loader.
*/
package partials
