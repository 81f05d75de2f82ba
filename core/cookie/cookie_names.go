// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cookie stores the client-side cookies this application reads and writes.

A Store is the explicit stand-in for a browser's ambient cookie jar, so the token
provider can be handed an in-memory store in tests and a real jar in production.
*/
package cookie

type CookieName string

// Cookie names defined as constants.
const (
	// CSRFCookie holds the token sent back in the X-CSRFToken header on POST requests.
	CSRFCookie CookieName = "csrftoken"
)

// AllCookieNames defines all cookies this application writes.
var AllCookieNames = []CookieName{
	CSRFCookie,
}
