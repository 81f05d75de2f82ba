// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"github.com/tidwall/gjson"

	"codeberg.org/cssload/cssload/core/apierror"
	"codeberg.org/cssload/cssload/core/query"
)

// Descriptor describes a single API call.
type Descriptor struct {
	// URL is absolute, or relative to the client's base URL.
	URL string

	// Method is GET or POST.
	Method string

	// Data becomes the query string for GET and the JSON body for POST.
	Data query.Params
}

// Transform maps a parsed response to the caller's type.
type Transform[T any] func(result gjson.Result) (T, error)

// Validator inspects a parsed response before it is transformed.
type Validator = func(result gjson.Result) error

// Failure kinds, re-exported so callers only need this package.
var (
	ErrNetworkUnavailable = apierror.ErrNetworkUnavailable
	ErrHTTPStatus         = apierror.ErrHTTPStatus
	ErrInvalidJSON        = apierror.ErrInvalidJSON
	ErrUnexpectedType     = apierror.ErrUnexpectedType
	ErrMalformedCSRFToken = apierror.ErrMalformedCSRFToken
	ErrNoData             = apierror.ErrNoData
	ErrUnsupportedMethod  = apierror.ErrUnsupportedMethod
)

// HTTPStatusError is returned when a response status is not 200 OK.
type HTTPStatusError = apierror.StatusError
