// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package apierror defines the failure kinds shared by the token provider and the request executor.

All kinds surface to callers as plain errors; use errors.Is and errors.As to tell them apart.
*/
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetworkUnavailable means no response was received.
	ErrNetworkUnavailable = errors.New("did not get a response")

	// ErrHTTPStatus means a response was received but its status was not 200 OK.
	ErrHTTPStatus = errors.New("unexpected response status")

	// ErrInvalidJSON means the response body could not be parsed as JSON.
	ErrInvalidJSON = errors.New("response contained invalid JSON")

	// ErrUnexpectedType means the response was valid JSON of a type the caller cannot hold.
	ErrUnexpectedType = errors.New("response did not match the expected type")

	// ErrMalformedCSRFToken means the token endpoint returned a token that is not a string.
	ErrMalformedCSRFToken = errors.New("expected a string for CSRF token")

	// ErrNoData means a request succeeded but produced no usable value.
	ErrNoData = errors.New("data was not good")

	// ErrUnsupportedMethod means the request method is neither GET nor POST.
	ErrUnsupportedMethod = errors.New("method failed")
)

// StatusError represents a response whose status code was not 200 OK.
type StatusError struct {
	// URL is the final URL of the response.
	URL string

	// StatusCode is the HTTP status code from the response.
	StatusCode int

	// Message is an optional message extracted from the response body.
	Message string
}

// Error returns a message naming the URL and the status code.
func (e *StatusError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "issue with sending from %s (status code: %d)", e.URL, e.StatusCode)

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	return b.String()
}

// Unwrap lets errors.Is match ErrHTTPStatus.
func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}

// CheckResponse validates the outcome of a round trip.
//
// requestURL is only used when there is no response to take a URL from.
func CheckResponse(resp *http.Response, err error, requestURL string) error {
	if err != nil {
		return fmt.Errorf("%w from %s: %w", ErrNetworkUnavailable, requestURL, err)
	}

	if resp == nil {
		return fmt.Errorf("%w from %s", ErrNetworkUnavailable, requestURL)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{
			URL:        responseURL(resp, requestURL),
			StatusCode: resp.StatusCode,
		}
	}

	return nil
}

func responseURL(resp *http.Response, fallback string) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}

	return fallback
}
