// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package stylesheet asks the API which stylesheet a domain should load.

The endpoint answers GET /api/css/?domain=<domain> with {"path": "<stylesheet URL>"}.
*/
package stylesheet

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"codeberg.org/cssload/cssload/core/fetchhook"
	"codeberg.org/cssload/cssload/core/query"
	"codeberg.org/cssload/cssload/core/requests"
	"codeberg.org/cssload/cssload/core/shape"
)

// Endpoint is the stylesheet lookup path.
const Endpoint = "/api/css/"

// PathKey is the response field holding the stylesheet URL.
const PathKey = "path"

// DomainKey is the query parameter naming the domain.
const DomainKey = "domain"

// Response is the endpoint answer. Any JSON value decodes into it; its shape is
// only checked when Path is called.
type Response struct {
	raw gjson.Result
}

// ParseResponse wraps a raw JSON answer.
func ParseResponse(raw string) Response {
	return Response{raw: gjson.Parse(raw)}
}

// UnmarshalJSON keeps the answer as parsed JSON.
func (r *Response) UnmarshalJSON(data []byte) error {
	r.raw = gjson.ParseBytes(data)

	return nil
}

// JSON returns the answer as parsed.
func (r Response) JSON() gjson.Result {
	return r.raw
}

// Empty reports whether the answer is missing, null, false, 0 or "".
func (r Response) Empty() bool {
	return shape.Falsy(r.raw)
}

// Path returns the stylesheet URL and whether the response has a usable one.
func (r Response) Path() (string, bool) {
	if !shape.IsDictionary(r.raw, PathKey) {
		return "", false
	}

	path := r.raw.Get(PathKey)
	if path.Type != gjson.String {
		return "", false
	}

	return path.Str, true
}

// Request describes the lookup for domain. An empty domain sends no parameter.
func Request(domain string) requests.Descriptor {
	d := requests.Descriptor{
		URL:    Endpoint,
		Method: http.MethodGet,
	}

	if domain != "" {
		d.Data = query.Params{{Key: DomainKey, Value: domain}}
	}

	return d
}

// Load starts the lookup for domain. Close the returned hook when its result is no longer wanted.
//
// validators run against the raw response; with none, an answer of the wrong shape
// still succeeds and is left for the caller to judge.
func Load(ctx context.Context, c *requests.Client, domain string, validators ...requests.Validator) *fetchhook.Hook[Response] {
	return fetchhook.UseFetch(ctx, fetchhook.Request[Response](c, Request(domain), nil, validators...))
}

// Strict is the validator that rejects answers without a path.
func Strict() requests.Validator {
	return shape.RequireKeys(PathKey)
}
