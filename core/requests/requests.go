// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/cssload/cssload/core/apierror"
	"codeberg.org/cssload/cssload/core/query"
)

// Fetch performs the call described by d and returns its JSON response as a T.
//
// GET requests carry d.Data in the query string. POST requests first obtain a CSRF
// token and send d.Data as a JSON body with the X-CSRFToken header. Any other method
// fails with ErrUnsupportedMethod before any I/O.
//
// The response must be 200 OK with a JSON body. Each validator then inspects the parsed
// body, in order. Finally transform, when non-nil, produces the result; otherwise the
// body is decoded into T.
func Fetch[T any](
	ctx context.Context,
	c *Client,
	d Descriptor,
	transform Transform[T],
	validators ...Validator,
) (T, error) {
	var zero T

	req, err := c.newRequest(ctx, d)
	if err != nil {
		return zero, err
	}

	requestURL := req.URL.String()

	resp, err := c.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}

	if err := apierror.CheckResponse(resp, err, requestURL); err != nil {
		return zero, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%w from %s: %w", ErrNetworkUnavailable, requestURL, err)
	}

	if !gjson.ValidBytes(body) {
		return zero, fmt.Errorf("%w from %s: %s", ErrInvalidJSON, requestURL, string(body))
	}

	result := gjson.ParseBytes(body)

	log.Ctx(ctx).Trace().
		Str("url", requestURL).
		RawJSON("response", body).
		Msg("Received JSON response")

	for _, validate := range validators {
		if err := validate(result); err != nil {
			return zero, fmt.Errorf("response from %s rejected: %w", requestURL, err)
		}
	}

	if transform != nil {
		return transform(result)
	}

	return decode[T](result, body)
}

// GetFetch is Fetch under the name callers of the original helper expect.
func GetFetch[T any](
	ctx context.Context,
	c *Client,
	d Descriptor,
	transform Transform[T],
	validators ...Validator,
) (T, error) {
	return Fetch(ctx, c, d, transform, validators...)
}

// Raw is a Transform that keeps the parsed response as is.
func Raw(result gjson.Result) (gjson.Result, error) {
	return result, nil
}

func decode[T any](result gjson.Result, body []byte) (T, error) {
	var out T

	if r, ok := any(&out).(*gjson.Result); ok {
		*r = result

		return out, nil
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: cannot decode into %T: %w", ErrUnexpectedType, out, err)
	}

	return out, nil
}

// newRequest builds the HTTP request for d, fetching a CSRF token for POST.
func (c *Client) newRequest(ctx context.Context, d Descriptor) (*http.Request, error) {
	switch d.Method {
	case http.MethodGet:
		target, err := c.Resolve(query.EncodeURL(query.Build(d.URL, d.Data, c.policy)))
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")

		return req, nil

	case http.MethodPost:
		target, err := c.Resolve(d.URL)
		if err != nil {
			return nil, err
		}

		csrf, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain CSRF token: %w", err)
		}

		var body io.Reader

		if d.Data != nil {
			payload, err := json.Marshal(d.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}

			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRFToken", csrf)
		req.Header.Set("Cache-Control", "no-cache")

		return req, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, d.Method)
	}
}
