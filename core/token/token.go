// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package token obtains the CSRF token that must accompany state-changing requests.

The token is cached in a cookie store. Only when the cookie is absent is the token endpoint
contacted; its answer is written back to the store so later requests skip the round trip.
*/
package token

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/cssload/cssload/core/apierror"
	"codeberg.org/cssload/cssload/core/cookie"
)

// DefaultPath is the token endpoint relative to the API origin.
const DefaultPath = "/api/token"

// Doer sends a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provider resolves the CSRF token from a cookie store, fetching it when missing.
//
// Concurrent first calls may each fetch a token; the last write to the store wins.
type Provider struct {
	store    cookie.Store
	doer     Doer
	tokenURL string
	attrs    cookie.Attributes
}

// NewProvider returns a Provider that fetches from tokenURL and persists with attrs.
func NewProvider(store cookie.Store, doer Doer, tokenURL string, attrs cookie.Attributes) *Provider {
	return &Provider{
		store:    store,
		doer:     doer,
		tokenURL: tokenURL,
		attrs:    attrs,
	}
}

// GetToken returns the stored token, or fetches and stores a new one.
//
// An endpoint answer whose token field is missing or falsy yields "" and nothing is stored.
func (p *Provider) GetToken(ctx context.Context) (string, error) {
	stored, err := p.store.Read(cookie.CSRFCookie)
	if err != nil {
		return "", fmt.Errorf("failed to read CSRF cookie: %w", err)
	}

	if stored != "" {
		return stored, nil
	}

	token, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}

	if token == "" {
		log.Ctx(ctx).Warn().
			Str("url", p.tokenURL).
			Msg("Token endpoint answered without a token")

		return "", nil
	}

	if err := p.store.Write(cookie.CSRFCookie, token, p.attrs); err != nil {
		return "", fmt.Errorf("failed to write CSRF cookie: %w", err)
	}

	return token, nil
}

func (p *Provider) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := p.doer.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}

	if err := apierror.CheckResponse(resp, err, p.tokenURL); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w from %s: %w", apierror.ErrNetworkUnavailable, p.tokenURL, err)
	}

	return extract(body)
}

// extract pulls the "token" field out of a token endpoint response.
func extract(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: %s", apierror.ErrInvalidJSON, string(body))
	}

	field := gjson.GetBytes(body, "token")

	switch {
	case field.Type == gjson.String:
		return field.Str, nil
	case isFalsy(field):
		return "", nil
	default:
		return "", fmt.Errorf("%w, got %s", apierror.ErrMalformedCSRFToken, field.Raw)
	}
}

// isFalsy reports whether a field is missing, null, false or zero.
func isFalsy(field gjson.Result) bool {
	switch field.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return field.Num == 0
	default:
		return false
	}
}
