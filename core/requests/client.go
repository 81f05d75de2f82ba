// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"codeberg.org/cssload/cssload/core/audit"
	"codeberg.org/cssload/cssload/core/cookie"
	"codeberg.org/cssload/cssload/core/query"
	"codeberg.org/cssload/cssload/core/token"
	"codeberg.org/cssload/cssload/server/request_context"
	"codeberg.org/cssload/cssload/server/utils"
)

// Client plays the part of the browser: it holds the cookies, the CSRF token
// provider and the origin that relative request URLs resolve against.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	store          cookie.Store
	tokenPath      string
	cookieAttrs    *cookie.Attributes
	policy         query.Policy
	limiter        *rate.Limiter
	userAgent      string
	acceptLanguage string

	tokens *token.Provider
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the origin relative URLs resolve against.
func WithBaseURL(base *url.URL) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCookieStore sets where the CSRF cookie lives.
//
// A *cookie.JarStore is also installed as the HTTP client's jar unless the client already has one.
func WithCookieStore(store cookie.Store) Option {
	return func(c *Client) { c.store = store }
}

// WithCookieAttributes sets the attributes the CSRF cookie is written with.
func WithCookieAttributes(attrs cookie.Attributes) Option {
	return func(c *Client) { c.cookieAttrs = &attrs }
}

// WithTokenURL sets the token endpoint, absolute or relative to the base URL.
func WithTokenURL(path string) Option {
	return func(c *Client) { c.tokenPath = path }
}

// WithQueryPolicy sets how GET data is written into the query string.
func WithQueryPolicy(policy query.Policy) Option {
	return func(c *Client) { c.policy = policy }
}

// WithRateLimit caps outgoing requests at r per second with the given burst.
// A zero rate disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil

			return
		}

		c.limiter = rate.NewLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithAcceptLanguage sets the Accept-Language header.
func WithAcceptLanguage(lang string) Option {
	return func(c *Client) { c.acceptLanguage = lang }
}

// NewClient creates a Client. Without options it talks to absolute URLs only
// through utils.HTTPClient, keeps cookies in memory and formats GET data verbatim.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: utils.HTTPClient,
		tokenPath:  token.DefaultPath,
		policy:     query.Verbatim,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		c.store = cookie.NewMemoryStore()
	}

	if jar, ok := c.store.(*cookie.JarStore); ok && c.httpClient.Jar == nil {
		hc := *c.httpClient
		hc.Jar = jar.Jar()
		c.httpClient = &hc
	}

	attrs := cookie.DefaultAttributes(c.baseURL != nil && c.baseURL.Scheme == "https")
	if c.cookieAttrs != nil {
		attrs = *c.cookieAttrs
	}

	tokenURL, err := c.Resolve(c.tokenPath)
	if err != nil {
		tokenURL = c.tokenPath
	}

	c.tokens = token.NewProvider(c.store, c, tokenURL, attrs)

	return c
}

// Store returns the cookie store the client reads the CSRF token from.
func (c *Client) Store() cookie.Store {
	return c.store
}

// Token returns the current CSRF token, fetching one if none is stored.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.GetToken(ctx)
}

// Resolve turns ref into an absolute URL using the base URL.
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("failed to parse request URL %q: %w", ref, err)
	}

	if c.baseURL == nil || u.IsAbs() {
		return u.String(), nil
	}

	return c.baseURL.ResolveReference(u).String(), nil
}

// Do sends req, recording it as an audit span.
//
// The body is read in full and replaced with an in-memory reader, so callers
// may read it after Do returns. Non-OK statuses are not treated as errors here.
func (c *Client) Do(req *http.Request) (_ *http.Response, err error) {
	ctx := req.Context()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	c.decorate(req)

	span := audit.Span{
		Destination: audit.ToAPI,
		RequestID:   subrequestID(ctx),
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	_ = span.Begin(ctx)

	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Body = body

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, nil
}

// decorate adds the headers and, when no jar is installed, the same-origin CSRF cookie.
func (c *Client) decorate(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}

	if c.httpClient.Jar != nil || !c.sameOrigin(req.URL) {
		return
	}

	if _, err := req.Cookie(string(cookie.CSRFCookie)); err == nil {
		return
	}

	if value, err := c.store.Read(cookie.CSRFCookie); err == nil && value != "" {
		req.AddCookie(&http.Cookie{Name: string(cookie.CSRFCookie), Value: value})
	}
}

func (c *Client) sameOrigin(u *url.URL) bool {
	if c.baseURL == nil {
		return false
	}

	return u.Scheme == c.baseURL.Scheme && u.Host == c.baseURL.Host
}

// subrequestID ties an upstream call to the page request that caused it.
func subrequestID(ctx context.Context) string {
	short := uuid.NewString()[:8]

	if parent := request_context.FromContext(ctx).RequestID; parent != "" {
		return parent + "-" + short
	}

	return short
}
