// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/cssload/cssload/assets/components/partials"
	"codeberg.org/cssload/cssload/assets/views"
	"codeberg.org/cssload/cssload/core/fetchhook"
	"codeberg.org/cssload/cssload/core/requests"
	"codeberg.org/cssload/cssload/core/stylesheet"
	"codeberg.org/cssload/cssload/server/utils"
)

// Pages serves the stylesheet loader, either inside a full page or as a fragment.
type Pages struct {
	Client *requests.Client

	// DefaultDomain is used when the request has no ?domain=.
	DefaultDomain string

	// FetchTimeout bounds how long a page waits for the lookup. When it passes, the
	// loader is rendered in its loading state and the lookup is abandoned.
	FetchTimeout time.Duration
}

func (p *Pages) domain(r *http.Request) string {
	return utils.GetQueryParam(r, stylesheet.DomainKey, p.DefaultDomain)
}

// lookup runs the stylesheet lookup for domain and returns what is known once it
// settles or FetchTimeout passes. The hook is bound to the request context, so a
// client disconnect cancels the upstream call.
func (p *Pages) lookup(ctx context.Context, domain string) fetchhook.Outcome[stylesheet.Response] {
	hook := stylesheet.Load(ctx, p.Client, domain)
	defer hook.Close()

	waitCtx := ctx

	if p.FetchTimeout > 0 {
		var cancel context.CancelFunc

		waitCtx, cancel = context.WithTimeout(ctx, p.FetchTimeout)
		defer cancel()
	}

	outcome := hook.Wait(waitCtx)
	if outcome.Loading() {
		log.Ctx(ctx).Debug().
			Str("domain", domain).
			Dur("timeout", p.FetchTimeout).
			Msg("Stylesheet lookup still pending, rendering loading state")
	}

	return outcome
}

// IndexPage renders the landing page with the loader in its head.
func (p *Pages) IndexPage(w http.ResponseWriter, r *http.Request) error {
	domain := p.domain(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return views.Index(views.IndexData{
		Title:  "cssload",
		Domain: domain,
		Loader: p.lookup(r.Context(), domain),
	}).Render(r.Context(), w)
}

// StylesheetFragment renders only the loader, for embedding into other pages.
func (p *Pages) StylesheetFragment(w http.ResponseWriter, r *http.Request) error {
	outcome := p.lookup(r.Context(), p.domain(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return partials.StylesheetLoader(outcome).Render(r.Context(), w)
}

// Healthz reports that the server is up. It does not contact the upstream.
func Healthz(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	_, err := io.WriteString(w, "ok")

	return err
}
