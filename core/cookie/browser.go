// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cookie

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/steipete/sweetcookie"
)

// ImportFromBrowser copies the CSRF cookie for rawURL from a local browser profile into store.
//
// browsers lists the profiles to try in order (e.g. "chrome", "firefox"); an empty
// list tries every supported browser. It reports whether a cookie was imported.
// Failing to read individual browsers is logged, not returned.
func ImportFromBrowser(ctx context.Context, store Store, rawURL string, browsers []string) (bool, error) {
	opts := sweetcookie.Options{
		URL:   rawURL,
		Names: []string{string(CSRFCookie)},
		Mode:  sweetcookie.ModeFirst,
	}

	for _, b := range browsers {
		opts.Browsers = append(opts.Browsers, sweetcookie.Browser(b))
	}

	result, err := sweetcookie.Get(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("failed to read browser cookies: %w", err)
	}

	for _, warning := range result.Warnings {
		log.Debug().
			Str("url", rawURL).
			Msg(warning)
	}

	for _, c := range result.Cookies {
		if c.Name != string(CSRFCookie) || c.Value == "" {
			continue
		}

		attrs := Attributes{
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: sameSiteFromBrowser(c.SameSite),
		}

		if c.Expires != nil {
			attrs.MaxAge = time.Until(*c.Expires)
		}

		if err := store.Write(CSRFCookie, c.Value, attrs); err != nil {
			return false, fmt.Errorf("failed to store imported cookie: %w", err)
		}

		log.Info().
			Str("browser", string(c.Source.Browser)).
			Str("profile", c.Source.Profile).
			Msg("Imported CSRF cookie from browser profile")

		return true, nil
	}

	return false, nil
}

func sameSiteFromBrowser(s sweetcookie.SameSite) http.SameSite {
	switch s {
	case sweetcookie.SameSiteStrict:
		return http.SameSiteStrictMode
	case sweetcookie.SameSiteNone:
		return http.SameSiteNoneMode
	case sweetcookie.SameSiteLax:
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
