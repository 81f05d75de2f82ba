// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/cssload/cssload/core/cookie"
	"codeberg.org/cssload/cssload/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errInvalidAcceptLanguage        = errors.New("invalid Upstream.AcceptLanguage value")
	errNegativeRateLimit            = errors.New("Upstream.RateLimit must not be negative")
	errInvalidRateBurst             = errors.New("Upstream.RateBurst must be at least 1 when a rate limit is set")
	errNonPositiveTimeout           = errors.New("Upstream.Timeout must be positive")
	errInvalidCookieSecure          = errors.New("invalid Cookie.Secure value, expected auto, always or never")
	errInvalidSameSite              = errors.New("invalid Cookie.SameSite value, expected lax, strict or none")
	errSameSiteNoneNeedsSecure      = errors.New("Cookie.SameSite none requires a secure cookie")
	errNegativeCookieMaxAge         = errors.New("Cookie.MaxAge must not be negative")
	errInvalidLogLevel              = errors.New("invalid Log.Level value")
	errInvalidLogFormat             = errors.New("invalid Log.Format value, expected console or json")
)

var fileModeOctalRegexp = regexp.MustCompile(`^0?[0-7]{3}$`)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	baseURL, err := utils.ParseURL(cfg.Upstream.RawBaseURL, "Upstream")
	if err != nil {
		return fmt.Errorf("invalid upstream URL: %w", err)
	}

	cfg.Upstream.BaseURL = baseURL

	if _, _, err := language.ParseAcceptLanguage(cfg.Upstream.AcceptLanguage); err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidAcceptLanguage, cfg.Upstream.AcceptLanguage, err)
	}

	if cfg.Upstream.RateLimit < 0 {
		return errNegativeRateLimit
	}

	if cfg.Upstream.RateLimit > 0 && cfg.Upstream.RateBurst < 1 {
		return errInvalidRateBurst
	}

	if cfg.Upstream.Timeout <= 0 {
		return errNonPositiveTimeout
	}

	switch cfg.Cookie.Secure {
	case SecureAuto, SecureAlways, SecureNever:
	default:
		return errInvalidCookieSecure
	}

	sameSite, ok := cookie.ParseSameSite(cfg.Cookie.RawSameSite)
	if !ok {
		return errInvalidSameSite
	}

	cfg.Cookie.SameSite = sameSite

	if sameSite == http.SameSiteNoneMode && !cfg.CookieSecure() {
		return errSameSiteNoneNeedsSecure
	}

	if cfg.Cookie.MaxAge < 0 {
		return errNegativeCookieMaxAge
	}

	switch cfg.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return errInvalidLogLevel
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return errInvalidLogFormat
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8383"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	switch {
	case cfg.Basic.RawUnixSocketPermissions == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		mode, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)
		cfg.Basic.UnixSocketPermissions = os.FileMode(mode)
	default:
		return errUnixSocketInvalidPermissions
	}

	return nil
}
