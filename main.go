// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
cssload serves pages whose stylesheet is chosen by an upstream API, fetched
through a CSRF-aware client.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/cssload/cssload/config"
	"codeberg.org/cssload/cssload/core/audit"
	"codeberg.org/cssload/cssload/core/cookie"
	"codeberg.org/cssload/cssload/core/requests"
	"codeberg.org/cssload/cssload/server/router"
	"codeberg.org/cssload/cssload/server/routes"
	"codeberg.org/cssload/cssload/server/utils"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 30 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

var errChmodSocket = errors.New("failed to change unix socket permissions")

// main is the entry point of the application.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run orchestrates the application startup and graceful shutdown.
//
// It returns once ctx is done or a shutdown signal arrives and the server has drained.
func run(ctx context.Context) error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	utils.HTTPClient.Timeout = config.Global.Upstream.Timeout

	client, err := newClient(&config.Global)
	if err != nil {
		return err
	}

	router := router.NewRouter()
	router.DefineRoutes(&routes.Pages{
		Client:        client,
		DefaultDomain: config.Global.Page.DefaultDomain,
		FetchTimeout:  config.Global.Page.FetchTimeout,
	})
	router.RegisterMiddleware()

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := chooseListener(ctx)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// newClient builds the upstream client shared by every request. The CSRF cookie
// lives in a jar scoped to the upstream origin.
func newClient(cfg *config.ServerConfig) (*requests.Client, error) {
	store, err := cookie.NewJarStore(cfg.Upstream.BaseURL)
	if err != nil {
		return nil, err
	}

	attrs := cookie.DefaultAttributes(cfg.CookieSecure())
	attrs.SameSite = cfg.Cookie.SameSite
	attrs.MaxAge = cfg.Cookie.MaxAge

	return requests.NewClient(
		requests.WithBaseURL(cfg.Upstream.BaseURL),
		requests.WithHTTPClient(utils.HTTPClient),
		requests.WithCookieStore(store),
		requests.WithCookieAttributes(attrs),
		requests.WithTokenURL(cfg.Upstream.TokenPath),
		requests.WithRateLimit(cfg.Upstream.RateLimit, cfg.Upstream.RateBurst),
		requests.WithUserAgent(cfg.Upstream.UserAgent),
		requests.WithAcceptLanguage(cfg.Upstream.AcceptLanguage),
	), nil
}

func chooseListener(ctx context.Context) (net.Listener, error) {
	// Check if we should use a Unix domain socket
	if config.Global.Basic.UnixSocket != "" {
		unixAddr := config.Global.Basic.UnixSocket

		unixListener, err := (&net.ListenConfig{}).Listen(ctx, "unix", unixAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", unixAddr, err)
		}

		if err := os.Chmod(unixAddr, config.Global.Basic.UnixSocketPermissions); err != nil {
			_ = unixListener.Close()

			return nil, fmt.Errorf("%w: %w", errChmodSocket, err)
		}

		log.Info().
			Str("address", unixAddr).
			Msg("Listening on Unix domain socket")

		return unixListener, nil
	}

	// Otherwise, fall back to TCP listener
	addr := net.JoinHostPort(config.Global.Basic.Host, config.Global.Basic.Port)

	tcpListener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	addr = tcpListener.Addr().String()

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = tcpListener.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", addr, err)
	}

	log.Info().
		Str("address", addr).
		Str("upstream", config.Global.Upstream.BaseURL.String()).
		Str("url", fmt.Sprintf("http://localhost:%v/", port)).
		Msg("Listening on address")

	return tcpListener, nil
}
