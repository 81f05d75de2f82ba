// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/cssload/cssload/config"
	"codeberg.org/cssload/cssload/core/stylesheet"
	"codeberg.org/cssload/cssload/server/middleware"
	"codeberg.org/cssload/cssload/server/routes"
)

// DefineRoutes sets up all the routes for the application.
//
// It does not register middleware; see RegisterMiddleware.
func (router *Router) DefineRoutes(pages *routes.Pages) {
	router.HandleFunc("GET /healthz", middleware.CatchError(routes.Healthz))

	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(pages.IndexPage))
	router.HandleFunc("GET /stylesheet", middleware.CatchError(pages.StylesheetFragment))

	// Short links
	router.HandleFunc("GET /d/{domain}", redirectPathVarToQuery("/", "domain", stylesheet.DomainKey))
	router.HandleFunc("GET /d/{domain}/stylesheet", redirectPathVarToQuery("/stylesheet", "domain", stylesheet.DomainKey))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	// Everything else
	router.HandleFunc("/", middleware.CatchError(routes.NotFound))
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
