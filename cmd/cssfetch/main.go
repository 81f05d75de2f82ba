// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Command cssfetch looks up the stylesheet for a domain once and prints the rendered
loader to stdout.

With -post it instead sends a CSRF-protected POST and prints the JSON answer.

	cssfetch -base https://example.com -domain games
	cssfetch -base https://example.com -browser chrome -post '{"a": 1}' -path /api/save
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/cssload/cssload/assets/components/partials"
	"codeberg.org/cssload/cssload/core/audit"
	"codeberg.org/cssload/cssload/core/cookie"
	"codeberg.org/cssload/cssload/core/fetchhook"
	"codeberg.org/cssload/cssload/core/query"
	"codeberg.org/cssload/cssload/core/requests"
	"codeberg.org/cssload/cssload/core/stylesheet"
	"codeberg.org/cssload/cssload/server/utils"
)

var (
	errLookupFailed = errors.New("stylesheet lookup failed")
	errPostBody     = errors.New("-post must be a JSON object")
)

type options struct {
	base     string
	domain   string
	browsers string
	post     string
	path     string
	strict   bool
	timeout  time.Duration
}

func main() {
	audit.SetDefaultLogger()

	var opts options

	flag.StringVar(&opts.base, "base", "http://localhost:8000", "Origin of the API.")
	flag.StringVar(&opts.domain, "domain", "", "Domain to look up the stylesheet for.")
	flag.StringVar(&opts.browsers, "browser", "", `Comma-separated browsers to import the csrftoken cookie from, or "all".`)
	flag.StringVar(&opts.post, "post", "", "JSON object to POST to -path instead of looking up a stylesheet.")
	flag.StringVar(&opts.path, "path", "/", "Path for -post.")
	flag.BoolVar(&opts.strict, "strict", false, "Reject stylesheet answers without a path.")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Overall timeout.")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("cssfetch failed")
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	base, err := utils.ParseURL(opts.base, "API")
	if err != nil {
		return err
	}

	store, err := cookie.NewJarStore(base)
	if err != nil {
		return err
	}

	if opts.browsers != "" {
		var browsers []string
		if opts.browsers != "all" {
			browsers = strings.Split(opts.browsers, ",")
		}

		imported, err := cookie.ImportFromBrowser(ctx, store, base.String(), browsers)
		if err != nil {
			return err
		}

		if !imported {
			log.Warn().Str("url", base.String()).Msg("No csrftoken cookie found in browser profiles")
		}
	}

	client := requests.NewClient(
		requests.WithBaseURL(base),
		requests.WithCookieStore(store),
	)

	if opts.post != "" {
		return post(ctx, client, opts.path, opts.post, out)
	}

	var validators []requests.Validator
	if opts.strict {
		validators = append(validators, stylesheet.Strict())
	}

	hook := stylesheet.Load(ctx, client, opts.domain, validators...)
	defer hook.Close()

	outcome := hook.Wait(ctx)

	if err := partials.StylesheetLoader(outcome).Render(ctx, out); err != nil {
		return err
	}

	_, _ = io.WriteString(out, "\n")

	if outcome.State != fetchhook.StateSucceeded {
		return fmt.Errorf("%w: %s", errLookupFailed, outcome.State)
	}

	return nil
}

// post sends body, a JSON object, to path and writes the JSON answer to out.
func post(ctx context.Context, client *requests.Client, path, body string, out io.Writer) error {
	data, err := paramsFromJSON(body)
	if err != nil {
		return err
	}

	result, err := requests.Fetch[gjson.Result](ctx, client, requests.Descriptor{
		URL:    path,
		Method: http.MethodPost,
		Data:   data,
	}, requests.Raw)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, result.Raw)

	return err
}

// paramsFromJSON keeps the key order of the object.
func paramsFromJSON(body string) (query.Params, error) {
	parsed := gjson.Parse(body)
	if !gjson.Valid(body) || !parsed.IsObject() {
		return nil, errPostBody
	}

	data := query.Params{}

	parsed.ForEach(func(key, value gjson.Result) bool {
		data = data.Set(key.String(), value.Value())

		return true
	})

	return data, nil
}
