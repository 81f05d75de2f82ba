// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"codeberg.org/cssload/cssload/assets/components/partials"
	"codeberg.org/cssload/cssload/core/fetchhook"
	"codeberg.org/cssload/cssload/core/stylesheet"
)

// IndexData is the data used to render the index page.
type IndexData struct {
	Title  string
	Domain string
	Loader fetchhook.Outcome[stylesheet.Response]
}

// Index renders the landing page. The stylesheet loader goes into <head> so a
// resolved stylesheet applies to the whole document.
func Index(data IndexData) templ.Component {
	fragmentURL := "/stylesheet"
	if data.Domain != "" {
		fragmentURL += "?" + url.Values{stylesheet.DomainKey: {data.Domain}}.Encode()
	}

	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<main><h1>`+templ.EscapeString(data.Title)+`</h1>`+
			`<form method="get" action="/">`+
			`<label for="domain">Domain</label> `+
			`<input id="domain" name="domain" type="text" value="`+templ.EscapeString(data.Domain)+`"> `+
			`<button type="submit">Load</button></form>`+
			`<p><a href="`+templ.EscapeString(string(templ.URL(fragmentURL)))+`">Loader fragment</a></p>`+
			`</main>`)

		return err
	})

	return layout(data.Title, partials.StylesheetLoader(data.Loader), body)
}
