// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/cssload/cssload/core/fetchhook"
	"codeberg.org/cssload/cssload/core/stylesheet"
)

// StylesheetLoader renders the stylesheet lookup for outcome: a <link> once the
// path is known, otherwise a small status block.
func StylesheetLoader(outcome fetchhook.Outcome[stylesheet.Response]) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		switch outcome.State {
		case fetchhook.StateLoading:
			_, err := io.WriteString(w, `<div><p>Data is Loading...</p></div>`)

			return err
		case fetchhook.StateFailed:
			_, err := io.WriteString(w, `<div><p>Response Error</p><p>`+templ.EscapeString(outcome.Message())+`</p></div>`)

			return err
		case fetchhook.StateSucceeded:
			path, ok := outcome.Data.Path()
			if !ok {
				_, err := io.WriteString(w, `<div><p>Can Not load</p></div>`)

				return err
			}

			_, err := io.WriteString(w, `<link rel="stylesheet" href="`+templ.EscapeString(string(templ.URL(path)))+`">`)

			return err
		default:
			_, err := io.WriteString(w, `<div><h1 class="errorText">No Game Modes Are Currently Available</h1></div>`)

			return err
		}
	})
}
