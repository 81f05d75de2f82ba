// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

// ErrorData is the data used to render the error page.
type ErrorData struct {
	Title      string
	Error      error
	StatusCode int
}

// Error renders the generic error page.
func Error(data ErrorData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		status := strconv.Itoa(data.StatusCode) + " " + http.StatusText(data.StatusCode)

		message := "Something went wrong."
		if data.StatusCode == http.StatusNotFound {
			message = "The page you requested does not exist."
		} else if data.Error != nil {
			message = data.Error.Error()
		}

		_, err := io.WriteString(w, `<main><h1 class="errorText">`+templ.EscapeString(status)+`</h1>`+
			`<p>`+templ.EscapeString(message)+`</p><p><a href="/">Back to the index</a></p></main>`)

		return err
	})

	return layout(data.Title, nil, body)
}
