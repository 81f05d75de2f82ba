// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cssload/cssload/core/fetchhook"
	"codeberg.org/cssload/cssload/core/stylesheet"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, c.Render(context.Background(), &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	return doc
}

func TestIndexPlacesLoaderInHead(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, Index(IndexData{
		Title:  "cssload",
		Domain: "example",
		Loader: fetchhook.Succeeded(stylesheet.ParseResponse(`{"path":"/static/example.css"}`)),
	}))

	href, ok := doc.Find(`head link[rel="stylesheet"]`).Attr("href")
	require.True(t, ok)
	assert.Equal(t, "/static/example.css", href)

	assert.Equal(t, "cssload", doc.Find("title").Text())

	value, _ := doc.Find("input#domain").Attr("value")
	assert.Equal(t, "example", value)

	fragment, _ := doc.Find("main a").Attr("href")
	assert.Equal(t, "/stylesheet?domain=example", fragment)
}

func TestIndexWithoutDomain(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, Index(IndexData{Title: "cssload", Loader: fetchhook.Loading[stylesheet.Response]()}))

	fragment, _ := doc.Find("main a").Attr("href")
	assert.Equal(t, "/stylesheet", fragment)

	// A <div> is not valid in <head>; the parser moves it into the body.
	assert.Contains(t, doc.Find("body").Text(), "Data is Loading...")
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    ErrorData
		heading string
		message string
	}{
		{
			"Not found",
			ErrorData{Title: "Error", StatusCode: http.StatusNotFound},
			"404 Not Found",
			"The page you requested does not exist.",
		},
		{
			"Internal error with cause",
			ErrorData{Title: "Error", StatusCode: http.StatusInternalServerError, Error: errors.New("<upstream> down")},
			"500 Internal Server Error",
			"<upstream> down",
		},
		{
			"Internal error without cause",
			ErrorData{Title: "Error", StatusCode: http.StatusInternalServerError},
			"500 Internal Server Error",
			"Something went wrong.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := renderDoc(t, Error(tt.data))

			assert.Equal(t, tt.heading, doc.Find("h1.errorText").Text())
			assert.Equal(t, tt.message, doc.Find("main p").First().Text())
		})
	}
}
