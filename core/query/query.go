// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package query builds URL query suffixes from ordered key/value pairs.

Keys and values are concatenated as-is; no percent-encoding is applied.
EncodeURL escapes what a browser would before the result goes on the wire.
*/
package query

import (
	"fmt"
	"strings"
)

const (
	// queryStart prefixes the first emitted pair.
	queryStart = "?"

	// fragmentStart ends the query.
	fragmentStart = "#"

	upperHex = "0123456789ABCDEF"

	// pairSeparator joins a key to its value.
	pairSeparator = "="

	// nullValue is how a nil value is written when it is not skipped.
	nullValue = "null"
)

// Policy controls how Build treats empty values and joins pairs.
type Policy struct {
	// SkipEmpty drops pairs whose value is nil or the empty string.
	SkipEmpty bool

	// Separator joins the second and later pairs.
	Separator string
}

// Predefined policies.
var (
	// Compact skips nil and empty values and joins pairs with "+".
	Compact = Policy{SkipEmpty: true, Separator: "+"}

	// Verbatim emits every pair, including nil and empty values, joined with "&".
	Verbatim = Policy{SkipEmpty: false, Separator: "&"}
)

// Build appends params to base according to policy.
//
// Pairs are emitted in slice order. Duplicate keys produce duplicate entries.
// The "?" prefix is only written if at least one pair is emitted.
func Build(base string, params Params, policy Policy) string {
	var b strings.Builder

	b.WriteString(base)

	started := false

	for _, p := range params {
		if policy.SkipEmpty && p.isEmpty() {
			continue
		}

		if !started {
			b.WriteString(queryStart)

			started = true
		} else {
			b.WriteString(policy.Separator)
		}

		b.WriteString(p.Key)
		b.WriteString(pairSeparator)
		b.WriteString(p.format())
	}

	return b.String()
}

// GetRequestURL serializes params onto url using the Compact policy.
func GetRequestURL(url string, params Params) string {
	return Build(url, params, Compact)
}

// EncodeURL percent-encodes the bytes of rawURL's query that may not appear in one:
// controls, space, quotes, angle brackets and non-ASCII. Separators such as '&', '=' and '+'
// and existing escapes are left alone. The path and fragment are not touched.
func EncodeURL(rawURL string) string {
	base, rest, found := strings.Cut(rawURL, queryStart)
	if !found {
		return rawURL
	}

	rawQuery, fragment, hasFragment := strings.Cut(rest, fragmentStart)

	var b strings.Builder

	b.Grow(len(rawURL))
	b.WriteString(base)
	b.WriteString(queryStart)

	for i := range len(rawQuery) {
		c := rawQuery[i]
		if !shouldEscape(c) {
			b.WriteByte(c)

			continue
		}

		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}

	if hasFragment {
		b.WriteString(fragmentStart)
		b.WriteString(fragment)
	}

	return b.String()
}

func shouldEscape(c byte) bool {
	switch c {
	case ' ', '"', '\'', '<', '>', 0x7f:
		return true
	default:
		return c < 0x20 || c >= 0x80
	}
}

func (p Param) isEmpty() bool {
	switch v := p.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *string:
		return v == nil || *v == ""
	default:
		return false
	}
}

func (p Param) format() string {
	switch v := p.Value.(type) {
	case nil:
		return nullValue
	case string:
		return v
	case *string:
		if v == nil {
			return nullValue
		}

		return *v
	default:
		return fmt.Sprint(v)
	}
}
