// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Param is a single key/value pair. A nil Value is the null value.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of pairs.
//
// Order is preserved both in query strings and in the JSON object produced by MarshalJSON.
type Params []Param

// Set appends a pair and returns the extended list.
func (ps Params) Set(key string, value any) Params {
	return append(ps, Param{Key: key, Value: value})
}

// Get returns the value of the first pair named key.
func (ps Params) Get(key string) (any, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}

	return nil, false
}

// FromMap converts a map into Params. Map iteration order is unspecified,
// so callers that care about ordering should build Params directly.
func FromMap[V any](m map[string]V) Params {
	ps := make(Params, 0, len(m))

	for k, v := range m {
		ps = append(ps, Param{Key: k, Value: v})
	}

	return ps
}

// MarshalJSON encodes ps as a JSON object with keys in slice order.
//
// Later duplicates are written as well; most decoders keep the last one.
func (ps Params) MarshalJSON() ([]byte, error) {
	if ps == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", p.Key, err)
		}

		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode value for key %q: %w", p.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
