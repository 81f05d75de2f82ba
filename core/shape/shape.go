// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package shape performs loose structural checks on untyped values.

Only key presence is checked; value types are not.
*/
package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-reflect"
	"github.com/tidwall/gjson"
)

// ErrShapeMismatch is returned by validators when a value lacks required keys.
var ErrShapeMismatch = errors.New("response does not have the expected shape")

// IsDictionary reports whether value is an object containing every key in keys.
//
// Objects are string-keyed maps, structs (keys taken from their JSON field names),
// and gjson results of type JSON object. Pointers and interfaces are followed.
// With no keys, any object qualifies, including an empty one.
func IsDictionary(value any, keys ...string) bool {
	own, ok := ownKeys(value)
	if !ok {
		return false
	}

	for _, key := range keys {
		if _, found := own[key]; !found {
			return false
		}
	}

	return true
}

// MissingKeys returns the keys absent from value, in the order given.
//
// If value is not an object at all, every key is returned.
func MissingKeys(value any, keys ...string) []string {
	own, ok := ownKeys(value)
	if !ok {
		return keys
	}

	var missing []string

	for _, key := range keys {
		if _, found := own[key]; !found {
			missing = append(missing, key)
		}
	}

	return missing
}

// RequireKeys returns a validator for parsed JSON responses that fails with
// ErrShapeMismatch unless the response is an object containing every key.
func RequireKeys(keys ...string) func(gjson.Result) error {
	return func(result gjson.Result) error {
		if !result.IsObject() {
			return fmt.Errorf("%w: expected a JSON object, got %s", ErrShapeMismatch, result.Type)
		}

		if missing := MissingKeys(result, keys...); len(missing) > 0 {
			return fmt.Errorf("%w: missing %s", ErrShapeMismatch, strings.Join(missing, ", "))
		}

		return nil
	}
}

// Falsy reports whether parsed JSON carries no data: it is missing, null, false, 0 or "".
// Objects and arrays, even empty ones, are data.
func Falsy(result gjson.Result) bool {
	switch result.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return result.Num == 0
	case gjson.String:
		return result.Str == ""
	default:
		return false
	}
}

// ownKeys collects the key set of value, reporting false if value is not an object.
func ownKeys(value any) (map[string]struct{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case gjson.Result:
		return gjsonKeys(v)
	case *gjson.Result:
		if v == nil {
			return nil, false
		}

		return gjsonKeys(*v)
	}

	val := reflect.ValueOf(value)
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil, false
		}

		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		if val.IsNil() || val.Type().Key().Kind() != reflect.String {
			return nil, false
		}

		keys := make(map[string]struct{}, val.Len())
		for _, k := range val.MapKeys() {
			keys[k.String()] = struct{}{}
		}

		return keys, true
	case reflect.Struct:
		return structKeys(val.Type()), true
	default:
		return nil, false
	}
}

func gjsonKeys(result gjson.Result) (map[string]struct{}, bool) {
	if !result.IsObject() {
		return nil, false
	}

	keys := make(map[string]struct{})

	result.ForEach(func(key, _ gjson.Result) bool {
		keys[key.String()] = struct{}{}

		return true
	})

	return keys, true
}

// structKeys mirrors the names encoding/json would use for exported fields.
func structKeys(typ reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, typ.NumField())

	for i := range typ.NumField() {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		name := field.Name

		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}

			if tagName != "" {
				name = tagName
			}
		}

		keys[name] = struct{}{}
	}

	return keys
}
