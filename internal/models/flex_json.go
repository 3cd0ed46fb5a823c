package models

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// fieldMaps caches JSON tag -> struct field index mappings per decoded type
var fieldMaps sync.Map

func fieldMapFor(t reflect.Type) map[string]int {
	if cached, ok := fieldMaps.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		m[name] = i
	}
	fieldMaps.Store(t, m)
	return m
}

// flexUnmarshal decodes data into target (a pointer to an alias struct type),
// accepting both native JSON values and quoted strings for numeric and bool
// fields. War snapshots relayed through spreadsheets and bots frequently carry
// "stars": "2" instead of "stars": 2.
func flexUnmarshal(data []byte, target any) error {
	// Fast path: try standard unmarshal (works when all types match natively)
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}

	// Slow path: field-by-field with string-to-native coercion
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	v := reflect.ValueOf(target).Elem()
	fieldMap := fieldMapFor(v.Type())

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		err := json.Unmarshal(rawVal, ptr.Interface())
		if err == nil {
			fv.Set(ptr.Elem())
			continue
		}
		// Only quoted scalars get a second chance
		if len(rawVal) == 0 || rawVal[0] != '"' {
			return fmt.Errorf("flex unmarshal %s: %w", key, err)
		}

		var s string
		if err := json.Unmarshal(rawVal, &s); err != nil {
			return fmt.Errorf("flex unmarshal %s: %w", key, err)
		}
		if err := coerceStringToField(fv, s); err != nil {
			return fmt.Errorf("flex unmarshal %s: %w", key, err)
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
// Ints accept "2" and "2.0" but not "2.9".
func coerceStringToField(fv reflect.Value, s string) error {
	s = strings.TrimSpace(s)
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		fv.SetFloat(n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			fv.SetInt(n)
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || n != math.Trunc(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%q is not a whole number", s)
		}
		fv.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%q is not a bool", s)
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("cannot decode string into %s", fv.Type())
	}
	return nil
}

// UnmarshalJSON implements lenient decoding for a single attack record.
func (a *Attack) UnmarshalJSON(data []byte) error {
	type alias Attack
	return flexUnmarshal(data, (*alias)(a))
}

// UnmarshalJSON implements lenient decoding for a war roster member.
func (m *Member) UnmarshalJSON(data []byte) error {
	type alias Member
	return flexUnmarshal(data, (*alias)(m))
}

// UnmarshalJSON implements lenient decoding for one side of a war.
func (s *Side) UnmarshalJSON(data []byte) error {
	type alias Side
	return flexUnmarshal(data, (*alias)(s))
}

// UnmarshalJSON implements lenient decoding for a full war snapshot.
func (w *WarSnapshot) UnmarshalJSON(data []byte) error {
	type alias WarSnapshot
	return flexUnmarshal(data, (*alias)(w))
}
