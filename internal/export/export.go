// Package export writes budget snapshots as JSON files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"time"
)

// FilePrefix starts every export file name.
const FilePrefix = "budget_export_"

// FileName returns the timestamped export name for now.
func FileName(now time.Time) string {
	return FilePrefix + now.Format("20060102_150405") + ".json"
}

// Write encodes data as indented JSON into dir and returns the file path.
// Values JSON cannot represent are written as their fmt string form.
func Write(dir string, data any, now time.Time) (string, error) {
	body, err := Encode(data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// Encode renders data as two-space indented JSON.
func Encode(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Sanitize(data)); err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return buf.Bytes(), nil
}

// Sanitize converts data into a tree of JSON-safe values. Types that
// implement json.Marshaler or encoding.TextMarshaler are kept as is;
// funcs, channels, complex numbers and non-finite floats become strings.
func Sanitize(data any) any {
	return sanitize(reflect.ValueOf(data))
}

var (
	jsonMarshaler = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshaler = reflect.TypeOf((*interface{ MarshalText() ([]byte, error) })(nil)).Elem()
)

func sanitize(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.Type().Implements(jsonMarshaler) || v.Type().Implements(textMarshaler) {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			return nil
		}
		if _, err := json.Marshal(v.Interface()); err == nil {
			return v.Interface()
		}
		return fmt.Sprint(v.Interface())
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return sanitize(v.Elem())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Interface()
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Sprint(f)
		}
		return v.Interface()
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []any{}
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = sanitize(v.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = sanitize(iter.Value())
		}
		return out
	case reflect.Struct:
		return sanitizeStruct(v)
	default:
		// func, chan, complex, unsafe pointer
		return fmt.Sprint(v.Interface())
	}
}

// sanitizeStruct follows encoding/json field rules. Fields of an untagged
// embedded struct are promoted into the parent, and the parent's own
// fields win on a name clash.
func sanitizeStruct(v reflect.Value) map[string]any {
	out := make(map[string]any)
	var promoted []map[string]any
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)
		if f.Anonymous && f.Tag.Get("json") == "" {
			if inner, ok := embeddedStruct(f, fv); ok {
				if inner.IsValid() {
					promoted = append(promoted, sanitizeStruct(inner))
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonName(f)
		if skip {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = sanitize(fv)
	}
	for _, fields := range promoted {
		for name, val := range fields {
			if _, ok := out[name]; !ok {
				out[name] = val
			}
		}
	}
	return out
}

// embeddedStruct reports whether f is a promotable embedded struct and
// returns its value, which is invalid when the embedded pointer is nil.
func embeddedStruct(f reflect.StructField, fv reflect.Value) (reflect.Value, bool) {
	ft := f.Type
	if ft.Kind() == reflect.Pointer {
		ft = ft.Elem()
	}
	if ft.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	if !f.IsExported() && f.Type.Kind() == reflect.Pointer {
		return reflect.Value{}, false
	}
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return reflect.Value{}, true
		}
		fv = fv.Elem()
	}
	return fv, true
}
