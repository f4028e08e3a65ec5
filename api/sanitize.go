package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Sanitizable is implemented by values that know their own query form.
type Sanitizable interface {
	QueryString() string
}

// Sanitize normalizes v into a tree that only contains scalars, []any and
// map[string]any. Dates become ISO-8601 strings, URLs become their href and
// Sanitizable values become their QueryString. Structs are flattened into maps
// using their `url` tags. nil stays nil.
func Sanitize(v any) any {
	if v == nil {
		return nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}

	switch t := v.(type) {
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return t
	case Sanitizable:
		return t.QueryString()
	case time.Time:
		return formatISO(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return formatISO(*t)
	case *url.URL:
		if t == nil {
			return nil
		}
		return t.String()
	case url.URL:
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = Sanitize(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = Sanitize(child)
		}
		return out
	}

	return sanitizeReflect(reflect.ValueOf(v))
}

func sanitizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Sanitize(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Sanitize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = Sanitize(iter.Value().Interface())
		}
		return out
	case reflect.Struct:
		return sanitizeStruct(rv)
	case reflect.String:
		// named string types (enums) collapse to plain strings
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return rv.Interface()
	}
}

// mapKey renders a map key the way it appears inside brackets.
func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func sanitizeStruct(rv reflect.Value) map[string]any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(field.Tag.Get("url"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fv := rv.Field(i)
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		out[name] = Sanitize(fv.Interface())
	}
	return out
}
