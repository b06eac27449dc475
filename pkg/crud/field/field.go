// Package field resolves declarative keys ("deptName", "children") against
// arbitrary row values: structs (by json tag, then field name) and string-keyed maps.
package field

import (
	"reflect"
	"strings"
	"sync"
)

// Lookup returns the value stored under key in v.
func Lookup(v any, key string) (any, bool) {
	if v == nil || key == "" {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		idx, ok := indexOf(rv.Type(), key)
		if !ok {
			return nil, false
		}
		f, err := rv.FieldByIndexErr(idx)
		if err != nil {
			return nil, false
		}
		return f.Interface(), true
	default:
		return nil, false
	}
}

// Slice looks key up and returns it as a slice of T. Elements of a different
// type are skipped.
func Slice[T any](v any, key string) []T {
	raw, ok := Lookup(v, key)
	if !ok || raw == nil {
		return nil
	}
	if typed, ok := raw.([]T); ok {
		return typed
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]T, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if item, ok := rv.Index(i).Interface().(T); ok {
			out = append(out, item)
		}
	}
	return out
}

type typeKey struct {
	t   reflect.Type
	key string
}

var indexCache sync.Map

func indexOf(t reflect.Type, key string) ([]int, bool) {
	ck := typeKey{t: t, key: key}
	if cached, ok := indexCache.Load(ck); ok {
		idx := cached.([]int)
		return idx, idx != nil
	}

	var found []int
	var byName []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == "-" {
			continue
		}
		if tag == key {
			found = f.Index
			break
		}
		if byName == nil && strings.EqualFold(f.Name, key) {
			byName = f.Index
		}
	}
	if found == nil {
		found = byName
	}
	indexCache.Store(ck, found)
	return found, found != nil
}
