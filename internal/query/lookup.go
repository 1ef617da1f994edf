package query

import (
	"reflect"
	"strings"
)

// Lookup reads key from a record. Maps are indexed directly; structs are
// matched by json tag first and then by case-insensitive field name.
func Lookup(record any, key string) (any, bool) {
	switch r := record.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := r[key]
		return v, ok
	case map[string]string:
		v, ok := r[key]
		return v, ok
	}

	rv := reflect.ValueOf(record)
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
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag == key {
				return rv.Field(i).Interface(), true
			}
		}
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if sf.IsExported() && strings.EqualFold(sf.Name, key) {
				return rv.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}
