package directive

import (
	"reflect"

	language "github.com/hanpama/beacon/internal/language"
)

// OfCapability creates every directive declared on node, in declaration
// order, and keeps the ones implementing T.
func OfCapability[T any](f *Factory, node language.Node) ([]T, error) {
	var out []T
	for _, dn := range node.NodeDirectives() {
		d, err := f.create(dn.Name, dn, node)
		if err != nil {
			return nil, err
		}
		if c, ok := d.(T); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// SingleOfCapability returns the one directive on node implementing T, or the
// zero value when there is none. More than one is a conflict.
func SingleOfCapability[T any](f *Factory, node language.Node) (T, error) {
	var zero T
	found, err := OfCapability[T](f, node)
	if err != nil {
		return zero, err
	}
	switch len(found) {
	case 0:
		return zero, nil
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for i, c := range found {
		names[i] = Describe(any(c).(Directive))
	}
	return zero, errConflict(node.NodeName(), reflect.TypeFor[T]().Name(), names)
}
