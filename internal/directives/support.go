package directives

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	directive "github.com/hanpama/beacon/internal/directive"
	query "github.com/hanpama/beacon/internal/query"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// toList converts any slice value to []any. ok is false for non-slices.
func toList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

type argBuilders struct {
	name     string
	builders []directive.ArgBuilderDirective
}

// builderPlan collects the argument builder directives of a field once, at
// schema build time.
type builderPlan []argBuilders

func newBuilderPlan(f *directive.FieldValue) (builderPlan, error) {
	var plan builderPlan
	for _, arg := range f.Definition.Arguments {
		bs, err := f.Factory.ArgBuilderDirectives(arg)
		if err != nil {
			return nil, err
		}
		if len(bs) > 0 {
			plan = append(plan, argBuilders{name: arg.Name, builders: bs})
		}
	}
	return plan, nil
}

// build applies the builders of every argument present in args. Null
// arguments add no constraint.
func (p builderPlan) build(args map[string]any) (*query.Builder, error) {
	b := query.NewBuilder()
	for _, ab := range p {
		v, ok := args[ab.name]
		if !ok || v == nil {
			continue
		}
		for _, d := range ab.builders {
			next, err := d.HandleBuilder(b, v)
			if err != nil {
				return nil, fmt.Errorf("argument %s: %w", ab.name, err)
			}
			b = next
		}
	}
	return b, nil
}
