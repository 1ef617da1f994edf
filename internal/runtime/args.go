package runtime

import (
	"context"
	"fmt"
	"maps"
	"slices"

	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
)

// valuePlan holds the argument directives that apply to one input value.
type valuePlan struct {
	transforms  []directive.ArgTransformer
	checks      []directive.ArgDirective
	arrayChecks []directive.ArgDirectiveForArray
	// input is set when the value is an input object; it may be filled after
	// the plan is created for recursive input types.
	input *inputPlan
}

type namedPlan struct {
	name string
	plan *valuePlan
}

type inputPlan struct {
	fields []namedPlan
}

// argsPlan is the pipeline for the arguments of a single field.
type argsPlan []namedPlan

type argPlanner struct {
	doc     *language.SchemaDocument
	factory *directive.Factory
	inputs  map[string]*inputPlan
}

func newArgPlanner(doc *language.SchemaDocument, factory *directive.Factory) *argPlanner {
	return &argPlanner{doc: doc, factory: factory, inputs: make(map[string]*inputPlan)}
}

func (p *argPlanner) field(field *language.FieldDefinition) (argsPlan, error) {
	var plan argsPlan
	for _, arg := range field.Arguments {
		vp, err := p.value(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", arg.Name, err)
		}
		if vp != nil {
			plan = append(plan, namedPlan{name: arg.Name, plan: vp})
		}
	}
	return plan, nil
}

// value builds the plan of one argument or input field. It returns nil when
// nothing applies.
func (p *argPlanner) value(arg *language.ArgumentDefinition) (*valuePlan, error) {
	transforms, err := p.factory.ArgTransformers(arg)
	if err != nil {
		return nil, err
	}
	checks, err := p.factory.ArgDirectives(arg)
	if err != nil {
		return nil, err
	}
	arrayChecks, err := p.factory.ArgDirectivesForArray(arg)
	if err != nil {
		return nil, err
	}
	input, err := p.input(arg.Type.Name())
	if err != nil {
		return nil, err
	}
	if len(transforms) == 0 && len(checks) == 0 && len(arrayChecks) == 0 && input == nil {
		return nil, nil
	}
	return &valuePlan{transforms: transforms, checks: checks, arrayChecks: arrayChecks, input: input}, nil
}

// input returns the plan of an input object type, or nil for other types.
func (p *argPlanner) input(typeName string) (*inputPlan, error) {
	if ip, ok := p.inputs[typeName]; ok {
		return ip, nil
	}
	def := p.doc.Definitions.ForName(typeName)
	if def == nil || def.Kind != language.InputObject {
		return nil, nil
	}
	ip := &inputPlan{}
	p.inputs[typeName] = ip
	for _, f := range def.Fields {
		vp, err := p.value(inputFieldArgument(f))
		if err != nil {
			return nil, fmt.Errorf("input field %s.%s: %w", typeName, f.Name, err)
		}
		if vp != nil {
			ip.fields = append(ip.fields, namedPlan{name: f.Name, plan: vp})
		}
	}
	return ip, nil
}

// inputFieldArgument views an input field as an argument definition so the
// factory accessors apply to it.
func inputFieldArgument(f *language.FieldDefinition) *language.ArgumentDefinition {
	return &language.ArgumentDefinition{
		Description:  f.Description,
		Name:         f.Name,
		DefaultValue: f.DefaultValue,
		Type:         f.Type,
		Directives:   f.Directives,
		Position:     f.Position,
	}
}

// wrap runs the pipeline over a copy of the arguments before calling next.
func (plan argsPlan) wrap(next directive.ResolveFunc) directive.ResolveFunc {
	if len(plan) == 0 {
		return next
	}
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		out, err := plan.apply(ctx, args)
		if err != nil {
			return nil, err
		}
		return next(ctx, source, out)
	}
}

func (plan argsPlan) apply(ctx context.Context, args map[string]any) (map[string]any, error) {
	return applyFields(ctx, plan, args)
}

func applyFields(ctx context.Context, fields []namedPlan, values map[string]any) (map[string]any, error) {
	out := maps.Clone(values)
	if out == nil {
		out = make(map[string]any)
	}
	for _, f := range fields {
		v, present := out[f.name]
		nv, err := f.plan.apply(ctx, v)
		if err != nil {
			return nil, err
		}
		if present || nv != nil {
			out[f.name] = nv
		}
	}
	return out, nil
}

// apply transforms the value, then checks it. List values are checked per
// item and as a whole.
func (vp *valuePlan) apply(ctx context.Context, v any) (any, error) {
	var err error
	if v != nil {
		for _, t := range vp.transforms {
			if v, err = t.TransformArg(ctx, v); err != nil {
				return nil, err
			}
		}
	}
	if list, ok := v.([]any); ok {
		list = slices.Clone(list)
		for i, item := range list {
			if list[i], err = vp.applyOne(ctx, item); err != nil {
				return nil, err
			}
		}
		for _, c := range vp.arrayChecks {
			if err := c.HandleArgArray(ctx, list); err != nil {
				return nil, err
			}
		}
		return list, nil
	}
	return vp.applyOne(ctx, v)
}

func (vp *valuePlan) applyOne(ctx context.Context, v any) (any, error) {
	for _, c := range vp.checks {
		if err := c.HandleArg(ctx, v); err != nil {
			return nil, err
		}
	}
	if m, ok := v.(map[string]any); ok && vp.input != nil && len(vp.input.fields) > 0 {
		return applyFields(ctx, vp.input.fields, m)
	}
	return v, nil
}
