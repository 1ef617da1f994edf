package executor

import (
	language "github.com/hanpama/beacon/internal/language"
	schema "github.com/hanpama/beacon/internal/schema"
)

// fieldGroup is the set of field nodes sharing one response name.
type fieldGroup struct {
	name   string
	fields []*language.Field
}

// collectFields flattens fragments into field groups in query order,
// honoring @skip, @include and fragment type conditions.
func (ex *execution) collectFields(objectType *schema.Type, set language.SelectionSet) []fieldGroup {
	var groups []fieldGroup
	index := make(map[string]int)
	visited := make(map[string]bool)

	var walk func(language.SelectionSet)
	walk = func(set language.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *language.Field:
				if !ex.included(sel.Directives) {
					continue
				}
				name := sel.Alias
				if name == "" {
					name = sel.Name
				}
				if i, ok := index[name]; ok {
					groups[i].fields = append(groups[i].fields, sel)
					continue
				}
				index[name] = len(groups)
				groups = append(groups, fieldGroup{name: name, fields: []*language.Field{sel}})
			case *language.InlineFragment:
				if ex.included(sel.Directives) && ex.applies(objectType, sel.TypeCondition) {
					walk(sel.SelectionSet)
				}
			case *language.FragmentSpread:
				if visited[sel.Name] || !ex.included(sel.Directives) {
					continue
				}
				visited[sel.Name] = true
				frag := ex.doc.Fragments.ForName(sel.Name)
				if frag == nil || !ex.applies(objectType, frag.TypeCondition) || !ex.included(frag.Directives) {
					continue
				}
				walk(frag.SelectionSet)
			}
		}
	}
	walk(set)
	return groups
}

// included evaluates @skip and @include.
func (ex *execution) included(directives language.DirectiveList) bool {
	if v, ok := ex.directiveIf(directives.ForName("skip")); ok && v {
		return false
	}
	if v, ok := ex.directiveIf(directives.ForName("include")); ok && !v {
		return false
	}
	return true
}

// directiveIf reads the if argument of d. ok is false when d is nil or the
// argument is not a boolean.
func (ex *execution) directiveIf(d *language.Directive) (v, ok bool) {
	if d == nil {
		return false, false
	}
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false, false
	}
	v, ok = valueFromASTWithVars(arg.Value, ex.vars).(bool)
	return v, ok
}

// applies reports whether a fragment type condition matches objectType.
// Abstract conditions match their members.
func (ex *execution) applies(objectType *schema.Type, condition string) bool {
	return condition == "" || ex.schema.IsPossibleType(condition, objectType.Name)
}
