package schema

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	language "github.com/hanpama/beacon/internal/language"
)

// FromSDL parses sdl and builds a schema from it without running any
// directive passes.
func FromSDL(sdl string) (*Schema, error) {
	doc, err := language.ParseSchema("schema.graphql", sdl)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// FromDocument builds an executable schema from a merged schema document.
// Extensions must already be folded into their definitions. Root operation
// types come from the schema definition, or from the conventional names
// Query, Mutation and Subscription when the document has none.
func FromDocument(doc *language.SchemaDocument) (*Schema, error) {
	s := NewSchema("")
	for _, t := range builtinScalars {
		s.AddType(t)
	}
	s.AddDirective(includeDirective).
		AddDirective(skipDirective)

	for _, def := range doc.Definitions {
		if def.BuiltIn {
			continue
		}
		if isBuiltinScalar(def.Name) {
			continue
		}
		if _, dup := s.Types[def.Name]; dup {
			return nil, invalidSchema("type %q is defined more than once", def.Name)
		}
		t, err := buildType(def)
		if err != nil {
			return nil, err
		}
		s.AddType(t)
	}
	for _, dir := range doc.Directives {
		s.AddDirective(buildDirective(dir))
	}

	if err := setRootTypes(s, doc); err != nil {
		return nil, err
	}
	collectImplementations(s)
	if err := checkReferences(s); err != nil {
		return nil, err
	}
	return s, nil
}

func invalidSchema(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
}

func setRootTypes(s *Schema, doc *language.SchemaDocument) error {
	var ops []*language.OperationTypeDefinition
	for _, def := range doc.Schema {
		ops = append(ops, def.OperationTypes...)
	}
	for _, ext := range doc.SchemaExtension {
		ops = append(ops, ext.OperationTypes...)
	}
	if len(ops) == 0 {
		if _, ok := s.Types["Query"]; ok {
			s.SetQueryType("Query")
		}
		if _, ok := s.Types["Mutation"]; ok {
			s.SetMutationType("Mutation")
		}
		if _, ok := s.Types["Subscription"]; ok {
			s.SetSubscriptionType("Subscription")
		}
	}
	for _, op := range ops {
		t, ok := s.Types[op.Type]
		if !ok || t.Kind != TypeKindObject {
			return invalidSchema("%s root type %q must be a defined object type", op.Operation, op.Type)
		}
		switch op.Operation {
		case language.Query:
			s.SetQueryType(op.Type)
		case language.Mutation:
			s.SetMutationType(op.Type)
		case language.Subscription:
			s.SetSubscriptionType(op.Type)
		}
	}
	if s.QueryType == "" {
		return invalidSchema("schema has no query root type")
	}
	return nil
}

// collectImplementations fills PossibleTypes of interfaces from the object
// types that declare them, sorted by name.
func collectImplementations(s *Schema) {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := s.Types[name]
		if t.Kind != TypeKindObject {
			continue
		}
		for _, iface := range t.Interfaces {
			if it, ok := s.Types[iface]; ok && it.Kind == TypeKindInterface {
				it.AddPossibleType(name)
			}
		}
	}
}

func checkReferences(s *Schema) error {
	known := func(ref *TypeRef) bool {
		_, ok := s.Types[ref.GetNamedType()]
		return ok
	}
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := s.Types[name]
		for _, f := range t.Fields {
			if !known(f.Type) {
				return invalidSchema("unknown type %q referenced by %s.%s", f.Type.GetNamedType(), name, f.Name)
			}
			for _, a := range f.Arguments {
				if !known(a.Type) {
					return invalidSchema("unknown type %q referenced by %s.%s(%s)", a.Type.GetNamedType(), name, f.Name, a.Name)
				}
			}
		}
		for _, f := range t.InputFields {
			if !known(f.Type) {
				return invalidSchema("unknown type %q referenced by %s.%s", f.Type.GetNamedType(), name, f.Name)
			}
		}
		for _, member := range t.PossibleTypes {
			if m, ok := s.Types[member]; !ok || m.Kind != TypeKindObject {
				return invalidSchema("union %s member %q must be an object type", name, member)
			}
		}
		for _, iface := range t.Interfaces {
			if it, ok := s.Types[iface]; !ok || it.Kind != TypeKindInterface {
				return invalidSchema("%s implements %q which is not an interface", name, iface)
			}
		}
	}
	return nil
}

func buildType(def *language.Definition) (*Type, error) {
	switch def.Kind {
	case language.Object:
		return buildComposite(def, TypeKindObject), nil
	case language.Interface:
		return buildComposite(def, TypeKindInterface), nil
	case language.Union:
		t := NewType(def.Name, TypeKindUnion, def.Description)
		for _, member := range def.Types {
			t.AddPossibleType(member)
		}
		return t, nil
	case language.Enum:
		t := NewType(def.Name, TypeKindEnum, def.Description)
		for _, v := range def.EnumValues {
			e := NewEnumValue(v.Name, v.Description)
			if reason, ok := deprecation(v.Directives); ok {
				e.Deprecate(reason)
			}
			t.AddEnumValue(e)
		}
		return t, nil
	case language.InputObject:
		t := NewType(def.Name, TypeKindInputObject, def.Description).
			SetOneOf(def.Directives.ForName("oneOf") != nil)
		for _, f := range def.Fields {
			t.AddInputField(buildInputValue(f.Name, f.Description, f.Type, f.DefaultValue, f.Directives))
		}
		return t, nil
	case language.Scalar:
		t := NewType(def.Name, TypeKindScalar, def.Description)
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
				url := arg.Value.Raw
				t.SpecifiedByURL = &url
			}
		}
		return t, nil
	}
	return nil, invalidSchema("type %q has unsupported kind %s", def.Name, def.Kind)
}

func buildComposite(def *language.Definition, kind TypeKind) *Type {
	t := NewType(def.Name, kind, def.Description)
	for _, iface := range def.Interfaces {
		t.AddInterface(iface)
	}
	for _, fd := range def.Fields {
		f := NewField(fd.Name, fd.Description, buildTypeRef(fd.Type))
		if reason, ok := deprecation(fd.Directives); ok {
			f.Deprecate(reason)
		}
		for _, a := range fd.Arguments {
			f.AddArgument(buildInputValue(a.Name, a.Description, a.Type, a.DefaultValue, a.Directives))
		}
		t.AddField(f)
	}
	return t
}

func buildInputValue(name, description string, typ *language.Type, def *language.Value, directives language.DirectiveList) *InputValue {
	in := NewInputValue(name, description, buildTypeRef(typ))
	if def != nil {
		v, err := def.Value(nil)
		if err == nil {
			in.SetDefault(v)
		}
		in.DefaultLiteral = def.String()
	}
	if reason, ok := deprecation(directives); ok {
		in.Deprecate(reason)
	}
	return in
}

func buildDirective(dir *language.DirectiveDefinition) *Directive {
	d := NewDirective(dir.Name, dir.Description).SetRepeatable(dir.IsRepeatable)
	for _, loc := range dir.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, a := range dir.Arguments {
		d.AddArgument(buildInputValue(a.Name, a.Description, a.Type, a.DefaultValue, a.Directives))
	}
	return d
}

func buildTypeRef(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		ref = NonNullType(ref)
	}
	return ref
}

// deprecation reads @deprecated, defaulting the reason the way GraphQL does.
func deprecation(directives language.DirectiveList) (string, bool) {
	d := directives.ForName("deprecated")
	if d == nil {
		return "", false
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw, true
	}
	return "No longer supported", true
}
