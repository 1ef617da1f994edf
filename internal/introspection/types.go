// Package introspection serves the __schema and __type meta fields for a
// built schema.
package introspection

import (
	"slices"
	"strings"
	"sync"

	schema "github.com/hanpama/beacon/internal/schema"
)

const metaSDL = `
type Query {
  __schema: __Schema!
  __type(name: String!): __Type
}

type __Schema {
  description: String
  types: [__Type!]!
  queryType: __Type!
  mutationType: __Type
  subscriptionType: __Type
  directives: [__Directive!]!
}

type __Type {
  kind: __TypeKind!
  name: String
  description: String
  specifiedByURL: String
  fields(includeDeprecated: Boolean = false): [__Field!]
  interfaces: [__Type!]
  possibleTypes: [__Type!]
  enumValues(includeDeprecated: Boolean = false): [__EnumValue!]
  inputFields(includeDeprecated: Boolean = false): [__InputValue!]
  ofType: __Type
  isOneOf: Boolean
}

enum __TypeKind {
  SCALAR
  OBJECT
  INTERFACE
  UNION
  ENUM
  INPUT_OBJECT
  LIST
  NON_NULL
}

type __Field {
  name: String!
  description: String
  args(includeDeprecated: Boolean = false): [__InputValue!]!
  type: __Type!
  isDeprecated: Boolean!
  deprecationReason: String
}

type __InputValue {
  name: String!
  description: String
  type: __Type!
  defaultValue: String
  isDeprecated: Boolean!
  deprecationReason: String
}

type __EnumValue {
  name: String!
  description: String
  isDeprecated: Boolean!
  deprecationReason: String
}

type __Directive {
  name: String!
  description: String
  isRepeatable: Boolean!
  locations: [__DirectiveLocation!]!
  args(includeDeprecated: Boolean = false): [__InputValue!]!
}

enum __DirectiveLocation {
  QUERY
  MUTATION
  SUBSCRIPTION
  FIELD
  FRAGMENT_DEFINITION
  FRAGMENT_SPREAD
  INLINE_FRAGMENT
  VARIABLE_DEFINITION
  SCHEMA
  SCALAR
  OBJECT
  FIELD_DEFINITION
  ARGUMENT_DEFINITION
  INTERFACE
  UNION
  ENUM
  ENUM_VALUE
  INPUT_OBJECT
  INPUT_FIELD_DEFINITION
}
`

var meta = sync.OnceValue(func() *schema.Schema {
	s, err := schema.FromSDL(metaSDL)
	if err != nil {
		panic("introspection: " + err.Error())
	}
	return s
})

// Extend returns a copy of s that also holds the introspection types, with
// __schema and __type added to the query root. s is left unchanged.
func Extend(s *schema.Schema) *schema.Schema {
	m := meta()
	out := &schema.Schema{
		QueryType:        s.QueryType,
		MutationType:     s.MutationType,
		SubscriptionType: s.SubscriptionType,
		Types:            make(map[string]*schema.Type, len(s.Types)+len(m.Types)),
		Directives:       s.Directives,
		Description:      s.Description,
	}
	for name, t := range m.Types {
		if name != m.QueryType {
			out.Types[name] = t
		}
	}
	for name, t := range s.Types {
		out.Types[name] = t
	}
	if root := s.GetQueryType(); root != nil {
		extended := *root
		extended.Fields = slices.Concat(root.Fields, m.GetQueryType().Fields)
		out.Types[root.Name] = &extended
	}
	return out
}

// IsMetaType reports whether name is one of the introspection types.
func IsMetaType(name string) bool {
	_, ok := meta().Types[name]
	return ok && strings.HasPrefix(name, "__")
}
