package directives

import (
	"fmt"
	"slices"

	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
)

const nodeInterface = "Node"

// NodeDirective makes an object type implement the global Node interface,
// declaring the interface and the id field when they are missing.
type NodeDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &NodeDirective{} }) }

func (*NodeDirective) Name() string { return "node" }

func (*NodeDirective) Definition() string {
	return `"""
Register a type as a Node with a globally unique id.
"""
directive @node on OBJECT`
}

func (*NodeDirective) ManipulateTypeDefinition(doc *language.SchemaDocument, def *language.Definition) error {
	if def.Kind != language.Object {
		return fmt.Errorf("@node can only be used on object types, %s is %s", def.Name, def.Kind)
	}
	iface := doc.Definitions.ForName(nodeInterface)
	if iface == nil {
		iface = &language.Definition{
			Kind:        language.Interface,
			Name:        nodeInterface,
			Description: "Any object implementing this type can be found by ID.",
			Fields: language.FieldList{
				{Name: "id", Description: "Global identifier that can be used to resolve any Node implementation.", Type: language.NonNullNamedType("ID")},
			},
		}
		doc.Definitions = append(doc.Definitions, iface)
	} else if iface.Kind != language.Interface {
		return fmt.Errorf("@node requires %s to be an interface, found %s", nodeInterface, iface.Kind)
	}
	if !slices.Contains(def.Interfaces, nodeInterface) {
		def.Interfaces = append(def.Interfaces, nodeInterface)
	}
	if def.Fields.ForName("id") == nil {
		def.Fields = append(language.FieldList{{Name: "id", Type: language.NonNullNamedType("ID")}}, def.Fields...)
	}
	return nil
}
