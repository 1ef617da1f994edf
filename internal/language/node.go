package language

// Node is a schema definition that carries directive annotations.
type Node interface {
	// NodeName is the name used when reporting problems with the node.
	NodeName() string
	// NodeDirectives returns the annotations in declaration order.
	NodeDirectives() DirectiveList
	NodePosition() *Position
}

// TypeDefinitionNode wraps an object, interface, union, enum, scalar or input
// type definition.
type TypeDefinitionNode struct{ *Definition }

func (n TypeDefinitionNode) NodeName() string              { return n.Name }
func (n TypeDefinitionNode) NodeDirectives() DirectiveList { return n.Directives }
func (n TypeDefinitionNode) NodePosition() *Position       { return n.Position }

// TypeExtensionNode wraps an `extend type` definition.
type TypeExtensionNode struct{ *Definition }

func (n TypeExtensionNode) NodeName() string              { return n.Name }
func (n TypeExtensionNode) NodeDirectives() DirectiveList { return n.Directives }
func (n TypeExtensionNode) NodePosition() *Position       { return n.Position }

// FieldDefinitionNode wraps an object, interface or input object field.
type FieldDefinitionNode struct{ *FieldDefinition }

func (n FieldDefinitionNode) NodeName() string              { return n.Name }
func (n FieldDefinitionNode) NodeDirectives() DirectiveList { return n.Directives }
func (n FieldDefinitionNode) NodePosition() *Position       { return n.Position }

// InputValueDefinitionNode wraps a field argument.
type InputValueDefinitionNode struct{ *ArgumentDefinition }

func (n InputValueDefinitionNode) NodeName() string              { return n.Name }
func (n InputValueDefinitionNode) NodeDirectives() DirectiveList { return n.Directives }
func (n InputValueDefinitionNode) NodePosition() *Position       { return n.Position }
