package directive

import (
	"fmt"

	language "github.com/hanpama/beacon/internal/language"
)

// Directive is implemented by every directive value.
type Directive interface {
	// Name is the directive name as written in SDL, without the @.
	Name() string
}

// Hydrator is implemented by directives that read their own arguments. The
// factory binds each created value to the annotation it was created for and
// the node carrying it. Repeated annotations get one value each.
type Hydrator interface {
	Hydrate(dir *language.Directive, node language.Node)
}

// Definer is implemented by directives that ship an SDL definition, such as
// `directive @trim on ARGUMENT_DEFINITION`.
type Definer interface {
	Definition() string
}

// Base is embedded by directives to get node binding and argument access.
type Base struct {
	dir  *language.Directive
	node language.Node
}

func (b *Base) Hydrate(dir *language.Directive, node language.Node) {
	b.dir = dir
	b.node = node
}

// Node returns the bound node, or nil before hydration.
func (b *Base) Node() language.Node { return b.node }

// NodeName returns the name of the bound node.
func (b *Base) NodeName() string {
	if b.node == nil {
		return ""
	}
	return b.node.NodeName()
}

// DirectiveNode returns the annotation this value was created for.
func (b *Base) DirectiveNode() *language.Directive { return b.dir }

// Arg evaluates the named argument. Absent arguments yield def; an explicit
// null yields nil.
func (b *Base) Arg(name string, def any) any {
	d := b.DirectiveNode()
	if d == nil {
		return def
	}
	arg := d.Arguments.ForName(name)
	if arg == nil {
		return def
	}
	v, err := arg.Value.Value(nil)
	if err != nil {
		return def
	}
	return v
}

func (b *Base) StringArg(name, def string) string {
	if s, ok := b.Arg(name, def).(string); ok {
		return s
	}
	return def
}

func (b *Base) IntArg(name string, def int) int {
	switch v := b.Arg(name, def).(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func (b *Base) BoolArg(name string, def bool) bool {
	if v, ok := b.Arg(name, def).(bool); ok {
		return v
	}
	return def
}

// StringListArg reads a list of strings. A single string is treated as a
// list of one, following GraphQL input coercion.
func (b *Base) StringListArg(name string) []string {
	switch v := b.Arg(name, nil).(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (b *Base) String() string {
	if b.dir == nil {
		return "@"
	}
	return "@" + b.dir.Name
}

// Describe renders d the way it appears in error messages: the annotation
// name when d is bound, @Name() otherwise.
func Describe(d Directive) string {
	if s, ok := d.(fmt.Stringer); ok {
		if str := s.String(); str != "@" {
			return str
		}
	}
	return "@" + d.Name()
}
