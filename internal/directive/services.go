package directive

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	query "github.com/hanpama/beacon/internal/query"
)

// Services holds the application collaborators directives refer to by name.
type Services struct {
	Resolvers     map[string]ResolveFunc
	TypeResolvers map[string]TypeResolveFunc
	Sources       map[string]query.Source
}

func (s *Services) Resolver(name string) (ResolveFunc, error) {
	if s != nil {
		if fn, ok := s.Resolvers[name]; ok && fn != nil {
			return fn, nil
		}
	}
	return nil, missingService("resolver", name)
}

func (s *Services) TypeResolver(name string) (TypeResolveFunc, error) {
	if s != nil {
		if fn, ok := s.TypeResolvers[name]; ok && fn != nil {
			return fn, nil
		}
	}
	return nil, missingService("type resolver", name)
}

func (s *Services) Source(name string) (query.Source, error) {
	if s != nil {
		if src, ok := s.Sources[name]; ok && src != nil {
			return src, nil
		}
	}
	return nil, missingService("source", name)
}

func missingService(kind, name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s %q is not registered", kind, name))
}
