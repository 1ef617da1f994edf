package directives

import (
	"context"
	"fmt"

	directive "github.com/hanpama/beacon/internal/directive"
	"golang.org/x/crypto/bcrypt"
)

// BcryptDirective replaces a string argument with its bcrypt hash.
type BcryptDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &BcryptDirective{} }) }

func (*BcryptDirective) Name() string { return "bcrypt" }

func (*BcryptDirective) Definition() string {
	return `"""
Run the bcrypt hashing algorithm on the argument value.
"""
directive @bcrypt(cost: Int) on ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (d *BcryptDirective) TransformArg(_ context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("@bcrypt on %s expects a string, got %T", d.NodeName(), value)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s), d.IntArg("cost", bcrypt.DefaultCost))
	if err != nil {
		return nil, err
	}
	return string(hash), nil
}
