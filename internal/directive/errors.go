package directive

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func errNotFound(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("No directive found for `%s`", name))
}

func errNotRegistered(name, classID string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("Directive `%s` resolves to class `%s`, which is not registered", name, classID))
}

func errNotADirective(classID string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("Class `%s` is not a directive.", classID))
}

func errConflict(node, capability string, found []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("Node [%s] can only have one directive of type [%s] but found [%s]",
			node, capability, strings.Join(found, ", ")))
}

func errAlreadyRegistered(classID string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeAlreadyExists).
		WithMsg(fmt.Sprintf("directive class %s already registered", classID))
}

func errEmptyNamespace() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("directive namespace must not be empty")
}

func errUnnamedType(v any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("cannot register unnamed directive type %T", v))
}

// IsNotFound reports whether err is a missing directive or service.
func IsNotFound(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeNotFound
}

// IsConflict reports whether err is a cardinality conflict on a node.
func IsConflict(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeInvalidArgument
}
