package sdl

import (
	"errors"
	"fmt"

	language "github.com/hanpama/beacon/internal/language"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

type Violation struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		line := "- " + v.Message
		if v.File != "" {
			line += fmt.Sprintf(" %s:%d:%d", v.File, v.Line, v.Column)
		}
		msg += line + "\n"
	}
	return msg
}

// NewViolation locates message at pos. A nil position leaves the location
// empty.
func NewViolation(message string, pos *language.Position) *Violation {
	v := &Violation{Message: message}
	if pos == nil {
		return v
	}
	v.Line, v.Column = pos.Line, pos.Column
	if pos.Src != nil {
		v.File = pos.Src.Name
	}
	return v
}

func violationParse(file string, err error) *Violation {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		v := &Violation{Message: gqlErr.Message, File: file}
		if len(gqlErr.Locations) > 0 {
			v.Line, v.Column = gqlErr.Locations[0].Line, gqlErr.Locations[0].Column
		}
		return v
	}
	return &Violation{Message: err.Error(), File: file}
}

func violationDuplicateType(name string, pos *language.Position) *Violation {
	return NewViolation(fmt.Sprintf("Type %q is defined more than once", name), pos)
}

func violationDuplicateDirective(name string, pos *language.Position) *Violation {
	return NewViolation(fmt.Sprintf("Directive @%s is defined more than once", name), pos)
}
