package directive

import (
	"strings"

	"golang.org/x/text/cases"
	textlang "golang.org/x/text/language"
)

// ClassSuffix ends every directive type name.
const ClassSuffix = "Directive"

// Studly upper-cases the first letter of every word and drops the
// separators: "rules_for-array" and "rulesForArray" both give
// "RulesForArray".
func Studly(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	caser := cases.Title(textlang.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// ClassID is the identifier @name resolves to inside namespace.
func ClassID(namespace, name string) string {
	return namespace + "." + Studly(name) + ClassSuffix
}
