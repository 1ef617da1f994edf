package query

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Operator compares a record value against a condition value.
type Operator string

const (
	OpEq   Operator = "="
	OpNeq  Operator = "!="
	OpGt   Operator = ">"
	OpGte  Operator = ">="
	OpLt   Operator = "<"
	OpLte  Operator = "<="
	OpIn   Operator = "in"
	OpLike Operator = "like"
)

// ParseOperator accepts the symbolic operators plus their SQL spellings.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "=", "==", "eq":
		return OpEq, nil
	case "!=", "<>", "neq":
		return OpNeq, nil
	case ">", "gt":
		return OpGt, nil
	case ">=", "gte":
		return OpGte, nil
	case "<", "lt":
		return OpLt, nil
	case "<=", "lte":
		return OpLte, nil
	case "in":
		return OpIn, nil
	case "like":
		return OpLike, nil
	}
	return "", fmt.Errorf("unsupported operator %q", s)
}

type Condition struct {
	Column   string
	Operator Operator
	Value    any
}

type Order struct {
	Column     string
	Descending bool
}

// Builder accumulates filters and ordering and applies them to records.
// The zero value is usable.
type Builder struct {
	conditions []Condition
	orders     []Order
	limit      int
	offset     int
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Where(column string, op Operator, value any) *Builder {
	b.conditions = append(b.conditions, Condition{Column: column, Operator: op, Value: value})
	return b
}

func (b *Builder) WhereIn(column string, values []any) *Builder {
	return b.Where(column, OpIn, values)
}

func (b *Builder) OrderBy(column string, descending bool) *Builder {
	b.orders = append(b.orders, Order{Column: column, Descending: descending})
	return b
}

// Limit caps the number of records returned. Zero means no limit.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

func (b *Builder) Offset(n int) *Builder {
	b.offset = n
	return b
}

func (b *Builder) Conditions() []Condition { return slices.Clone(b.conditions) }

func (b *Builder) Orders() []Order { return slices.Clone(b.orders) }

// Apply filters, sorts and pages records. The input slice is not modified.
func (b *Builder) Apply(records []any) []any {
	out := make([]any, 0, len(records))
	for _, r := range records {
		if b.matches(r) {
			out = append(out, r)
		}
	}
	if len(b.orders) > 0 {
		slices.SortStableFunc(out, func(x, y any) int {
			for _, o := range b.orders {
				xv, _ := Lookup(x, o.Column)
				yv, _ := Lookup(y, o.Column)
				c := compare(xv, yv)
				if o.Descending {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}
	if b.offset > 0 {
		if b.offset >= len(out) {
			return []any{}
		}
		out = out[b.offset:]
	}
	if b.limit > 0 && b.limit < len(out) {
		out = out[:b.limit]
	}
	return out
}

func (b *Builder) matches(record any) bool {
	for _, c := range b.conditions {
		v, ok := Lookup(record, c.Column)
		if !ok {
			return false
		}
		if !c.Operator.test(v, c.Value) {
			return false
		}
	}
	return true
}

func (op Operator) test(got, want any) bool {
	switch op {
	case OpEq:
		return compare(got, want) == 0
	case OpNeq:
		return compare(got, want) != 0
	case OpGt:
		return compare(got, want) > 0
	case OpGte:
		return compare(got, want) >= 0
	case OpLt:
		return compare(got, want) < 0
	case OpLte:
		return compare(got, want) <= 0
	case OpIn:
		rv := reflect.ValueOf(want)
		if rv.Kind() != reflect.Slice {
			return compare(got, want) == 0
		}
		for i := 0; i < rv.Len(); i++ {
			if compare(got, rv.Index(i).Interface()) == 0 {
				return true
			}
		}
		return false
	case OpLike:
		return like(fmt.Sprint(got), fmt.Sprint(want))
	}
	return false
}

// like matches SQL LIKE patterns with % wildcards, case-insensitively.
func like(s, pattern string) bool {
	s, pattern = strings.ToLower(s), strings.ToLower(pattern)
	parts := strings.Split(pattern, "%")
	if len(parts) == 1 {
		return s == pattern
	}
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	last := parts[len(parts)-1]
	for _, p := range parts[1 : len(parts)-1] {
		i := strings.Index(s, p)
		if i < 0 {
			return false
		}
		s = s[i+len(p):]
	}
	return strings.HasSuffix(s, last)
}

// compare orders numbers numerically and everything else by its string form.
// nil sorts before any value.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
