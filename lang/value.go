package lang

import (
	"strconv"
	"strings"
)

// Kind identifies the runtime type of a [Value].
type Kind int

const (
	KindUnit Kind = iota
	KindInt
	KindStr
	KindBool
	KindArray
	KindFunction
)

// String returns the language-level name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"

	case KindInt:
		return "int"

	case KindStr:
		return "string"

	case KindBool:
		return "boolean"

	case KindArray:
		return "array"

	case KindFunction:
		return "function"

	default:
		return "unknown"
	}
}

// Value is a runtime value. The implementations are exactly [Unit], [Int],
// [Str], [Bool], [Array], and [*Function].
type Value interface {
	Kind() Kind
	value()
}

type (
	// Unit is the result of a function that returns without a value.
	Unit struct{}

	// Int is a signed 64-bit integer.
	Int int64

	// Str is a text string.
	Str string

	// Bool is a boolean.
	Bool bool

	// Array is an ordered, heterogeneous sequence of values.
	Array []Value
)

// Function is a user-defined function closed over its defining scope.
type Function struct {
	Name   string
	File   string // file the function was defined in
	Params []string
	Body   []Stmt
	Scope  ScopeID

	dir string // directory @source paths in Body are resolved against
}

func (Unit) Kind() Kind      { return KindUnit }
func (Int) Kind() Kind       { return KindInt }
func (Str) Kind() Kind       { return KindStr }
func (Bool) Kind() Kind      { return KindBool }
func (Array) Kind() Kind     { return KindArray }
func (*Function) Kind() Kind { return KindFunction }
func (Unit) value()          {}
func (Int) value()           {}
func (Str) value()           {}
func (Bool) value()          {}
func (Array) value()         {}
func (*Function) value()     {}

// Display converts v to the text printed by log and logl.
func Display(v Value) string {
	var sb strings.Builder

	writeDisplay(&sb, v)

	return sb.String()
}

func writeDisplay(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))

	case Str:
		sb.WriteString(string(v))

	case Bool:
		sb.WriteString(strconv.FormatBool(bool(v)))

	case Array:
		sb.WriteByte('[')

		for i, elem := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}

			writeDisplay(sb, elem)
		}

		sb.WriteByte(']')

	case *Function:
		sb.WriteString("<fn " + v.Name + ">")

	case Unit, nil:
	}
}

// Equal reports whether a and b are structurally equal. The second result
// is false when the values are of different kinds and so cannot be
// compared. Functions are equal only to themselves.
func Equal(a, b Value) (equal, comparable bool) {
	if a.Kind() != b.Kind() {
		return false, false
	}

	switch a := a.(type) {
	case Array:
		b := b.(Array)
		if len(a) != len(b) {
			return false, true
		}

		for i := range a {
			eq, ok := Equal(a[i], b[i])
			if !eq || !ok {
				return false, true
			}
		}

		return true, true

	case *Function:
		return a == b.(*Function), true

	default:
		return a == b, true
	}
}

// Native converts v to a plain Go value: int64, string, bool, []any, or
// nil for unit. Functions convert to their display text.
func Native(v Value) any {
	switch v := v.(type) {
	case Int:
		return int64(v)

	case Str:
		return string(v)

	case Bool:
		return bool(v)

	case Array:
		result := make([]any, len(v))
		for i, elem := range v {
			result[i] = Native(elem)
		}

		return result

	case *Function:
		return Display(v)

	default:
		return nil
	}
}
