// Package exprtree implements the evaluable expression representation
// lowered from internal/ast by internal/ir (spec.md §3): a typed tree
// distinct from the parse-time expression AST, carrying a Value/type tag
// for later operator dispatch.
package exprtree

import "fmt"

// ValueType is one of the four primitive types the expression tree
// carries, plus Void for statement-position embeds with no usable result.
type ValueType int

const (
	TInt ValueType = iota
	TFloat
	TString
	TBool
	TVoid
)

func (t ValueType) String() string {
	switch t {
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TString:
		return "string"
	case TBool:
		return "bool"
	case TVoid:
		return "void"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Value is a tagged constant. Only one of the fields is meaningful,
// selected by Type. Constructing a Value with an unsupported type is a
// programmer error (spec.md §3) and panics rather than being represented.
type Value struct {
	Type      ValueType
	IntVal    int64
	FloatVal  float64
	StringVal string
	BoolVal   bool
}

func IntValue(v int64) Value     { return Value{Type: TInt, IntVal: v} }
func FloatValue(v float64) Value { return Value{Type: TFloat, FloatVal: v} }
func StringValue(v string) Value { return Value{Type: TString, StringVal: v} }
func BoolValue(v bool) Value     { return Value{Type: TBool, BoolVal: v} }
func Void() Value                { return Value{Type: TVoid} }

// String renders the value for diagnostics and test assertions.
func (v Value) String() string {
	switch v.Type {
	case TInt:
		return fmt.Sprintf("%d", v.IntVal)
	case TFloat:
		return fmt.Sprintf("%g", v.FloatVal)
	case TString:
		return v.StringVal
	case TBool:
		return fmt.Sprintf("%t", v.BoolVal)
	case TVoid:
		return "<void>"
	default:
		return "<invalid>"
	}
}
