package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a native Go map structure. Every node is a
// map with a "node" key naming its type and a "pos" key giving its
// line:column.
func (p *Program) ToMap() map[string]any {
	result := map[string]any{
		"body": stmtsToNative(p.Body),
	}

	if p.Name != "" {
		result["name"] = p.Name
	}

	return result
}

func stmtsToNative(body []Stmt) []any {
	result := make([]any, len(body))
	for i, stmt := range body {
		result[i] = ToNative(stmt)
	}

	return result
}

func exprsToNative(xs []Expr) []any {
	result := make([]any, len(xs))
	for i, x := range xs {
		result[i] = ToNative(x)
	}

	return result
}

// ToNative converts an AST node to its native Go representation.
func ToNative(n Node) any {
	if n == nil {
		return nil
	}

	m := map[string]any{"pos": n.Pos().String()}

	switch n := n.(type) {
	case *Assignment:
		m["node"] = "Assignment"
		m["name"] = n.Name
		m["value"] = ToNative(n.Value)

	case *Update:
		m["node"] = "Update"
		m["name"] = n.Name
		m["value"] = ToNative(n.Value)

	case *LogCall:
		m["node"] = "LogCall"
		m["args"] = exprsToNative(n.Args)
		m["newline"] = n.Newline

	case *Conditional:
		m["node"] = "Conditional"
		m["cond"] = ToNative(n.Cond)
		m["body"] = stmtsToNative(n.Body)

	case *WhileLoop:
		m["node"] = "WhileLoop"
		m["cond"] = ToNative(n.Cond)
		m["body"] = stmtsToNative(n.Body)

	case *FunctionDef:
		params := make([]any, len(n.Params))
		for i, param := range n.Params {
			params[i] = param
		}

		m["node"] = "FunctionDef"
		m["name"] = n.Name
		m["params"] = params
		m["body"] = stmtsToNative(n.Body)

	case *Return:
		m["node"] = "Return"

		if n.Value != nil {
			m["value"] = ToNative(n.Value)
		}

	case *Break:
		m["node"] = "Break"

	case *ExprStmt:
		return ToNative(n.X)

	case *Literal:
		m["node"] = "Literal"
		m["kind"] = n.Value.Kind().String()
		m["value"] = Native(n.Value)

	case *Identifier:
		m["node"] = "Identifier"
		m["name"] = n.Name

	case *ArrayLiteral:
		m["node"] = "ArrayLiteral"
		m["elements"] = exprsToNative(n.Elements)

	case *Index:
		m["node"] = "Index"
		m["x"] = ToNative(n.X)
		m["index"] = ToNative(n.Index)

	case *FunctionCall:
		m["node"] = "FunctionCall"
		m["name"] = n.Name
		m["args"] = exprsToNative(n.Args)

	case *Source:
		m["node"] = "Source"
		m["path"] = ToNative(n.Path)

	case *MathCall:
		m["node"] = "MathCall"
		m["x"] = ToNative(n.X)

	case *MathExpr:
		m["node"] = "MathExpr"
		m["op"] = n.Op
		m["left"] = ToNative(n.Left)
		m["right"] = ToNative(n.Right)

	case *Negate:
		m["node"] = "Negate"
		m["x"] = ToNative(n.X)

	case *Comparison:
		m["node"] = "Comparison"
		m["op"] = n.Op
		m["left"] = ToNative(n.Left)
		m["right"] = ToNative(n.Right)
	}

	return m
}
