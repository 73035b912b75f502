package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in native aspl syntax to the writer, one
// statement per line. Block bodies are indented by indent spaces, or by a
// tab if indent is not positive.
//
// The output parses back to an equivalent program. Calls with arguments
// are always written in the parenthesized form.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	f := &formatter{w: w, unit: "\t"}
	if indent > 0 {
		f.unit = strings.Repeat(" ", indent)
	}

	f.block(p.Body, 0)

	return f.err
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTokens writes one token per line: position, kind, and quoted text.
func FormatTokens(w io.Writer, tokens []Token) error {
	for _, tok := range tokens {
		_, err := fmt.Fprintf(w, "%-8s %-10s %s\n",
			tok.Pos, tok.Kind, strconv.Quote(tok.Text))
		if err != nil {
			return err
		}
	}

	return nil
}

// Print writes an indented outline of the syntax tree: one node per line
// with its position and scalar fields, followed by its labeled children.
func (p *Program) Print(w io.Writer) error {
	f := &formatter{w: w, unit: "  "}

	f.write("Program")

	if p.Name != "" {
		f.write(" ", strconv.Quote(p.Name))
	}

	f.write("\n")

	for _, stmt := range p.Body {
		f.outline(ToNative(stmt), 1)
	}

	return f.err
}

func (f *formatter) outline(v any, depth int) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}

	f.write(strings.Repeat(f.unit, depth), fmt.Sprint(m["node"]), " ", fmt.Sprint(m["pos"]))

	var children []string

	for _, key := range slices.Sorted(maps.Keys(m)) {
		if key == "node" || key == "pos" {
			continue
		}

		switch val := m[key].(type) {
		case map[string]any:
			children = append(children, key)

		case []any:
			if len(val) > 0 {
				if _, isNode := val[0].(map[string]any); isNode {
					children = append(children, key)

					continue
				}
			}

			f.write(" ", key, "=", fmt.Sprint(val))

		case string:
			f.write(" ", key, "=", strconv.Quote(val))

		default:
			f.write(" ", key, "=", fmt.Sprint(val))
		}
	}

	f.write("\n")

	for _, key := range children {
		f.write(strings.Repeat(f.unit, depth+1), key, ":\n")

		switch val := m[key].(type) {
		case map[string]any:
			f.outline(val, depth+2)

		case []any:
			for _, elem := range val {
				f.outline(elem, depth+2)
			}
		}
	}
}

// formatter writes native syntax, keeping the first write error.
type formatter struct {
	w    io.Writer
	unit string
	err  error
}

func (f *formatter) write(s ...string) {
	for _, str := range s {
		if f.err != nil {
			return
		}

		_, f.err = io.WriteString(f.w, str)
	}
}

func (f *formatter) block(body []Stmt, depth int) {
	for _, stmt := range body {
		f.write(strings.Repeat(f.unit, depth))
		f.stmt(stmt, depth)
		f.write("\n")
	}
}

// body writes a brace-delimited block whose closing brace is indented at
// depth.
func (f *formatter) body(body []Stmt, depth int) {
	if len(body) == 0 {
		f.write("{}")

		return
	}

	f.write("{\n")
	f.block(body, depth+1)
	f.write(strings.Repeat(f.unit, depth), "}")
}

func (f *formatter) stmt(stmt Stmt, depth int) {
	switch s := stmt.(type) {
	case *Assignment:
		f.write(KeywordSet, " ", s.Name, " ", formatExpr(s.Value))

	case *Update:
		f.write(KeywordUpdate, " ", s.Name, " ", formatExpr(s.Value))

	case *LogCall:
		kw := KeywordLog
		if s.Newline {
			kw = KeywordLogl
		}

		f.write(kw, " ", formatExprs(s.Args))

	case *Conditional:
		f.write(KeywordCheck, " ", formatExpr(s.Cond), " ")
		f.body(s.Body, depth)

	case *WhileLoop:
		f.write(KeywordWhile, " ", formatExpr(s.Cond), " ")
		f.body(s.Body, depth)

	case *FunctionDef:
		f.write(KeywordFn, " ", s.Name, " ")

		for _, param := range s.Params {
			f.write(param, " ")
		}

		f.body(s.Body, depth)

	case *Return:
		f.write(KeywordRet)

		if s.Value != nil {
			f.write(" ", formatExpr(s.Value))
		}

	case *Break:
		f.write(KeywordBreak)

	case *ExprStmt:
		f.write(formatExpr(s.X))
	}
}

func formatExprs(xs []Expr) string {
	part := make([]string, len(xs))
	for i, x := range xs {
		part[i] = formatOperand(x)
	}

	return strings.Join(part, " ")
}

// formatOperand writes an operand that may be followed by another on the
// same line. Calls without arguments keep empty parentheses so they do not
// take the following operands as arguments.
func formatOperand(x Expr) string {
	if c, ok := x.(*FunctionCall); ok && len(c.Args) == 0 {
		return "@" + c.Name + "()"
	}

	return formatExpr(x)
}

func formatExpr(x Expr) string {
	switch x := x.(type) {
	case *Literal:
		return formatLiteral(x.Value)

	case *Identifier:
		return x.Name

	case *ArrayLiteral:
		return "[" + formatExprs(x.Elements) + "]"

	case *Index:
		return formatExpr(x.X) + "[" + formatExpr(x.Index) + "]"

	case *FunctionCall:
		if len(x.Args) == 0 {
			return "@" + x.Name
		}

		return "@" + x.Name + "(" + formatExprs(x.Args) + ")"

	case *Source:
		return "@" + BuiltinSource + " " + formatOperand(x.Path)

	case *MathCall:
		return "@" + BuiltinMath + "(" + formatMath(x.X, 0, false) + ")"

	case *MathExpr, *Negate:
		return "@" + BuiltinMath + "(" + formatMath(x, 0, false) + ")"

	case *Comparison:
		return formatExpr(x.Left) + " " + x.Op + " " + formatExpr(x.Right)
	}

	return ""
}

func formatLiteral(v Value) string {
	if s, ok := v.(Str); ok {
		return `"` + string(s) + `"`
	}

	return Display(v)
}

// Operator precedence inside @math.
const (
	precSum   = 1
	precTerm  = 2
	precUnary = 3
)

// formatMath writes an arithmetic expression, parenthesizing a
// subexpression that binds looser than its parent, or as tightly when it
// is a right operand.
func formatMath(x Expr, parent int, right bool) string {
	switch x := x.(type) {
	case *MathExpr:
		prec := precSum
		if x.Op == "*" || x.Op == "/" {
			prec = precTerm
		}

		s := formatMath(x.Left, prec, false) + " " + x.Op + " " +
			formatMath(x.Right, prec, true)

		if prec < parent || (prec == parent && right) {
			return "(" + s + ")"
		}

		return s

	case *Negate:
		return "-" + formatMath(x.X, precUnary, false)

	case *Literal:
		if n, ok := x.Value.(Int); ok && n < 0 && parent >= precUnary {
			return "(" + formatLiteral(n) + ")"
		}
	}

	return formatExpr(x)
}
