package lang

// Builder provides a programmatic API for constructing AST nodes without
// parsing source text. This is useful for generating aspl scripts
// programmatically or for testing.
//
// Nodes built this way carry no source position.
//
// Example:
//
//	b := lang.NewBuilder()
//	prog := b.Program(
//	    b.Set("greeting", b.String("hello")),
//	    b.Logl(b.Ident("greeting")),
//	)
type Builder struct{}

// NewBuilder creates a new AST builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Program creates a [Program] with the given statements.
func (b *Builder) Program(body ...Stmt) *Program {
	return &Program{Body: body}
}

// Set creates an [Assignment].
func (b *Builder) Set(name string, value Expr) *Assignment {
	return &Assignment{Name: name, Value: value}
}

// Update creates an [Update].
func (b *Builder) Update(name string, value Expr) *Update {
	return &Update{Name: name, Value: value}
}

// Log creates a [LogCall] without a trailing newline.
func (b *Builder) Log(args ...Expr) *LogCall {
	return &LogCall{Args: args}
}

// Logl creates a [LogCall] with a trailing newline.
func (b *Builder) Logl(args ...Expr) *LogCall {
	return &LogCall{Args: args, Newline: true}
}

// Check creates a [Conditional].
func (b *Builder) Check(cond Expr, body ...Stmt) *Conditional {
	return &Conditional{Cond: cond, Body: body}
}

// While creates a [WhileLoop].
func (b *Builder) While(cond Expr, body ...Stmt) *WhileLoop {
	return &WhileLoop{Cond: cond, Body: body}
}

// Fn creates a [FunctionDef].
func (b *Builder) Fn(name string, params []string, body ...Stmt) *FunctionDef {
	return &FunctionDef{Name: name, Params: params, Body: body}
}

// Ret creates a [Return]. A nil value is a bare ret.
func (b *Builder) Ret(value Expr) *Return {
	return &Return{Value: value}
}

// Break creates a [Break].
func (b *Builder) Break() *Break {
	return &Break{}
}

// Do creates an [ExprStmt].
func (b *Builder) Do(x Expr) *ExprStmt {
	return &ExprStmt{X: x}
}

// Ident creates an [Identifier].
func (b *Builder) Ident(name string) *Identifier {
	return &Identifier{Name: name}
}

// String creates a string [Literal].
func (b *Builder) String(s string) *Literal {
	return &Literal{Value: Str(s)}
}

// Int creates an integer [Literal].
func (b *Builder) Int(n int64) *Literal {
	return &Literal{Value: Int(n)}
}

// Bool creates a boolean [Literal].
func (b *Builder) Bool(v bool) *Literal {
	return &Literal{Value: Bool(v)}
}

// Array creates an [ArrayLiteral].
func (b *Builder) Array(elements ...Expr) *ArrayLiteral {
	return &ArrayLiteral{Elements: elements}
}

// Index creates an [Index].
func (b *Builder) Index(x, index Expr) *Index {
	return &Index{X: x, Index: index}
}

// Call creates a [FunctionCall].
func (b *Builder) Call(name string, args ...Expr) *FunctionCall {
	return &FunctionCall{Name: name, Args: args}
}

// Source creates a [Source].
func (b *Builder) Source(path string) *Source {
	return &Source{Path: b.String(path)}
}

// Math creates a [MathCall].
func (b *Builder) Math(x Expr) *MathCall {
	return &MathCall{X: x}
}

// Binary creates a [MathExpr].
func (b *Builder) Binary(left Expr, op string, right Expr) *MathExpr {
	return &MathExpr{Left: left, Op: op, Right: right}
}

// Compare creates a [Comparison].
func (b *Builder) Compare(left Expr, op string, right Expr) *Comparison {
	return &Comparison{Left: left, Op: op, Right: right}
}

// Value creates the literal expression for a plain Go value: an integer,
// string, boolean, or slice of those. It returns nil for any other type.
func (b *Builder) Value(v any) Expr {
	switch v := v.(type) {
	case int:
		return b.Int(int64(v))

	case int64:
		return b.Int(v)

	case string:
		return b.String(v)

	case bool:
		return b.Bool(v)

	case []string:
		elements := make([]Expr, len(v))
		for i, s := range v {
			elements[i] = b.String(s)
		}

		return b.Array(elements...)

	case []any:
		elements := make([]Expr, 0, len(v))

		for _, elem := range v {
			x := b.Value(elem)
			if x == nil {
				return nil
			}

			elements = append(elements, x)
		}

		return b.Array(elements...)
	}

	return nil
}
