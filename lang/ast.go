package lang

// Program is a parsed source file: an ordered statement sequence.
type Program struct {
	Name string
	Body []Stmt
}

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
}

// Stmt is a statement node. The set of statements is closed; the marker
// method keeps implementations inside this package.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node. Like [Stmt], the set is closed.
type Expr interface {
	Node
	expr()
}

// Statements.
type (
	// Assignment binds Name in the current scope: set name value.
	Assignment struct {
		Value Expr
		Name  string
		At    Position
	}

	// Update rebinds an existing binding of the current scope:
	// update name value.
	Update struct {
		Value Expr
		Name  string
		At    Position
	}

	// LogCall prints its arguments: log args... or logl args...
	LogCall struct {
		Args    []Expr
		At      Position
		Newline bool
	}

	// Conditional executes Body in the enclosing scope when Cond is true.
	Conditional struct {
		Cond Expr
		Body []Stmt
		At   Position
	}

	// WhileLoop executes Body in the enclosing scope while Cond is true.
	WhileLoop struct {
		Cond Expr
		Body []Stmt
		At   Position
	}

	// FunctionDef binds a function value in the current scope.
	FunctionDef struct {
		Name   string
		Params []string
		Body   []Stmt
		At     Position
	}

	// Return leaves the enclosing function call. Value is nil for a bare ret.
	Return struct {
		Value Expr
		At    Position
	}

	// Break leaves the innermost while loop.
	Break struct {
		At Position
	}

	// ExprStmt evaluates an expression for its effect, discarding the
	// result. Only at-forms (calls, @source, @math) appear as statements.
	ExprStmt struct {
		X Expr
	}
)

// Expressions.
type (
	// Literal is an integer, string, or boolean constant.
	Literal struct {
		Value Value
		At    Position
	}

	// Identifier references a binding by name.
	Identifier struct {
		Name string
		At   Position
	}

	// ArrayLiteral constructs an array: [e1 e2 ...].
	ArrayLiteral struct {
		Elements []Expr
		At       Position
	}

	// Index selects an element of an array: x[i].
	Index struct {
		X     Expr
		Index Expr
		At    Position
	}

	// FunctionCall invokes a user-defined function: @name args...
	FunctionCall struct {
		Name string
		Args []Expr
		At   Position
	}

	// Source executes another file in the global scope: @source path.
	Source struct {
		Path Expr
		At   Position
	}

	// MathCall evaluates an integer arithmetic expression: @math(x).
	MathCall struct {
		X  Expr
		At Position
	}

	// MathExpr is a binary arithmetic node inside @math.
	MathExpr struct {
		Left  Expr
		Right Expr
		Op    string
		At    Position
	}

	// Negate is unary minus inside @math.
	Negate struct {
		X  Expr
		At Position
	}

	// Comparison compares two operands: a < b, a == b, ...
	Comparison struct {
		Left  Expr
		Right Expr
		Op    string
		At    Position
	}
)

func (n *Assignment) Pos() Position  { return n.At }
func (n *Update) Pos() Position      { return n.At }
func (n *LogCall) Pos() Position     { return n.At }
func (n *Conditional) Pos() Position { return n.At }
func (n *WhileLoop) Pos() Position   { return n.At }
func (n *FunctionDef) Pos() Position { return n.At }
func (n *Return) Pos() Position      { return n.At }
func (n *Break) Pos() Position       { return n.At }
func (n *ExprStmt) Pos() Position    { return n.X.Pos() }

func (n *Literal) Pos() Position      { return n.At }
func (n *Identifier) Pos() Position   { return n.At }
func (n *ArrayLiteral) Pos() Position { return n.At }
func (n *Index) Pos() Position        { return n.At }
func (n *FunctionCall) Pos() Position { return n.At }
func (n *Source) Pos() Position       { return n.At }
func (n *MathCall) Pos() Position     { return n.At }
func (n *MathExpr) Pos() Position     { return n.At }
func (n *Negate) Pos() Position       { return n.At }
func (n *Comparison) Pos() Position   { return n.At }

func (*Assignment) stmt()  {}
func (*Update) stmt()      {}
func (*LogCall) stmt()     {}
func (*Conditional) stmt() {}
func (*WhileLoop) stmt()   {}
func (*FunctionDef) stmt() {}
func (*Return) stmt()      {}
func (*Break) stmt()       {}
func (*ExprStmt) stmt()    {}

func (*Literal) expr()      {}
func (*Identifier) expr()   {}
func (*ArrayLiteral) expr() {}
func (*Index) expr()        {}
func (*FunctionCall) expr() {}
func (*Source) expr()       {}
func (*MathCall) expr()     {}
func (*MathExpr) expr()     {}
func (*Negate) expr()       {}
func (*Comparison) expr()   {}
