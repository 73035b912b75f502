// Package lang implements aspl, a small scripting language whose programs
// read like shell command sequences.
//
// Source text is converted to tokens by [Tokenize], to an AST by [Parse],
// and executed by an [Interpreter]. [Interpret] runs all three steps.
//
// # Grammar
//
// Informal EBNF:
//
//	Program    → Stmt* EOF
//	Stmt       → 'set' Ident Expr
//	           | 'update' Ident Expr
//	           | ('log' | 'logl') Operand+
//	           | 'check' Expr Block
//	           | 'while' Expr Block
//	           | 'fn' Ident (Ident* | '[' Ident* ']') Block
//	           | 'ret' Expr?
//	           | 'break'
//	           | AtForm
//	Block      → '{' Stmt* '}'
//	Expr       → Operand (CmpOp Operand)?
//	CmpOp      → '==' | '!=' | '<' | '<=' | '>' | '>='
//	Operand    → Int | '-'Int | String | Bool | Ident Index* | Array | AtForm
//	Index      → '[' Operand ']'         (no space before '[')
//	Array      → '[' Operand* ']'
//	AtForm     → '@' 'math' '(' Sum ')'
//	           | '@' 'source' Operand
//	           | '@' Ident '(' Operand* ')'
//	           | '@' Ident Operand*
//	Sum        → Term (('+' | '-') Term)*
//	Term       → Unary (('*' | '/') Unary)*
//	Unary      → '-' Unary | '(' Sum ')' | Operand
//
// Comments begin with '#' and run to the end of the line. Strings have no
// escape sequences. Operand lists written without parentheses (after log,
// logl, ret, and @name) end at the end of the line.
//
// # Example
//
//	fn add a b {
//	  ret @math(a + b)
//	}
//
//	set n 0
//	while n < 3 {
//	  logl "n is" n
//	  update n @add(n 1)
//	}
//
// # Scoping
//
// There is one global scope per [Interpreter] and one scope per function
// call. check and while bodies run in the enclosing scope. A call scope is
// a child of the scope the function was defined in, not of the caller's, so
// functions cannot observe their callers' locals.
//
// set binds in the current scope, shadowing any outer binding. update
// rebinds an existing binding of the current scope only.
//
// # Sourcing
//
// @source executes another file in the global scope, so its definitions
// become visible to the file that sourced it. Paths are resolved relative to
// the sourcing file by the [Loader] given with [WithLoader]. A file that is
// still executing cannot be sourced again.
//
// # Errors
//
// Every error matches one of the sentinels such as [ErrParse] or [ErrType]
// with [errors.Is]. [FormatError] renders an error with its source line.
package lang
