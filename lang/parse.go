package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"
)

// ParseReader reads all of r and parses it as a program.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead so large scripts are fetched while
	// earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString tokenizes and parses s. Identical text is parsed only once
// per process; see [ClearCache].
func ParseString(ctx context.Context, s string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "parse start",
		slog.String("file", cfg.name),
		slog.Int("source_length", len(s)))

	return parseCached(ctx, &cfg, s)
}

// Parse builds a program from a token sequence produced by [Tokenize].
func Parse(tokens []Token) (*Program, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens, Token{Kind: TokenEOF})
	}

	p := &parser{tokens: tokens}

	body, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	return &Program{Body: body}, nil
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
}

// parseProgram parses statements until end of input.
func (p *parser) parseProgram() ([]Stmt, error) {
	body := make([]Stmt, 0)

	for p.peek().Kind != TokenEOF {
		if p.peek().Is(TokenPunct, "}") {
			return nil, p.unexpected("statement")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	return body, nil
}

// parseStatement dispatches on the statement keyword.
func (p *parser) parseStatement() (Stmt, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenKeyword:
		switch tok.Text {
		case KeywordSet:
			return p.parseSet()

		case KeywordUpdate:
			return p.parseUpdate()

		case KeywordLog, KeywordLogl:
			return p.parseLog()

		case KeywordCheck:
			return p.parseCheck()

		case KeywordWhile:
			return p.parseWhile()

		case KeywordFn:
			return p.parseFunction()

		case KeywordRet:
			return p.parseReturn()

		case KeywordBreak:
			p.advance()

			return &Break{At: tok.Pos}, nil
		}

	case TokenAt:
		x, err := p.parseAtForm()
		if err != nil {
			return nil, err
		}

		return &ExprStmt{X: x}, nil
	}

	return nil, p.unexpected("statement")
}

// parseSet parses: set name expr.
func (p *parser) parseSet() (Stmt, error) {
	at := p.advance().Pos

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Assignment{Name: name, Value: value, At: at}, nil
}

// parseUpdate parses: update name expr.
func (p *parser) parseUpdate() (Stmt, error) {
	at := p.advance().Pos

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Update{Name: name, Value: value, At: at}, nil
}

// parseLog parses: log arg... | logl arg...
func (p *parser) parseLog() (Stmt, error) {
	kw := p.advance()

	args, err := p.parseOperands(kw.Pos.Line)
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return nil, p.unexpected("argument to " + kw.Text)
	}

	return &LogCall{Args: args, Newline: kw.Text == KeywordLogl, At: kw.Pos}, nil
}

// parseCheck parses: check cond { body }.
func (p *parser) parseCheck() (Stmt, error) {
	at := p.advance().Pos

	cond, body, err := p.parseGuardedBlock("check")
	if err != nil {
		return nil, err
	}

	return &Conditional{Cond: cond, Body: body, At: at}, nil
}

// parseWhile parses: while cond { body }.
func (p *parser) parseWhile() (Stmt, error) {
	at := p.advance().Pos

	cond, body, err := p.parseGuardedBlock("while")
	if err != nil {
		return nil, err
	}

	return &WhileLoop{Cond: cond, Body: body, At: at}, nil
}

func (p *parser) parseGuardedBlock(keyword string) (Expr, []Stmt, error) {
	if !p.startsOperand() {
		return nil, nil, p.unexpected("condition after " + keyword)
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, nil, err
	}

	return cond, body, nil
}

// parseFunction parses: fn name params... { body } or
// fn name [params...] { body }.
func (p *parser) parseFunction() (Stmt, error) {
	at := p.advance().Pos
	nameTok := p.peek()

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	if name == BuiltinMath || name == BuiltinSource {
		return nil, ErrParse.WithPosition(nameTok.Pos).
			Detail("cannot define function " + strconv.Quote(name) +
				": name is reserved for a built-in").
			With(slog.String("name", name))
	}

	bracketed := p.peek().Is(TokenPunct, "[")
	if bracketed {
		p.advance()
	}

	params := make([]string, 0)

	for p.peek().Kind == TokenIdentifier {
		params = append(params, p.advance().Text)
	}

	if bracketed {
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionDef{Name: name, Params: params, Body: body, At: at}, nil
}

// parseReturn parses: ret [expr].
func (p *parser) parseReturn() (Stmt, error) {
	tok := p.advance()

	if !p.startsOperand() || p.peek().Pos.Line != tok.Pos.Line {
		return &Return{At: tok.Pos}, nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Return{Value: value, At: tok.Pos}, nil
}

// parseBlock parses: '{' stmt* '}'.
func (p *parser) parseBlock() ([]Stmt, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	body := make([]Stmt, 0)

	for !p.peek().Is(TokenPunct, "}") {
		if p.peek().Kind == TokenEOF {
			return nil, p.unexpected(`"}"`)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	p.advance() // skip '}'

	return body, nil
}

// comparisonOps are the operators accepted between two operands.
var comparisonOps = map[string]struct{}{
	"==": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

// parseExpr parses: operand [cmpop operand].
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	if tok.Kind != TokenOperator {
		return left, nil
	}

	if _, ok := comparisonOps[tok.Text]; !ok {
		return left, nil
	}

	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return &Comparison{Left: left, Op: tok.Text, Right: right, At: tok.Pos}, nil
}

// parseOperands parses operands for as long as the next token can begin
// one. If line is positive, each operand must also begin on that line.
func (p *parser) parseOperands(line int) ([]Expr, error) {
	args := make([]Expr, 0)

	for p.startsOperand() && (line <= 0 || p.peek().Pos.Line == line) {
		arg, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return args, nil
}

// startsOperand reports whether the next token can begin an operand.
func (p *parser) startsOperand() bool {
	tok := p.peek()

	switch tok.Kind {
	case TokenInt, TokenString, TokenBool, TokenIdentifier, TokenAt:
		return true

	case TokenPunct:
		return tok.Text == "["

	case TokenOperator:
		return p.negativeLiteral()
	}

	return false
}

// negativeLiteral reports whether the next tokens are '-' immediately
// followed by an integer literal.
func (p *parser) negativeLiteral() bool {
	tok := p.peek()
	next := p.peekN(1)

	return tok.Is(TokenOperator, "-") && next.Kind == TokenInt &&
		tok.Adjacent(next)
}

// parseOperand parses a literal, name, index expression, array literal, or
// at-form.
func (p *parser) parseOperand() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenInt:
		return p.parseInt(false)

	case TokenString:
		p.advance()

		return &Literal{Value: Str(tok.Text), At: tok.Pos}, nil

	case TokenBool:
		p.advance()

		return &Literal{Value: Bool(tok.Text == "true"), At: tok.Pos}, nil

	case TokenIdentifier:
		p.advance()

		return p.parseIndexes(&Identifier{Name: tok.Text, At: tok.Pos}, tok)

	case TokenAt:
		return p.parseAtForm()

	case TokenPunct:
		if tok.Text == "[" {
			return p.parseArray()
		}

	case TokenOperator:
		if p.negativeLiteral() {
			p.advance()

			return p.parseInt(true)
		}
	}

	return nil, p.unexpected("expression")
}

// parseInt converts the next integer token into a literal.
func (p *parser) parseInt(negative bool) (Expr, error) {
	tok := p.advance()

	text := tok.Text
	at := tok.Pos

	if negative {
		text = "-" + text
		at = p.tokens[p.pos-2].Pos
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, ErrParse.WithPosition(at).
			Detail("integer literal out of range: " + text).
			With(slog.String("literal", text))
	}

	return &Literal{Value: Int(n), At: at}, nil
}

// parseIndexes parses any number of [index] suffixes written directly
// after prev with no intervening whitespace.
func (p *parser) parseIndexes(x Expr, prev Token) (Expr, error) {
	for {
		open := p.peek()
		if !open.Is(TokenPunct, "[") || !prev.Adjacent(open) {
			return x, nil
		}

		p.advance()

		index, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		prev = p.peek()
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}

		x = &Index{X: x, Index: index, At: open.Pos}
	}
}

// parseArray parses: '[' operand* ']'.
func (p *parser) parseArray() (Expr, error) {
	at := p.advance().Pos

	elements, err := p.parseOperands(0)
	if err != nil {
		return nil, err
	}

	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}

	return &ArrayLiteral{Elements: elements, At: at}, nil
}

// parseAtForm parses: @math(...) | @source path | @name args.
func (p *parser) parseAtForm() (Expr, error) {
	at := p.advance().Pos

	nameTok := p.peek()
	if nameTok.Kind != TokenIdentifier {
		return nil, p.unexpected("function name after \"@\"")
	}

	p.advance()

	switch nameTok.Text {
	case BuiltinMath:
		return p.parseMath(at)

	case BuiltinSource:
		path, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		return &Source{Path: path, At: at}, nil
	}

	call := &FunctionCall{Name: nameTok.Text, At: at}

	if p.peek().Is(TokenPunct, "(") {
		p.advance()

		args, err := p.parseOperands(0)
		if err != nil {
			return nil, err
		}

		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}

		call.Args = args

		return call, nil
	}

	// Without parentheses the argument list ends with the line.
	args, err := p.parseOperands(nameTok.Pos.Line)
	if err != nil {
		return nil, err
	}

	call.Args = args

	return call, nil
}

// parseMath parses: '(' sum ')'.
func (p *parser) parseMath(at Position) (Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	x, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	return &MathCall{X: x, At: at}, nil
}

// parseSum parses: term (('+'|'-') term)*.
func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if !tok.Is(TokenOperator, "+") && !tok.Is(TokenOperator, "-") {
			return left, nil
		}

		p.advance()

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		left = &MathExpr{Left: left, Op: tok.Text, Right: right, At: tok.Pos}
	}
}

// parseTerm parses: unary (('*'|'/') unary)*.
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if !tok.Is(TokenOperator, "*") && !tok.Is(TokenOperator, "/") {
			return left, nil
		}

		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &MathExpr{Left: left, Op: tok.Text, Right: right, At: tok.Pos}
	}
}

// parseUnary parses: '-' unary | factor.
func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if !tok.Is(TokenOperator, "-") {
		return p.parseFactor()
	}

	p.advance()

	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &Negate{X: x, At: tok.Pos}, nil
}

// parseFactor parses: '(' sum ')' | operand.
func (p *parser) parseFactor() (Expr, error) {
	if !p.peek().Is(TokenPunct, "(") {
		return p.parseOperand()
	}

	p.advance()

	x, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	return x, nil
}

// Helper methods

func (p *parser) peek() Token {
	return p.peekN(0)
}

func (p *parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.pos+n]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return tok
}

func (p *parser) expectIdentifier() (string, error) {
	tok := p.peek()
	if tok.Kind != TokenIdentifier {
		return "", p.unexpected("identifier")
	}

	p.advance()

	return tok.Text, nil
}

func (p *parser) expectPunct(text string) error {
	if !p.peek().Is(TokenPunct, text) {
		return p.unexpected(strconv.Quote(text))
	}

	p.advance()

	return nil
}

// unexpected reports that the next token is not what was expected.
func (p *parser) unexpected(expected string) error {
	tok := p.peek()

	return ErrParse.WithPosition(tok.Pos).
		Detail("expected " + expected + ", found " + tok.String()).
		With(
			slog.String("expected", expected),
			slog.String("found", tok.String()),
		)
}
