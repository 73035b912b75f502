package lang

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// flow is the control signal produced by executing a statement.
type flow int

const (
	flowNext   flow = iota // continue with the next statement
	flowReturn             // ret: leave the enclosing function call
	flowBreak              // break: leave the innermost while loop
)

// frame is the execution context of one statement sequence: the top level
// of a file, or the body of a function call.
type frame struct {
	scope ScopeID
	file  string    // file the executing statements were parsed from
	dir   string    // directory @source paths are resolved against
	fn    *Function // function being called, nil at file level
	loops int       // enclosing while loops within this frame
	ret   Value     // value carried by flowReturn
}

// execBlock executes body in order, stopping at the first error or control
// signal.
func (in *Interpreter) execBlock(
	ctx context.Context,
	fr *frame,
	body []Stmt,
) (flow, error) {
	for _, stmt := range body {
		f, err := in.exec(ctx, fr, stmt)
		if err != nil || f != flowNext {
			return f, err
		}
	}

	return flowNext, nil
}

// exec executes a single statement.
func (in *Interpreter) exec(ctx context.Context, fr *frame, stmt Stmt) (flow, error) {
	switch s := stmt.(type) {
	case *Assignment:
		v, err := in.eval(ctx, fr, s.Value)
		if err != nil {
			return flowNext, err
		}

		in.env.Define(fr.scope, s.Name, v)

	case *Update:
		return flowNext, in.update(ctx, fr, s)

	case *LogCall:
		return flowNext, in.log(ctx, fr, s)

	case *Conditional:
		ok, err := in.condition(ctx, fr, s.Cond, KeywordCheck)
		if err != nil || !ok {
			return flowNext, err
		}

		return in.execBlock(ctx, fr, s.Body)

	case *WhileLoop:
		return in.loop(ctx, fr, s)

	case *FunctionDef:
		in.env.Capture(fr.scope)
		in.env.Define(fr.scope, s.Name, &Function{
			Name:   s.Name,
			File:   fr.file,
			Params: s.Params,
			Body:   s.Body,
			Scope:  fr.scope,
			dir:    fr.dir,
		})

	case *Return:
		if fr.fn == nil {
			return flowNext, ErrRuntime.WithPosition(s.At).
				Detail("ret outside of function")
		}

		fr.ret = Unit{}

		if s.Value != nil {
			v, err := in.eval(ctx, fr, s.Value)
			if err != nil {
				return flowNext, err
			}

			fr.ret = v
		}

		return flowReturn, nil

	case *Break:
		if fr.loops == 0 {
			return flowNext, ErrRuntime.WithPosition(s.At).
				Detail("break outside of while loop")
		}

		return flowBreak, nil

	case *ExprStmt:
		_, err := in.eval(ctx, fr, s.X)

		return flowNext, err
	}

	return flowNext, nil
}

// update rebinds a name already bound in the current scope.
func (in *Interpreter) update(ctx context.Context, fr *frame, s *Update) error {
	owner, ok := in.env.Owner(fr.scope, s.Name)
	if !ok {
		return undefined(ErrUndefinedName, s.Name, s.At, in.env.Names(fr.scope))
	}

	if owner != fr.scope {
		return ErrRuntime.WithPosition(s.At).
			Detail("cannot update " + s.Name + ": bound in an enclosing scope").
			With(slog.String("name", s.Name))
	}

	v, err := in.eval(ctx, fr, s.Value)
	if err != nil {
		return err
	}

	in.env.Assign(fr.scope, s.Name, v)

	return nil
}

// log writes the display text of each argument separated by single spaces.
// No separator is added after text that already ends in whitespace.
func (in *Interpreter) log(ctx context.Context, fr *frame, s *LogCall) error {
	var sb strings.Builder

	for i, arg := range s.Args {
		v, err := in.eval(ctx, fr, arg)
		if err != nil {
			return err
		}

		if i > 0 && !endsInSpace(sb.String()) {
			sb.WriteByte(' ')
		}

		sb.WriteString(Display(v))
	}

	if s.Newline {
		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(in.cfg.output, sb.String()); err != nil {
		return ErrRuntime.WithPosition(s.At).Detail("write output").Wrap(err)
	}

	return nil
}

func endsInSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)

	return r != utf8.RuneError && unicode.IsSpace(r)
}

// condition evaluates the boolean condition of a check or while statement.
func (in *Interpreter) condition(
	ctx context.Context,
	fr *frame,
	cond Expr,
	keyword string,
) (bool, error) {
	v, err := in.eval(ctx, fr, cond)
	if err != nil {
		return false, err
	}

	b, ok := v.(Bool)
	if !ok {
		return false, ErrType.WithPosition(cond.Pos()).
			Detail(keyword + " condition must be boolean, found " +
				v.Kind().String()).
			With(slog.String("kind", v.Kind().String()))
	}

	return bool(b), nil
}

// loop executes a while statement.
func (in *Interpreter) loop(ctx context.Context, fr *frame, s *WhileLoop) (flow, error) {
	fr.loops++
	defer func() { fr.loops-- }()

	for {
		if err := ctx.Err(); err != nil {
			return flowNext, ErrCanceled.WithPosition(s.At).
				Wrap(context.Cause(ctx))
		}

		ok, err := in.condition(ctx, fr, s.Cond, KeywordWhile)
		if err != nil || !ok {
			return flowNext, err
		}

		f, err := in.execBlock(ctx, fr, s.Body)
		if err != nil {
			return flowNext, err
		}

		switch f {
		case flowBreak:
			return flowNext, nil

		case flowReturn:
			return f, nil
		}
	}
}

// eval evaluates an expression.
func (in *Interpreter) eval(ctx context.Context, fr *frame, x Expr) (Value, error) {
	switch x := x.(type) {
	case *Literal:
		return x.Value, nil

	case *Identifier:
		v, ok := in.env.Lookup(fr.scope, x.Name)
		if !ok {
			return nil, undefined(ErrUndefinedName, x.Name, x.At,
				in.env.Names(fr.scope))
		}

		return v, nil

	case *ArrayLiteral:
		arr := make(Array, len(x.Elements))

		for i, elem := range x.Elements {
			v, err := in.eval(ctx, fr, elem)
			if err != nil {
				return nil, err
			}

			arr[i] = v
		}

		return arr, nil

	case *Index:
		return in.index(ctx, fr, x)

	case *FunctionCall:
		return in.call(ctx, fr, x)

	case *Source:
		return in.source(ctx, fr, x)

	case *MathCall:
		n, err := in.math(ctx, fr, x.X)
		if err != nil {
			return nil, err
		}

		return n, nil

	case *MathExpr, *Negate:
		n, err := in.math(ctx, fr, x)
		if err != nil {
			return nil, err
		}

		return n, nil

	case *Comparison:
		return in.compare(ctx, fr, x)
	}

	return nil, ErrRuntime.WithPosition(x.Pos()).Detail("unknown expression")
}

// index selects an array element.
func (in *Interpreter) index(ctx context.Context, fr *frame, x *Index) (Value, error) {
	v, err := in.eval(ctx, fr, x.X)
	if err != nil {
		return nil, err
	}

	arr, ok := v.(Array)
	if !ok {
		return nil, ErrType.WithPosition(x.At).
			Detail("cannot index " + v.Kind().String()).
			With(slog.String("kind", v.Kind().String()))
	}

	iv, err := in.eval(ctx, fr, x.Index)
	if err != nil {
		return nil, err
	}

	i, ok := iv.(Int)
	if !ok {
		return nil, ErrType.WithPosition(x.Index.Pos()).
			Detail("array index must be int, found " + iv.Kind().String()).
			With(slog.String("kind", iv.Kind().String()))
	}

	if i < 0 || int64(i) >= int64(len(arr)) {
		return nil, ErrIndex.WithPosition(x.Index.Pos()).
			Detail("index " + strconv.FormatInt(int64(i), 10) +
				" with length " + strconv.Itoa(len(arr))).
			With(slog.Int64("index", int64(i)), slog.Int("length", len(arr)))
	}

	return arr[i], nil
}

// math evaluates an arithmetic expression with integer semantics.
// Overflow wraps.
func (in *Interpreter) math(ctx context.Context, fr *frame, x Expr) (Int, error) {
	switch x := x.(type) {
	case *MathExpr:
		l, err := in.math(ctx, fr, x.Left)
		if err != nil {
			return 0, err
		}

		r, err := in.math(ctx, fr, x.Right)
		if err != nil {
			return 0, err
		}

		switch x.Op {
		case "+":
			return l + r, nil

		case "-":
			return l - r, nil

		case "*":
			return l * r, nil

		case "/":
			if r == 0 {
				return 0, ErrArithmetic.WithPosition(x.At).
					Detail("division by zero")
			}

			return l / r, nil
		}

		return 0, ErrRuntime.WithPosition(x.At).
			Detail("unknown operator " + strconv.Quote(x.Op))

	case *Negate:
		n, err := in.math(ctx, fr, x.X)
		if err != nil {
			return 0, err
		}

		return -n, nil
	}

	v, err := in.eval(ctx, fr, x)
	if err != nil {
		return 0, err
	}

	n, ok := v.(Int)
	if !ok {
		return 0, ErrType.WithPosition(x.Pos()).
			Detail("arithmetic operand must be int, found " + v.Kind().String()).
			With(slog.String("kind", v.Kind().String()))
	}

	return n, nil
}

// compare evaluates a comparison. Ordering is defined for integers;
// equality for any two values of the same kind.
func (in *Interpreter) compare(ctx context.Context, fr *frame, x *Comparison) (Value, error) {
	l, err := in.eval(ctx, fr, x.Left)
	if err != nil {
		return nil, err
	}

	r, err := in.eval(ctx, fr, x.Right)
	if err != nil {
		return nil, err
	}

	mismatch := func() error {
		return ErrType.WithPosition(x.At).
			Detail("cannot compare " + l.Kind().String() + " " + x.Op + " " +
				r.Kind().String()).
			With(
				slog.String("op", x.Op),
				slog.String("left", l.Kind().String()),
				slog.String("right", r.Kind().String()),
			)
	}

	switch x.Op {
	case "==", "!=":
		eq, ok := Equal(l, r)
		if !ok {
			return nil, mismatch()
		}

		return Bool(eq == (x.Op == "==")), nil
	}

	li, lok := l.(Int)
	ri, rok := r.(Int)

	if !lok || !rok {
		return nil, mismatch()
	}

	switch x.Op {
	case "<":
		return Bool(li < ri), nil

	case "<=":
		return Bool(li <= ri), nil

	case ">":
		return Bool(li > ri), nil

	case ">=":
		return Bool(li >= ri), nil
	}

	return nil, ErrRuntime.WithPosition(x.At).
		Detail("unknown operator " + strconv.Quote(x.Op))
}

// call invokes a user-defined function. The call scope is a child of the
// function's defining scope, not of the caller's.
func (in *Interpreter) call(ctx context.Context, fr *frame, c *FunctionCall) (Value, error) {
	v, ok := in.env.Lookup(fr.scope, c.Name)
	if !ok {
		return nil, undefined(ErrUndefinedFunction, c.Name, c.At,
			in.functionNames(fr.scope))
	}

	fn, ok := v.(*Function)
	if !ok {
		return nil, ErrUndefinedFunction.WithPosition(c.At).
			Detail(c.Name + " is " + v.Kind().String() + ", not function").
			With(slog.String("name", c.Name), slog.String("kind", v.Kind().String()))
	}

	args := make([]Value, len(c.Args))

	for i, arg := range c.Args {
		a, err := in.eval(ctx, fr, arg)
		if err != nil {
			return nil, err
		}

		args[i] = a
	}

	if len(args) != len(fn.Params) {
		return nil, ErrArity.WithPosition(c.At).
			Detail(c.Name + " expects " + strconv.Itoa(len(fn.Params)) +
				" argument(s), found " + strconv.Itoa(len(args))).
			With(
				slog.String("name", c.Name),
				slog.Int("expected", len(fn.Params)),
				slog.Int("got", len(args)),
			)
	}

	if in.depth >= in.cfg.maxDepth {
		return nil, ErrCallDepth.WithPosition(c.At).
			Detail("calling " + c.Name).
			With(slog.Int("limit", in.cfg.maxDepth))
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrCanceled.WithPosition(c.At).Wrap(context.Cause(ctx))
	}

	in.depth++
	defer func() { in.depth-- }()

	scope := in.env.Push(fn.Scope)
	defer in.env.Pop(scope)

	for i, param := range fn.Params {
		in.env.Define(scope, param, args[i])
	}

	in.cfg.logger.DebugContext(ctx, "call",
		slog.String("name", fn.Name),
		slog.Int("depth", in.depth),
		slog.Int("args", len(args)))

	inner := &frame{
		scope: scope,
		file:  fn.File,
		dir:   fn.dir,
		fn:    fn,
	}

	f, err := in.execBlock(ctx, inner, fn.Body)
	if err != nil {
		return nil, WrapError(err).WithFile(fn.File)
	}

	if f == flowReturn && inner.ret != nil {
		return inner.ret, nil
	}

	return Unit{}, nil
}

// functionNames returns the names of functions visible from scope id.
func (in *Interpreter) functionNames(id ScopeID) []string {
	return slices.DeleteFunc(in.env.Names(id), func(name string) bool {
		v, _ := in.env.Lookup(id, name)

		return v.Kind() != KindFunction
	})
}

// source reads, parses, and executes another file in the global scope.
func (in *Interpreter) source(ctx context.Context, fr *frame, s *Source) (Value, error) {
	pv, err := in.eval(ctx, fr, s.Path)
	if err != nil {
		return nil, err
	}

	p, ok := pv.(Str)
	if !ok {
		return nil, ErrType.WithPosition(s.Path.Pos()).
			Detail("source path must be string, found " + pv.Kind().String()).
			With(slog.String("kind", pv.Kind().String()))
	}

	fail := func() *Error {
		return ErrSource.WithPosition(s.At).
			Detail(strconv.Quote(string(p))).
			With(slog.String("path", string(p)))
	}

	name, src, err := in.cfg.loader.Load(ctx, fr.dir, string(p))
	if err != nil {
		return nil, fail().Wrap(err)
	}

	name = filepath.Clean(name)

	if slices.Contains(in.active, name) {
		cycle := append(slices.Clone(in.active), name)

		return nil, fail().Wrap(NewError("cycle: " + strings.Join(cycle, " -> ")))
	}

	in.cfg.logger.DebugContext(ctx, "source",
		slog.String("path", string(p)),
		slog.String("file", name),
		slog.Int("depth", len(in.active)))

	cfg := in.cfg
	cfg.name = name

	prog, err := parseCached(ctx, &cfg, src)
	if err != nil {
		return nil, fail().Wrap(err)
	}

	in.active = append(in.active, name)
	defer func() { in.active = in.active[:len(in.active)-1] }()

	top := &frame{
		scope: in.env.Global(),
		file:  name,
		dir:   sourceDir(name),
	}

	if _, err := in.execBlock(ctx, top, prog.Body); err != nil {
		return nil, WrapError(err).WithFile(name)
	}

	return Unit{}, nil
}
