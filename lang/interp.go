package lang

import (
	"context"
	"log/slog"
	"maps"
	"path/filepath"
)

// Interpreter executes programs against a global environment that persists
// across calls to [Interpreter.Run] and [Interpreter.Exec].
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	cfg    config
	env    *Env
	depth  int      // current function call depth
	active []string // files being executed or sourced, innermost last
}

// New returns an Interpreter with a fresh global environment.
func New(opts ...Option) *Interpreter {
	return &Interpreter{
		cfg: makeConfig(opts...),
		env: NewEnv(),
	}
}

// Interpret parses and executes src in a fresh environment.
//
// The file name given by [WithName] identifies src in error messages, and
// @source paths are resolved against [WithBasePath] using the [Loader] given
// by [WithLoader].
func Interpret(ctx context.Context, src string, opts ...Option) error {
	in := New(opts...)

	return in.Run(ctx, in.cfg.name, src)
}

// Run parses src as the file name and executes it.
func (in *Interpreter) Run(ctx context.Context, name, src string) error {
	cfg := in.cfg
	cfg.name = name

	cfg.logger.DebugContext(ctx, "run",
		slog.String("file", name),
		slog.Int("source_length", len(src)))

	prog, err := parseCached(ctx, &cfg, src)
	if err != nil {
		return err
	}

	return in.Exec(ctx, prog)
}

// Exec executes the statements of prog in the global scope.
func (in *Interpreter) Exec(ctx context.Context, prog *Program) error {
	fr := &frame{
		scope: in.env.Global(),
		file:  prog.Name,
		dir:   in.cfg.base,
	}

	if fr.dir == "" {
		fr.dir = sourceDir(prog.Name)
	}

	if prog.Name != "" {
		in.active = append(in.active, filepath.Clean(prog.Name))
		defer func() { in.active = in.active[:len(in.active)-1] }()
	}

	_, err := in.execBlock(ctx, fr, prog.Body)
	if err != nil {
		return WrapError(err).WithFile(prog.Name)
	}

	return nil
}

// Globals returns a copy of the bindings of the global scope.
func (in *Interpreter) Globals() map[string]Value {
	return maps.Clone(in.env.Bindings(in.env.Global()))
}

// Lookup returns the global binding of name.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	return in.env.Lookup(in.env.Global(), name)
}

// Env returns the interpreter's environment.
func (in *Interpreter) Env() *Env { return in.env }
