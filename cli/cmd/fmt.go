package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/aspl/lang"
)

// Fmt parses a script and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native aspl syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an abstract syntax tree outline."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// Input names the source file of a fmt subcommand.
type Input struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// parse reads and parses the input. Syntax errors are reported to the
// error stream and returned as [ErrScript].
func (i Input) parse(ctx context.Context, format string) (*lang.Program, error) {
	src, err := readSource(ctx, i.Source)
	if err != nil {
		return nil, err
	}

	prog, err := lang.ParseString(ctx, src.text, optionsFrom(ctx, lang.WithName(src.name))...)
	if err != nil {
		report(streamsFrom(ctx).Err, err, src)

		return nil, ErrScript.
			With(slog.String("file", src.name), slog.String("format", format)).
			Wrap(err)
	}

	return prog, nil
}

// Native formats input as native aspl syntax.
type Native struct {
	Input Input `embed:""`

	Indent int `default:"2" help:"Indent width for formatted output, or 0 for tabs." short:"i"`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) error {
	prog, err := n.Input.parse(ctx, "native")
	if err != nil {
		return err
	}

	err = prog.Format(ctx, streamsFrom(ctx).Out, n.Indent)
	if err != nil {
		return ErrFormat.With(slog.String("format", "native")).Wrap(err)
	}

	return nil
}

// JSON formats input as a JSON syntax tree.
type JSON struct {
	Input Input `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output, or 0 for compact." short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	prog, err := j.Input.parse(ctx, "json")
	if err != nil {
		return err
	}

	err = prog.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent)
	if err != nil {
		return ErrFormat.With(slog.String("format", "json")).Wrap(err)
	}

	return nil
}

// YAML formats input as a YAML syntax tree.
type YAML struct {
	Input Input `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output, or 0 for flow style." short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	prog, err := y.Input.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	err = prog.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent)
	if err != nil {
		return ErrFormat.With(slog.String("format", "yaml")).Wrap(err)
	}

	return nil
}

// AST formats input as an indented outline of its syntax tree.
type AST struct {
	Input Input `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	prog, err := a.Input.parse(ctx, "ast")
	if err != nil {
		return err
	}

	err = prog.Print(streamsFrom(ctx).Out)
	if err != nil {
		return ErrFormat.With(slog.String("format", "ast")).Wrap(err)
	}

	return nil
}

// Tokens lists the tokens of the input, one per line.
type Tokens struct {
	Input Input `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	st := streamsFrom(ctx)

	src, err := readSource(ctx, t.Input.Source)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(src.text)
	if err != nil {
		err = lang.WrapError(err).WithFile(src.name)
		report(st.Err, err, src)

		return ErrScript.With(slog.String("file", src.name)).Wrap(err)
	}

	err = lang.FormatTokens(st.Out, tokens)
	if err != nil {
		return ErrFormat.With(slog.String("format", "tokens")).Wrap(err)
	}

	return nil
}
