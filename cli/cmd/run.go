package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/aspl/lang"
	"github.com/ardnew/aspl/log"
)

// Run executes aspl scripts in order against one global environment, so
// bindings made by a file are visible to the files after it.
type Run struct {
	Files []string `arg:"" default:"-" help:"Script file(s) to run, or '-' for stdin." name:"file" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sources, err := readSources(ctx, r.Files)
	if err != nil {
		return err
	}

	st := streamsFrom(ctx)
	in := lang.New(optionsFrom(ctx, lang.WithOutput(st.Out))...)

	for _, src := range sources {
		log.DebugContext(ctx, "run file", slog.String("file", src.name))

		err := in.Run(ctx, src.name, src.text)
		if err != nil {
			report(st.Err, err, src)

			return ErrScript.With(slog.String("file", src.name)).Wrap(err)
		}
	}

	return nil
}

// report writes err to w with an "[ERROR]" prefix, followed by the
// offending source line when the error has a position.
func report(w io.Writer, err error, src source) {
	name, text := src.name, src.text

	// Errors raised inside a sourced file carry that file's name.
	var le *lang.Error
	if errors.As(err, &le) && le.File() != "" && le.File() != name {
		if data, rerr := os.ReadFile(le.File()); rerr == nil {
			name, text = le.File(), string(data)
		}
	}

	prefix := lipgloss.NewRenderer(w).NewStyle().
		Foreground(lipgloss.Color("1")).
		Bold(true).
		Render("[ERROR]")

	msg := strings.TrimRight(lang.FormatError(err, name, text), "\n")

	fmt.Fprintf(w, "%s %s\n", prefix, msg)
}
