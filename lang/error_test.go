package lang

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	err := ErrType.WithPosition(Position{Line: 2, Column: 3}).
		Detail("bad").
		With(slog.String("k", "v"))

	if !errors.Is(err, ErrType) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrParse) {
		t.Error("derived error matches an unrelated sentinel")
	}

	wrapped := ErrSource.Wrap(err)
	if !errors.Is(wrapped, ErrSource) || !errors.Is(wrapped, ErrType) {
		t.Error("wrapped error lost part of its chain")
	}

	if err.Error() != "2:3: type error: bad" {
		t.Errorf("Error() = %q", err.Error())
	}

	if ErrType.Position().IsValid() {
		t.Error("deriving mutated the sentinel")
	}
}

func TestErrorWithFile(t *testing.T) {
	inner := ErrParse.WithPosition(Position{Line: 1, Column: 1}).WithFile("lib.aspl")
	outer := inner.WithFile("main.aspl")

	if outer.File() != "lib.aspl" {
		t.Errorf("File() = %q, want innermost file", outer.File())
	}

	if got := WrapError(fs.ErrNotExist).WithFile("x").Error(); got != "x: file does not exist" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorLogValue(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := ErrArity.WithPosition(Position{Line: 4, Column: 2}).
		WithFile("main.aspl").
		With(slog.Int("expected", 2))

	logger.Error("failed", slog.Any("err", err))

	for _, want := range []string{
		"err.error=\"arity mismatch\"",
		"err.file=main.aspl",
		"err.line=4",
		"err.expected=2",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q: %s", want, buf.String())
		}
	}
}

func TestFormatError(t *testing.T) {
	src := "set x 1\nlogl @math(x / 0)\n"

	_, err := run(t, src, WithName("main.aspl"))
	if err == nil {
		t.Fatal("expected error")
	}

	got := FormatError(err, "main.aspl", src)

	want := "main.aspl:2:14: arithmetic error: division by zero\n" +
		"  2 | logl @math(x / 0)\n" +
		"                   ^\n"

	if got != want {
		t.Errorf("FormatError() =\n%q\nwant\n%q", got, want)
	}

	// Errors from another file render without a snippet.
	if got := FormatError(err, "other.aspl", src); got != err.Error() {
		t.Errorf("FormatError(other) = %q", got)
	}
}
