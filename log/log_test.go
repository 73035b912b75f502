package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestMakeFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelWarn), WithPretty(false))

	l.Debug("debug message")
	l.Info("info message")

	if buf.Len() > 0 {
		t.Errorf("records below the level were written: %q", buf.String())
	}

	l.Warn("warn message")
	l.Error("error message")

	for _, want := range []string{"warn message", "error message"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q: %q", want, buf.String())
		}
	}

	if l.Level() != LevelWarn || l.Format() != DefaultFormat {
		t.Errorf("Level() = %v, Format() = %v", l.Level(), l.Format())
	}

	if l.EnabledAt(t.Context(), LevelInfo) || !l.EnabledAt(t.Context(), LevelError) {
		t.Error("EnabledAt disagrees with the configured level")
	}
}

func TestMakeJSON(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		l := Make(&buf, WithFormat(FormatJSON), WithPretty(pretty))
		l.InfoContext(t.Context(), "hello",
			slog.String("name", "aspl"),
			slog.Int("n", 3),
			slog.Group("g", slog.Bool("ok", true)))

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("pretty=%v: invalid JSON %q: %v", pretty, buf.String(), err)
		}

		if rec["msg"] != "hello" || rec["level"] != "INFO" || rec["name"] != "aspl" {
			t.Errorf("pretty=%v: record = %v", pretty, rec)
		}

		if n, _ := rec["n"].(float64); n != 3 {
			t.Errorf("pretty=%v: n = %v", pretty, rec["n"])
		}

		if g, _ := rec["g"].(map[string]any); g["ok"] != true {
			t.Errorf("pretty=%v: g = %v", pretty, rec["g"])
		}
	}
}

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	l = l.With(slog.String("component", "lang"))

	l.Error("failed",
		slog.String("path", "lib/a b.aspl"),
		slog.Any("err", errors.New("boom")),
		slog.String("multi", "x\ny"))

	got := strings.TrimSuffix(buf.String(), "\n")
	want := `level=ERROR msg=failed component=lang path=lib/a b.aspl err=boom multi="x\ny"`

	if got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestPrettyGroups(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))

	h := l.Handler().WithAttrs([]slog.Attr{slog.Int("a", 1)}).WithGroup("call")
	slog.New(h).Info("enter", slog.String("fn", "add"), slog.Int("depth", 2))

	want := "level=INFO msg=enter a=1 call.fn=add call.depth=2\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	// Empty groups are dropped.
	buf.Reset()
	slog.New(h).Info("leave")

	if want := "level=INFO msg=leave a=1\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestCaller(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithCaller(true), WithPretty(false))
	l.Info("where")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("caller not reported: %q", buf.String())
	}

	buf.Reset()

	Make(&buf, WithPretty(false)).Info("where")

	if strings.Contains(buf.String(), "source=") {
		t.Errorf("caller reported when disabled: %q", buf.String())
	}
}

func TestWrap(t *testing.T) {
	var first, second bytes.Buffer

	l := Make(&first, WithPretty(false))
	w := l.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	w.Debug("to second")
	l.Debug("dropped")

	if first.Len() > 0 {
		t.Errorf("original logger changed: %q", first.String())
	}

	if !strings.Contains(second.String(), "to second") {
		t.Errorf("wrapped logger output = %q", second.String())
	}
}

func TestZeroValue(t *testing.T) {
	var l Logger

	l.Trace("nothing")
	l.InfoContext(t.Context(), "nothing")

	if l.With(slog.Int("k", 1)).Logger != nil {
		t.Error("With on a zero Logger produced a live logger")
	}

	if l.Level() != DefaultLevel || l.EnabledAt(t.Context(), LevelError) {
		t.Error("zero Logger reports itself enabled")
	}
}

func TestConcurrentLogging(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
	)

	w := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	})

	l := Make(w, WithPretty(false))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() {
			l.With(slog.Int("worker", i)).Info("tick")
		})
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "msg=tick"); got != 16 {
		t.Errorf("got %d records, want 16", got)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
