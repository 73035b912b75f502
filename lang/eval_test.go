package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// run interprets src and returns everything it wrote.
func run(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()

	var out bytes.Buffer

	opts = append([]Option{WithOutput(&out)}, opts...)
	err := Interpret(t.Context(), src, opts...)

	return out.String(), err
}

func TestInterpretScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "log concatenation",
			input: "set msg \"hi \"\nset n 5\nlogl msg n",
			want:  "hi 5\n",
		},
		{
			name:  "check comparison",
			input: "set a 10\nset b 20\ncheck a < b { logl \"a is less than b\" }",
			want:  "a is less than b\n",
		},
		{
			name:  "function returning string",
			input: "fn get { ret \"foobar\" }\nset msg @get\nlogl msg",
			want:  "foobar\n",
		},
		{
			name:  "function with arguments",
			input: "fn add a b { ret @math(a + b) }\nlogl @add(3 4)",
			want:  "7\n",
		},
		{
			name:  "greedy call arguments",
			input: "fn add a b { ret @math(a + b) }\nset r @add 3 4\nlogl r",
			want:  "7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpretUnboundedLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer

	err := Interpret(ctx, `while true { logl "loop" }`, WithOutput(&out))
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("Interpret() error = %v, want ErrCanceled", err)
	}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error %v does not wrap the context cause", err)
	}

	// Far more iterations than any hidden cap would allow.
	lines := strings.Count(out.String(), "loop\n")
	if lines < 1000 {
		t.Errorf("loop ran %d times before cancellation", lines)
	}
}

func TestInterpretStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "rebinding",
			input: "set x 1\nset x 2\nlogl x",
			want:  "2\n",
		},
		{
			name:  "log without newline",
			input: `log "a" 1` + "\n" + `log "b"`,
			want:  "a 1b",
		},
		{
			name:  "display of each kind",
			input: `logl 1 -2 "s" true false [1 [2 "x"] false]`,
			want:  "1 -2 s true false [1 [2 x] false]\n",
		},
		{
			name:  "while counts",
			input: "set i 0\nwhile i < 3 { log i\nset i @math(i + 1) }",
			want:  "012",
		},
		{
			name:  "update in loop",
			input: "set i 3\nwhile i > 0 { log i\nupdate i @math(i - 1) }",
			want:  "321",
		},
		{
			name:  "break",
			input: "set i 0\nwhile true {\ncheck i == 2 { break }\nlog i\nset i @math(i + 1)\n}\nlog \"done\"",
			want:  "01done",
		},
		{
			name:  "check false skips",
			input: `check 1 > 2 { logl "no" }` + "\nlogl \"yes\"",
			want:  "yes\n",
		},
		{
			name:  "check mutates enclosing scope",
			input: "set x 1\ncheck true { set x 2 }\nlogl x",
			want:  "2\n",
		},
		{
			name:  "equality of arrays",
			input: `check [1 "a"] == [1 "a"] { log "eq" }` + "\n" + `check [1] != [2] { log "ne" }`,
			want:  "eqne",
		},
		{
			name:  "comparison as value",
			input: "set b 3 >= 3\nlogl b",
			want:  "true\n",
		},
		{
			name:  "indexing",
			input: "set m [[1 2] [3 4]]\nset i 1\nlogl m[1][0] m[0][i]",
			want:  "3 2\n",
		},
		{
			name:  "function without ret yields unit",
			input: "fn f { set x 1 }\nlog \"[\" @f() \"]\"",
			want:  "[ ]",
		},
		{
			name:  "bare ret yields unit",
			input: "fn f { ret\nlogl \"unreached\" }\n@f\nlog \"ok\"",
			want:  "ok",
		},
		{
			name:  "recursion",
			input: "fn fact n {\ncheck n <= 1 { ret 1 }\nret @math(n * @fact(@math(n - 1)))\n}\nlogl @fact(10)",
			want:  "3628800\n",
		},
		{
			name:  "redefinition shadows",
			input: "fn f { ret 1 }\nfn f { ret 2 }\nlogl @f",
			want:  "2\n",
		},
		{
			name:  "bracketed parameters",
			input: "fn pair [a b] { ret [b a] }\nlogl @pair(1 2)",
			want:  "[2 1]\n",
		},
		{
			name:  "functions are values",
			input: "fn f { ret 1 }\nset g f\ncheck g == f { logl g }",
			want:  "<fn f>\n",
		},
		{
			name:  "comments",
			input: "# header\nlogl 1 # trailing\n# footer",
			want:  "1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStaticScoping(t *testing.T) {
	src := `
set x "global"
fn show { ret x }
fn caller {
  set x "local"
  set y "caller only"
  ret @show
}
logl @caller
logl x
`

	got, err := run(t, src)
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	if got != "global\nglobal\n" {
		t.Errorf("output = %q", got)
	}

	_, err = run(t, src+"fn peek { ret y }\nfn outer { set y 1\nret @peek }\n@outer")
	if !errors.Is(err, ErrUndefinedName) {
		t.Errorf("callee saw caller local: error = %v", err)
	}
}

func TestClosures(t *testing.T) {
	src := `
fn counter start {
  fn next { ret @math(start + 1) }
  ret next
}
set a @counter(1)
set b @counter(10)
logl @a() @b()
`

	got, err := run(t, src)
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	if got != "2 11\n" {
		t.Errorf("output = %q, want %q", got, "2 11\n")
	}
}

func TestReturnFromNestedBlocks(t *testing.T) {
	src := `
fn find xs target {
  set i 0
  while true {
    check xs[i] == target {
      ret i
    }
    set i @math(i + 1)
  }
}
logl @find([5 6 7] 7)
logl "after"
`

	got, err := run(t, src)
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	if got != "2\nafter\n" {
		t.Errorf("output = %q", got)
	}
}

func TestUpdate(t *testing.T) {
	t.Run("enclosing scope", func(t *testing.T) {
		_, err := run(t, "set x 1\nfn f { update x 2 }\n@f")
		if !errors.Is(err, ErrRuntime) {
			t.Errorf("error = %v, want ErrRuntime", err)
		}
	})

	t.Run("unbound", func(t *testing.T) {
		_, err := run(t, "update nope 1")
		if !errors.Is(err, ErrUndefinedName) {
			t.Errorf("error = %v, want ErrUndefinedName", err)
		}
	})

	t.Run("local", func(t *testing.T) {
		got, err := run(t, "fn f { set x 1\nupdate x 2\nret x }\nlogl @f")
		if err != nil || got != "2\n" {
			t.Errorf("output = %q, error = %v", got, err)
		}
	})
}

func TestInterpretErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		line   int
	}{
		{"undefined name", "logl nope", ErrUndefinedName, 1},
		{"undefined function", "\n@nope", ErrUndefinedFunction, 2},
		{"call non-function", "set x 1\n@x", ErrUndefinedFunction, 2},
		{"non-boolean check", "check 1 { }", ErrType, 1},
		{"non-boolean while", "while \"x\" { }", ErrType, 1},
		{"math on string", `logl @math(1 + "a")`, ErrType, 1},
		{"ordering strings", `check "a" < "b" { }`, ErrType, 1},
		{"equality across kinds", `check 1 == "1" { }`, ErrType, 1},
		{"too few arguments", "fn f a { }\n@f", ErrArity, 2},
		{"too many arguments", "fn f { }\n@f(1)", ErrArity, 2},
		{"division by zero", "logl @math(1 / 0)", ErrArithmetic, 1},
		{"division by computed zero", "set z 0\nlogl @math(10 / (z * 2))", ErrArithmetic, 2},
		{"index out of range", "set a [1]\nlogl a[1]", ErrIndex, 2},
		{"negative index", "set a [1]\nlogl a[-1]", ErrIndex, 2},
		{"index non-array", "set a 1\nlogl a[0]", ErrType, 2},
		{"ret at top level", "ret 1", ErrRuntime, 1},
		{"break outside loop", "break", ErrRuntime, 1},
		{"break escaping function", "fn f { break }\nwhile true { @f }", ErrRuntime, 1},
		{"unbounded recursion", "fn f { @f }\n@f", ErrCallDepth, 1},
		{"source non-string", "@source 1", ErrType, 1},
		{"parse error", "set x [", ErrParse, 1},
		{"lex error", "set x ~", ErrLex, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input, WithMaxCallDepth(100))
			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want %v", err, tt.target)
			}

			var ee *Error
			if !errors.As(err, &ee) {
				t.Fatalf("error %T is not *Error", err)
			}

			if ee.Position().Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", ee.Position().Line, tt.line, err)
			}
		})
	}
}

func TestErrorsStopExecution(t *testing.T) {
	got, err := run(t, "log \"a\"\nfn f { logl nope }\n@f\nlog \"b\"")
	if !errors.Is(err, ErrUndefinedName) {
		t.Fatalf("error = %v, want ErrUndefinedName", err)
	}

	if got != "a" {
		t.Errorf("output = %q, want only output before the error", got)
	}
}

func TestUndefinedSuggestions(t *testing.T) {
	_, err := run(t, "set counter 1\nlogl countr")
	if err == nil || !strings.Contains(err.Error(), "did you mean counter") {
		t.Errorf("error = %v, want suggestion", err)
	}

	_, err = run(t, "fn greet { }\nset greeting 1\n@greett")
	if err == nil || !strings.Contains(err.Error(), "did you mean greet?") {
		t.Errorf("error = %v, want function-only suggestion", err)
	}
}

func TestInterpreterGlobals(t *testing.T) {
	in := New(WithOutput(nil))

	if err := in.Run(t.Context(), "a.aspl", "set x 1\nfn f { set local 1 }\n@f"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := in.Run(t.Context(), "b.aspl", "set y @math(x + 1)"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	globals := in.Globals()

	if globals["y"] != Int(2) {
		t.Errorf("y = %v, want 2", globals["y"])
	}

	if _, ok := globals["local"]; ok {
		t.Error("call-local binding leaked into globals")
	}

	if v, ok := in.Lookup("f"); !ok || v.Kind() != KindFunction {
		t.Errorf("Lookup(f) = %v, %v", v, ok)
	}

	if n := in.Env().Len(); n != 1 {
		t.Errorf("Env().Len() = %d, want 1 after all calls returned", n)
	}
}

func TestErrorFileAttribution(t *testing.T) {
	loader := MapLoader{
		"lib/util.aspl": "fn boom { logl missing }",
	}

	in := New(WithOutput(nil), WithLoader(loader))

	err := in.Run(t.Context(), "main.aspl", "@source \"lib/util.aspl\"\n\n@boom")

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want *Error", err)
	}

	if ee.File() != "lib/util.aspl" {
		t.Errorf("File() = %q, want lib/util.aspl", ee.File())
	}

	if !strings.HasPrefix(err.Error(), "lib/util.aspl:1:16: undefined name: missing") {
		t.Errorf("Error() = %q", err)
	}
}
