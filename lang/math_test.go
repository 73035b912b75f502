package lang

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// evalMath runs @math(x) with the given integer bindings and returns the
// logged result.
func evalMath(t *testing.T, x string, vars map[string]int) (string, error) {
	t.Helper()

	var src strings.Builder

	for name, v := range vars {
		fmt.Fprintf(&src, "set %s %d\n", name, v)
	}

	fmt.Fprintf(&src, "log @math(%s)", x)

	return run(t, src.String())
}

// oracle evaluates x with expr-lang against the same bindings.
func oracle(t *testing.T, x string, vars map[string]int) string {
	t.Helper()

	env := make(map[string]any, len(vars))
	for name, v := range vars {
		env[name] = v
	}

	program, err := expr.Compile(x, expr.Env(env))
	if err != nil {
		t.Fatalf("expr.Compile(%q) error = %v", x, err)
	}

	result, err := vm.Run(program, env)
	if err != nil {
		t.Fatalf("vm.Run(%q) error = %v", x, err)
	}

	return fmt.Sprint(result)
}

func TestMathIdentity(t *testing.T) {
	for _, n := range []int64{0, 1, 7, 42, 1 << 40, math.MaxInt64} {
		t.Run(strconv.FormatInt(n, 10), func(t *testing.T) {
			got, err := run(t, "log @math("+strconv.FormatInt(n, 10)+")")
			if err != nil {
				t.Fatalf("error = %v", err)
			}

			if got != strconv.FormatInt(n, 10) {
				t.Errorf("@math(%d) = %s", n, got)
			}
		})
	}
}

func TestMathAgainstOracle(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	vars := map[string]int{"a": 17, "b": -4, "c": 1000}
	names := []string{"a", "b", "c"}

	var gen func(depth int) string

	gen = func(depth int) string {
		if depth == 0 || rng.IntN(4) == 0 {
			switch rng.IntN(3) {
			case 0:
				return names[rng.IntN(len(names))]

			case 1:
				return "-" + strconv.Itoa(rng.IntN(100))

			default:
				return strconv.Itoa(rng.IntN(100))
			}
		}

		op := []string{"+", "-", "*"}[rng.IntN(3)]
		x := gen(depth-1) + " " + op + " " + gen(depth-1)

		if rng.IntN(2) == 0 {
			return "(" + x + ")"
		}

		return x
	}

	for i := range 200 {
		x := gen(4)

		t.Run(strconv.Itoa(i), func(t *testing.T) {
			got, err := evalMath(t, x, vars)
			if err != nil {
				t.Fatalf("@math(%s) error = %v", x, err)
			}

			if want := oracle(t, x, vars); got != want {
				t.Errorf("@math(%s) = %s, want %s", x, got, want)
			}
		})
	}
}

func TestMathProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for range 50 {
		vars := map[string]int{
			"a": rng.IntN(1<<20) - 1<<19,
			"b": rng.IntN(1<<20) - 1<<19,
			"c": rng.IntN(1<<20) - 1<<19,
		}

		pairs := [][2]string{
			{"a + b", "b + a"},
			{"a * b", "b * a"},
			{"(a + b) + c", "a + (b + c)"},
			{"(a * b) * c", "a * (b * c)"},
			{"a * (b + c)", "a * b + a * c"},
			{"a - b", "-(b - a)"},
		}

		for _, pair := range pairs {
			l, err := evalMath(t, pair[0], vars)
			if err != nil {
				t.Fatalf("@math(%s) error = %v", pair[0], err)
			}

			r, err := evalMath(t, pair[1], vars)
			if err != nil {
				t.Fatalf("@math(%s) error = %v", pair[1], err)
			}

			if l != r {
				t.Errorf("%v: %s = %s but %s = %s", vars, pair[0], l, pair[1], r)
			}
		}
	}
}

func TestMathDivision(t *testing.T) {
	tests := []struct {
		x    string
		want string
	}{
		{"7 / 2", "3"},
		{"-7 / 2", "-3"},
		{"7 / -2", "-3"},
		{"2 * 9 / 4", "4"},
		{"2 * (9 / 4)", "4"},
		{"100 / 10 / 5", "2"},
		{"1 - 2 - 3", "-4"},
	}

	for _, tt := range tests {
		t.Run(tt.x, func(t *testing.T) {
			got, err := evalMath(t, tt.x, nil)
			if err != nil {
				t.Fatalf("error = %v", err)
			}

			if got != tt.want {
				t.Errorf("@math(%s) = %s, want %s", tt.x, got, tt.want)
			}
		})
	}
}

func TestMathDivisionByZero(t *testing.T) {
	for _, x := range []string{"1 / 0", "a / 0", "a / (a - a)", "0 / 0", "(1 + 2) / (3 * 0)"} {
		t.Run(x, func(t *testing.T) {
			_, err := evalMath(t, x, map[string]int{"a": 5})
			if !errors.Is(err, ErrArithmetic) {
				t.Errorf("@math(%s) error = %v, want ErrArithmetic", x, err)
			}
		})
	}
}

func TestMathOverflowWraps(t *testing.T) {
	got, err := evalMath(t, "m + 1", map[string]int{"m": math.MaxInt64})
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	if got != strconv.FormatInt(math.MinInt64, 10) {
		t.Errorf("MaxInt64 + 1 = %s", got)
	}
}
