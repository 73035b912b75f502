package lang

import (
	"bytes"
	"errors"
	"testing"
	"unicode/utf8"
)

var fuzzSeeds = []string{
	`set x 1`,
	`logl "hi " 5`,
	"check a < b { logl \"yes\" }",
	"fn add a b { ret @math(a + b) }\nlogl @add(3 4)",
	"fn f [a] { ret a[0] }",
	"while true { break }",
	"@source \"lib.aspl\"",
	"set m [[1 2] [3 \"x\"]]\nlogl m[1][1]",
	"set n @math(-(1 + 2) * 3 / 4)",
	"# comment only",
	"}{][)(",
	"set x \"unterminated",
}

// FuzzTokenize tests the lexer with random inputs to find edge cases.
func FuzzTokenize(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens, err := Tokenize(input)
		if err != nil {
			if !errors.Is(err, ErrLex) {
				t.Errorf("error %v is not ErrLex", err)
			}

			return
		}

		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
			t.Fatalf("token stream not terminated by EOF")
		}

		for i := 1; i < len(tokens); i++ {
			if tokens[i].Pos.Offset < tokens[i-1].Pos.Offset {
				t.Errorf("token %d precedes token %d", i, i-1)
			}
		}
	})
}

// FuzzParse checks that parsing never panics and that the formatter's
// output of any valid program parses to the same formatted text.
func FuzzParse(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens, err := Tokenize(input)
		if err != nil {
			return
		}

		prog, err := Parse(tokens)
		if err != nil {
			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v is not ErrParse", err)
			}

			return
		}

		var first, second bytes.Buffer

		if err := prog.Format(t.Context(), &first, 2); err != nil {
			t.Fatal(err)
		}

		reparsed, err := ParseString(t.Context(), first.String())
		if err != nil {
			t.Fatalf("formatted output does not parse: %v\n%s", err, first.String())
		}

		if err := reparsed.Format(t.Context(), &second, 2); err != nil {
			t.Fatal(err)
		}

		if first.String() != second.String() {
			t.Errorf("format not stable:\n%s\n---\n%s", first.String(), second.String())
		}
	})
}
