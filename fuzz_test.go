package tally_test

import (
	"strings"
	"testing"

	"github.com/tallylang/tally"
)

func FuzzParse(f *testing.F) {
	f.Add("x = 1")
	f.Add("(1,)")
	f.Add("a < b <= c == d")
	f.Add("avg((math, 2), (art, 1))")
	f.Add(`s = "a\nb" * 2`)
	f.Add("grade.math-1 = 90 # weighted")
	f.Fuzz(func(t *testing.T, src string) {
		p, err := tally.ParseString(src)
		if err != nil {
			return
		}
		// A successfully parsed program renders to source that parses to
		// the same canonical form.
		again, err := tally.ParseString(p.String())
		if err != nil {
			t.Fatalf("canonical form %q does not parse: %v", p.String(), err)
		}
		if p.String() != again.String() {
			t.Errorf("canonical form is not stable: %q then %q", p.String(), again.String())
		}
	})
}

func FuzzEval(f *testing.F) {
	f.Add("x = 1\ny = x + 2")
	f.Add("r = 1 < 2 < 3")
	f.Add("t = (1, Nothing) * 2")
	f.Add("m = avg((x, 2), 4)")
	f.Fuzz(func(t *testing.T, src string) {
		// Evaluation must fail with an error value, never a panic.
		syms, err := tally.EvalString(src, tally.SetVar("x", tally.Int(1)))
		if err != nil {
			return
		}
		for name, v := range syms {
			if v == nil {
				t.Errorf("name %q bound to nil", name)
			}
			_ = v.String()
		}
	})
}

func FuzzLex(f *testing.F) {
	f.Add(`"unterminated`)
	f.Add("1.2.3")
	f.Add("!=!")
	f.Fuzz(func(t *testing.T, src string) {
		// The lexer is exercised indirectly; it must always terminate and
		// report errors through the parser.
		_, _ = tally.Parse(strings.NewReader(src))
	})
}
