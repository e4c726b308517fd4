package tally_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tallylang/tally"
)

func TestEvalProgram(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want map[string]string
	}{
		{
			"sequential",
			"x = 3\ny = x + 2",
			map[string]string{"x": "3", "y": "5"},
		},
		{
			"rebind",
			"x = 1\nx = x + 1",
			map[string]string{"x": "2"},
		},
		{
			"nothing-absorbs",
			"a = Nothing\nb = a + 5\nc = -a",
			map[string]string{"a": "Nothing", "b": "Nothing", "c": "Nothing"},
		},
		{
			"chains",
			"r1 = 1 < 2 < 3\nr2 = 1 < 2 < 1\nr3 = 5 == 5 != 4",
			map[string]string{"r1": "1", "r2": "0", "r3": "1"},
		},
		{
			"chain-nothing",
			"r = Nothing < 1",
			map[string]string{"r": "0"},
		},
		{
			"division",
			"a = 3 / 2\nb = 3 // 2\nc = Nothing // 2",
			map[string]string{"a": "1.5", "b": "1", "c": "Nothing"},
		},
		{
			"tuples",
			"t = (1, 2,)\nu = (1,)\nv = (1)",
			map[string]string{"t": "(1, 2)", "u": "(1,)", "v": "1"},
		},
		{
			"bare-expression-binds-nothing",
			"x = 1\nx + 1",
			map[string]string{"x": "1"},
		},
		{
			"argument-side-effect",
			"r = avg((s = 8), s)",
			map[string]string{"s": "8", "r": "8.0"},
		},
		{
			"hyphenated-names",
			"grade.math-1 = 90\nout = grade.math-1 + 10",
			map[string]string{"grade.math-1": "90", "out": "100"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			syms, err := tally.EvalString(c.src)
			require.NoError(t, err)
			got := make(map[string]string, len(syms))
			for k, v := range syms {
				got[k] = v.String()
			}
			assert.Equal(t, c.want, got)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	t.Run("undefined", func(t *testing.T) {
		_, err := tally.EvalString("y = x + 1")
		var nerr *tally.NameError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, "x", nerr.Name)
	})
	t.Run("unknown-function", func(t *testing.T) {
		_, err := tally.EvalString("y = frobnicate(1)")
		var uerr *tally.UnknownFuncError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "frobnicate", uerr.Func)
	})
	t.Run("arity", func(t *testing.T) {
		_, err := tally.EvalString("y = ceil(1, 2)")
		var cerr *tally.CallError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "ceil", cerr.Func)
		assert.Equal(t, 2, cerr.Len)
	})
	t.Run("divide-by-zero", func(t *testing.T) {
		_, err := tally.EvalString("y = 1 / 0")
		var zerr *tally.DivideByZeroError
		require.ErrorAs(t, err, &zerr)
	})
	t.Run("bad-operands", func(t *testing.T) {
		_, err := tally.EvalString(`y = "a" - 1`)
		var operr *tally.OpError
		require.ErrorAs(t, err, &operr)
	})
}

func TestEvalReservedName(t *testing.T) {
	p, err := tally.ParseString("x = 1\nNothing = 5")
	require.NoError(t, err)
	ctx := tally.NewContext()
	_, err = ctx.Eval(p)
	var rerr *tally.ReservedNameError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Nothing", rerr.Name)
	// The failing statement binds nothing, but earlier statements did run.
	assert.Equal(t, map[string]tally.Value{"x": tally.Int(1)}, ctx.Symbols())
}

func TestEvalStmt(t *testing.T) {
	ctx := tally.NewContext()

	stmt, err := tally.ParseStatement(strings.NewReader("7"))
	require.NoError(t, err)
	v, err := ctx.EvalStmt(stmt)
	require.NoError(t, err)
	// A bare expression statement evaluates to its own value.
	assert.Equal(t, tally.Int(7), v)

	stmt, err = tally.ParseStatement(strings.NewReader("x = 2 + 3"))
	require.NoError(t, err)
	v, err = ctx.EvalStmt(stmt)
	require.NoError(t, err)
	assert.Equal(t, tally.Int(5), v)
	assert.Equal(t, tally.Int(5), ctx.Lookup("x"))
}

func TestLookupDistinguishesUnbound(t *testing.T) {
	ctx := tally.NewContext()
	p, err := tally.ParseString("a = Nothing")
	require.NoError(t, err)
	_, err = ctx.Eval(p)
	require.NoError(t, err)
	assert.Equal(t, tally.Nothing, ctx.Lookup("a"))
	assert.Nil(t, ctx.Lookup("b"))
}

func TestEvalIdempotent(t *testing.T) {
	const src = "base = 10\nbonus = base // 3\ntotal = base + bonus"
	first, err := tally.EvalString(src)
	require.NoError(t, err)
	second, err := tally.EvalString(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestContextOptions(t *testing.T) {
	syms, err := tally.EvalString("y = x * 2", tally.SetVar("x", tally.Int(21)))
	require.NoError(t, err)
	assert.Equal(t, tally.Int(42), syms["y"])

	syms, err = tally.EvalString("z = a + b", tally.SetVars(map[string]tally.Value{
		"a": tally.Int(1),
		"b": tally.Float(0.5),
	}))
	require.NoError(t, err)
	assert.Equal(t, tally.Float(1.5), syms["z"])

	// Removing a registry entry makes calls to it unknown.
	_, err = tally.EvalString("y = ceil(1.5)", tally.WithFunc("ceil", nil))
	var uerr *tally.UnknownFuncError
	require.ErrorAs(t, err, &uerr)
}

func TestContextClone(t *testing.T) {
	ctx := tally.NewContext(tally.SetVar("x", tally.Int(1)))
	clone := ctx.Clone(tally.SetVar("x", tally.Int(2)))
	assert.Equal(t, tally.Int(1), ctx.Lookup("x"))
	assert.Equal(t, tally.Int(2), clone.Lookup("x"))

	clone.Set("y", tally.Int(3))
	assert.Nil(t, ctx.Lookup("y"))
}

func TestPrograms(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "programs.yaml"))
	require.NoError(t, err)
	var cases []struct {
		Name   string            `yaml:"name"`
		Source string            `yaml:"source"`
		Want   map[string]string `yaml:"want"`
	}
	require.NoError(t, yaml.Unmarshal(data, &cases))
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			syms, err := tally.EvalString(c.Source)
			require.NoError(t, err)
			got := make(map[string]string, len(syms))
			for k, v := range syms {
				got[k] = v.String()
			}
			assert.Equal(t, c.Want, got)
		})
	}
}
