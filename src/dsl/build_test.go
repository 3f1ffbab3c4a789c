package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"
	"halide/src/function"
	"halide/src/ir"
)

const blurSource = `
func g(x, y) = x - y
func f(x, y) = g(x, y) + g(x, y - 1)
schedule g store_at f.y compute_at f.x
schedule f split x into xo, xi factor 4
`

func TestParseAndBuildBlurExample(t *testing.T) {
	prog, err := ParseString("blur.hdsl", blurSource)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 4)

	out, env, err := Build(prog, "f")
	require.NoError(t, err)
	require.Equal(t, "f", out.Name)
	require.Len(t, env, 2)

	g := env["g"]
	require.Equal(t, function.LoopLevel{Func: "f", Var: "y"}, g.Schedule.StoreLevel)
	require.Equal(t, function.LoopLevel{Func: "f", Var: "x"}, g.Schedule.ComputeLevel)

	require.Len(t, out.Schedule.Splits, 1)
	require.Equal(t, function.Split{OldVar: "x", Outer: "xo", Inner: "xi", Factor: 4}, out.Schedule.Splits[0])

	call, ok := out.Value.(*ir.BinExpr)
	require.True(t, ok)
	require.Equal(t, ir.Add, call.Op)
	left, ok := call.A.(*ir.Call)
	require.True(t, ok)
	require.Equal(t, "g", left.Name)
	require.Same(t, g, left.Func)
}

func TestBuildDefaultsToLastDeclaredFunction(t *testing.T) {
	prog, err := ParseString("t.hdsl", blurSource)
	require.NoError(t, err)
	out, _, err := Build(prog, "")
	require.NoError(t, err)
	require.Equal(t, "f", out.Name)
}

func TestBuildRejectsUndeclaredScheduleTarget(t *testing.T) {
	prog, err := ParseString("t.hdsl", "schedule nope store_at root\n")
	require.NoError(t, err)
	_, _, err = Build(prog, "")
	require.Error(t, err)
}
