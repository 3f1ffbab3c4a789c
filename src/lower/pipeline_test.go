package lower

import (
	"testing"

	"github.com/stretchr/testify/require"
	"halide/src/diag"
	"halide/src/function"
	"halide/src/ir"
)

// twoStageBlur returns (f, g, env) where g(x) = f(x) + f(x+1), mirroring
// the §10 example pipeline: f is the producer, g the consumer/output.
func twoStageBlur() (*function.Function, *function.Function, map[string]*function.Function) {
	f := &function.Function{
		Name:     "f",
		Args:     []string{"x"},
		Value:    &ir.BinExpr{Op: ir.Mul, Typ: ir.Int32, A: v("x"), B: imm(2)},
		Schedule: function.DefaultSchedule([]string{"x"}),
	}

	callF := func(arg ir.Expr) *ir.Call {
		return &ir.Call{Typ: ir.Int32, Name: "f", Args: []ir.Expr{arg}, CallType: ir.Halide, Func: f}
	}
	g := &function.Function{
		Name: "g",
		Args: []string{"x"},
		Value: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32,
			A: callF(v("x")),
			B: callF(&ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: v("x"), B: imm(1)}),
		},
		Schedule: function.DefaultSchedule([]string{"x"}),
	}

	env := map[string]*function.Function{"f": f, "g": g}
	return f, g, env
}

// TestPopulateEnvironmentFindsTransitiveCallees checks that
// PopulateEnvironment(recursive=true) walks through g into f (§4.7,
// property 1: every Function reachable from the output appears in env).
func TestPopulateEnvironmentFindsTransitiveCallees(t *testing.T) {
	_, g, _ := twoStageBlur()
	env := make(map[string]*function.Function)
	PopulateEnvironment(g, env, true)

	require.Contains(t, env, "f")
	require.Contains(t, env, "g")
}

// TestRealizationOrderProducerBeforeConsumer checks that f, which g calls,
// is ordered before g, and that g (the output) is last (§4.7, property 2).
func TestRealizationOrderProducerBeforeConsumer(t *testing.T) {
	_, _, env := twoStageBlur()
	order, err := RealizationOrder("g", env)
	require.NoError(t, err)
	require.Equal(t, []string{"f", "g"}, order)
}

// TestRealizationOrderCycleErrors checks that a pipeline whose call graph
// has a cycle reports ErrMalformedSchedule rather than looping forever.
func TestRealizationOrderCycleErrors(t *testing.T) {
	a := &function.Function{Name: "a", Args: []string{"x"}, Schedule: function.DefaultSchedule([]string{"x"})}
	b := &function.Function{Name: "b", Args: []string{"x"}, Schedule: function.DefaultSchedule([]string{"x"})}
	a.Value = &ir.Call{Typ: ir.Int32, Name: "b", Args: []ir.Expr{v("x")}, CallType: ir.Halide, Func: b}
	b.Value = &ir.Call{Typ: ir.Int32, Name: "a", Args: []ir.Expr{v("x")}, CallType: ir.Halide, Func: a}

	env := map[string]*function.Function{"a": a, "b": b}
	_, err := RealizationOrder("a", env)
	require.ErrorIs(t, err, ErrMalformedSchedule)
}

// TestLowerInlinedProducer runs the full Lower driver on the two-stage
// blur with f left at its default (inline) schedule: f should never be
// realized, so the lowered Stmt tree contains no Realize of "f" (§4.8,
// §8 property 4 — inlining never emits a Realize node).
func TestLowerInlinedProducer(t *testing.T) {
	_, g, _ := twoStageBlur()

	s, err := Lower(g, Identity(), diag.Noop{})
	require.NoError(t, err)
	require.NotNil(t, s)

	printed := ir.PrintStmt(s, 0)
	require.NotContains(t, printed, "realize f")
	require.Contains(t, printed, "g.x")
}

// TestLowerRealizedProducer schedules f to be realized at g's root loop
// and checks the lowered tree contains f's Realize and Pipeline nodes
// (§4.8, §8 property 3).
func TestLowerRealizedProducer(t *testing.T) {
	f, g, _ := twoStageBlur()
	f.Schedule.ComputeLevel = function.Root()
	f.Schedule.StoreLevel = function.Root()

	s, err := Lower(g, Identity(), diag.Noop{})
	require.NoError(t, err)

	printed := ir.PrintStmt(s, 0)
	require.Contains(t, printed, "realize f")
}

// TestLowerAddsImageChecks confirms AddImageChecks' stride/bounds
// assertions for the output buffer make it into the final lowered Stmt
// (§4.7 add_image_checks, §8 property 5 — the output is always checked).
func TestLowerAddsImageChecks(t *testing.T) {
	_, g, _ := twoStageBlur()

	s, err := Lower(g, Identity(), diag.Noop{})
	require.NoError(t, err)

	printed := ir.PrintStmt(s, 0)
	require.Contains(t, printed, "assert")
}

// TestLowerLogsPassBoundaries checks that Lower narrates every named pass
// boundary through the supplied diag.Logger (§9 ambient logging).
func TestLowerLogsPassBoundaries(t *testing.T) {
	_, g, _ := twoStageBlur()

	var lines []string
	rec := recordingLogger{lines: &lines}
	_, err := Lower(g, Identity(), rec)
	require.NoError(t, err)

	require.Contains(t, lines, "injecting tracing")
	require.Contains(t, lines, "adding checks for images")
	require.Contains(t, lines, "performing bounds inference")
	simplifyCount := 0
	for _, l := range lines {
		if l == "simplifying" {
			simplifyCount++
		}
	}
	require.Equal(t, 2, simplifyCount)
}

type recordingLogger struct {
	lines *[]string
}

func (r recordingLogger) Logf(level int, format string, args ...interface{}) {
	*r.lines = append(*r.lines, format)
}
