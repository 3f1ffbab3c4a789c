package lower

import (
	"testing"

	"github.com/stretchr/testify/require"
	"halide/src/function"
	"halide/src/ir"
)

func blurFunc(name string) *function.Function {
	return &function.Function{
		Name:     name,
		Args:     []string{"x"},
		Value:    imm(0),
		Schedule: function.DefaultSchedule([]string{"x"}),
	}
}

// TestInjectRealizationFindsBothLevels checks that when a function's store
// level is an outer loop and its compute level is an inner loop actually
// present in the tree, InjectRealization succeeds and wraps the compute
// level's body in a Pipeline nested inside a Realize at the store level
// (§4.5, §8 property 3).
func TestInjectRealizationFindsBothLevels(t *testing.T) {
	f := blurFunc("f")
	f.Schedule.StoreLevel = function.LoopLevel{Func: "out", Var: "y"}
	f.Schedule.ComputeLevel = function.LoopLevel{Func: "out", Var: "x"}

	body := &ir.Store{Buffer: "out", Value: imm(1), Index: v("x")}
	innerFor := &ir.For{Name: "out.x", Min: imm(0), Extent: imm(10), Typ: ir.Serial, Body: body}
	outerFor := &ir.For{Name: "out.y", Min: imm(0), Extent: imm(5), Typ: ir.Serial, Body: innerFor}

	out, err := InjectRealization(f, outerFor)
	require.NoError(t, err)

	wrappedStore, ok := out.(*ir.For)
	require.True(t, ok)
	require.Equal(t, "out.y", wrappedStore.Name)

	realize, ok := wrappedStore.Body.(*ir.Realize)
	require.True(t, ok)
	require.Equal(t, "f", realize.Name)

	wrappedCompute, ok := realize.Body.(*ir.For)
	require.True(t, ok)
	require.Equal(t, "out.x", wrappedCompute.Name)

	_, ok = wrappedCompute.Body.(*ir.Pipeline)
	require.True(t, ok)
}

// TestInjectRealizationMissingLevelErrors checks that a schedule naming a
// loop level absent from the tree fails with ErrMalformedSchedule rather
// than silently skipping realization (§4.5/§8 property 3).
func TestInjectRealizationMissingLevelErrors(t *testing.T) {
	f := blurFunc("f")
	f.Schedule.StoreLevel = function.LoopLevel{Func: "out", Var: "y"}
	f.Schedule.ComputeLevel = function.LoopLevel{Func: "out", Var: "never"}

	body := &ir.Store{Buffer: "out", Value: imm(1), Index: v("x")}
	loop := &ir.For{Name: "out.y", Min: imm(0), Extent: imm(5), Typ: ir.Serial, Body: body}

	_, err := InjectRealization(f, loop)
	require.ErrorIs(t, err, ErrMalformedSchedule)
}

// TestInjectRealizationSelfReferenceErrors checks the self-nesting open
// question's guard: a schedule whose compute or store level names the
// function itself is rejected up front (SPEC_FULL.md Open Question
// decisions).
func TestInjectRealizationSelfReferenceErrors(t *testing.T) {
	f := blurFunc("f")
	f.Schedule.StoreLevel = function.LoopLevel{Func: "f", Var: "x"}
	f.Schedule.ComputeLevel = function.LoopLevel{Func: "f", Var: "x"}

	body := &ir.Store{Buffer: "f", Value: imm(1), Index: v("x")}
	_, err := InjectRealization(f, &ir.For{Name: "f.x", Min: imm(0), Extent: imm(1), Typ: ir.Serial, Body: body})
	require.ErrorIs(t, err, ErrMalformedSchedule)
}
