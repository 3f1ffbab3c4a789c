package scope

import (
	"testing"

	"github.com/stretchr/testify/require"
	"halide/src/ir"
)

// TestQualifyLeavesParamsUntouched checks invariant 1 of spec.md §8:
// QualifyExpr leaves parameter Variables untouched and prefixes all others.
func TestQualifyLeavesParamsUntouched(t *testing.T) {
	param := &ir.Variable{Typ: ir.Int32, Name: "width", Param: struct{}{}}
	local := &ir.Variable{Typ: ir.Int32, Name: "x"}
	expr := &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: local, B: param}

	got := QualifyExpr("f.", expr).(*ir.BinExpr)

	require.Equal(t, "f.x", got.A.(*ir.Variable).Name)
	require.Same(t, param, got.B, "a parameter Variable must be returned untouched")
}

func TestQualifyRenamesLet(t *testing.T) {
	let := &ir.Let{
		Name:  "tmp",
		Value: &ir.IntImm{Typ: ir.Int32, Value: 1},
		Body:  &ir.Variable{Typ: ir.Int32, Name: "tmp"},
	}

	got := QualifyExpr("f.", let).(*ir.Let)
	require.Equal(t, "f.tmp", got.Name)
	require.Equal(t, "f.tmp", got.Body.(*ir.Variable).Name)
}

// TestQualifyTwiceComposes checks the second half of invariant 1: applying
// QualifyExpr twice with (p1, p2) yields the same result as prefixing once
// with p1+p2, so long as p1 introduces no user names that p2 would also
// match (trivially true here since p1, p2 are distinct literal prefixes).
func TestQualifyTwiceComposes(t *testing.T) {
	v := &ir.Variable{Typ: ir.Int32, Name: "x"}

	// Qualifying with "b." first and then "a." is equivalent to qualifying
	// once with the concatenated prefix "a.b." (invariant 1 of spec.md §8).
	twice := QualifyExpr("a.", QualifyExpr("b.", v))
	once := QualifyExpr("a.b.", v)

	require.Equal(t, once.(*ir.Variable).Name, twice.(*ir.Variable).Name)
}
