package lower

import (
	"testing"

	"github.com/stretchr/testify/require"
	"halide/src/function"
	"halide/src/ir"
)

// TestAddImageChecksAddsStrideAndBoundsAssertions checks that a Stmt
// reading an Image buffer within a bounded For loop and storing into the
// output buffer picks up a stride assertion and a bounds assertion for
// both buffers (§4.8 add_image_checks, §8 property 5).
func TestAddImageChecksAddsStrideAndBoundsAssertions(t *testing.T) {
	f := &function.Function{Name: "out", Args: []string{"x"}}

	load := &ir.Call{Typ: ir.Int32, Name: "in", Args: []ir.Expr{v("x")}, CallType: ir.Image}
	store := &ir.Store{Buffer: "out", Value: load, Index: v("x")}
	loop := &ir.For{Name: "x", Min: imm(0), Extent: imm(10), Typ: ir.Serial, Body: store}

	out, err := AddImageChecks(loop, f)
	require.NoError(t, err)

	printed := ir.PrintStmt(out, 0)
	require.Contains(t, printed, "in.stride.0")
	require.Contains(t, printed, "out.stride.0")
	require.Contains(t, printed, "accessed out of bounds")
}

// TestAddImageChecksUnboundedRegionErrors checks that a buffer accessed
// at an index with no enclosing loop to bound it is reported as an error
// rather than silently emitting an unbounded check (§4.3/§7 "Unbounded
// access").
func TestAddImageChecksUnboundedRegionErrors(t *testing.T) {
	f := &function.Function{Name: "out", Args: []string{"x"}}

	// An index divided by a non-constant denominator has no Interval OfExpr
	// can establish (OfExpr only bounds division by a positive IntImm), so
	// the region touched is unbounded in that dimension.
	unresolved := &ir.BinExpr{Op: ir.Div, Typ: ir.Int32, A: imm(10), B: v("n")}
	load := &ir.Call{Typ: ir.Int32, Name: "in", Args: []ir.Expr{unresolved}, CallType: ir.Image}
	store := &ir.Store{Buffer: "out", Value: load, Index: imm(0)}

	_, err := AddImageChecks(store, f)
	require.Error(t, err)
}
