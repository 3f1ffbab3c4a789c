package bounds

import (
	"testing"

	"github.com/stretchr/testify/require"
	"halide/src/ir"
	"halide/src/scope"
)

// TestRegionsRequiredOverFor checks that a Load inside a For loop's body
// produces a region bounded by the loop's own [min, min+extent) range,
// which is the building block InjectRealization's store-level handling
// relies on (§4.5).
func TestRegionsRequiredOverFor(t *testing.T) {
	idx := &ir.Variable{Typ: ir.Int32, Name: "x"}
	load := &ir.Load{Typ: ir.Int32, Buffer: "g", Index: idx}
	store := &ir.Store{Buffer: "f", Value: load, Index: idx}
	loop := &ir.For{
		Name:   "x",
		Min:    &ir.IntImm{Typ: ir.Int32, Value: 0},
		Extent: &ir.IntImm{Typ: ir.Int32, Value: 10},
		Typ:    ir.Serial,
		Body:   store,
	}

	regions := RegionsRequired(loop, scope.NewScope[Interval]())
	g, ok := regions["g"]
	require.True(t, ok)
	require.Len(t, g, 1)
	require.True(t, IsBounded(g))

	// f is written, not read, so RegionsRequired must not report it.
	_, wasRead := regions["f"]
	require.False(t, wasRead)
}

func TestRegionsTouchedIncludesWrites(t *testing.T) {
	idx := &ir.Variable{Typ: ir.Int32, Name: "x"}
	store := &ir.Store{Buffer: "f", Value: &ir.IntImm{Typ: ir.Int32, Value: 0}, Index: idx}
	loop := &ir.For{
		Name:   "x",
		Min:    &ir.IntImm{Typ: ir.Int32, Value: 0},
		Extent: &ir.IntImm{Typ: ir.Int32, Value: 10},
		Typ:    ir.Serial,
		Body:   store,
	}

	touched := RegionsTouched(loop, scope.NewScope[Interval]())
	f, ok := touched["f"]
	require.True(t, ok)
	require.True(t, IsBounded(f))

	required := RegionsRequired(loop, scope.NewScope[Interval]())
	_, wasRequired := required["f"]
	require.False(t, wasRequired)
}

func TestLoadUsedAsIndexDegradesToPoint(t *testing.T) {
	// A Load used as an index is not one of the cases OfExpr reasons about
	// structurally; it must degrade to a known single-point interval
	// rather than propagate as undefined, so a store indexed this way is
	// still reported as a (degenerate) bounded region.
	unknownIndex := &ir.Load{Typ: ir.Int32, Buffer: "table", Index: &ir.IntImm{Typ: ir.Int32, Value: 0}}
	store := &ir.Store{Buffer: "f", Value: &ir.IntImm{Typ: ir.Int32, Value: 0}, Index: unknownIndex}

	touched := RegionsTouched(store, scope.NewScope[Interval]())
	require.True(t, IsBounded(touched["f"]))
}

func TestDivByUnknownIsUndefined(t *testing.T) {
	// Division by a non-constant denominator is a case OfExpr explicitly
	// refuses to bound (§4.3 failure mode): it must surface as an
	// undefined dimension, not a silently wrong range.
	denom := &ir.Variable{Typ: ir.Int32, Name: "n"} // bound to an undefined Interval below
	index := &ir.BinExpr{Op: ir.Div, Typ: ir.Int32, A: &ir.IntImm{Typ: ir.Int32, Value: 10}, B: denom}
	store := &ir.Store{Buffer: "f", Value: &ir.IntImm{Typ: ir.Int32, Value: 0}, Index: index}

	sc := scope.NewScope[Interval]()
	sc.Set("n", Interval{}) // explicitly unknown/undefined, as a free parameter would be before binding
	touched := RegionsTouched(store, sc)
	require.False(t, IsBounded(touched["f"]))
}
