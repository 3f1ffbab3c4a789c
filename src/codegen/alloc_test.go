package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"halide/src/ir"
)

func TestLowerAllocationSmallConstantGoesOnStack(t *testing.T) {
	alloc := &ir.Allocate{Name: "buf", Typ: ir.Int32, Size: &ir.IntImm{Typ: ir.Int32, Value: 100}}
	plan := LowerAllocation(alloc)
	require.Equal(t, Stack, plan.Kind)
	require.Equal(t, int64(400), plan.ByteSize)
	require.Equal(t, stackAlignBytes, plan.Align)
}

func TestLowerAllocationLargeConstantGoesOnHeap(t *testing.T) {
	alloc := &ir.Allocate{Name: "buf", Typ: ir.Int32, Size: &ir.IntImm{Typ: ir.Int32, Value: 1 << 20}}
	plan := LowerAllocation(alloc)
	require.Equal(t, Heap, plan.Kind)
}

func TestLowerAllocationUnknownSizeGoesOnHeap(t *testing.T) {
	alloc := &ir.Allocate{Name: "buf", Typ: ir.Int32, Size: &ir.Variable{Typ: ir.Int32, Name: "n"}}
	plan := LowerAllocation(alloc)
	require.Equal(t, Heap, plan.Kind)
	require.False(t, plan.KnownSize)
}

func TestHeapAllocationsLIFOAndFreeAll(t *testing.T) {
	h := NewHeapAllocations()
	h.Push(AllocPlan{Name: "a"})
	h.Push(AllocPlan{Name: "a"})
	require.True(t, h.Contains("a"))

	h.Pop("a")
	require.True(t, h.Contains("a"))
	h.Pop("a")
	require.False(t, h.Contains("a"))

	h.Push(AllocPlan{Name: "x"})
	h.Push(AllocPlan{Name: "y"})
	freed := h.FreeAll()
	require.Len(t, freed, 2)
	require.False(t, h.Contains("x"))
	require.False(t, h.Contains("y"))
}
