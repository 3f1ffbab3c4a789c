package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDefaultMutatorIsIdentity checks invariant 4 of spec.md §8: the
// default mutator on any Stmt returns a structurally equal tree, and in
// fact returns the exact same node (reference-equal) when nothing changed.
func TestDefaultMutatorIsIdentity(t *testing.T) {
	x := &Variable{Typ: Int32, Name: "f.x"}
	y := &Variable{Typ: Int32, Name: "f.y"}
	value := &BinExpr{Op: Add, Typ: Int32, A: x, B: y}
	stmt := &Provide{Buffer: "f", Value: value, Site: []Expr{x, y}}

	m := &BaseMutator{}
	out := m.MutateStmt(stmt)

	require.Same(t, stmt, out, "identity mutator must return the exact same Stmt node")
}

func TestDefaultMutatorRebuildsOnlyChangedNodes(t *testing.T) {
	x := &Variable{Typ: Int32, Name: "f.x"}
	y := &Variable{Typ: Int32, Name: "f.y"}
	inner := &BinExpr{Op: Add, Typ: Int32, A: x, B: y}
	outer := &Cast{Typ: Float32, Value: inner}

	renamer := &renameMutator{from: "f.y", to: "f.y2"}
	renamer.Self = renamer
	got := renamer.MutateExpr(outer)

	cast, ok := got.(*Cast)
	require.True(t, ok)
	require.NotSame(t, outer, cast, "a changed child must force rebuilding its parent")

	bin := cast.Value.(*BinExpr)
	require.Same(t, x, bin.A, "an unchanged child must be returned unchanged")
	require.Equal(t, "f.y2", bin.B.(*Variable).Name)
}

// renameMutator renames one Variable, leaving everything else alone; used
// to exercise BaseMutator's change propagation.
type renameMutator struct {
	BaseMutator
	from, to string
}

func (r *renameMutator) MutateExpr(e Expr) Expr {
	if v, ok := e.(*Variable); ok && v.Name == r.from {
		return &Variable{Typ: v.Typ, Name: r.to, Reduction: v.Reduction, Param: v.Param}
	}
	return r.BaseMutator.MutateExpr(e)
}
