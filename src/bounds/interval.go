// Package bounds implements the symbolic interval inference that backs
// regions_required and regions_touched (§4.3 of spec.md): the one piece of
// "bounds analysis" that is in scope for the lowering core, as opposed to
// the whole-program bounds_inference pass, which is an external
// collaborator (§6).
package bounds

import (
	"halide/src/ir"
	"halide/src/scope"
)

// Interval is an inclusive symbolic range [Min, Max]. Both bounds are
// themselves Exprs, possibly referencing loop variables still in scope —
// resolving them to concrete numbers is the job of the external simplify
// pass, not this package (§4.3: "Bounds are symbolic Exprs").
type Interval struct {
	Min, Max ir.Expr
}

// Undefined reports whether i is the zero-value Interval, meaning bounds
// analysis could not establish any range (an unbounded access, §4.3/§7).
func (i Interval) Undefined() bool {
	return i.Min == nil || i.Max == nil
}

// point returns the degenerate Interval [e, e].
func point(e ir.Expr) Interval {
	return Interval{Min: e, Max: e}
}

// union returns the smallest Interval containing both a and b.
func union(a, b Interval) Interval {
	if a.Undefined() {
		return b
	}
	if b.Undefined() {
		return a
	}
	return Interval{
		Min: &ir.Min{Typ: ir.Int32, A: a.Min, B: b.Min},
		Max: &ir.Max{Typ: ir.Int32, A: a.Max, B: b.Max},
	}
}

// OfExpr computes a conservative Interval containing every value e may take,
// given the Intervals of free variables recorded in sc. Unknown free
// variables (not bound in sc, and not a literal) are treated as a single
// unknown point — sound for this domain because the only variables that
// genuinely range over more than one value inside a region computation are
// loop variables and reduction variables, both of which are always bound in
// sc by the caller before OfExpr is invoked.
func OfExpr(e ir.Expr, sc *scope.Scope[Interval]) Interval {
	if e == nil {
		return Interval{}
	}
	switch n := e.(type) {
	case *ir.IntImm, *ir.FloatImm:
		return point(e)
	case *ir.Variable:
		if iv, ok := sc.Get(n.Name); ok {
			return iv
		}
		return point(e)
	case *ir.Cast:
		inner := OfExpr(n.Value, sc)
		if inner.Undefined() {
			return Interval{}
		}
		return Interval{
			Min: &ir.Cast{Typ: n.Typ, Value: inner.Min},
			Max: &ir.Cast{Typ: n.Typ, Value: inner.Max},
		}
	case *ir.BinExpr:
		a, b := OfExpr(n.A, sc), OfExpr(n.B, sc)
		if a.Undefined() || b.Undefined() {
			return Interval{}
		}
		switch n.Op {
		case ir.Add:
			return Interval{
				Min: &ir.BinExpr{Op: ir.Add, Typ: n.Typ, A: a.Min, B: b.Min},
				Max: &ir.BinExpr{Op: ir.Add, Typ: n.Typ, A: a.Max, B: b.Max},
			}
		case ir.Sub:
			return Interval{
				Min: &ir.BinExpr{Op: ir.Sub, Typ: n.Typ, A: a.Min, B: b.Max},
				Max: &ir.BinExpr{Op: ir.Sub, Typ: n.Typ, A: a.Max, B: b.Min},
			}
		case ir.Mul:
			return intervalMul(n.Typ, a, b)
		case ir.Div:
			if imm, ok := n.B.(*ir.IntImm); ok && imm.Value > 0 {
				return Interval{
					Min: &ir.BinExpr{Op: ir.Div, Typ: n.Typ, A: a.Min, B: b.Min},
					Max: &ir.BinExpr{Op: ir.Div, Typ: n.Typ, A: a.Max, B: b.Max},
				}
			}
			return Interval{}
		case ir.Mod:
			if imm, ok := n.B.(*ir.IntImm); ok && imm.Value > 0 {
				return Interval{
					Min: &ir.IntImm{Typ: n.Typ, Value: 0},
					Max: &ir.IntImm{Typ: n.Typ, Value: imm.Value - 1},
				}
			}
			return Interval{}
		}
		return Interval{}
	case *ir.Min:
		a, b := OfExpr(n.A, sc), OfExpr(n.B, sc)
		if a.Undefined() || b.Undefined() {
			return Interval{}
		}
		return Interval{
			Min: &ir.Min{Typ: n.Typ, A: a.Min, B: b.Min},
			Max: &ir.Min{Typ: n.Typ, A: a.Max, B: b.Max},
		}
	case *ir.Max:
		a, b := OfExpr(n.A, sc), OfExpr(n.B, sc)
		if a.Undefined() || b.Undefined() {
			return Interval{}
		}
		return Interval{
			Min: &ir.Max{Typ: n.Typ, A: a.Min, B: b.Min},
			Max: &ir.Max{Typ: n.Typ, A: a.Max, B: b.Max},
		}
	case *ir.Select:
		t, f := OfExpr(n.True, sc), OfExpr(n.False, sc)
		if t.Undefined() || f.Undefined() {
			return Interval{}
		}
		return union(t, f)
	case *ir.Let:
		v := OfExpr(n.Value, sc)
		inner := sc.Push()
		inner.Set(n.Name, v)
		return OfExpr(n.Body, inner)
	default:
		// Load, Call, Ramp, Broadcast and logical operators do not occur
		// as coordinate expressions in this domain; treat conservatively
		// as a single unknown point rather than panicking, since a caller
		// may still be able to make progress with a degenerate region.
		return point(e)
	}
}

// intervalMul computes the interval product of a and b by evaluating the
// four corner products and taking their pointwise extrema.
func intervalMul(typ ir.Type, a, b Interval) Interval {
	corners := [4]ir.Expr{
		&ir.BinExpr{Op: ir.Mul, Typ: typ, A: a.Min, B: b.Min},
		&ir.BinExpr{Op: ir.Mul, Typ: typ, A: a.Min, B: b.Max},
		&ir.BinExpr{Op: ir.Mul, Typ: typ, A: a.Max, B: b.Min},
		&ir.BinExpr{Op: ir.Mul, Typ: typ, A: a.Max, B: b.Max},
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = &ir.Min{Typ: typ, A: lo, B: c}
		hi = &ir.Max{Typ: typ, A: hi, B: c}
	}
	return Interval{Min: lo, Max: hi}
}
