package bounds

import (
	"halide/src/ir"
	"halide/src/scope"
)

// regionWalker is an ir.Visitor that accumulates, per buffer name, the
// union of Intervals touched in each dimension. It is used for both
// regions_required (reads only) and regions_touched (reads + writes),
// selected by the includeWrites flag.
type regionWalker struct {
	ir.BaseVisitor
	sc            *scope.Scope[Interval]
	includeWrites bool
	regions       map[string][]Interval
}

func newRegionWalker(outer *scope.Scope[Interval], includeWrites bool) *regionWalker {
	w := &regionWalker{sc: outer, includeWrites: includeWrites, regions: make(map[string][]Interval)}
	w.Self = w
	return w
}

func (w *regionWalker) record(name string, dims []ir.Expr) {
	existing := w.regions[name]
	if existing == nil {
		existing = make([]Interval, len(dims))
	}
	for i, d := range dims {
		iv := OfExpr(d, w.sc)
		existing[i] = union(existing[i], iv)
	}
	w.regions[name] = existing
}

func (w *regionWalker) VisitExpr(e ir.Expr) {
	switch n := e.(type) {
	case *ir.Call:
		if n.CallType == ir.Halide || n.CallType == ir.Image {
			w.record(n.Name, n.Args)
		}
		w.BaseVisitor.VisitExpr(e)
	case *ir.Load:
		w.record(n.Buffer, []ir.Expr{n.Index})
		w.BaseVisitor.VisitExpr(e)
	case *ir.Let:
		v := OfExpr(n.Value, w.sc)
		saved := w.sc
		w.sc = w.sc.Push()
		w.sc.Set(n.Name, v)
		w.BaseVisitor.VisitExpr(e)
		w.sc = saved
	default:
		w.BaseVisitor.VisitExpr(e)
	}
}

func (w *regionWalker) VisitStmt(s ir.Stmt) {
	switch n := s.(type) {
	case *ir.For:
		lo := OfExpr(n.Min, w.sc)
		ext := OfExpr(n.Extent, w.sc)
		var iv Interval
		if !lo.Undefined() && !ext.Undefined() {
			iv = Interval{
				Min: lo.Min,
				Max: &ir.BinExpr{Op: ir.Sub, Typ: ir.Int32,
					A: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: lo.Max, B: ext.Max},
					B: &ir.IntImm{Typ: ir.Int32, Value: 1}},
			}
		}
		saved := w.sc
		w.sc = w.sc.Push()
		w.sc.Set(n.Name, iv)
		w.VisitExpr(n.Min)
		w.VisitExpr(n.Extent)
		w.VisitStmt(n.Body)
		w.sc = saved
	case *ir.LetStmt:
		v := OfExpr(n.Value, w.sc)
		w.VisitExpr(n.Value)
		saved := w.sc
		w.sc = w.sc.Push()
		w.sc.Set(n.Name, v)
		w.VisitStmt(n.Body)
		w.sc = saved
	case *ir.Provide:
		if w.includeWrites {
			w.record(n.Buffer, n.Site)
		}
		w.BaseVisitor.VisitStmt(s)
	case *ir.Store:
		if w.includeWrites {
			w.record(n.Buffer, []ir.Expr{n.Index})
		}
		w.BaseVisitor.VisitStmt(s)
	default:
		w.BaseVisitor.VisitStmt(s)
	}
}

// toBounds converts the accumulated per-dimension Intervals into the
// (min, extent) pairs spec.md §4.3 describes. An Undefined Interval for any
// dimension means bounds analysis could not bound that dimension: the
// caller (a nil Min/Extent in the returned ir.Bound) must detect this and
// fail with a clear diagnostic rather than silently emitting an unbounded
// Realize (§4.3 failure mode, §7 "Unbounded access").
func toBounds(regions map[string][]Interval) map[string][]ir.Bound {
	out := make(map[string][]ir.Bound, len(regions))
	for name, ivs := range regions {
		bs := make([]ir.Bound, len(ivs))
		for i, iv := range ivs {
			if iv.Undefined() {
				continue // bs[i] stays the zero Bound{nil,nil}: "undefined" (§4.3)
			}
			bs[i] = ir.Bound{
				Min: iv.Min,
				Extent: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32,
					A: &ir.BinExpr{Op: ir.Sub, Typ: ir.Int32, A: iv.Max, B: iv.Min},
					B: &ir.IntImm{Typ: ir.Int32, Value: 1}},
			}
		}
		out[name] = bs
	}
	return out
}

// RegionsRequired reports, per buffer, the rectangular region *read* under
// stmt, given the Intervals of free variables already in scope (§4.3).
func RegionsRequired(stmt ir.Stmt, sc *scope.Scope[Interval]) map[string][]ir.Bound {
	w := newRegionWalker(sc, false)
	w.VisitStmt(stmt)
	return toBounds(w.regions)
}

// RegionsTouched reports, per buffer, the rectangular region read OR
// written under stmt (§4.3).
func RegionsTouched(stmt ir.Stmt, sc *scope.Scope[Interval]) map[string][]ir.Bound {
	w := newRegionWalker(sc, true)
	w.VisitStmt(stmt)
	return toBounds(w.regions)
}

// IsBounded reports whether every dimension of bounds has both a Min and
// an Extent Expr, i.e. bounds analysis did not hit the unbounded failure
// mode of §4.3.
func IsBounded(bounds []ir.Bound) bool {
	for _, b := range bounds {
		if b.Min == nil || b.Extent == nil {
			return false
		}
	}
	return true
}
