package lower

import (
	"fmt"

	"halide/src/bounds"
	"halide/src/function"
	"halide/src/ir"
	"halide/src/scope"
)

// bufferFinder is an ir.Visitor that collects the distinct externally
// referenced (Image-call) buffer names in a Stmt, in first-seen order,
// grounded on Lower.cpp's FindBuffers (§4.8).
type bufferFinder struct {
	ir.BaseVisitor
	seen  map[string]bool
	order []string
}

func newBufferFinder() *bufferFinder {
	w := &bufferFinder{seen: make(map[string]bool)}
	w.Self = w
	return w
}

func (w *bufferFinder) VisitExpr(e ir.Expr) {
	if c, ok := e.(*ir.Call); ok && c.CallType == ir.Image && !w.seen[c.Name] {
		w.seen[c.Name] = true
		w.order = append(w.order, c.Name)
	}
	w.BaseVisitor.VisitExpr(e)
}

// AddImageChecks wraps s in the assertions that every externally
// referenced buffer (every Image call plus f itself, the pipeline's
// output) has an innermost stride of one and is never accessed outside
// its declared region, grounded on Lower.cpp's add_image_checks (§4.8). It
// fails if any accessed region is unbounded (§4.3/§7 "Unbounded access").
func AddImageChecks(s ir.Stmt, f *function.Function) (ir.Stmt, error) {
	finder := newBufferFinder()
	finder.VisitStmt(s)
	bufs := append(finder.order, f.Name)

	regions := bounds.RegionsTouched(s, scope.NewScope[bounds.Interval]())

	for _, name := range bufs {
		strideVar := name + ".stride.0"
		strideCheck := &ir.Compare{Op: ir.EQ, Typ: ir.Bool, A: v(strideVar), B: imm(1)}
		s = ir.NewBlock(
			&ir.AssertStmt{Cond: strideCheck, Message: "stride on innermost dimension of " + name + " must be one"},
			&ir.LetStmt{Name: strideVar, Value: imm(1), Body: s},
		)

		for j, b := range regions[name] {
			if b.Min == nil || b.Extent == nil {
				return nil, fmt.Errorf("region used of buffer %q is unbounded in dimension %d", name, j)
			}

			actualMin := v(fmt.Sprintf("%s.min.%d", name, j))
			actualExtent := v(fmt.Sprintf("%s.extent.%d", name, j))
			check := &ir.And{Typ: ir.Bool,
				A: &ir.Compare{Op: ir.LE, Typ: ir.Bool, A: actualMin, B: b.Min},
				B: &ir.Compare{Op: ir.GE, Typ: ir.Bool,
					A: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: actualMin, B: actualExtent},
					B: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: b.Min, B: b.Extent},
				},
			}
			s = ir.NewBlock(&ir.AssertStmt{Cond: check, Message: name + " is accessed out of bounds"}, s)
		}
	}

	return s, nil
}
