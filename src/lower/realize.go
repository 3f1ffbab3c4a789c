// Package lower implements the lowering pipeline (§2, §4.4-4.8 of
// spec.md): turning a Function + Schedule into the imperative Stmt IR
// ready for backend code generation.
package lower

import (
	"halide/src/function"
	"halide/src/ir"
	"halide/src/scope"
)

// v returns an Int32 Variable reference named name — a small constructor
// used throughout this file to keep the loop-nest-building code readable,
// grounded on the teacher's habit of one-line helper constructors (e.g.
// util.NewLabel) rather than repeating struct literals.
func v(name string) *ir.Variable { return &ir.Variable{Typ: ir.Int32, Name: name} }

func imm(n int64) *ir.IntImm { return &ir.IntImm{Typ: ir.Int32, Value: n} }

// BuildProvideLoopNest builds a loop nest about a Provide node using a
// Schedule, from the inside out (§4.4):
//  1. start with Provide(buffer, value, site);
//  2. for each split, in declaration order, wrap with a LetStmt binding the
//     pre-split variable in terms of outer/inner;
//  3. wrap with one For per dim, inner-to-outer;
//  4. in reverse split order, bind each inner's .min=0/.extent=factor and
//     each outer's .min=0/.extent=ceil_div(old.extent, factor).
//
// NOTE (open question, SPEC_FULL.md §Open Question decisions): the split
// Let bindings introduced in step 2 are emitted *before* the For loops of
// step 3, while the inner/outer .min/.extent bindings of step 4 are bound
// *after* those same For loops. This ordering is only sound if later passes
// (Simplify, BoundsInference) never hoist a binding across this boundary;
// this is carried over unchanged from the original Lower.cpp and is flagged,
// not fixed, here.
func BuildProvideLoopNest(buffer, prefix string, site []ir.Expr, value ir.Expr, s function.Schedule) ir.Stmt {
	var stmt ir.Stmt = &ir.Provide{Buffer: buffer, Value: value, Site: site}

	// Step 2: define the function args in terms of the loop variables
	// using the splits.
	for _, sp := range s.Splits {
		inner := v(prefix + sp.Inner)
		outer := v(prefix + sp.Outer)
		oldMin := v(prefix + sp.OldVar + ".min")
		value := &ir.BinExpr{Op: ir.Add, Typ: ir.Int32,
			A: &ir.BinExpr{Op: ir.Mul, Typ: ir.Int32, A: outer, B: imm(int64(sp.Factor))},
			B: inner,
		}
		value = &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: value, B: oldMin}
		stmt = &ir.LetStmt{Name: prefix + sp.OldVar, Value: value, Body: stmt}
	}

	// Step 3: build the loop nest, inner-to-outer.
	for _, dim := range s.Dims {
		min := v(prefix + dim.Var + ".min")
		extent := v(prefix + dim.Var + ".extent")
		stmt = &ir.For{Name: prefix + dim.Var, Min: min, Extent: extent, Typ: dim.Typ, Body: stmt}
	}

	// Step 4: define the bounds on the split dimensions, in reverse split
	// order.
	for i := len(s.Splits) - 1; i >= 0; i-- {
		sp := s.Splits[i]
		oldExtent := v(prefix + sp.OldVar + ".extent")
		innerExtent := imm(int64(sp.Factor))
		outerExtent := ceilDiv(oldExtent, imm(int64(sp.Factor)))
		stmt = &ir.LetStmt{Name: prefix + sp.Inner + ".min", Value: imm(0), Body: stmt}
		stmt = &ir.LetStmt{Name: prefix + sp.Inner + ".extent", Value: innerExtent, Body: stmt}
		stmt = &ir.LetStmt{Name: prefix + sp.Outer + ".min", Value: imm(0), Body: stmt}
		stmt = &ir.LetStmt{Name: prefix + sp.Outer + ".extent", Value: outerExtent, Body: stmt}
	}

	return stmt
}

// ceilDiv builds the Expr (a + b - 1) / b.
func ceilDiv(a, b ir.Expr) ir.Expr {
	return &ir.BinExpr{Op: ir.Div, Typ: ir.Int32,
		A: &ir.BinExpr{Op: ir.Sub, Typ: ir.Int32,
			A: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: a, B: b},
			B: imm(1),
		},
		B: b,
	}
}

// BuildRealization turns f into a loop nest that computes it, referring to
// external vars of the form f.name.arg_name.min / .extent to define the
// bounds over which it should be realized (§4.4).
func BuildRealization(f *function.Function) ir.Stmt {
	prefix := f.Name + "."

	site := make([]ir.Expr, len(f.Args))
	for i := range f.Args {
		site[i] = f.QualifiedVariable(i)
	}
	value := scope.QualifyExpr(prefix, f.Value)

	return BuildProvideLoopNest(f.Name, prefix, site, value, f.Schedule)
}

// BuildReductionUpdate builds the loop nest that updates f, assuming f is a
// reduction; returns nil if it is not (§4.4).
func BuildReductionUpdate(f *function.Function) ir.Stmt {
	if !f.IsReduction() {
		return nil
	}

	prefix := f.Name + "."
	site := scope.QualifyExprs(prefix, f.ReductionArgs)
	value := scope.QualifyExpr(prefix, f.ReductionValue)

	loop := BuildProvideLoopNest(f.Name, prefix, site, value, f.UpdateSchedule())

	for _, rv := range f.ReductionDom.Domain {
		p := prefix + rv.Var
		loop = &ir.LetStmt{Name: p + ".min", Value: rv.Min, Body: loop}
		loop = &ir.LetStmt{Name: p + ".extent", Value: rv.Extent, Body: loop}
	}

	return loop
}

// InjectExplicitBounds wraps body in the AssertStmts and LetStmts that
// enforce the Schedule's explicit Bounds: the user's declared bound must
// cover the inferred [min, min+extent) region, and the declared value wins
// once asserted (§4.4).
func InjectExplicitBounds(body ir.Stmt, f *function.Function) ir.Stmt {
	for _, b := range f.Schedule.Bounds {
		minName := f.Name + "." + b.Var + ".min"
		extentName := f.Name + "." + b.Var + ".extent"
		minVar := v(minName)
		extentVar := v(extentName)

		check := &ir.And{Typ: ir.Bool,
			A: &ir.Compare{Op: ir.LE, Typ: ir.Bool, A: b.Min, B: minVar},
			B: &ir.Compare{Op: ir.GE, Typ: ir.Bool,
				A: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: b.Min, B: b.Extent},
				B: &ir.BinExpr{Op: ir.Add, Typ: ir.Int32, A: minVar, B: extentVar},
			},
		}
		msg := "bounds given for " + b.Var + " in " + f.Name + " don't cover required region"

		body = ir.NewBlock(
			&ir.AssertStmt{Cond: check, Message: msg},
			&ir.LetStmt{Name: minName, Value: b.Min,
				Body: &ir.LetStmt{Name: extentName, Value: b.Extent, Body: body}},
		)
	}
	return body
}
