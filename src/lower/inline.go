package lower

import (
	"halide/src/function"
	"halide/src/ir"
	"halide/src/scope"
)

// inlineMutator rewrites every Call to func.Name into func's substituted
// body, grounded on original_source/cpp/src/Lower.cpp's InlineFunction
// (§4.6).
type inlineMutator struct {
	ir.BaseMutator
	f *function.Function
}

func (m *inlineMutator) MutateExpr(e ir.Expr) ir.Expr {
	call, ok := e.(*ir.Call)
	if !ok || call.Name != m.f.Name {
		return m.BaseMutator.MutateExpr(e)
	}

	args := make([]ir.Expr, len(call.Args))
	for i, a := range call.Args {
		args[i] = m.MutateExpr(a)
	}

	body := scope.QualifyExpr(m.f.Name+".", m.f.Value)

	// Ordering of Lets: outermost = first argument (§4.6).
	for i := len(args) - 1; i >= 0; i-- {
		body = &ir.Let{Name: m.f.Name + "." + m.f.Args[i], Value: args[i], Body: body}
	}
	return body
}

// InlineFunction rewrites every Call(f.Name, args, Halide, f) in s to
// f's substituted body, one Let per argument with the first argument
// outermost (§4.6).
func InlineFunction(f *function.Function, s ir.Stmt) ir.Stmt {
	m := &inlineMutator{f: f}
	m.Self = m
	return m.MutateStmt(s)
}
