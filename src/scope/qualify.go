package scope

import "halide/src/ir"

// qualifyMutator renames every non-parameter Variable and every Let name by
// prepending prefix, grounded verbatim on original_source/cpp/src/Lower.cpp's
// QualifyExpr (§4.2).
type qualifyMutator struct {
	ir.BaseMutator
	prefix string
}

func (m *qualifyMutator) MutateExpr(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case *ir.Variable:
		if n.IsParam() {
			return n
		}
		return &ir.Variable{Typ: n.Typ, Name: m.prefix + n.Name, Reduction: n.Reduction}
	case *ir.Let:
		value := m.MutateExpr(n.Value)
		body := m.MutateExpr(n.Body)
		return &ir.Let{Name: m.prefix + n.Name, Value: value, Body: body}
	default:
		return m.BaseMutator.MutateExpr(e)
	}
}

// QualifyExpr renames every non-parameter Variable v in e to prefix+v.Name,
// and renames every Let similarly (§4.2). Used to move a function's body
// from its local variable namespace into the qualified namespace the
// surrounding loop nest uses.
func QualifyExpr(prefix string, e ir.Expr) ir.Expr {
	m := &qualifyMutator{prefix: prefix}
	m.Self = m
	return m.MutateExpr(e)
}

// QualifyExprs qualifies every Expr in es with the same prefix, preserving order.
func QualifyExprs(prefix string, es []ir.Expr) []ir.Expr {
	out := make([]ir.Expr, len(es))
	for i, e := range es {
		out[i] = QualifyExpr(prefix, e)
	}
	return out
}
