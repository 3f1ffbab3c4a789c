package dsl

import (
	"fmt"

	"halide/src/function"
	"halide/src/ir"
)

// Build walks prog and constructs the Function graph it describes,
// grounded on SPEC_FULL.md §10: this is the thin stand-in for the
// "front end that builds Function/Schedule values" spec.md names as an
// external collaborator described only by signature. It returns the
// output Function named outputName, or the last func declared if
// outputName is empty, along with the full environment of every declared
// Function (keyed by name) for callers that want it (e.g. tests,
// lower.PopulateEnvironment).
//
// This surface language is intentionally thin: it has no reduction/update
// syntax (a Function with a non-nil ReductionValue must be constructed
// directly against the function package) and no parameters distinct from pure
// arguments — every identifier in an expression must be one of the
// enclosing func's own Args.
func Build(prog *Program, outputName string) (*function.Function, map[string]*function.Function, error) {
	env := make(map[string]*function.Function)
	var lastName string

	for _, d := range prog.Decls {
		if d.Func == nil {
			continue
		}
		if _, exists := env[d.Func.Name]; exists {
			return nil, nil, fmt.Errorf("dsl: function %q declared more than once", d.Func.Name)
		}
		env[d.Func.Name] = &function.Function{
			Name:     d.Func.Name,
			Args:     append([]string(nil), d.Func.Args...),
			Schedule: function.DefaultSchedule(d.Func.Args),
		}
		lastName = d.Func.Name
	}

	for _, d := range prog.Decls {
		if d.Func == nil {
			continue
		}
		fn := env[d.Func.Name]
		value, err := exprToIR(d.Func.Value, fn.Args, env)
		if err != nil {
			return nil, nil, fmt.Errorf("dsl: building %q: %w", fn.Name, err)
		}
		fn.Value = value
	}

	for _, d := range prog.Decls {
		if d.Schedule == nil {
			continue
		}
		fn, ok := env[d.Schedule.Func]
		if !ok {
			return nil, nil, fmt.Errorf("dsl: schedule names undeclared function %q", d.Schedule.Func)
		}
		if err := applyDirectives(fn, d.Schedule.Directives); err != nil {
			return nil, nil, err
		}
	}

	if outputName == "" {
		outputName = lastName
	}
	out, ok := env[outputName]
	if !ok {
		return nil, nil, fmt.Errorf("dsl: output function %q not declared", outputName)
	}
	return out, env, nil
}

func applyDirectives(fn *function.Function, directives []*Directive) error {
	for _, d := range directives {
		switch {
		case d.StoreAt != nil:
			fn.Schedule.StoreLevel = levelOf(d.StoreAt)
		case d.ComputeAt != nil:
			fn.Schedule.ComputeLevel = levelOf(d.ComputeAt)
		case d.Split != nil:
			fn.Schedule.Splits = append(fn.Schedule.Splits, function.Split{
				OldVar: d.Split.OldVar, Outer: d.Split.Outer, Inner: d.Split.Inner, Factor: d.Split.Factor,
			})
		case d.Bound != nil:
			min, err := exprToIR(d.Bound.Min, fn.Args, nil)
			if err != nil {
				return fmt.Errorf("dsl: bound %s of %q: %w", d.Bound.Var, fn.Name, err)
			}
			extent, err := exprToIR(d.Bound.Extent, fn.Args, nil)
			if err != nil {
				return fmt.Errorf("dsl: bound %s of %q: %w", d.Bound.Var, fn.Name, err)
			}
			fn.Schedule.Bounds = append(fn.Schedule.Bounds, function.Bound{Var: d.Bound.Var, Min: min, Extent: extent})
		case d.Parallel != "":
			setDimType(&fn.Schedule, d.Parallel, ir.Parallel)
		case d.Vectorize != "":
			setDimType(&fn.Schedule, d.Vectorize, ir.Vectorized)
		case d.Unroll != "":
			setDimType(&fn.Schedule, d.Unroll, ir.Unrolled)
		}
	}
	return nil
}

func setDimType(s *function.Schedule, varName string, typ ir.ForType) {
	for i := range s.Dims {
		if s.Dims[i].Var == varName {
			s.Dims[i].Typ = typ
			return
		}
	}
}

func levelOf(l *LevelRef) function.LoopLevel {
	switch {
	case l.Root:
		return function.Root()
	case l.Inline:
		return function.Inline()
	default:
		return function.LoopLevel{Func: l.Qual.Func, Var: l.Qual.Var}
	}
}

// exprToIR lowers a parsed Expr into an ir.Expr. args is the set of names
// that resolve to this func's own arguments; env (may be nil, e.g. while
// building a schedule's Bound expressions, which cannot reference other
// functions) resolves Calls to other declared Functions.
func exprToIR(e *Expr, args []string, env map[string]*function.Function) (ir.Expr, error) {
	result, err := termToIR(e.Left, args, env)
	if err != nil {
		return nil, err
	}
	for _, cont := range e.Rest {
		rhs, err := termToIR(cont.Term, args, env)
		if err != nil {
			return nil, err
		}
		op := ir.Add
		if cont.Op == "-" {
			op = ir.Sub
		}
		result = &ir.BinExpr{Op: op, Typ: ir.Int32, A: result, B: rhs}
	}
	return result, nil
}

func termToIR(t *Term, args []string, env map[string]*function.Function) (ir.Expr, error) {
	result, err := factorToIR(t.Left, args, env)
	if err != nil {
		return nil, err
	}
	for _, cont := range t.Rest {
		rhs, err := factorToIR(cont.Factor, args, env)
		if err != nil {
			return nil, err
		}
		var op ir.BinOp
		switch cont.Op {
		case "*":
			op = ir.Mul
		case "/":
			op = ir.Div
		default:
			op = ir.Mod
		}
		result = &ir.BinExpr{Op: op, Typ: ir.Int32, A: result, B: rhs}
	}
	return result, nil
}

func factorToIR(f *Factor, args []string, env map[string]*function.Function) (ir.Expr, error) {
	switch {
	case f.Neg != nil:
		inner, err := factorToIR(f.Neg, args, env)
		if err != nil {
			return nil, err
		}
		return &ir.BinExpr{Op: ir.Sub, Typ: ir.Int32, A: &ir.IntImm{Typ: ir.Int32, Value: 0}, B: inner}, nil
	case f.Call != nil:
		callArgs := make([]ir.Expr, len(f.Call.Args))
		for i, a := range f.Call.Args {
			v, err := exprToIR(a, args, env)
			if err != nil {
				return nil, err
			}
			callArgs[i] = v
		}
		if callee, ok := env[f.Call.Name]; ok {
			return &ir.Call{Typ: ir.Int32, Name: callee.Name, Args: callArgs, CallType: ir.Halide, Func: callee}, nil
		}
		return &ir.Call{Typ: ir.Int32, Name: f.Call.Name, Args: callArgs, CallType: ir.Extern}, nil
	case f.Ident != "":
		for _, a := range args {
			if a == f.Ident {
				return &ir.Variable{Typ: ir.Int32, Name: f.Ident}, nil
			}
		}
		return nil, fmt.Errorf("undefined identifier %q", f.Ident)
	case f.Int != nil:
		return &ir.IntImm{Typ: ir.Int32, Value: *f.Int}, nil
	case f.Sub != nil:
		return exprToIR(f.Sub, args, env)
	}
	return nil, fmt.Errorf("empty factor")
}
