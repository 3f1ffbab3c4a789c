package function

import "halide/src/ir"

// ReductionVariable is one dimension of a ReductionDomain: a named
// variable ranging over [Min, Min+Extent) (§3.4).
type ReductionVariable struct {
	Var    string
	Min    ir.Expr
	Extent ir.Expr
}

// ReductionDomain is the ordered list of ReductionVariables a reduction
// update iterates over.
type ReductionDomain struct {
	Domain []ReductionVariable
}

// Function is a named, pure definition f(Args) = Value, optionally
// augmented with a reduction update (§3.4).
type Function struct {
	Name string
	Args []string
	Value ir.Expr

	// Reduction part; ReductionValue == nil means f is not a reduction.
	ReductionArgs  []ir.Expr
	ReductionValue ir.Expr
	ReductionDom   *ReductionDomain

	Schedule Schedule

	// ReductionSchedule is used for the update step when set; otherwise
	// the update step shares Schedule (§3.4, open question in §9).
	ReductionSchedule *Schedule
}

// IsReduction reports whether f has an update definition.
func (f *Function) IsReduction() bool {
	return f.ReductionValue != nil
}

// UpdateSchedule returns the Schedule the update step should use: the
// dedicated ReductionSchedule if one was set, else the pure Schedule.
func (f *Function) UpdateSchedule() Schedule {
	if f.ReductionSchedule != nil {
		return *f.ReductionSchedule
	}
	return f.Schedule
}

// Variable returns a reference to this Function's i'th pure argument in
// its own (unqualified) local namespace, e.g. Variable(0) for f(x, y)
// returns a Variable named "x".
func (f *Function) Variable(i int) *ir.Variable {
	return &ir.Variable{Typ: ir.Int32, Name: f.Args[i]}
}

// QualifiedVariable returns a reference to this Function's i'th argument
// in the *qualified* namespace the surrounding loop nest uses, e.g.
// "f.x" (§4.2).
func (f *Function) QualifiedVariable(i int) *ir.Variable {
	return &ir.Variable{Typ: ir.Int32, Name: f.Name + "." + f.Args[i]}
}
