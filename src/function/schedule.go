// Package function defines the Function/Schedule data model that the
// front end builds and the lowering pipeline consumes (§3.4–3.5). It is
// the Go home of what spec.md calls the front end's output contract.
package function

import "halide/src/ir"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Split replaces OldVar with Outer*Factor + Inner + OldVar.min (§3.5).
type Split struct {
	OldVar string
	Outer  string
	Inner  string
	Factor int
}

// Dim is one loop of a Schedule's loop nest: a variable name and the
// runtime scheduling discipline for its loop. Dims are declared outermost
// last, per §3.5/§4.4.
type Dim struct {
	Var string
	Typ ir.ForType
}

// Bound is a user-asserted explicit bound on a dimension (§3.5).
type Bound struct {
	Var    string
	Min    ir.Expr
	Extent ir.Expr
}

// LoopLevel names a loop of some consumer function by <Func>.<Var>, with
// two sentinel values: Root (meaning "compute/store at the outermost
// scheduling anchor") and Inline (meaning "compute/store at every use
// site," i.e. no realization is injected at all).
type LoopLevel struct {
	Func string
	Var  string
}

// ---------------------
// ----- Constants -----
// ---------------------

// rootFunc/rootVar/inlineFunc/inlineVar are the well-known sentinel names
// encoding Root() and Inline() (§3.5).
const (
	rootFunc   = "<root>"
	rootVar    = "<root>"
	inlineFunc = "<inline>"
	inlineVar  = "<inline>"
)

// ---------------------
// ----- functions -----
// ---------------------

// Root returns the sentinel LoopLevel meaning "realize at the outermost
// scheduling anchor the orchestrator injects".
func Root() LoopLevel { return LoopLevel{Func: rootFunc, Var: rootVar} }

// Inline returns the sentinel LoopLevel meaning "do not realize; inline
// into every call site instead".
func Inline() LoopLevel { return LoopLevel{Func: inlineFunc, Var: inlineVar} }

// IsRoot reports whether l is the Root() sentinel.
func (l LoopLevel) IsRoot() bool { return l.Func == rootFunc && l.Var == rootVar }

// IsInline reports whether l is the Inline() sentinel.
func (l LoopLevel) IsInline() bool { return l.Func == inlineFunc && l.Var == inlineVar }

// Name returns the qualified loop name this LoopLevel matches against a
// For node's Name, e.g. "f.x", or the root sentinel's own synthetic name.
func (l LoopLevel) Name() string {
	return l.Func + "." + l.Var
}

// Match reports whether forName is the loop this LoopLevel names.
func (l LoopLevel) Match(forName string) bool {
	return !l.IsInline() && l.Name() == forName
}

// Schedule orthogonally describes how a Function is computed, relative to
// its own loop nest and (via compute/store level) relative to a consumer's
// loop nest (§3.5).
type Schedule struct {
	Splits       []Split
	Dims         []Dim
	Bounds       []Bound
	ComputeLevel LoopLevel
	StoreLevel   LoopLevel
}

// DefaultSchedule returns the Schedule a newly declared Function has before
// any scheduling directive is applied: inline, in declaration order of its
// arguments as Serial dims, with no splits or explicit bounds.
func DefaultSchedule(args []string) Schedule {
	dims := make([]Dim, len(args))
	// Dims are declared outermost last (§4.4): keeping argument order makes
	// the first argument the innermost loop, matching the common convention
	// that f(x, y) iterates x fastest.
	for i, a := range args {
		dims[i] = Dim{Var: a, Typ: ir.Serial}
	}
	return Schedule{
		Dims:         dims,
		ComputeLevel: Inline(),
		StoreLevel:   Inline(),
	}
}
