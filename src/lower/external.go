package lower

import (
	"halide/src/function"
	"halide/src/ir"
)

// Pass is the signature shared by every external pass named in §9: each
// takes and returns a Stmt, so passes compose by simple function
// application in Lower.
type Pass func(ir.Stmt) ir.Stmt

// Passes collects the eight passes spec.md describes only by contract
// (tracing injection, bounds inference, sliding window, storage
// flattening, simplification, vectorization, unrolling, dead-let removal).
// Lower takes a Passes value so a real backend can supply live
// implementations of each; Identity builds the set this repo ships,
// which runs the pipeline end to end as a no-op for all eight.
type Passes struct {
	InjectTracing     Pass
	BoundsInference   func(s ir.Stmt, order []string, env map[string]*function.Function) ir.Stmt
	SlidingWindow     func(s ir.Stmt, env map[string]*function.Function) ir.Stmt
	StorageFlattening Pass
	Simplify          Pass
	VectorizeLoops    Pass
	UnrollLoops       Pass
	RemoveDeadLets    Pass
}

func identity(s ir.Stmt) ir.Stmt { return s }

// Identity returns the Passes set this repo ships: every pass is the
// identity function, since bounds inference, sliding window optimization,
// storage flattening, simplification, vectorization, unrolling, tracing
// and dead-let removal are all named in spec.md as external collaborators
// described only by contract (§6, §9).
func Identity() Passes {
	return Passes{
		InjectTracing:     identity,
		BoundsInference:   func(s ir.Stmt, order []string, env map[string]*function.Function) ir.Stmt { return s },
		SlidingWindow:     func(s ir.Stmt, env map[string]*function.Function) ir.Stmt { return s },
		StorageFlattening: identity,
		Simplify:          identity,
		VectorizeLoops:    identity,
		UnrollLoops:       identity,
		RemoveDeadLets:    identity,
	}
}
