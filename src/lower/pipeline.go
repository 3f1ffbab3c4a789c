package lower

import (
	"fmt"
	"sort"

	"halide/src/diag"
	"halide/src/function"
	"halide/src/ir"
)

// callFinder is an ir.Visitor that collects the distinct Halide Functions
// called from an Expr, grounded on Lower.cpp's FindCalls (§4.7).
type callFinder struct {
	ir.BaseVisitor
	calls map[string]*function.Function
}

func newCallFinder() *callFinder {
	w := &callFinder{calls: make(map[string]*function.Function)}
	w.Self = w
	return w
}

func (w *callFinder) VisitExpr(e ir.Expr) {
	if c, ok := e.(*ir.Call); ok && c.CallType == ir.Halide {
		if fn, ok := c.Func.(*function.Function); ok {
			w.calls[c.Name] = fn
		}
	}
	w.BaseVisitor.VisitExpr(e)
}

func findCalls(e ir.Expr) map[string]*function.Function {
	w := newCallFinder()
	w.VisitExpr(e)
	return w.calls
}

// PopulateEnvironment walks f's definition (and, if present, its
// reduction update) collecting every Function it calls, transitively when
// recursive is true, into env, grounded on Lower.cpp's populate_environment
// (§4.7). A non-recursive call only records f's own immediate callees (f
// itself appears only if f calls itself, as a reduction update can), which
// RealizationOrder relies on to build the call graph.
func PopulateEnvironment(f *function.Function, env map[string]*function.Function, recursive bool) {
	if _, ok := env[f.Name]; ok {
		return
	}

	calls := findCalls(f.Value)
	if f.IsReduction() {
		for name, fn := range findCalls(f.ReductionValue) {
			calls[name] = fn
		}
		for _, a := range f.ReductionArgs {
			for name, fn := range findCalls(a) {
				calls[name] = fn
			}
		}
	}

	if !recursive {
		for name, fn := range calls {
			env[name] = fn
		}
		return
	}

	env[f.Name] = f
	for _, callee := range calls {
		PopulateEnvironment(callee, env, true)
	}
}

// RealizationOrder computes a topological order over env's call graph
// ending at output, grounded on Lower.cpp's realization_order (§4.7). It
// iterates env in a fixed, name-sorted order each pass so the result is
// deterministic across runs.
func RealizationOrder(output string, env map[string]*function.Function) ([]string, error) {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	graph := make(map[string]map[string]bool, len(env))
	for _, name := range names {
		calls := make(map[string]*function.Function)
		PopulateEnvironment(env[name], calls, false)
		inputs := make(map[string]bool, len(calls))
		for callee := range calls {
			inputs[callee] = true
		}
		graph[name] = inputs
	}

	var result []string
	scheduled := make(map[string]bool, len(env))

	for {
		scheduledSomething := false
		for _, name := range names {
			if scheduled[name] {
				continue
			}
			goodToSchedule := true
			for input := range graph[name] {
				if input != name && !scheduled[input] {
					goodToSchedule = false
					break
				}
			}
			if !goodToSchedule {
				continue
			}
			scheduledSomething = true
			scheduled[name] = true
			result = append(result, name)
			if name == output {
				return result, nil
			}
		}
		if !scheduledSomething {
			return nil, fmt.Errorf("%w: stuck computing a realization order, pipeline has a cycle", ErrMalformedSchedule)
		}
	}
}

// CreateInitialLoopNest builds the starting Stmt for f before any other
// function's realization has been injected: its own production loop nest,
// its reduction update if any, and its explicit bounds assertions (§4.7).
func CreateInitialLoopNest(f *function.Function) ir.Stmt {
	s := BuildRealization(f)
	if f.IsReduction() {
		s = ir.NewBlock(s, BuildReductionUpdate(f))
	}
	return InjectExplicitBounds(s, f)
}

// ScheduleFunctions walks order in reverse (excluding the output itself,
// which is already realized by CreateInitialLoopNest), inlining or
// injecting a realization for each Function per its Schedule, grounded on
// Lower.cpp's schedule_functions (§4.7). Reductions whose compute level is
// still Inline default to Root, since an inlined reduction has nowhere to
// accumulate state between update steps.
func ScheduleFunctions(s ir.Stmt, order []string, env map[string]*function.Function) (ir.Stmt, error) {
	s = &ir.For{Name: function.Root().Name(), Min: imm(0), Extent: imm(1), Typ: ir.Serial, Body: s}

	for i := len(order) - 1; i > 0; i-- {
		f := env[order[i-1]]

		if f.IsReduction() && f.Schedule.ComputeLevel.IsInline() {
			f.Schedule.ComputeLevel = function.Root()
			f.Schedule.StoreLevel = function.Root()
		}

		if f.Schedule.ComputeLevel.IsInline() {
			s = InlineFunction(f, s)
			continue
		}

		out, err := InjectRealization(f, s)
		if err != nil {
			return nil, err
		}
		s = out
	}

	root, ok := s.(*ir.For)
	if !ok || root.Name != function.Root().Name() {
		return nil, fmt.Errorf("%w: root scheduling loop was lost while injecting realizations", ErrMalformedSchedule)
	}
	return root.Body, nil
}

// Lower runs the full pipeline described in spec.md §2 on f: build the
// environment and realization order, create the initial loop nest,
// schedule every other function's realization or inlining into it, then
// run the eight external passes named in §9 (identity no-ops unless p
// supplies live implementations). logger receives the same pass-boundary
// narration Lower.cpp's log(1)/log(2) calls do; pass diag.Noop{} to
// silence it entirely.
func Lower(f *function.Function, p Passes, logger diag.Logger) (ir.Stmt, error) {
	env := make(map[string]*function.Function)
	PopulateEnvironment(f, env, true)

	order, err := RealizationOrder(f.Name, env)
	if err != nil {
		return nil, err
	}

	s := CreateInitialLoopNest(f)
	logger.Logf(2, "initial statement:\n%s", ir.PrintStmt(s, 0))

	s, err = ScheduleFunctions(s, order, env)
	if err != nil {
		return nil, err
	}
	logger.Logf(2, "all realizations injected:\n%s", ir.PrintStmt(s, 0))

	logger.Logf(1, "injecting tracing")
	s = p.InjectTracing(s)
	logger.Logf(2, "tracing injected:\n%s", ir.PrintStmt(s, 0))

	logger.Logf(1, "adding checks for images")
	s, err = AddImageChecks(s, f)
	if err != nil {
		return nil, err
	}
	logger.Logf(2, "image checks injected:\n%s", ir.PrintStmt(s, 0))

	logger.Logf(1, "performing bounds inference")
	s = p.BoundsInference(s, order, env)
	logger.Logf(2, "bounds inference:\n%s", ir.PrintStmt(s, 0))
	logger.Logf(1, "performing sliding window optimization")
	s = p.SlidingWindow(s, env)
	logger.Logf(2, "sliding window:\n%s", ir.PrintStmt(s, 0))
	logger.Logf(1, "performing storage flattening")
	s = p.StorageFlattening(s)
	logger.Logf(2, "storage flattening:\n%s", ir.PrintStmt(s, 0))
	logger.Logf(1, "simplifying")
	s = p.Simplify(s)
	logger.Logf(2, "simplified:\n%s", ir.PrintStmt(s, 0))
	logger.Logf(1, "vectorizing")
	s = p.VectorizeLoops(s)
	logger.Logf(2, "vectorized:\n%s", ir.PrintStmt(s, 0))
	logger.Logf(1, "unrolling")
	s = p.UnrollLoops(s)
	logger.Logf(2, "unrolled:\n%s", ir.PrintStmt(s, 0))
	logger.Logf(1, "simplifying")
	s = p.Simplify(s)
	s = p.RemoveDeadLets(s)
	logger.Logf(1, "lowered statement:\n%s", ir.PrintStmt(s, 0))

	return s, nil
}
