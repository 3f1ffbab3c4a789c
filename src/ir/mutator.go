package ir

// Mutator is a Visitor that returns a (possibly new) node for every node it
// visits. A Mutator that does not touch a node at all must return that
// exact node back (reference-equal), so callers can tell whether a subtree
// changed; BaseMutator's default implementation satisfies this by only
// allocating a replacement node when at least one child actually changed
// (§4.1). A pass overrides just the node kinds it cares about and embeds
// BaseMutator (via Self) for everything else — this makes the default
// mutator the identity transform, as §4.1 requires.
type Mutator interface {
	MutateExpr(e Expr) Expr
	MutateStmt(s Stmt) Stmt
}

// BaseMutator is the identity Mutator: MutateExpr/MutateStmt recurse into
// every child and rebuild the node only if a child changed.
type BaseMutator struct {
	Self Mutator // set to the embedding Mutator so overrides are honored during recursion
}

func (m *BaseMutator) self() Mutator {
	if m.Self != nil {
		return m.Self
	}
	return m
}

// MutateExpr implements the default (identity-preserving) traversal over Expr.
func (m *BaseMutator) MutateExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	self := m.self()
	switch n := e.(type) {
	case *IntImm, *FloatImm:
		return n
	case *Variable:
		return n
	case *Cast:
		v := self.MutateExpr(n.Value)
		if v == n.Value {
			return n
		}
		return &Cast{Typ: n.Typ, Value: v}
	case *BinExpr:
		a, b := self.MutateExpr(n.A), self.MutateExpr(n.B)
		if a == n.A && b == n.B {
			return n
		}
		return &BinExpr{Op: n.Op, Typ: n.Typ, A: a, B: b}
	case *Min:
		a, b := self.MutateExpr(n.A), self.MutateExpr(n.B)
		if a == n.A && b == n.B {
			return n
		}
		return &Min{Typ: n.Typ, A: a, B: b}
	case *Max:
		a, b := self.MutateExpr(n.A), self.MutateExpr(n.B)
		if a == n.A && b == n.B {
			return n
		}
		return &Max{Typ: n.Typ, A: a, B: b}
	case *Compare:
		a, b := self.MutateExpr(n.A), self.MutateExpr(n.B)
		if a == n.A && b == n.B {
			return n
		}
		return &Compare{Op: n.Op, Typ: n.Typ, A: a, B: b}
	case *And:
		a, b := self.MutateExpr(n.A), self.MutateExpr(n.B)
		if a == n.A && b == n.B {
			return n
		}
		return &And{Typ: n.Typ, A: a, B: b}
	case *Or:
		a, b := self.MutateExpr(n.A), self.MutateExpr(n.B)
		if a == n.A && b == n.B {
			return n
		}
		return &Or{Typ: n.Typ, A: a, B: b}
	case *Not:
		x := self.MutateExpr(n.X)
		if x == n.X {
			return n
		}
		return &Not{Typ: n.Typ, X: x}
	case *Select:
		c, t, f := self.MutateExpr(n.Cond), self.MutateExpr(n.True), self.MutateExpr(n.False)
		if c == n.Cond && t == n.True && f == n.False {
			return n
		}
		return &Select{Typ: n.Typ, Cond: c, True: t, False: f}
	case *Load:
		idx := self.MutateExpr(n.Index)
		if idx == n.Index {
			return n
		}
		return &Load{Typ: n.Typ, Buffer: n.Buffer, Index: idx}
	case *Ramp:
		base, stride := self.MutateExpr(n.Base), self.MutateExpr(n.Stride)
		if base == n.Base && stride == n.Stride {
			return n
		}
		return &Ramp{Typ: n.Typ, Base: base, Stride: stride, Lanes: n.Lanes}
	case *Broadcast:
		v := self.MutateExpr(n.Value)
		if v == n.Value {
			return n
		}
		return &Broadcast{Typ: n.Typ, Value: v, Lanes: n.Lanes}
	case *Call:
		changed := false
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = self.MutateExpr(a)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return n
		}
		return &Call{Typ: n.Typ, Name: n.Name, Args: args, CallType: n.CallType, Func: n.Func}
	case *Let:
		v, b := self.MutateExpr(n.Value), self.MutateExpr(n.Body)
		if v == n.Value && b == n.Body {
			return n
		}
		return &Let{Name: n.Name, Value: v, Body: b}
	default:
		panic("ir: MutateExpr: unhandled Expr variant")
	}
}

// MutateStmt implements the default (identity-preserving) traversal over Stmt.
func (m *BaseMutator) MutateStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	self := m.self()
	switch n := s.(type) {
	case *LetStmt:
		v, b := self.MutateExpr(n.Value), self.MutateStmt(n.Body)
		if v == n.Value && b == n.Body {
			return n
		}
		return &LetStmt{Name: n.Name, Value: v, Body: b}
	case *AssertStmt:
		c := self.MutateExpr(n.Cond)
		if c == n.Cond {
			return n
		}
		return &AssertStmt{Cond: c, Message: n.Message}
	case *Pipeline:
		p, u, c := self.MutateStmt(n.Produce), self.MutateStmt(n.Update), self.MutateStmt(n.Consume)
		if p == n.Produce && u == n.Update && c == n.Consume {
			return n
		}
		return &Pipeline{Name: n.Name, Produce: p, Update: u, Consume: c}
	case *For:
		lo, ext, b := self.MutateExpr(n.Min), self.MutateExpr(n.Extent), self.MutateStmt(n.Body)
		if lo == n.Min && ext == n.Extent && b == n.Body {
			return n
		}
		return &For{Name: n.Name, Min: lo, Extent: ext, Typ: n.Typ, Body: b}
	case *Store:
		v, idx := self.MutateExpr(n.Value), self.MutateExpr(n.Index)
		if v == n.Value && idx == n.Index {
			return n
		}
		return &Store{Buffer: n.Buffer, Value: v, Index: idx}
	case *Provide:
		changed := false
		v := self.MutateExpr(n.Value)
		if v != n.Value {
			changed = true
		}
		site := make([]Expr, len(n.Site))
		for i, e := range n.Site {
			site[i] = self.MutateExpr(e)
			if site[i] != e {
				changed = true
			}
		}
		if !changed {
			return n
		}
		return &Provide{Buffer: n.Buffer, Value: v, Site: site}
	case *Allocate:
		sz, b := self.MutateExpr(n.Size), self.MutateStmt(n.Body)
		if sz == n.Size && b == n.Body {
			return n
		}
		return &Allocate{Name: n.Name, Typ: n.Typ, Size: sz, Body: b}
	case *Free:
		return n
	case *Realize:
		changed := false
		bounds := make([]Bound, len(n.Bounds))
		for i, b := range n.Bounds {
			mn, ext := self.MutateExpr(b.Min), self.MutateExpr(b.Extent)
			bounds[i] = Bound{Min: mn, Extent: ext}
			if mn != b.Min || ext != b.Extent {
				changed = true
			}
		}
		body := self.MutateStmt(n.Body)
		if body != n.Body {
			changed = true
		}
		if !changed {
			return n
		}
		return &Realize{Name: n.Name, Typ: n.Typ, Bounds: bounds, Body: body}
	case *Block:
		first, rest := self.MutateStmt(n.First), self.MutateStmt(n.Rest)
		if first == n.First && rest == n.Rest {
			return n
		}
		return &Block{First: first, Rest: rest}
	default:
		panic("ir: MutateStmt: unhandled Stmt variant")
	}
}
