package ir

// Visitor is implemented by passes that only need to observe the tree. Each
// Visit method is called once per node in syntactic order; the default
// behaviour (VisitExpr/VisitStmt below) recurses into every child. A pass
// that only cares about a handful of node kinds embeds BaseVisitor and
// overrides just those methods, relying on the embedded default for
// everything else — the "override a few variants, inherit the rest"
// ergonomic called for in §9, rendered as an interface plus a default
// struct instead of open dispatch.
type Visitor interface {
	VisitExpr(e Expr)
	VisitStmt(s Stmt)
}

// BaseVisitor is a Visitor whose methods recurse into every child without
// otherwise observing the node. Embed it and override individual methods
// to build a new read-only pass.
type BaseVisitor struct {
	Self Visitor // set to the embedding Visitor so overrides are honored during recursion
}

// self returns the effective visitor to recurse with: the embedder if one
// was wired up via Self, or the BaseVisitor itself.
func (v *BaseVisitor) self() Visitor {
	if v.Self != nil {
		return v.Self
	}
	return v
}

// VisitExpr recurses into every child of e in syntactic order.
func (v *BaseVisitor) VisitExpr(e Expr) {
	if e == nil {
		return
	}
	self := v.self()
	switch n := e.(type) {
	case *IntImm, *FloatImm:
		// leaves
	case *Cast:
		self.VisitExpr(n.Value)
	case *Variable:
		// leaf; Reduction/Param back-references are not IR nodes
	case *BinExpr:
		self.VisitExpr(n.A)
		self.VisitExpr(n.B)
	case *Min:
		self.VisitExpr(n.A)
		self.VisitExpr(n.B)
	case *Max:
		self.VisitExpr(n.A)
		self.VisitExpr(n.B)
	case *Compare:
		self.VisitExpr(n.A)
		self.VisitExpr(n.B)
	case *And:
		self.VisitExpr(n.A)
		self.VisitExpr(n.B)
	case *Or:
		self.VisitExpr(n.A)
		self.VisitExpr(n.B)
	case *Not:
		self.VisitExpr(n.X)
	case *Select:
		self.VisitExpr(n.Cond)
		self.VisitExpr(n.True)
		self.VisitExpr(n.False)
	case *Load:
		self.VisitExpr(n.Index)
	case *Ramp:
		self.VisitExpr(n.Base)
		self.VisitExpr(n.Stride)
	case *Broadcast:
		self.VisitExpr(n.Value)
	case *Call:
		for _, a := range n.Args {
			self.VisitExpr(a)
		}
	case *Let:
		self.VisitExpr(n.Value)
		self.VisitExpr(n.Body)
	default:
		panic("ir: VisitExpr: unhandled Expr variant")
	}
}

// VisitStmt recurses into every child of s in syntactic order.
func (v *BaseVisitor) VisitStmt(s Stmt) {
	if s == nil {
		return
	}
	self := v.self()
	switch n := s.(type) {
	case *LetStmt:
		self.VisitExpr(n.Value)
		self.VisitStmt(n.Body)
	case *AssertStmt:
		self.VisitExpr(n.Cond)
	case *Pipeline:
		self.VisitStmt(n.Produce)
		self.VisitStmt(n.Update)
		self.VisitStmt(n.Consume)
	case *For:
		self.VisitExpr(n.Min)
		self.VisitExpr(n.Extent)
		self.VisitStmt(n.Body)
	case *Store:
		self.VisitExpr(n.Value)
		self.VisitExpr(n.Index)
	case *Provide:
		self.VisitExpr(n.Value)
		for _, e := range n.Site {
			self.VisitExpr(e)
		}
	case *Allocate:
		self.VisitExpr(n.Size)
		self.VisitStmt(n.Body)
	case *Free:
		// leaf
	case *Realize:
		for _, b := range n.Bounds {
			self.VisitExpr(b.Min)
			self.VisitExpr(b.Extent)
		}
		self.VisitStmt(n.Body)
	case *Block:
		self.VisitStmt(n.First)
		self.VisitStmt(n.Rest)
	default:
		panic("ir: VisitStmt: unhandled Stmt variant")
	}
}
