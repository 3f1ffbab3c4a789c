package ir

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Expr is any node of the expression IR (§3.2). Every variant carries its
// result Type. Expr is a closed tagged union: the only implementations are
// the structs defined in this file, enforced by the unexported isExpr
// marker method. Expr trees are immutable after construction; a Mutator
// that needs to change a node must build and return a new one.
type Expr interface {
	isExpr()
	// Type returns the result type of the expression.
	Type() Type
}

// CallType classifies what a Call node resolves to at codegen time.
type CallType int

const (
	// Image is a call into an externally-provided image buffer.
	Image CallType = iota
	// Extern is a call to a foreign (non-Halide) function.
	Extern
	// Halide is a call to another Function defined in this pipeline.
	Halide
	// Intrinsic is a call to a backend intrinsic (e.g. min/max/shuffle).
	Intrinsic
)

// BinOp identifies the operator of a binary arithmetic node.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
)

// CmpOp identifies the operator of a comparison node.
type CmpOp int

const (
	EQ CmpOp = iota
	NE
	LT
	LE
	GT
	GE
)

// IntImm is an integer literal.
type IntImm struct {
	Typ   Type
	Value int64
}

func (*IntImm) isExpr()    {}
func (n *IntImm) Type() Type { return n.Typ }

// FloatImm is a floating point literal.
type FloatImm struct {
	Typ   Type
	Value float64
}

func (*FloatImm) isExpr()    {}
func (n *FloatImm) Type() Type { return n.Typ }

// Cast converts Value to Typ.
type Cast struct {
	Typ   Type
	Value Expr
}

func (*Cast) isExpr()    {}
func (n *Cast) Type() Type { return n.Typ }

// ReductionDomainRef is an opaque back-reference to the ReductionDomain a
// Variable ranges over, when the Variable names a reduction variable. It is
// declared in package function; ir only needs to hold an interface{} sized
// hole so that package doesn't have to import ir's consumer, avoiding an
// import cycle. See function.ReductionDomain.
type ReductionDomainRef interface{}

// ParamRef is an opaque back-reference to a front-end parameter binding. A
// Variable with a non-nil Param is a parameter reference: qualify_expr and
// every Mutator must leave it untouched (§3.6, §4.1, §4.2).
type ParamRef interface{}

// Variable references a named scalar: a Let-bound name, a For loop
// induction variable, a function argument, a reduction domain variable, or
// a bound parameter.
type Variable struct {
	Typ        Type
	Name       string
	Reduction  ReductionDomainRef // non-nil if this names a reduction variable
	Param      ParamRef           // non-nil if this is a parameter reference
}

func (*Variable) isExpr()    {}
func (n *Variable) Type() Type { return n.Typ }

// IsParam reports whether this Variable is a parameter reference, which
// qualification and substitution must treat as identity (§3.6).
func (n *Variable) IsParam() bool { return n.Param != nil }

// BinExpr is Add/Sub/Mul/Div/Mod between two operands of equal type.
type BinExpr struct {
	Op   BinOp
	Typ  Type
	A, B Expr
}

func (*BinExpr) isExpr()    {}
func (n *BinExpr) Type() Type { return n.Typ }

// Min is the pointwise minimum of A and B.
type Min struct {
	Typ  Type
	A, B Expr
}

func (*Min) isExpr()    {}
func (n *Min) Type() Type { return n.Typ }

// Max is the pointwise maximum of A and B.
type Max struct {
	Typ  Type
	A, B Expr
}

func (*Max) isExpr()    {}
func (n *Max) Type() Type { return n.Typ }

// Compare is EQ/NE/LT/LE/GT/GE between two operands of equal type; result
// type is always Bool (possibly vectorized).
type Compare struct {
	Op   CmpOp
	Typ  Type
	A, B Expr
}

func (*Compare) isExpr()    {}
func (n *Compare) Type() Type { return n.Typ }

// And is a logical conjunction of two predicates.
type And struct {
	Typ  Type
	A, B Expr
}

func (*And) isExpr()    {}
func (n *And) Type() Type { return n.Typ }

// Or is a logical disjunction of two predicates.
type Or struct {
	Typ  Type
	A, B Expr
}

func (*Or) isExpr()    {}
func (n *Or) Type() Type { return n.Typ }

// Not is the logical negation of a predicate.
type Not struct {
	Typ Type
	X   Expr
}

func (*Not) isExpr()    {}
func (n *Not) Type() Type { return n.Typ }

// Select chooses True or False elementwise according to Cond.
type Select struct {
	Typ         Type
	Cond        Expr
	True, False Expr
}

func (*Select) isExpr()    {}
func (n *Select) Type() Type { return n.Typ }

// Load reads one element from Buffer at Index.
type Load struct {
	Typ    Type
	Buffer string
	Index  Expr
}

func (*Load) isExpr()    {}
func (n *Load) Type() Type { return n.Typ }

// Ramp is an affine sequence of Lanes values: base, base+stride, base+2*stride, ...
type Ramp struct {
	Typ    Type
	Base   Expr
	Stride Expr
	Lanes  int
}

func (*Ramp) isExpr()    {}
func (n *Ramp) Type() Type { return n.Typ }

// Broadcast replicates Value across Lanes lanes.
type Broadcast struct {
	Typ   Type
	Value Expr
	Lanes int
}

func (*Broadcast) isExpr()    {}
func (n *Broadcast) Type() Type { return n.Typ }

// FuncRef is an opaque back-reference to the callee *function.Function of a
// Halide Call, kept out of the ir package's own type to avoid an import
// cycle between ir and function (§3.2, "Cross-references Call.func").
type FuncRef interface{}

// Call invokes an image buffer, extern function, Halide function or
// intrinsic with Args, producing a value of Typ.
type Call struct {
	Typ      Type
	Name     string
	Args     []Expr
	CallType CallType
	Func     FuncRef // non-nil only when CallType == Halide
}

func (*Call) isExpr()    {}
func (n *Call) Type() Type { return n.Typ }

// Let binds Name to Value within the scope of Body.
type Let struct {
	Name  string
	Value Expr
	Body  Expr
}

func (*Let) isExpr()    {}
func (n *Let) Type() Type { return n.Body.Type() }
