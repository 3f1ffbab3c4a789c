package dsl

// Program is the top level of a parsed .hdsl source file: an ordered list
// of function and schedule declarations (§10).
type Program struct {
	Decls []*Decl `@@*`
}

// Decl is one top level declaration.
type Decl struct {
	Func     *FuncDecl     `  @@`
	Schedule *ScheduleDecl `| @@`
}

// FuncDecl declares a pure Function: "func name(args) = expr".
type FuncDecl struct {
	Name  string  `"func" @Ident "("`
	Args  []string `@Ident ( "," @Ident )* ")"`
	Value *Expr    `"=" @@`
}

// ScheduleDecl applies zero or more Directives to an already-declared
// Function: "schedule name directive directive ...".
type ScheduleDecl struct {
	Func       string       `"schedule" @Ident`
	Directives []*Directive `@@*`
}

// Directive is one scheduling instruction.
type Directive struct {
	StoreAt    *LevelRef  `  "store_at" @@`
	ComputeAt  *LevelRef  `| "compute_at" @@`
	Split      *SplitSpec `| "split" @@`
	Bound      *BoundSpec `| "bound" @@`
	Parallel   string     `| "parallel" @Ident`
	Vectorize  string     `| "vectorize" @Ident`
	Unroll     string     `| "unroll" @Ident`
}

// LevelRef names a compute_at/store_at target: the Root/Inline sentinels,
// or a <func>.<var> qualified loop level (§3.5).
type LevelRef struct {
	Root   bool       `(  @"root"`
	Inline bool       ` | @"inline"`
	Qual   *Qualified ` | @@ )`
}

// Qualified is the <func>.<var> form of a LevelRef.
type Qualified struct {
	Func string `@Ident "."`
	Var  string `@Ident`
}

// SplitSpec is "split oldvar into outer, inner factor n" (§3.5).
type SplitSpec struct {
	OldVar string `@Ident "into"`
	Outer  string `@Ident ","`
	Inner  string `@Ident "factor"`
	Factor int    `@Integer`
}

// BoundSpec is "bound var min <expr> extent <expr>" (§3.5).
type BoundSpec struct {
	Var    string `@Ident`
	Min    *Expr  `"min" @@`
	Extent *Expr  `"extent" @@`
}

// Expr is the lowest-precedence arithmetic level: Term (+|-) Term ...,
// parsed as a flat left-to-right list (rather than a right-recursive
// Right *Expr) so that chained subtractions like "a - b - c" fold as
// (a - b) - c instead of the wrong a - (b - c).
type Expr struct {
	Left *Term     `@@`
	Rest []*OpTerm `@@*`
}

// OpTerm is one "+ term" or "- term" continuation of an Expr.
type OpTerm struct {
	Op   string `@("+" | "-")`
	Term *Term  `@@`
}

// Term is the next precedence level: Factor (*|/|%) Factor ..., flattened
// for the same left-associativity reason as Expr.
type Term struct {
	Left *Factor     `@@`
	Rest []*OpFactor `@@*`
}

// OpFactor is one "* factor" / "/ factor" / "% factor" continuation of a Term.
type OpFactor struct {
	Op     string  `@("*" | "/" | "%")`
	Factor *Factor `@@`
}

// Factor is a unary-minus, a call, an identifier, an integer literal, or a
// parenthesized sub-expression.
type Factor struct {
	Neg   *Factor `(  "-" @@`
	Call  *Call   ` | @@`
	Ident string  ` | @Ident`
	Int   *int64  ` | @Integer`
	Sub   *Expr   ` | "(" @@ ")" )`
}

// Call is a reference to another declared Function or an extern: "name(args)".
type Call struct {
	Name string  `@Ident "("`
	Args []*Expr `( @@ ( "," @@ )* )? ")"`
}
