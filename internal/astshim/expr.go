package astshim

// ExprKind tags the shape of an Expr. The analyzer dispatches on this
// value rather than through virtual methods on the AST node itself (the
// dispatch belongs to the analyzer, not the tree).
type ExprKind int

const (
	ExprVariable ExprKind = iota
	ExprAssign
	ExprCompoundAssign
	ExprPropertyAccess
	ExprNullsafePropertyAccess
	ExprStaticPropertyAccess
	ExprArrayAccess
	ExprArrayLiteral
	ExprListDestructure
	ExprCall
	ExprMethodCall
	ExprNullsafeMethodCall
	ExprStaticMethodCall
	ExprNew
	ExprClosure
	ExprArrowFunction
	ExprFirstClassCallable
	ExprPipe
	ExprNullCoalesce
	ExprLogicalAnd
	ExprLogicalOr
	ExprLogicalNot
	ExprTernary
	ExprMatch
	ExprInstanceOf
	ExprBinary
	ExprUnary
	ExprCast
	ExprIsset
	ExprUnset
	ExprThrow
	ExprExit
	ExprClassConstFetch
	ExprLiteralNull
	ExprLiteralBool
	ExprLiteralInt
	ExprLiteralFloat
	ExprLiteralString
)

// Expr is a single PHP expression node. Only the fields relevant to Kind
// are populated; this mirrors the tagged-struct style used throughout the
// analyzer for the type algebra's own TAtomic, for the same reason — Go
// has no tagged unions.
type Expr struct {
	Kind ExprKind
	Loc  Span

	// ExprVariable
	VariableName string // includes the leading "$"

	// ExprAssign / ExprCompoundAssign
	AssignTarget *Expr
	AssignValue  *Expr
	AssignOp     string // "", "+=", ".=", etc.; "" for plain "="

	// ExprPropertyAccess / ExprNullsafePropertyAccess / ExprStaticPropertyAccess
	Object       *Expr
	PropertyName string
	ClassName    string // for static property/const access; resolved separately

	// ExprArrayAccess
	Container *Expr
	Key       *Expr // nil for `$a[]`

	// ExprArrayLiteral
	Items []ArrayLiteralItem

	// ExprListDestructure
	Targets []ListDestructureTarget

	// ExprCall / ExprMethodCall / ExprStaticMethodCall
	Callee    *Expr  // nil for ExprCall, which instead uses CalleeName
	CalleeName string // function name, or method name for method calls
	Args      []Argument

	// ExprNew
	NewClassName string
	NewArgs      []Argument

	// ExprClosure / ExprArrowFunction
	ClosureParams []Param
	ClosureBody   []Stmt
	ClosureUses   []string // by-value/by-ref captured variable names

	// ExprFirstClassCallable
	FirstClassTarget string

	// ExprPipe
	PipeInput  *Expr
	PipeCallee *Expr

	// ExprNullCoalesce / ExprLogicalAnd / ExprLogicalOr / ExprBinary
	Left     *Expr
	Right    *Expr
	Operator string

	// ExprLogicalNot / ExprUnary / ExprCast / ExprThrow / ExprExit
	Operand *Expr

	// ExprTernary
	Condition *Expr
	IfTrue    *Expr // nil for Elvis `a ?: b`
	IfFalse   *Expr

	// ExprMatch
	MatchSubject *Expr
	MatchArms    []MatchArm

	// ExprInstanceOf
	InstanceOfClass string // "" when the right-hand side is itself an expression
	InstanceOfExpr  *Expr

	// ExprCast
	CastType string // "int", "float", "string", "bool", "array", "object"

	// ExprIsset / ExprUnset
	IssetTargets []*Expr

	// ExprClassConstFetch
	ConstName string

	// Literal payloads
	LiteralBool   bool
	LiteralInt    int64
	LiteralFloat  float64
	LiteralString string
}

func (e *Expr) Span() Span { return e.Loc }

// ArrayLiteralItem is one entry of an array literal: `key => value` or a
// bare `value`, optionally spread with `...`.
type ArrayLiteralItem struct {
	Key    *Expr // nil when positional
	Value  *Expr
	Spread bool
}

// ListDestructureTarget is one slot of `[$a, , $c] = $arr` or
// `['k' => $v] = $arr`.
type ListDestructureTarget struct {
	Key    *Expr // nil for positional list()
	Target *Expr // nil for a skipped slot
}

// Argument is one actual argument at a call site.
type Argument struct {
	Name     string // "" when positional
	Value    *Expr
	Unpacked bool // `...$args`
}

// Param is one formal parameter in a closure/arrow-function signature.
type Param struct {
	Name       string
	ByRef      bool
	Variadic   bool
	DefaultVal *Expr // nil when required
}

// MatchArm is one `cond1, cond2 => result` arm, or the default arm when
// Conditions is nil.
type MatchArm struct {
	Conditions []*Expr
	Result     *Expr
}
