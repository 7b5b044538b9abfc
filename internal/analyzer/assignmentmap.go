package analyzer

import "github.com/shivasurya/phpcheck-analyzer/internal/astshim"

// AssignmentMap is a loop body's write map: for each variable path
// written somewhere in the loop, the set of variable paths (or the
// isset sentinel, for a write whose source can't be pinned to a
// specific variable) that contributed to it. The loop fixed-point
// walker consults this before the first widening pass to know which
// bindings the loop body can possibly change, so paths it never
// touches skip reconciliation entirely.
type AssignmentMap map[string]map[string]struct{}

// assignmentMapIsset is the placeholder source recorded for a method
// call received on $x: the call might mutate $x's state through a
// reference without reassigning $x itself, so $x is marked touched by
// something other than a traceable variable.
const assignmentMapIsset = "isset"

func (m AssignmentMap) record(target, source string) {
	if target == "" {
		return
	}
	set, ok := m[target]
	if !ok {
		set = map[string]struct{}{}
		m[target] = set
	}
	set[source] = struct{}{}
}

// FirstVariable returns one variable path recorded in m, used as the
// loop's representative variable when the caller needs just one and
// doesn't care which. Go map iteration order is randomized, so this
// picks an arbitrary, not a stable, entry.
func (m AssignmentMap) FirstVariable() (string, bool) {
	for k := range m {
		return k, true
	}
	return "", false
}

// GetAssignmentMap walks a loop's pre-condition expressions (a `for`
// loop's init/condition clauses, or a `while`/`do-while`/`foreach`
// condition/subject), its body statements, and its post-expressions (a
// `for` loop's increment clauses), recording every variable path the
// loop body writes and what it was written from. Closures and arrow
// functions inside the body are not walked into: a write inside a
// nested function literal belongs to that function's own scope, not the
// enclosing loop.
func GetAssignmentMap(preConditions []*astshim.Expr, body []astshim.Stmt, postExpressions []*astshim.Expr) AssignmentMap {
	w := &assignmentMapWalker{AssignmentMap: AssignmentMap{}}
	for _, e := range preConditions {
		w.walkExpr(e)
	}
	w.walkStmts(body)
	for _, e := range postExpressions {
		w.walkExpr(e)
	}
	return w.AssignmentMap
}

type assignmentMapWalker struct {
	AssignmentMap
}

func (w *assignmentMapWalker) walkStmts(stmts []astshim.Stmt) {
	for i := range stmts {
		w.walkStmt(&stmts[i])
	}
}

func (w *assignmentMapWalker) walkStmt(s *astshim.Stmt) {
	if s == nil {
		return
	}
	switch s.Kind {
	case astshim.StmtExpression:
		w.walkExpr(s.Expr)
	case astshim.StmtBlock:
		w.walkStmts(s.Body)
	case astshim.StmtIf:
		w.walkExpr(s.Condition)
		w.walkStmts(s.Then)
		for _, ei := range s.ElseIfs {
			w.walkExpr(ei.Condition)
			w.walkStmts(ei.Body)
		}
		w.walkStmts(s.Else)
	case astshim.StmtWhile, astshim.StmtDoWhile:
		w.walkExpr(s.LoopCondition)
		w.walkStmts(s.LoopBody)
	case astshim.StmtFor:
		w.walkExprSlice(s.ForInit)
		w.walkExprSlice(s.ForCond)
		w.walkStmts(s.ForBody)
		w.walkExprSlice(s.ForPost)
	case astshim.StmtForeach:
		w.walkExpr(s.ForeachSubject)
		w.walkStmts(s.ForeachBody)
	case astshim.StmtSwitch:
		w.walkExpr(s.SwitchSubject)
		for _, c := range s.SwitchCases {
			w.walkExpr(c.Condition)
			w.walkStmts(c.Body)
		}
	case astshim.StmtTry:
		w.walkStmts(s.TryBody)
		for _, c := range s.Catches {
			w.walkStmts(c.Body)
		}
		w.walkStmts(s.Finally)
	case astshim.StmtReturn, astshim.StmtThrow:
		w.walkExpr(s.Value)
	case astshim.StmtUnset:
		for _, e := range s.UnsetTargets {
			w.recordSelf(e)
		}
	}
}

func (w *assignmentMapWalker) walkExprSlice(exprs []*astshim.Expr) {
	for _, e := range exprs {
		w.walkExpr(e)
	}
}

func (w *assignmentMapWalker) walkExpr(e *astshim.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case astshim.ExprAssign:
		source := rootExpressionID(e.AssignValue)
		if source == "" {
			source = assignmentMapIsset
		}
		w.recordRoot(e.AssignTarget, source)
		w.walkExpr(e.AssignValue)
		return
	case astshim.ExprCompoundAssign:
		// Treated as an opaque expression and only recursed into, not
		// recorded as a write — a compound assign's effective value
		// depends on the target's prior value, which isn't a traceable
		// single source.
		w.walkExpr(e.AssignTarget)
		w.walkExpr(e.AssignValue)
		return
	case astshim.ExprUnary:
		if e.Operator == "++" || e.Operator == "--" {
			w.recordSelf(e.Operand)
			return
		}
		w.walkExpr(e.Operand)
		return
	case astshim.ExprIsset:
		for _, t := range e.IssetTargets {
			w.walkExpr(t)
		}
		return
	case astshim.ExprUnset:
		for _, t := range e.IssetTargets {
			w.walkExpr(t)
		}
		return
	case astshim.ExprMethodCall, astshim.ExprNullsafeMethodCall:
		w.recordRoot(e.Callee, assignmentMapIsset)
		w.walkExpr(e.Callee)
		w.walkArgs(e.Args)
		return
	case astshim.ExprCall:
		w.walkArgs(e.Args)
		return
	case astshim.ExprStaticMethodCall:
		w.walkArgs(e.Args)
		return
	case astshim.ExprNew:
		w.walkArgs(e.NewArgs)
		return
	case astshim.ExprClosure, astshim.ExprArrowFunction:
		// A nested function literal's body has its own scope; a write
		// inside it is never a write to the enclosing loop's variables.
		return
	case astshim.ExprPropertyAccess, astshim.ExprNullsafePropertyAccess:
		w.walkExpr(e.Object)
		return
	case astshim.ExprArrayAccess:
		w.walkExpr(e.Container)
		w.walkExpr(e.Key)
		return
	case astshim.ExprArrayLiteral:
		for _, item := range e.Items {
			w.walkExpr(item.Key)
			w.walkExpr(item.Value)
		}
		return
	case astshim.ExprTernary:
		w.walkExpr(e.Condition)
		w.walkExpr(e.IfTrue)
		w.walkExpr(e.IfFalse)
		return
	case astshim.ExprMatch:
		w.walkExpr(e.MatchSubject)
		for _, arm := range e.MatchArms {
			for _, c := range arm.Conditions {
				w.walkExpr(c)
			}
			w.walkExpr(arm.Result)
		}
		return
	case astshim.ExprBinary, astshim.ExprNullCoalesce, astshim.ExprLogicalAnd, astshim.ExprLogicalOr:
		w.walkExpr(e.Left)
		w.walkExpr(e.Right)
		return
	case astshim.ExprLogicalNot, astshim.ExprCast, astshim.ExprThrow, astshim.ExprExit:
		w.walkExpr(e.Operand)
		return
	case astshim.ExprInstanceOf:
		w.walkExpr(e.InstanceOfExpr)
		return
	}
}

func (w *assignmentMapWalker) walkArgs(args []astshim.Argument) {
	for _, arg := range args {
		w.recordSelf(arg.Value)
		w.walkExpr(arg.Value)
	}
}

// recordSelf records target's root variable path as written from
// itself — the conservative "this variable was touched, but not
// reassigned to anything traceable" entry used for call arguments,
// increment/decrement, and `unset()`.
func (w *assignmentMapWalker) recordSelf(target *astshim.Expr) {
	root := rootExpressionID(target)
	if root == "" {
		return
	}
	w.record(root, root)
}

// recordRoot records target's root variable path as written from source,
// using whichever array-literal elements target decomposes into when
// it's a destructuring assignment target (`[$a, $b] = $pair`).
func (w *assignmentMapWalker) recordRoot(target *astshim.Expr, source string) {
	if target == nil {
		return
	}
	if target.Kind == astshim.ExprArrayLiteral {
		for _, item := range target.Items {
			w.recordRoot(item.Value, source)
		}
		return
	}
	if target.Kind == astshim.ExprListDestructure {
		for _, t := range target.Targets {
			w.recordRoot(t.Target, source)
		}
		return
	}
	root := rootExpressionID(target)
	if root == "" {
		return
	}
	w.record(root, source)
}

// rootExpressionID returns the outermost variable an expression chain is
// rooted at ("$x" for both `$x` and `$x->prop->other[0]`), or "" when the
// chain doesn't bottom out at a variable at all.
func rootExpressionID(e *astshim.Expr) string {
	for e != nil {
		switch e.Kind {
		case astshim.ExprVariable:
			return e.VariableName
		case astshim.ExprPropertyAccess, astshim.ExprNullsafePropertyAccess:
			e = e.Object
		case astshim.ExprArrayAccess:
			e = e.Container
		default:
			return ""
		}
	}
	return ""
}
