package analyzer

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/assertion"
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/clause"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

func impossibleAssertionIssue(path string) issue.Issue {
	return issue.Issue{
		Code:     issue.ImpossibleAssertion,
		Severity: issue.SeverityWarning,
		Message:  "assertions on \"" + path + "\" along this path can never hold",
	}
}

func impossibleRedundantCoalesceIssue(e *astshim.Expr) issue.Issue {
	return issue.Issue{
		Code:              issue.RedundantNullCoalesce,
		Severity:          issue.SeverityHint,
		Message:           "left side of ?? is never null",
		PrimaryAnnotation: issue.Annotation{Span: e.Span()},
	}
}

// maxLoopIterations bounds the fixed-point search; a loop whose bindings
// are still widening after this many passes gives up and widens every
// touched path straight to mixed rather than looping forever on a
// pathological body.
const maxLoopIterations = 8

// MergeBranches applies the branch-merge rule to two arms that both
// completed (neither jumped elsewhere via return/throw/exit): bindings
// combine per BindingTable.MergeBranch, and only clauses present in both
// arms survive the join. An arm that returned contributes nothing to the
// merged bindings, since control never reaches the join point through it;
// when both arms returned, the caller's own bc.HasReturned is set true.
func MergeBranches(a, b *BlockContext) *BlockContext {
	switch {
	case a.HasReturned && b.HasReturned:
		return &BlockContext{Bindings: a.Bindings, Clauses: a.Clauses, HasReturned: true}
	case a.HasReturned:
		return b
	case b.HasReturned:
		return a
	}
	return &BlockContext{
		Bindings: a.Bindings.MergeBranch(b.Bindings),
		Clauses:  a.Clauses.Intersect(b.Clauses),
	}
}

// applyAssertions narrows bc's bindings with the assertions cond
// establishes when truthy, used for the "then" side of an if/ternary/&&
// and for a while/for loop's body. A `!E` condition applies E's negated
// assertions.
func applyAssertions(ctx *Context, bc *BlockContext, cond *astshim.Expr) {
	if cond != nil && cond.Kind == astshim.ExprLogicalNot {
		applyNegatedAssertions(ctx, bc, cond.Operand)
		return
	}
	reconcileInto(ctx, bc, assertion.Scrape(cond))
}

// applyNegatedAssertions narrows bc's bindings with cond's assertions
// negated, used for the "else" side and for the ||'s right operand. A `!E`
// condition applies E's own assertions.
func applyNegatedAssertions(ctx *Context, bc *BlockContext, cond *astshim.Expr) {
	if cond != nil && cond.Kind == astshim.ExprLogicalNot {
		applyAssertions(ctx, bc, cond.Operand)
		return
	}
	reconcileInto(ctx, bc, negateDisjunction(assertion.Scrape(cond)))
}

// negateDisjunction computes De Morgan's negation of a disjunction of
// conjunctions: ¬(A∨B) = ¬A∧¬B, expanded back into disjunctive form via
// distribution. Each top-level conjunct's negation becomes its own
// single-assertion disjunction alternative combined across conjuncts.
func negateDisjunction(disj clause.Disjunction) clause.Disjunction {
	if len(disj) == 0 {
		return nil
	}
	// ¬(c1 ∨ c2 ∨ ...) = ¬c1 ∧ ¬c2 ∧ ...; represent the cross product of
	// each conjunct's negated alternatives.
	out := clause.Disjunction{{}}
	for _, conj := range disj {
		negated := clause.Negate(conj)
		var next clause.Disjunction
		for _, prefix := range out {
			for _, a := range negated {
				next = append(next, append(append(clause.Conjunction{}, prefix...), a))
			}
		}
		out = next
	}
	return out
}

func reconcileInto(ctx *Context, bc *BlockContext, disj clause.Disjunction) {
	if len(disj) == 0 {
		return
	}
	referenced := map[string]bool{}
	for _, conj := range disj {
		for _, a := range conj {
			referenced[a.Path] = true
		}
	}
	outcomes := assertion.Reconcile(disj, bc.Bindings, referenced)
	for path, outcome := range outcomes {
		b, had := bc.Bindings.Get(path)
		if !had {
			b = clause.Binding{}
		}
		b.Type = outcome.Type
		bc.Bindings.Set(path, b)
		if outcome.Impossible {
			bc.HasReturned = true
			ctx.Issues.Add(impossibleAssertionIssue(path))
		}
	}
	for _, conj := range disj {
		for _, a := range conj {
			bc.Clauses.Add(clause.Clause{Path: a.Path, Possibilities: []clause.Assertion{a}})
		}
	}
}

func analyzeForeach(ctx *Context, bc *BlockContext, s *astshim.Stmt) {
	subjectType := AnalyzeExpr(ctx, bc, s.ForeachSubject)
	valueType := foreachValueType(subjectType)
	keyType := foreachKeyType(subjectType)

	assignMap := GetAssignmentMap([]*astshim.Expr{s.ForeachSubject}, s.ForeachBody, nil)

	body := bc.Snapshot()
	if s.ForeachKeyVar != nil {
		bindAssignTarget(ctx, body, s.ForeachKeyVar, keyType, s.Loc)
	}
	bindAssignTarget(ctx, body, s.ForeachValVar, valueType, s.Loc)
	AnalyzeBlock(ctx, body, s.ForeachBody)

	widenLoopBindings(bc, body, assignMap)

	merged := MergeBranches(bc, body)
	*bc = *merged
}

func foreachValueType(subject ttype.Union) ttype.Union {
	var out []*ttype.TAtomic
	for _, a := range subject.Atomics() {
		switch a.Kind {
		case ttype.KindArrayList:
			if a.List != nil {
				out = append(out, a.List.ElementType.Atomics()...)
			}
		case ttype.KindArrayKeyed:
			if a.Keyed != nil {
				if a.Keyed.ParamValue != nil {
					out = append(out, a.Keyed.ParamValue.Atomics()...)
				}
				for _, item := range a.Keyed.KnownItems {
					out = append(out, item.Possibly.Atomics()...)
				}
			}
		case ttype.KindIterable:
			if a.Iterable != nil {
				out = append(out, a.Iterable.Value.Atomics()...)
			}
		}
	}
	if len(out) == 0 {
		return ttype.Single(ttype.MixedAny())
	}
	return ttype.NewUnion(out...)
}

func foreachKeyType(subject ttype.Union) ttype.Union {
	for _, a := range subject.Atomics() {
		if a.Kind == ttype.KindIterable && a.Iterable != nil {
			return a.Iterable.Key
		}
	}
	return ttype.NewUnion(ttype.IntGeneral(), ttype.StringGeneral())
}

// analyzeLoop runs a while/do-while/for loop's body toward a fixed point:
// re-analyze the body against the entry bindings, and if any touched
// binding widened, fold that widening back in and try again. Once a pass
// produces no further widening (or the iteration cap is hit, in which
// case every assignment-map path still bound is forced to mixed), the loop's bindings
// are merged into bc as a MergeBranch against the pre-loop state, since
// the loop may also execute zero times.
func analyzeLoop(ctx *Context, bc *BlockContext, conditions []*astshim.Expr, body []astshim.Stmt, post []*astshim.Expr) {
	assignMap := GetAssignmentMap(conditions, body, post)

	cur := bc.Snapshot()
	for i := 0; i < maxLoopIterations; i++ {
		for _, c := range conditions {
			AnalyzeExpr(ctx, cur, c)
		}
		next := cur.Snapshot()
		if len(conditions) > 0 {
			applyAssertions(ctx, next, conditions[len(conditions)-1])
		}
		AnalyzeBlock(ctx, next, body)
		for _, e := range post {
			AnalyzeExpr(ctx, next, e)
		}

		widened := false
		for path := range assignMap {
			if clause.WidenedSince(cur.Bindings, next.Bindings, path) {
				widened = true
			}
		}
		cur = next
		if !widened {
			break
		}
		if i == maxLoopIterations-1 {
			forceMixed(cur, assignMap)
		}
	}

	merged := MergeBranches(bc, cur)
	if len(conditions) > 0 {
		applyNegatedAssertions(ctx, merged, conditions[len(conditions)-1])
	}
	*bc = *merged
}

func forceMixed(bc *BlockContext, assignMap AssignmentMap) {
	for path := range assignMap {
		b, ok := bc.Bindings.Get(path)
		if !ok {
			continue
		}
		b.Type = ttype.Single(ttype.MixedFromLoopIsset())
		b.MixedFromLoopIsset = true
		bc.Bindings.Set(path, b)
	}
}

func widenLoopBindings(bc, body *BlockContext, assignMap AssignmentMap) {
	for path := range assignMap {
		if clause.WidenedSince(bc.Bindings, body.Bindings, path) {
			b, ok := body.Bindings.Get(path)
			if !ok {
				continue
			}
			b.MixedFromLoopIsset = true
			body.Bindings.Set(path, b)
		}
	}
}

func analyzeNullCoalesce(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	lhsType := AnalyzeExpr(ctx, bc, e.Left)

	if !lhsType.IsNullable() {
		ctx.Issues.Add(impossibleRedundantCoalesceIssue(e))
		return lhsType
	}

	rhsCtx := bc.Snapshot()
	rhsType := AnalyzeExpr(ctx, rhsCtx, e.Right)

	nonNull := ttype.ToNonNullable(lhsType)
	if nonNull.IsNever() {
		// LHS is always null: the whole expression reduces to RHS, and the
		// null-coalesce is never exercising its left side at runtime.
		return rhsType
	}
	return ttype.CombineUnion(nonNull, rhsType)
}

func analyzeLogicalAnd(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	AnalyzeExpr(ctx, bc, e.Left)
	rhsCtx := bc.Snapshot()
	applyAssertions(ctx, rhsCtx, e.Left)
	AnalyzeExpr(ctx, rhsCtx, e.Right)
	return boolUnion()
}

func analyzeLogicalOr(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	AnalyzeExpr(ctx, bc, e.Left)
	rhsCtx := bc.Snapshot()
	applyNegatedAssertions(ctx, rhsCtx, e.Left)
	AnalyzeExpr(ctx, rhsCtx, e.Right)
	return boolUnion()
}

func analyzeTernary(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	condType := AnalyzeExpr(ctx, bc, e.Condition)

	thenCtx := bc.Snapshot()
	var thenType ttype.Union
	if e.IfTrue != nil {
		applyAssertions(ctx, thenCtx, e.Condition)
		thenType = AnalyzeExpr(ctx, thenCtx, e.IfTrue)
	} else {
		// Elvis `a ?: b`: the "then" value is a itself, narrowed truthy.
		thenType = ttype.ToNonNullable(condType)
	}

	elseCtx := bc.Snapshot()
	applyNegatedAssertions(ctx, elseCtx, e.Condition)
	elseType := AnalyzeExpr(ctx, elseCtx, e.IfFalse)

	merged := MergeBranches(thenCtx, elseCtx)
	*bc = *merged
	return ttype.CombineUnion(thenType, elseType)
}

func analyzeMatch(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	AnalyzeExpr(ctx, bc, e.MatchSubject)

	var armTypes []ttype.Union
	arms := make([]*BlockContext, 0, len(e.MatchArms))
	for _, arm := range e.MatchArms {
		armCtx := bc.Snapshot()
		for _, c := range arm.Conditions {
			AnalyzeExpr(ctx, armCtx, c)
		}
		armTypes = append(armTypes, AnalyzeExpr(ctx, armCtx, arm.Result))
		arms = append(arms, armCtx)
	}

	if len(arms) == 0 {
		return ttype.Single(ttype.Never())
	}
	merged := arms[0]
	for _, arm := range arms[1:] {
		merged = MergeBranches(merged, arm)
	}
	*bc = *merged

	result := armTypes[0]
	for _, t := range armTypes[1:] {
		result = ttype.CombineUnion(result, t)
	}
	return result
}
