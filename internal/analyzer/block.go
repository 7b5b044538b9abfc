// Package analyzer is the central flow-sensitive walker: it dispatches
// over astshim's tagged expression/statement nodes, threading a binding
// table and clause store through the syntax tree and appending to the
// shared dataflow graph as it goes. It is the top of the component stack
// — every other package here is a library this one calls.
package analyzer

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/clause"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/dataflow"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
	"github.com/shivasurya/phpcheck-analyzer/internal/property"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// Context is the read-mostly state shared by every block analyzed within
// one file: the codebase view, the dataflow graph this file's edges are
// appended to, the loaded plugin registry, the property memoization cache,
// and the issue buffer findings are collected into.
type Context struct {
	View    *codebase.View
	Graph   *dataflow.Graph
	Plugins *plugin.Registry
	Memo    *property.Memo
	Issues  *issue.Buffer
	Program *astshim.Program

	// CurrentClass is the class context analysis is running in, used for
	// property/method visibility checks and resolving self/static/parent.
	CurrentClass string

	// AnalyzeEffects enables purity/mutation-freeness checks during
	// invocation post-processing.
	AnalyzeEffects bool
	// AnalyzeDeadCode continues analyzing statements past an unconditional
	// return/throw/exit instead of treating the rest of the block as
	// unreachable.
	AnalyzeDeadCode bool
}

// NewContext builds a Context for one file's analysis pass. A nil plugins
// registry is replaced with an empty one so callers never need a nil check.
func NewContext(view *codebase.View, graph *dataflow.Graph, plugins *plugin.Registry, memo *property.Memo, issues *issue.Buffer, program *astshim.Program) *Context {
	if plugins == nil {
		plugins = plugin.NewRegistry()
	}
	return &Context{View: view, Graph: graph, Plugins: plugins, Memo: memo, Issues: issues, Program: program}
}

// BlockContext is the per-block flow-sensitive state: the current binding
// table, the clauses known to hold at this point, and whether the block
// has already returned/thrown/exited unconditionally (making the rest of
// it unreachable).
type BlockContext struct {
	Bindings    *clause.BindingTable
	Clauses     *clause.ClauseStore
	HasReturned bool
}

// NewBlockContext returns an empty block context, used at the top of a
// function/method/closure body.
func NewBlockContext() *BlockContext {
	return &BlockContext{Bindings: clause.NewBindingTable(), Clauses: clause.NewClauseStore()}
}

// Snapshot returns an independent copy of bc, used at every branch point
// and loop iteration boundary.
func (bc *BlockContext) Snapshot() *BlockContext {
	return &BlockContext{
		Bindings:    bc.Bindings.Snapshot(),
		Clauses:     bc.Clauses.Snapshot(),
		HasReturned: bc.HasReturned,
	}
}

// AnalyzeBlock analyzes stmts in order. Once bc.HasReturned is set, the
// remaining statements are reported once as unreachable and skipped,
// unless ctx.AnalyzeDeadCode asks for them to be analyzed anyway.
func AnalyzeBlock(ctx *Context, bc *BlockContext, stmts []astshim.Stmt) {
	reportedUnreachable := false
	for i := range stmts {
		if bc.HasReturned && !ctx.AnalyzeDeadCode {
			if !reportedUnreachable {
				ctx.Issues.Add(issue.Issue{
					Code:              issue.UnevaluatedCode,
					Severity:          issue.SeverityHint,
					Message:           "unreachable code",
					PrimaryAnnotation: issue.Annotation{Span: stmts[i].Span()},
				})
				reportedUnreachable = true
			}
			continue
		}
		AnalyzeStmt(ctx, bc, &stmts[i])
	}
}

// AnalyzeStmt dispatches on s.Kind, mutating bc in place.
func AnalyzeStmt(ctx *Context, bc *BlockContext, s *astshim.Stmt) {
	if s == nil {
		return
	}
	switch s.Kind {
	case astshim.StmtExpression:
		AnalyzeExpr(ctx, bc, s.Expr)
	case astshim.StmtBlock:
		AnalyzeBlock(ctx, bc, s.Body)
	case astshim.StmtIf:
		analyzeIf(ctx, bc, s)
	case astshim.StmtWhile:
		analyzeLoop(ctx, bc, []*astshim.Expr{s.LoopCondition}, s.LoopBody, nil)
	case astshim.StmtDoWhile:
		analyzeLoop(ctx, bc, []*astshim.Expr{s.LoopCondition}, s.LoopBody, nil)
	case astshim.StmtFor:
		for _, e := range s.ForInit {
			AnalyzeExpr(ctx, bc, e)
		}
		analyzeLoop(ctx, bc, s.ForCond, s.ForBody, s.ForPost)
	case astshim.StmtForeach:
		analyzeForeach(ctx, bc, s)
	case astshim.StmtSwitch:
		analyzeSwitch(ctx, bc, s)
	case astshim.StmtTry:
		analyzeTry(ctx, bc, s)
	case astshim.StmtReturn:
		if s.Value != nil {
			AnalyzeExpr(ctx, bc, s.Value)
		}
		bc.HasReturned = true
	case astshim.StmtThrow:
		if s.Value != nil {
			AnalyzeExpr(ctx, bc, s.Value)
		}
		bc.HasReturned = true
	case astshim.StmtBreak, astshim.StmtContinue:
		// Loop fixed-point analysis treats the whole body as one pass
		// regardless of early exits within it; a break/continue doesn't by
		// itself make the rest of the enclosing block unreachable.
	case astshim.StmtGlobal:
		for _, name := range s.GlobalNames {
			bc.Bindings.Set(name, clause.Binding{Type: ttype.Single(ttype.MixedAny())})
		}
	case astshim.StmtStatic:
		for _, sb := range s.StaticBindings {
			t := ttype.Single(ttype.MixedAny())
			if sb.Init != nil {
				t = AnalyzeExpr(ctx, bc, sb.Init)
			}
			bc.Bindings.Set(sb.Name, clause.Binding{Type: t})
		}
	case astshim.StmtUnset:
		for _, target := range s.UnsetTargets {
			AnalyzeExpr(ctx, bc, &astshim.Expr{Kind: astshim.ExprUnset, IssetTargets: []*astshim.Expr{target}, Loc: s.Loc})
		}
	case astshim.StmtFunctionDecl, astshim.StmtClassLikeDecl:
		// Declarations are symbol-collector concerns; the codebase view
		// already has their metadata by the time a file is analyzed, so
		// there's nothing left for the Block Analyzer to do here.
	default:
		ctx.Issues.Add(issue.Issue{
			Code:              issue.UnsupportedFeature,
			Severity:          issue.SeverityHint,
			Message:           "statement kind not supported by this analyzer",
			PrimaryAnnotation: issue.Annotation{Span: s.Span()},
		})
	}
}

func analyzeIf(ctx *Context, bc *BlockContext, s *astshim.Stmt) {
	thenCtx, hadElse := analyzeCondArm(ctx, bc, s.Condition, s.Then)

	var elseCtx *BlockContext
	switch {
	case len(s.ElseIfs) > 0:
		rest := bc.Snapshot()
		applyNegatedAssertions(ctx, rest, s.Condition)
		elseIf := s.ElseIfs[0]
		nestedIf := astshim.Stmt{
			Kind:      astshim.StmtIf,
			Condition: elseIf.Condition,
			Then:      elseIf.Body,
			ElseIfs:   s.ElseIfs[1:],
			Else:      s.Else,
		}
		analyzeIf(ctx, rest, &nestedIf)
		elseCtx = rest
	case hadElse:
		rest := bc.Snapshot()
		applyNegatedAssertions(ctx, rest, s.Condition)
		AnalyzeBlock(ctx, rest, s.Else)
		elseCtx = rest
	default:
		elseCtx = bc.Snapshot()
		applyNegatedAssertions(ctx, elseCtx, s.Condition)
	}

	merged := MergeBranches(thenCtx, elseCtx)
	*bc = *merged
}

// analyzeCondArm analyzes cond in bc (for its side effects/dataflow),
// snapshots bc into the "then" arm with cond's assertions applied, and
// analyzes body into it. Returns the resulting arm and a bool that is
// always true (kept symmetric with the else-arm callers).
func analyzeCondArm(ctx *Context, bc *BlockContext, cond *astshim.Expr, body []astshim.Stmt) (*BlockContext, bool) {
	AnalyzeExpr(ctx, bc, cond)
	thenCtx := bc.Snapshot()
	applyAssertions(ctx, thenCtx, cond)
	AnalyzeBlock(ctx, thenCtx, body)
	return thenCtx, true
}

func analyzeSwitch(ctx *Context, bc *BlockContext, s *astshim.Stmt) {
	AnalyzeExpr(ctx, bc, s.SwitchSubject)
	var arms []*BlockContext
	for _, c := range s.SwitchCases {
		arm := bc.Snapshot()
		if c.Condition != nil {
			AnalyzeExpr(ctx, arm, c.Condition)
		}
		AnalyzeBlock(ctx, arm, c.Body)
		arms = append(arms, arm)
	}
	if len(arms) == 0 {
		return
	}
	merged := arms[0]
	for _, arm := range arms[1:] {
		merged = MergeBranches(merged, arm)
	}
	*bc = *merged
}

func analyzeTry(ctx *Context, bc *BlockContext, s *astshim.Stmt) {
	preTry := bc.Snapshot()
	bodyCtx := bc.Snapshot()
	AnalyzeBlock(ctx, bodyCtx, s.TryBody)

	// Bindings established only inside the try body are possibly-undefined
	// at every join: a throw could have happened before the assignment that
	// introduced them ran.
	tentative := &BlockContext{
		Bindings: preTry.Bindings.MergeBranch(bodyCtx.Bindings),
		Clauses:  preTry.Clauses.Intersect(bodyCtx.Clauses),
	}
	markPossiblyUndefinedFromTry(tentative, preTry, bodyCtx)

	catchArms := make([]*BlockContext, 0, len(s.Catches))
	for _, c := range s.Catches {
		arm := tentative.Snapshot()
		if c.VarName != "" {
			t := ttype.Single(ttype.MixedAny())
			if len(c.ClassNames) > 0 {
				t = ttype.Single(ttype.ObjectNamed(c.ClassNames[0]))
				for _, extra := range c.ClassNames[1:] {
					t = ttype.CombineUnion(t, ttype.Single(ttype.ObjectNamed(extra)))
				}
			}
			arm.Bindings.Set(c.VarName, clause.Binding{Type: t})
		}
		AnalyzeBlock(ctx, arm, c.Body)
		catchArms = append(catchArms, arm)
	}

	merged := bodyCtx
	for _, arm := range catchArms {
		merged = MergeBranches(merged, arm)
	}
	*bc = *merged

	if len(s.Finally) > 0 {
		AnalyzeBlock(ctx, bc, s.Finally)
	}
}

func markPossiblyUndefinedFromTry(tentative, preTry, bodyCtx *BlockContext) {
	for _, path := range bodyCtx.Bindings.Paths() {
		if _, hadBefore := preTry.Bindings.Get(path); hadBefore {
			continue
		}
		b, ok := tentative.Bindings.Get(path)
		if !ok {
			continue
		}
		b.PossiblyUndefinedFromTry = true
		tentative.Bindings.Set(path, b)
	}
}
