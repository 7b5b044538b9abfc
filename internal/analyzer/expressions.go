package analyzer

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/assertion"
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/clause"
	"github.com/shivasurya/phpcheck-analyzer/internal/dataflow"
	"github.com/shivasurya/phpcheck-analyzer/internal/invocation"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
	"github.com/shivasurya/phpcheck-analyzer/internal/property"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// AnalyzeExpr dispatches on e.Kind, returning e's analyzed type and
// recording whatever bindings/dataflow edges the expression establishes.
// A nil e (an omitted optional slot, e.g. Elvis's missing IfTrue) types as
// mixed rather than panicking, so callers never need a nil guard of their
// own.
func AnalyzeExpr(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	if e == nil {
		return ttype.Single(ttype.MixedAny())
	}

	if outcome := ctx.Plugins.BeforeExpression(e, exprContext(ctx, bc, e)); outcome.Skip {
		reportPluginIssues(ctx, outcome.Issues)
		return outcome.SkipWithType
	}

	switch e.Kind {
	case astshim.ExprVariable:
		return analyzeVariable(ctx, bc, e)
	case astshim.ExprAssign:
		return analyzeAssign(ctx, bc, e)
	case astshim.ExprCompoundAssign:
		return analyzeCompoundAssign(ctx, bc, e)
	case astshim.ExprPropertyAccess, astshim.ExprNullsafePropertyAccess:
		return analyzePropertyAccess(ctx, bc, e, false)
	case astshim.ExprStaticPropertyAccess:
		return analyzeStaticPropertyAccess(ctx, bc, e)
	case astshim.ExprArrayAccess:
		return analyzeArrayAccess(ctx, bc, e)
	case astshim.ExprArrayLiteral:
		return analyzeArrayLiteral(ctx, bc, e)
	case astshim.ExprListDestructure:
		for _, t := range e.Targets {
			if t.Target != nil {
				AnalyzeExpr(ctx, bc, t.Target)
			}
		}
		return ttype.Single(ttype.MixedAny())
	case astshim.ExprCall:
		return analyzeCall(ctx, bc, e)
	case astshim.ExprMethodCall, astshim.ExprNullsafeMethodCall:
		return analyzeMethodCall(ctx, bc, e)
	case astshim.ExprStaticMethodCall:
		return analyzeStaticMethodCall(ctx, bc, e)
	case astshim.ExprNew:
		return analyzeNew(ctx, bc, e)
	case astshim.ExprClosure, astshim.ExprArrowFunction:
		return analyzeClosureLike(ctx, bc, e)
	case astshim.ExprFirstClassCallable:
		return ttype.Single(&ttype.TAtomic{Kind: ttype.KindCallable, Callable: &ttype.CallableSignature{Alias: e.FirstClassTarget}})
	case astshim.ExprPipe:
		return analyzePipe(ctx, bc, e)
	case astshim.ExprNullCoalesce:
		return analyzeNullCoalesce(ctx, bc, e)
	case astshim.ExprLogicalAnd:
		return analyzeLogicalAnd(ctx, bc, e)
	case astshim.ExprLogicalOr:
		return analyzeLogicalOr(ctx, bc, e)
	case astshim.ExprLogicalNot:
		AnalyzeExpr(ctx, bc, e.Operand)
		return boolUnion()
	case astshim.ExprTernary:
		return analyzeTernary(ctx, bc, e)
	case astshim.ExprMatch:
		return analyzeMatch(ctx, bc, e)
	case astshim.ExprInstanceOf:
		AnalyzeExpr(ctx, bc, e.Left)
		if e.InstanceOfExpr != nil {
			AnalyzeExpr(ctx, bc, e.InstanceOfExpr)
		}
		return boolUnion()
	case astshim.ExprBinary:
		return analyzeBinary(ctx, bc, e)
	case astshim.ExprUnary:
		return analyzeUnary(ctx, bc, e)
	case astshim.ExprCast:
		AnalyzeExpr(ctx, bc, e.Operand)
		return castResultType(e.CastType)
	case astshim.ExprIsset:
		for _, t := range e.IssetTargets {
			AnalyzeExpr(ctx, bc, t)
		}
		return boolUnion()
	case astshim.ExprUnset:
		for _, t := range e.IssetTargets {
			if path := assertion.ExprID(t); path != "" {
				bc.Bindings.Remove(path)
				if ctx.Memo != nil {
					ctx.Memo.Invalidate(path)
				}
			}
		}
		return ttype.Single(ttype.Void())
	case astshim.ExprThrow:
		if e.Operand != nil {
			AnalyzeExpr(ctx, bc, e.Operand)
		}
		bc.HasReturned = true
		return ttype.Single(ttype.Never())
	case astshim.ExprExit:
		if e.Operand != nil {
			AnalyzeExpr(ctx, bc, e.Operand)
		}
		bc.HasReturned = true
		return ttype.Single(ttype.Never())
	case astshim.ExprClassConstFetch:
		return ttype.Single(ttype.MixedAny())
	case astshim.ExprLiteralNull:
		return ttype.Single(ttype.Null())
	case astshim.ExprLiteralBool:
		if e.LiteralBool {
			return ttype.Single(ttype.BoolTrue())
		}
		return ttype.Single(ttype.BoolFalse())
	case astshim.ExprLiteralInt:
		return ttype.Single(ttype.IntLiteral(e.LiteralInt))
	case astshim.ExprLiteralFloat:
		return ttype.Single(ttype.FloatLiteral(e.LiteralFloat))
	case astshim.ExprLiteralString:
		return ttype.Single(ttype.StringLiteral(e.LiteralString))
	}

	ctx.Issues.Add(issue.Issue{
		Code:              issue.UnsupportedFeature,
		Severity:          issue.SeverityHint,
		Message:           "expression kind not supported by this analyzer",
		PrimaryAnnotation: issue.Annotation{Span: e.Span()},
	})
	return ttype.Single(ttype.MixedAny())
}

func boolUnion() ttype.Union {
	return ttype.NewUnion(ttype.BoolTrue(), ttype.BoolFalse())
}

func exprContext(ctx *Context, bc *BlockContext, e *astshim.Expr) plugin.ExprContext {
	var receiver *astshim.Expr
	switch e.Kind {
	case astshim.ExprPropertyAccess, astshim.ExprNullsafePropertyAccess, astshim.ExprMethodCall, astshim.ExprNullsafeMethodCall:
		receiver = e.Object
		if receiver == nil {
			receiver = e.Callee
		}
	}
	if receiver == nil {
		return plugin.ExprContext{}
	}
	return plugin.ExprContext{ReceiverType: typeOf(bc, receiver)}
}

// typeOf returns a path's current binding type without re-analyzing the
// expression, used where only a cheap lookup is needed (plugin hook
// context); callers that need side effects recorded call AnalyzeExpr.
func typeOf(bc *BlockContext, e *astshim.Expr) ttype.Union {
	path := assertion.ExprID(e)
	if path == "" {
		return ttype.Union{}
	}
	if b, ok := bc.Bindings.Get(path); ok {
		return b.Type
	}
	return ttype.Union{}
}

func reportPluginIssues(ctx *Context, issues []issue.Issue) {
	for _, i := range issues {
		if ctx.Plugins.FilterIssue(i) {
			ctx.Issues.Add(i)
		}
	}
}

func analyzeVariable(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	path := e.VariableName
	b, ok := bc.Bindings.Get(path)
	if !ok {
		ctx.Issues.Add(issue.Issue{
			Code:              issue.NoValue,
			Severity:          issue.SeverityWarning,
			Message:           "variable \"" + path + "\" is never assigned before this use",
			PrimaryAnnotation: issue.Annotation{Span: e.Span()},
		})
		return ttype.Single(ttype.MixedAny())
	}
	if b.PossiblyUndefined {
		ctx.Issues.Add(issue.Issue{
			Code:              issue.NoValue,
			Severity:          issue.SeverityHint,
			Message:           "variable \"" + path + "\" might not be defined on this path",
			PrimaryAnnotation: issue.Annotation{Span: e.Span()},
		})
	}
	source := dataflow.Node{Kind: dataflow.VariableUseSource, Span: e.Span()}
	sourceID := ctx.Graph.AddNode(source)
	return b.Type.WithParentNode(sourceID)
}

func analyzeAssign(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	valType := AnalyzeExpr(ctx, bc, e.AssignValue)
	bindAssignTarget(ctx, bc, e.AssignTarget, valType, e.Span())
	return valType
}

// bindAssignTarget recurses through array-literal/list-destructure targets
// the same way GetAssignmentMap's recordRoot does, binding each leaf path
// to mixed (a destructured element's exact type isn't tracked per-slot).
func bindAssignTarget(ctx *Context, bc *BlockContext, target *astshim.Expr, valType ttype.Union, span astshim.Span) {
	if target == nil {
		return
	}
	switch target.Kind {
	case astshim.ExprArrayLiteral:
		for _, item := range target.Items {
			bindAssignTarget(ctx, bc, item.Value, ttype.Single(ttype.MixedAny()), span)
		}
		return
	case astshim.ExprListDestructure:
		for _, t := range target.Targets {
			bindAssignTarget(ctx, bc, t.Target, ttype.Single(ttype.MixedAny()), span)
		}
		return
	case astshim.ExprPropertyAccess:
		objType := AnalyzeExpr(ctx, bc, target.Object)
		req := property.Request{ObjectType: objType, PropertyName: target.PropertyName, ForAssignment: true, CurrentClass: ctx.CurrentClass, AccessSpan: span}
		property.Resolve(ctx.View, req, ctx.Issues)
		if objPath := assertion.ExprID(target.Object); objPath != "" && ctx.Memo != nil {
			ctx.Memo.Invalidate(objPath)
		}
		source := dataflow.Node{Kind: dataflow.VariableUseSource, Span: span}
		sink := dataflow.Node{Kind: dataflow.LocalizedProperty, Class: ctx.CurrentClass, PropertyName: target.PropertyName, Span: span}
		ctx.Graph.AddEdgeWithPayload(source, sink, dataflow.EdgePropertyAssignment, "", ctx.CurrentClass, target.PropertyName, nil)
		return
	case astshim.ExprStaticPropertyAccess:
		path := target.ClassName + "::$" + target.PropertyName
		bc.Bindings.Set(path, clause.Binding{Type: valType})
		return
	case astshim.ExprArrayAccess:
		path := assertion.ExprID(target)
		if path != "" {
			bc.Bindings.Set(path, clause.Binding{Type: valType})
		}
		if target.Container != nil {
			AnalyzeExpr(ctx, bc, target.Container)
		}
		return
	}

	path := assertion.ExprID(target)
	if path == "" {
		return
	}
	bc.Bindings.Set(path, clause.Binding{Type: valType})
}

func analyzeCompoundAssign(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	prior := AnalyzeExpr(ctx, bc, e.AssignTarget)
	rhs := AnalyzeExpr(ctx, bc, e.AssignValue)
	combined := ttype.CombineUnion(prior, rhs)
	bindAssignTarget(ctx, bc, e.AssignTarget, combined, e.Span())
	return combined
}

func analyzePropertyAccess(ctx *Context, bc *BlockContext, e *astshim.Expr, forAssignment bool) ttype.Union {
	objType := AnalyzeExpr(ctx, bc, e.Object)
	objPath := assertion.ExprID(e.Object)

	req := property.Request{
		ObjectType:    objType,
		PropertyName:  e.PropertyName,
		IsNullSafe:    e.Kind == astshim.ExprNullsafePropertyAccess,
		ForAssignment: forAssignment,
		CurrentClass:  ctx.CurrentClass,
		AccessSpan:    e.Span(),
	}

	result := property.ResolveMemoized(ctx.Memo, objPath, req, func() property.Result {
		return property.Resolve(ctx.View, req, ctx.Issues)
	})

	source := dataflow.Node{Kind: dataflow.Property, Class: ctx.CurrentClass, PropertyName: e.PropertyName, Span: e.Span()}
	sink := dataflow.Node{Kind: dataflow.VariableUseSink, Span: e.Span()}
	ctx.Graph.AddEdgeWithPayload(source, sink, dataflow.EdgePropertyAccess, "", ctx.CurrentClass, e.PropertyName, nil)
	sourceID := ctx.Graph.AddNode(source)

	if len(result.Properties) == 0 {
		return ttype.Single(ttype.MixedAny())
	}

	var out []*ttype.TAtomic
	for _, p := range result.Properties {
		out = append(out, p.Type.Atomics()...)
	}
	if result.EncounteredNull && e.Kind == astshim.ExprNullsafePropertyAccess {
		out = append(out, ttype.Null())
	}
	return ttype.NewUnion(out...).WithParentNode(sourceID)
}

func analyzeStaticPropertyAccess(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	path := e.ClassName + "::$" + e.PropertyName
	if b, ok := bc.Bindings.Get(path); ok {
		return b.Type
	}
	cls, ok := ctx.View.GetClassLike(e.ClassName)
	if ok {
		if prop, ok := cls.Properties[e.PropertyName]; ok {
			return prop.Type
		}
	}
	return ttype.Single(ttype.MixedAny())
}

func analyzeArrayAccess(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	containerType := AnalyzeExpr(ctx, bc, e.Container)
	if e.Key != nil {
		AnalyzeExpr(ctx, bc, e.Key)
	}

	var out []*ttype.TAtomic
	sawArray := false
	for _, a := range containerType.Atomics() {
		switch a.Kind {
		case ttype.KindArrayList:
			sawArray = true
			if a.List != nil {
				out = append(out, a.List.ElementType.Atomics()...)
			}
		case ttype.KindArrayKeyed:
			sawArray = true
			if a.Keyed != nil {
				if a.Keyed.ParamValue != nil {
					out = append(out, a.Keyed.ParamValue.Atomics()...)
				}
				for _, item := range a.Keyed.KnownItems {
					out = append(out, item.Possibly.Atomics()...)
				}
			}
		case ttype.KindIterable:
			sawArray = true
			if a.Iterable != nil {
				out = append(out, a.Iterable.Value.Atomics()...)
			}
		case ttype.KindMixed:
			out = append(out, ttype.MixedAny())
		}
	}
	if !sawArray {
		ctx.Issues.Add(issue.Issue{
			Code:              issue.InvalidArgument,
			Severity:          issue.SeverityWarning,
			Message:           "array access on a value that is not known to be an array",
			PrimaryAnnotation: issue.Annotation{Span: e.Span()},
		})
	}
	if len(out) == 0 {
		out = []*ttype.TAtomic{ttype.MixedAny()}
	}
	return ttype.NewUnion(out...)
}

func analyzeArrayLiteral(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	hasKeys := false
	for _, item := range e.Items {
		if item.Key != nil {
			hasKeys = true
		}
	}

	if hasKeys {
		items := map[string]*ttype.ArrayItem{}
		var order []string
		for _, item := range e.Items {
			var keyStr string
			if item.Key != nil {
				AnalyzeExpr(ctx, bc, item.Key)
				keyStr = item.Key.LiteralString
			}
			valType := AnalyzeExpr(ctx, bc, item.Value)
			if _, exists := items[keyStr]; !exists {
				order = append(order, keyStr)
			}
			items[keyStr] = &ttype.ArrayItem{Possibly: valType}
		}
		return ttype.Single(ttype.Keyed(items, order, len(items) > 0))
	}

	var elemAtomics []*ttype.TAtomic
	for _, item := range e.Items {
		valType := AnalyzeExpr(ctx, bc, item.Value)
		elemAtomics = append(elemAtomics, valType.Atomics()...)
	}
	elem := ttype.Single(ttype.MixedAny())
	if len(elemAtomics) > 0 {
		elem = ttype.NewUnion(elemAtomics...)
	}
	return ttype.Single(ttype.ListOf(elem, len(e.Items) > 0))
}

func castResultType(castType string) ttype.Union {
	switch castType {
	case "int":
		return ttype.Single(ttype.IntGeneral())
	case "float":
		return ttype.Single(ttype.FloatGeneral())
	case "string":
		return ttype.Single(ttype.StringGeneral())
	case "bool":
		return boolUnion()
	case "array":
		return ttype.Single(ttype.ListOf(ttype.Single(ttype.MixedAny()), false))
	case "object":
		return ttype.Single(ttype.ObjectAny())
	}
	return ttype.Single(ttype.MixedAny())
}

func analyzeBinary(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	AnalyzeExpr(ctx, bc, e.Left)
	AnalyzeExpr(ctx, bc, e.Right)
	switch e.Operator {
	case "==", "===", "!=", "<>", "!==", ">", ">=", "<", "<=":
		return boolUnion()
	case ".":
		return ttype.Single(ttype.StringGeneral())
	case "+", "-", "*", "/", "%", "**":
		return ttype.Single(ttype.IntGeneral())
	}
	return ttype.Single(ttype.MixedAny())
}

func analyzeUnary(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	if e.Operator == "++" || e.Operator == "--" {
		prior := AnalyzeExpr(ctx, bc, e.Operand)
		bindAssignTarget(ctx, bc, e.Operand, prior, e.Span())
		return prior
	}
	operand := AnalyzeExpr(ctx, bc, e.Operand)
	if e.Operator == "!" {
		return boolUnion()
	}
	return operand
}
