package analyzer

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/clause"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/dataflow"
	"github.com/shivasurya/phpcheck-analyzer/internal/invocation"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// analyzeArguments types every actual argument, recording dataflow edges
// from each argument's origin into the callee's parameter slot.
func analyzeArguments(ctx *Context, bc *BlockContext, functionID string, args []astshim.Argument) []invocation.ArgumentType {
	out := make([]invocation.ArgumentType, len(args))
	for i, a := range args {
		t := AnalyzeExpr(ctx, bc, a.Value)
		out[i] = invocation.ArgumentType{Arg: a, Type: t, Span: a.Value.Span()}
		sink := dataflow.Node{Kind: dataflow.FunctionLikeArg, FunctionID: functionID, Offset: i}
		for parent := range t.ParentNodes {
			ctx.Graph.AddEdgeWithPayload(dataflow.Node{Kind: dataflow.Vertex, Span: a.Value.Span()}, sink, dataflow.EdgeDefault, parent, "", "", nil)
		}
	}
	return out
}

func analyzeCall(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	args := analyzeArguments(ctx, bc, e.CalleeName, e.Args)

	meta, ok := ctx.View.GetFunction(e.CalleeName)
	if !ok {
		return ttype.Single(ttype.MixedAny())
	}
	emitDeprecation(ctx, meta, e.CalleeName, e.Span())

	target := invocation.NewTargetFromFunction(meta)
	result := invocation.Analyze(ctx.View, target, args, e.Span(), ctx.Issues)
	return result.ReturnType
}

func analyzeMethodCall(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	objType := AnalyzeExpr(ctx, bc, e.Object)
	className := soleNamedClass(objType)

	outcome := ctx.Plugins.BeforeMethodCall(plugin.CallContext{ClassName: className, MethodName: e.CalleeName, Args: e.Args, Span: e.Span()})
	reportPluginIssues(ctx, outcome.Issues)
	if outcome.Skip {
		analyzeArguments(ctx, bc, className+"::"+e.CalleeName, e.Args)
		return outcome.SkipWithType
	}

	args := analyzeArguments(ctx, bc, className+"::"+e.CalleeName, e.Args)

	if className == "" {
		return ttype.Single(ttype.MixedAny())
	}
	meta, ok := ctx.View.GetMethod(className, e.CalleeName)
	if !ok {
		if rt, ok := ctx.Plugins.MethodReturnType(className + "::" + e.CalleeName); ok {
			return rt
		}
		ctx.Issues.Add(issue.Issue{
			Code:              issue.NonExistentProperty,
			Severity:          issue.SeverityError,
			Message:           "method \"" + e.CalleeName + "\" does not exist on " + className,
			PrimaryAnnotation: issue.Annotation{Span: e.Span()},
		})
		return ttype.Single(ttype.MixedAny())
	}
	emitDeprecation(ctx, meta, className+"::"+e.CalleeName, e.Span())

	target := invocation.NewTargetFromFunction(meta)
	result := invocation.Analyze(ctx.View, target, args, e.Span(), ctx.Issues)
	returnType := result.ReturnType
	if e.Kind == astshim.ExprNullsafeMethodCall && objType.IsNullable() {
		returnType = ttype.CombineUnion(returnType, ttype.Single(ttype.Null()))
	}
	return returnType
}

func analyzeStaticMethodCall(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	className := e.ClassName

	outcome := ctx.Plugins.BeforeStaticMethodCall(plugin.CallContext{ClassName: className, MethodName: e.CalleeName, Args: e.Args, Span: e.Span()})
	reportPluginIssues(ctx, outcome.Issues)
	if outcome.Skip {
		analyzeArguments(ctx, bc, className+"::"+e.CalleeName, e.Args)
		return outcome.SkipWithType
	}

	args := analyzeArguments(ctx, bc, className+"::"+e.CalleeName, e.Args)

	meta, ok := ctx.View.GetMethod(className, e.CalleeName)
	if !ok {
		if rt, ok := ctx.Plugins.MethodReturnType(className + "::" + e.CalleeName); ok {
			return rt
		}
		return ttype.Single(ttype.MixedAny())
	}
	emitDeprecation(ctx, meta, className+"::"+e.CalleeName, e.Span())

	target := invocation.NewTargetFromFunction(meta)
	result := invocation.Analyze(ctx.View, target, args, e.Span(), ctx.Issues)
	return result.ReturnType
}

func analyzeNew(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	args := analyzeArguments(ctx, bc, e.NewClassName+"::__construct", e.NewArgs)
	if meta, ok := ctx.View.GetMethod(e.NewClassName, "__construct"); ok {
		target := invocation.NewTargetFromFunction(meta)
		invocation.Analyze(ctx.View, target, args, e.Span(), ctx.Issues)
	}
	return ttype.Single(ttype.ObjectNamed(e.NewClassName))
}

func analyzeClosureLike(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	inner := bc.Snapshot()
	for _, name := range e.ClosureUses {
		if b, ok := bc.Bindings.Get(name); ok {
			inner.Bindings.Set(name, b)
		}
	}
	for _, p := range e.ClosureParams {
		t := ttype.Single(ttype.MixedAny())
		if p.DefaultVal != nil {
			t = AnalyzeExpr(ctx, inner, p.DefaultVal)
		}
		inner.Bindings.Set(p.Name, clause.Binding{Type: t})
	}
	AnalyzeBlock(ctx, inner, e.ClosureBody)

	params := make([]ttype.Union, len(e.ClosureParams))
	byRef := make([]bool, len(e.ClosureParams))
	for i, p := range e.ClosureParams {
		params[i] = ttype.Single(ttype.MixedAny())
		byRef[i] = p.ByRef
	}
	return ttype.Single(&ttype.TAtomic{Kind: ttype.KindCallable, Callable: &ttype.CallableSignature{
		Params: params, ParamsByRef: byRef, Return: ttype.Single(ttype.MixedAny()),
	}})
}

func analyzePipe(ctx *Context, bc *BlockContext, e *astshim.Expr) ttype.Union {
	inputType := AnalyzeExpr(ctx, bc, e.PipeInput)
	args := []invocation.ArgumentType{{
		Arg:  astshim.Argument{Value: e.PipeInput},
		Type: inputType,
		Span: e.PipeInput.Span(),
	}}
	calleeType := AnalyzeExpr(ctx, bc, e.PipeCallee)
	for _, a := range calleeType.Atomics() {
		if a.Kind == ttype.KindCallable && a.Callable != nil {
			return a.Callable.Return
		}
	}
	_ = args
	return ttype.Single(ttype.MixedAny())
}

func emitDeprecation(ctx *Context, meta *codebase.FunctionLikeMetadata, id string, span astshim.Span) {
	if !meta.IsDeprecated {
		return
	}
	code := issue.DeprecatedFunction
	if meta.DeclaringClass != "" {
		code = issue.DeprecatedMethod
	}
	ctx.Issues.Add(issue.Issue{
		Code:              code,
		Severity:          issue.SeverityWarning,
		Message:           "\"" + id + "\" is deprecated",
		PrimaryAnnotation: issue.Annotation{Span: span},
	})
}

func soleNamedClass(u ttype.Union) string {
	atoms := u.Atomics()
	if len(atoms) != 1 {
		return ""
	}
	if atoms[0].Kind != ttype.KindObjectNamed || atoms[0].Named == nil {
		return ""
	}
	return atoms[0].Named.Name
}

