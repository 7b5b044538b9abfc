// Package invocation is the Invocation Analyzer: given a resolved callee
// signature and the actual arguments at a call site, it matches arguments
// to parameters, checks arity and named-argument legality, verifies each
// argument's type against its parameter, and resolves template bounds so
// the return type can be specialized to the call site.
package invocation

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// Target describes the callee signature being invoked: a free function,
// a resolved method, or a closure's inline signature.
type Target struct {
	Params       []codebase.ParamMetadata
	ReturnType   ttype.Union
	Templates    []codebase.TemplateDeclaration
	AllowsNamed  bool
	IsVariadic   bool
}

// NewTargetFromFunction builds a Target from a resolved function/method
// signature.
func NewTargetFromFunction(m *codebase.FunctionLikeMetadata) Target {
	variadic := false
	for _, p := range m.Params {
		if p.Variadic {
			variadic = true
		}
	}
	return Target{
		Params:      m.Params,
		ReturnType:  m.ReturnType,
		Templates:   m.Templates,
		AllowsNamed: m.AllowsNamedArguments,
		IsVariadic:  variadic,
	}
}

// ArgumentType pairs an actual argument with its analyzed type and span,
// the Block Analyzer's output for that expression.
type ArgumentType struct {
	Arg  astshim.Argument
	Type ttype.Union
	Span astshim.Span
}

// Result is the outcome of analyzing one call: the resolved return type
// (after template substitution) and whatever bounds were inferred along
// the way.
type Result struct {
	ReturnType ttype.Union
	Bounds     map[string]ttype.Union
}

// Analyze matches args against target's parameters, emits argument-related
// issues into buf, infers template bounds from argument types, and returns
// the call's resolved return type.
func Analyze(hierarchy ttype.ClassHierarchy, target Target, args []ArgumentType, callSpan astshim.Span, buf *issue.Buffer) Result {
	bounds := map[string]ttype.Union{}

	binding, unpacked := matchArguments(target, args, callSpan, buf)

	for paramIdx, arg := range binding {
		inferBounds(target.Templates, target.Params[paramIdx].Type, arg.Type, bounds)
	}
	for paramIdx, arg := range binding {
		param := target.Params[paramIdx]
		param.Type = SubstituteTemplates(param.Type, bounds)
		checkArgument(hierarchy, param, arg, buf)
	}

	if len(unpacked) > 0 && target.IsVariadic {
		variadicParam := target.Params[len(target.Params)-1]
		for _, arg := range unpacked {
			checkArgument(hierarchy, variadicParam, arg, buf)
			inferBounds(target.Templates, variadicParam.Type, arg.Type, bounds)
		}
	}

	checkTemplateConsistency(target.Templates, bounds, callSpan, buf)

	return Result{
		ReturnType: SubstituteTemplates(target.ReturnType, bounds),
		Bounds:     bounds,
	}
}

// matchArguments partitions args into a per-parameter-index binding plus
// any trailing unpacked (`...$rest`) arguments, emitting arity and
// named-argument issues. Arguments that can't be matched to any parameter
// (too many positional, unknown named argument) are skipped, not bound.
func matchArguments(target Target, args []ArgumentType, callSpan astshim.Span, buf *issue.Buffer) (map[int]ArgumentType, []ArgumentType) {
	binding := map[int]ArgumentType{}
	var unpacked []ArgumentType
	seenNamed := map[string]bool{}
	positionalEnded := false

	for offset, arg := range args {
		if arg.Arg.Unpacked {
			unpacked = append(unpacked, arg)
			continue
		}

		if arg.Arg.Name != "" {
			positionalEnded = true
			if !target.AllowsNamed {
				buf.Add(issue.Issue{
					Code:     issue.NamedArgumentNotAllowed,
					Severity: issue.SeverityError,
					Message:  "this callee does not allow named arguments",
					PrimaryAnnotation: issue.Annotation{Span: arg.Span},
				})
				continue
			}
			if seenNamed[arg.Arg.Name] {
				buf.Add(issue.Issue{
					Code:     issue.DuplicateNamedArgument,
					Severity: issue.SeverityError,
					Message:  "argument \"" + arg.Arg.Name + "\" was already passed",
					PrimaryAnnotation: issue.Annotation{Span: arg.Span},
				})
				continue
			}
			seenNamed[arg.Arg.Name] = true

			idx, ok := paramIndexByName(target.Params, arg.Arg.Name)
			if !ok {
				buf.Add(issue.Issue{
					Code:     issue.InvalidNamedArgument,
					Severity: issue.SeverityError,
					Message:  "unknown parameter name \"" + arg.Arg.Name + "\"",
					PrimaryAnnotation: issue.Annotation{Span: arg.Span},
				})
				continue
			}
			if _, positionallyBound := binding[idx]; positionallyBound && !target.Params[idx].Variadic {
				buf.Add(issue.Issue{
					Code:     issue.NamedArgumentOverridesPositional,
					Severity: issue.SeverityError,
					Message:  "named argument \"" + arg.Arg.Name + "\" overrides an earlier positional argument",
					PrimaryAnnotation: issue.Annotation{Span: arg.Span},
				})
				continue
			}
			if target.Params[idx].Variadic {
				buf.Add(issue.Issue{
					Code:     issue.NamedArgumentForVariadicAfterPositional,
					Severity: issue.SeverityWarning,
					Message:  "variadic parameter \"" + arg.Arg.Name + "\" cannot be targeted by name",
					PrimaryAnnotation: issue.Annotation{Span: arg.Span},
				})
				continue
			}
			binding[idx] = arg
			continue
		}

		if positionalEnded {
			continue
		}
		if offset >= len(target.Params) {
			if target.IsVariadic {
				binding[len(target.Params)-1] = arg
				continue
			}
			buf.Add(issue.Issue{
				Code:     issue.TooManyArguments,
				Severity: issue.SeverityError,
				Message:  "too many arguments passed",
				PrimaryAnnotation: issue.Annotation{Span: arg.Span},
			})
			continue
		}
		binding[offset] = arg
	}

	checkArity(target, binding, unpacked, callSpan, buf)
	return binding, unpacked
}

func paramIndexByName(params []codebase.ParamMetadata, name string) (int, bool) {
	for i, p := range params {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

func checkArity(target Target, binding map[int]ArgumentType, unpacked []ArgumentType, callSpan astshim.Span, buf *issue.Buffer) {
	if len(unpacked) > 0 {
		return
	}
	for i, p := range target.Params {
		if p.Variadic || p.HasDefault {
			continue
		}
		if _, ok := binding[i]; !ok {
			buf.Add(issue.Issue{
				Code:     issue.TooFewArguments,
				Severity: issue.SeverityError,
				Message:  "missing required argument \"" + p.Name + "\"",
				PrimaryAnnotation: issue.Annotation{Span: callSpan},
			})
		}
	}
}

// checkArgument compares one bound argument's analyzed type against its
// parameter's declared type, choosing the issue code by how the mismatch
// arose: Mixed input, a containment failure, or a widened-but-compatible
// match that should still be flagged as imprecise.
func checkArgument(hierarchy ttype.ClassHierarchy, param codebase.ParamMetadata, arg ArgumentType, buf *issue.Buffer) {
	if arg.Type.IsEmpty() {
		return
	}
	if arg.Type.IsMixed() {
		code := issue.MixedArgument
		if isMixedAny(arg.Type) {
			code = issue.MixedAnyArgument
		}
		buf.Add(issue.Issue{
			Code:     code,
			Severity: issue.SeverityWarning,
			Message:  "argument \"" + param.Name + "\" received a mixed value",
			PrimaryAnnotation: issue.Annotation{Span: arg.Span},
		})
		return
	}

	var result ttype.ComparisonResult
	if ttype.IsContainedByUnion(arg.Type, param.Type, hierarchy, ttype.Options{}, &result) {
		if result.TypeCoerced {
			buf.Add(issue.Issue{
				Code:     issue.LessSpecificArgument,
				Severity: issue.SeverityHint,
				Message:  "argument \"" + param.Name + "\" is less specific than its declared parameter type",
				PrimaryAnnotation: issue.Annotation{Span: arg.Span},
			})
		}
		return
	}

	buf.Add(issue.Issue{
		Code:     issue.InvalidArgument,
		Severity: issue.SeverityError,
		Message:  "argument \"" + param.Name + "\" has type " + arg.Type.Id() + ", expected " + param.Type.Id(),
		PrimaryAnnotation: issue.Annotation{Span: arg.Span},
	})
}

func isMixedAny(u ttype.Union) bool {
	for _, a := range u.Atomics() {
		if a.IsMixedAny() {
			return true
		}
	}
	return false
}
