package plugin

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// Registry holds the adapters loaded for one analysis run, in the order
// config.Plugins names them. Hook dispatch stops at the first adapter
// that produces a Skip outcome; provider dispatch stops at the first
// adapter with an opinion.
type Registry struct {
	adapters []Adapter
}

// NewRegistry builds a registry from the given adapters, in order.
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// BeforeExpression runs every adapter's hook in order, stopping at the
// first Skip.
func (r *Registry) BeforeExpression(expr *astshim.Expr, ctx ExprContext) Outcome {
	for _, a := range r.adapters {
		if out := a.Hooks.BeforeExpression(expr, ctx); out.Skip {
			return out
		}
	}
	return Continue
}

// BeforeMethodCall runs every adapter's hook in order. Every adapter gets
// a chance to attach Issues regardless of outcome; dispatch stops and
// returns as soon as one adapter asks to Skip, carrying forward whatever
// Issues were collected up to that point.
func (r *Registry) BeforeMethodCall(call CallContext) Outcome {
	var issues []issue.Issue
	for _, a := range r.adapters {
		out := a.Hooks.BeforeMethodCall(call)
		issues = append(issues, out.Issues...)
		if out.Skip {
			out.Issues = issues
			return out
		}
	}
	return Outcome{Issues: issues}
}

// BeforeStaticMethodCall runs every adapter's hook in order, with the
// same issue-accumulation behavior as BeforeMethodCall.
func (r *Registry) BeforeStaticMethodCall(call CallContext) Outcome {
	var issues []issue.Issue
	for _, a := range r.adapters {
		out := a.Hooks.BeforeStaticMethodCall(call)
		issues = append(issues, out.Issues...)
		if out.Skip {
			out.Issues = issues
			return out
		}
	}
	return Outcome{Issues: issues}
}

// FilterIssue reports whether iss survives every adapter's filter; a
// Remove verdict from any one adapter drops it.
func (r *Registry) FilterIssue(iss issue.Issue) bool {
	for _, a := range r.adapters {
		if !a.Hooks.IssueFilter(iss) {
			return false
		}
	}
	return true
}

// MethodReturnType asks every adapter's provider in order, returning the
// first opinion. target is a resolved method identifier the caller
// matches against patterns itself via an invocation.CallMatcher.
func (r *Registry) MethodReturnType(target string) (ttype.Union, bool) {
	for _, a := range r.adapters {
		if t, ok := a.Providers.MethodReturnTypeProvider(target); ok {
			return t, true
		}
	}
	return ttype.Union{}, false
}

// IsInitializedByConvention asks every adapter's provider whether prop is
// considered initialized by framework convention.
func (r *Registry) IsInitializedByConvention(class *codebase.ClassLikeMetadata, prop *codebase.PropertyMetadata) bool {
	for _, a := range r.adapters {
		if a.Providers.PropertyInitializationProvider(class, prop) {
			return true
		}
	}
	return false
}

// VirtualPropertyType asks every adapter's provider in order for a
// synthesized type for a property the class doesn't declare, returning
// the first opinion.
func (r *Registry) VirtualPropertyType(class *codebase.ClassLikeMetadata, propertyName string) (ttype.Union, bool) {
	for _, a := range r.adapters {
		if t, ok := a.Providers.VirtualPropertyTypeProvider(class, propertyName); ok {
			return t, true
		}
	}
	return ttype.Union{}, false
}
