// Package plugin is the framework-adapter surface: hooks that can
// short-circuit normal analysis for expressions and method calls, an
// issue filter that runs over already-collected diagnostics, and
// providers that answer read-only questions the core codebase view
// can't (a magic method's return type, whether a property is
// initialized through a framework convention rather than a constructor).
package plugin

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// Outcome is a hook's verdict: either let normal analysis proceed, or
// replace it entirely with a fixed type. A hook may also attach Issues
// without skipping at all — used by adapters that flag a call-site
// convention violation (e.g. a deprecated Magento API) rather than
// replacing its type.
type Outcome struct {
	SkipWithType ttype.Union
	Skip         bool
	Issues       []issue.Issue
}

// Continue is the zero Outcome: normal analysis proceeds unmodified.
var Continue = Outcome{}

// SkipWith returns an Outcome that replaces normal analysis with t.
func SkipWith(t ttype.Union) Outcome {
	return Outcome{SkipWithType: t, Skip: true}
}

// CallContext describes one method or static-method call site for the
// before_method_call / before_static_method_call hooks.
type CallContext struct {
	ClassName  string
	MethodName string
	Args       []astshim.Argument
	Span       astshim.Span
}

// ExprContext carries the analysis state a BeforeExpression hook needs
// beyond the expression node itself: for a property or method access,
// the already-analyzed static type of the receiver. Left zero-value for
// expression kinds with no receiver.
type ExprContext struct {
	ReceiverType ttype.Union
}

// Hooks is the interception surface a framework adapter implements to
// short-circuit normal analysis. An adapter need not implement every
// method meaningfully — the Registry calls them in order and stops at
// the first Outcome with Skip set.
type Hooks interface {
	// BeforeExpression may replace analysis of any expression, not just
	// calls — used for magic-property/array-access sugar a framework
	// defines that astshim has no dedicated node for.
	BeforeExpression(expr *astshim.Expr, ctx ExprContext) Outcome
	BeforeMethodCall(call CallContext) Outcome
	BeforeStaticMethodCall(call CallContext) Outcome
	// IssueFilter runs over an already-emitted issue at report time and
	// reports whether it should be kept. Must be deterministic given the
	// issue's code and message alone — no call-site state is available.
	IssueFilter(iss issue.Issue) bool
}

// Providers is the read-only-after-the-fact surface: questions answered
// once the core has already decided to ask, never consulted during the
// hook short-circuit path.
type Providers interface {
	// MethodReturnTypeProvider resolves target patterns of the form
	// "ClassName::*", "*::Method", or "ClassName::Method" to a return
	// type the codebase view doesn't otherwise know (e.g. a forwarded
	// Eloquent Builder call). The bool reports whether this provider has
	// an opinion at all.
	MethodReturnTypeProvider(target string) (ttype.Union, bool)
	// PropertyInitializationProvider reports whether a property is
	// considered initialized by framework convention (e.g. Eloquent
	// attributes set through __set rather than the constructor) even
	// though no assignment is visible in the class body.
	PropertyInitializationProvider(class *codebase.ClassLikeMetadata, prop *codebase.PropertyMetadata) bool
	// VirtualPropertyTypeProvider resolves a property the class doesn't
	// declare at all (an Eloquent relationship, accessor, or cast) to a
	// synthesized type, consulted by property resolution only after a
	// normal NonExistentProperty lookup has already failed.
	VirtualPropertyTypeProvider(class *codebase.ClassLikeMetadata, propertyName string) (ttype.Union, bool)
}

// Adapter bundles one framework's Hooks and Providers under a stable
// name, the unit config.Plugins names load by.
type Adapter struct {
	Name      string
	Hooks     Hooks
	Providers Providers
}

// NoopHooks is embedded by adapters that only need to implement a subset
// of Hooks, leaving the rest as Continue/Keep.
type NoopHooks struct{}

func (NoopHooks) BeforeExpression(*astshim.Expr, ExprContext) Outcome { return Continue }
func (NoopHooks) BeforeMethodCall(CallContext) Outcome                { return Continue }
func (NoopHooks) BeforeStaticMethodCall(CallContext) Outcome          { return Continue }
func (NoopHooks) IssueFilter(issue.Issue) bool                        { return true }

// NoopProviders is embedded by adapters that only need to implement a
// subset of Providers.
type NoopProviders struct{}

func (NoopProviders) MethodReturnTypeProvider(string) (ttype.Union, bool) { return ttype.Union{}, false }
func (NoopProviders) PropertyInitializationProvider(*codebase.ClassLikeMetadata, *codebase.PropertyMetadata) bool {
	return false
}
func (NoopProviders) VirtualPropertyTypeProvider(*codebase.ClassLikeMetadata, string) (ttype.Union, bool) {
	return ttype.Union{}, false
}
