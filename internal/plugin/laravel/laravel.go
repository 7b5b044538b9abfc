// Package laravel is the Eloquent framework adapter: it resolves virtual
// properties a model exposes through relationship methods, accessors, and
// $casts declarations, forwards Builder-only calls made on a Model, infers
// factory()->create()'s return type from the model class name, and
// suppresses the false positives Eloquent's magic methods routinely
// trigger.
package laravel

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

const (
	eloquentModel      = `Illuminate\Database\Eloquent\Model`
	eloquentCollection = `Illuminate\Database\Eloquent\Collection`
	eloquentBuilder    = `Illuminate\Database\Eloquent\Builder`
)

// New builds the Laravel adapter, wiring all five sub-resolvers
// (relationships, accessors, casts, forwarded Builder calls, factory
// return types) plus the issue filter behind one Hooks/Providers pair.
func New(view *codebase.View) plugin.Adapter {
	a := &adapter{view: view}
	return plugin.Adapter{Name: "laravel", Hooks: a, Providers: a}
}

type adapter struct {
	plugin.NoopHooks
	view *codebase.View
}

// BeforeStaticMethodCall forwards a Model's static query-building calls
// (where, find, create, ...) to the Eloquent Builder the real static call
// would dispatch to, since the model class itself doesn't declare them.
func (a *adapter) BeforeStaticMethodCall(call plugin.CallContext) plugin.Outcome {
	cls, ok := a.view.GetClassLike(call.ClassName)
	if !ok || !isEloquentModel(a.view, cls) {
		return plugin.Continue
	}
	if !isForwardedBuilderMethod(call.MethodName) {
		return plugin.Continue
	}
	return plugin.SkipWith(ttype.Single(ttype.ObjectNamed(eloquentBuilder)))
}

// IssueFilter suppresses magic-method false positives on Model
// subclasses; see issue_filter.go.
func (a *adapter) IssueFilter(iss issue.Issue) bool {
	return a.filterIssue(iss)
}

// MethodReturnTypeProvider infers Factory::create()/make()'s return type
// from the calling factory class's naming convention.
func (a *adapter) MethodReturnTypeProvider(target string) (ttype.Union, bool) {
	class, method, ok := splitTarget(target)
	if !ok {
		return ttype.Union{}, false
	}
	return resolveFactoryReturnType(a.view, class, method)
}

// PropertyInitializationProvider treats every property on an Eloquent
// Model as initialized by convention: Eloquent populates attributes at
// runtime through __set/fill(), never through constructor assignment
// visible to static analysis.
func (a *adapter) PropertyInitializationProvider(class *codebase.ClassLikeMetadata, _ *codebase.PropertyMetadata) bool {
	return isEloquentModel(a.view, class)
}

// VirtualPropertyTypeProvider resolves a property a Model subclass
// doesn't declare through, in order, a relationship method, a `*_count`
// relationship count, an accessor method, or a $casts entry.
func (a *adapter) VirtualPropertyTypeProvider(class *codebase.ClassLikeMetadata, propertyName string) (ttype.Union, bool) {
	if !isEloquentModel(a.view, class) {
		return ttype.Union{}, false
	}
	if t, ok := resolveRelationshipPropertyType(a.view, class, propertyName); ok {
		return t, true
	}
	if t, ok := resolveCountPropertyType(a.view, class, propertyName); ok {
		return t, true
	}
	if t, ok := resolveAccessorPropertyType(a.view, class, propertyName); ok {
		return t, true
	}
	if t, ok := resolveCastPropertyType(a.view, class, propertyName); ok {
		return t, true
	}
	return ttype.Union{}, false
}

func isForwardedBuilderMethod(name string) bool {
	switch name {
	case "where", "whereIn", "whereNotIn", "orderBy", "with", "find", "findOrFail",
		"create", "firstOrCreate", "updateOrCreate", "query", "paginate":
		return true
	}
	return false
}

func isEloquentModel(view *codebase.View, cls *codebase.ClassLikeMetadata) bool {
	return cls.Name == eloquentModel || view.ClassExtends(cls.Name, eloquentModel)
}

// splitTarget parses a "ClassName::method" MethodReturnTypeProvider
// target, the only form this adapter's factory inference needs.
func splitTarget(target string) (class, method string, ok bool) {
	for i := 0; i+1 < len(target); i++ {
		if target[i] == ':' && target[i+1] == ':' {
			return target[:i], target[i+2:], true
		}
	}
	return "", "", false
}
