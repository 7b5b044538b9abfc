// Package property is property resolution: given an object expression's
// analyzed type and a property-access selector, it finds the declaring
// class for the property on every possible atomic of the object type,
// checks visibility, and reports the property-access issues the type
// algebra can't see on its own (null receivers, non-object receivers,
// ambiguous dynamic selectors, unknown properties).
package property

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// Resolved is one successfully resolved property access.
type Resolved struct {
	PropertyName   string
	DeclaringClass string
	Type           ttype.Union
}

// Result is the outcome of resolving one property access across every
// atomic of the object's type.
type Result struct {
	Properties            []Resolved
	HasAmbiguousPath       bool
	HasInvalidPath         bool
	EncounteredNull        bool
	EncounteredMixed       bool
}

// Request describes one property access to resolve.
type Request struct {
	ObjectType     ttype.Union
	PropertyName   string // "" when the selector is dynamic ($obj->{$expr})
	IsNullSafe     bool
	ForAssignment  bool
	CurrentClass   string // class context the access occurs in, for visibility
	AccessSpan     astshim.Span
}

// Resolve walks every atomic of req.ObjectType, reports access issues
// into buf, and returns the properties that were successfully resolved.
func Resolve(view *codebase.View, req Request, buf *issue.Buffer) Result {
	var result Result

	if req.PropertyName == "" {
		result.HasAmbiguousPath = true
		buf.Add(issue.Issue{
			Code:              issue.AmbiguousObjectPropertyAccess,
			Severity:          issue.SeverityWarning,
			Message:           "dynamic property access cannot be resolved statically",
			PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
		})
		return result
	}

	isNullable := req.ObjectType.IsNullable()
	if req.IsNullSafe && !isNullable {
		buf.Add(issue.Issue{
			Code:              issue.RedundantNullsafeOperator,
			Severity:          issue.SeverityHint,
			Message:           "this object is never null, the nullsafe operator has no effect",
			PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
		})
	}

	if req.ObjectType.IsMixed() {
		result.EncounteredMixed = true
	}

	for _, atom := range req.ObjectType.Atomics() {
		resolveAtomic(view, atom, req, &result, buf)
	}

	return result
}

func resolveAtomic(view *codebase.View, atom *ttype.TAtomic, req Request, result *Result, buf *issue.Buffer) {
	switch atom.Kind {
	case ttype.KindNull, ttype.KindVoid:
		result.EncounteredNull = true
		if !req.IsNullSafe {
			code := issue.PossiblyNullPropertyAccess
			if req.ObjectType.Len() == 1 {
				code = issue.NullPropertyAccess
			}
			buf.Add(issue.Issue{
				Code:              code,
				Severity:          issue.SeverityError,
				Message:           "accessing property \"" + req.PropertyName + "\" on a possibly null value",
				PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
			})
		}
		return
	case ttype.KindMixed:
		code := issue.MixedPropertyAccess
		if atom.IsMixedAny() {
			code = issue.MixedAnyPropertyAccess
		}
		buf.Add(issue.Issue{
			Code:              code,
			Severity:          issue.SeverityWarning,
			Message:           "accessing property \"" + req.PropertyName + "\" on a mixed value",
			PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
		})
		return
	case ttype.KindObjectAny:
		result.HasInvalidPath = true
		buf.Add(issue.Issue{
			Code:              issue.InvalidPropertyAccess,
			Severity:          issue.SeverityWarning,
			Message:           "accessing property \"" + req.PropertyName + "\" on an unspecified object type",
			PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
		})
		return
	case ttype.KindObjectNamed:
		resolveNamed(view, atom, req, result, buf)
		return
	case ttype.KindObjectGeneric:
		resolveGeneric(view, atom, req, result, buf)
		return
	case ttype.KindGenericParameter:
		if atom.Param != nil {
			for _, bound := range atom.Param.Constraint.Atomics() {
				resolveAtomic(view, bound, req, result, buf)
			}
			return
		}
	}

	result.HasInvalidPath = true
	buf.Add(issue.Issue{
		Code:              issue.InvalidPropertyAccess,
		Severity:          issue.SeverityError,
		Message:           "accessing property \"" + req.PropertyName + "\" on a non-object value",
		PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
	})
}

func resolveNamed(view *codebase.View, atom *ttype.TAtomic, req Request, result *Result, buf *issue.Buffer) {
	if atom.Named == nil {
		result.HasInvalidPath = true
		return
	}
	className := atom.Named.Name
	resolveOnClass(view, className, req, result, buf, nil)
}

func resolveGeneric(view *codebase.View, atom *ttype.TAtomic, req Request, result *Result, buf *issue.Buffer) {
	if atom.Generic == nil {
		result.HasInvalidPath = true
		return
	}
	resolveOnClass(view, atom.Generic.Name, req, result, buf, atom.Generic.TypeParameters)
}

// resolveOnClass finds the declaring class for propertyName on className,
// checks visibility, localizes the declared type through the generic's
// type parameters (a bare substitution by declaration order since
// templates aren't separately tracked per property), and appends the
// result.
func resolveOnClass(view *codebase.View, className string, req Request, result *Result, buf *issue.Buffer, typeParams []ttype.Union) {
	declaringClass, ok := view.GetDeclaringClassForProperty(className, req.PropertyName)
	if !ok {
		result.HasInvalidPath = true
		buf.Add(issue.Issue{
			Code:              issue.NonExistentProperty,
			Severity:          issue.SeverityError,
			Message:           "property \"" + req.PropertyName + "\" does not exist on " + className,
			PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
		})
		return
	}

	cls, ok := view.GetClassLike(declaringClass)
	if !ok {
		result.HasInvalidPath = true
		return
	}
	prop, ok := cls.Properties[req.PropertyName]
	if !ok {
		result.HasInvalidPath = true
		return
	}

	propType := prop.Type
	if len(typeParams) > 0 {
		propType = localizeGenericProperty(cls, prop, typeParams)
	}

	checkVisibility(prop, req, buf)

	result.Properties = append(result.Properties, Resolved{
		PropertyName:   req.PropertyName,
		DeclaringClass: declaringClass,
		Type:           propType,
	})
}

func checkVisibility(prop *codebase.PropertyMetadata, req Request, buf *issue.Buffer) {
	if prop.Visibility == codebase.VisibilityPublic {
		return
	}
	if prop.Visibility == codebase.VisibilityProtected && req.CurrentClass != "" {
		return
	}
	if prop.Visibility == codebase.VisibilityPrivate && req.CurrentClass == prop.DeclaringClass {
		return
	}
	if req.CurrentClass == prop.DeclaringClass {
		return
	}
	buf.Add(issue.Issue{
		Code:              issue.InvalidPropertyAccess,
		Severity:          issue.SeverityError,
		Message:           "property \"" + req.PropertyName + "\" is not accessible from this context",
		PrimaryAnnotation: issue.Annotation{Span: req.AccessSpan},
	})
}

// localizeGenericProperty substitutes the class's own declared template
// parameters (in declaration order) with the concrete type arguments
// typeParams supplies, for a property whose declared type mentions one of
// those templates.
func localizeGenericProperty(cls *codebase.ClassLikeMetadata, prop *codebase.PropertyMetadata, typeParams []ttype.Union) ttype.Union {
	subst := map[string]ttype.Union{}
	for i, t := range cls.Templates {
		if i < len(typeParams) {
			subst[t.Name] = typeParams[i]
		}
	}
	if len(subst) == 0 {
		return prop.Type
	}

	var out []*ttype.TAtomic
	for _, a := range prop.Type.Atomics() {
		if a.Kind == ttype.KindGenericParameter && a.Param != nil {
			if bound, ok := subst[a.Param.ParameterName]; ok {
				out = append(out, bound.Atomics()...)
				continue
			}
		}
		out = append(out, a)
	}
	return ttype.NewUnion(out...)
}
