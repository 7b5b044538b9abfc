package invocation

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// inferBounds walks paramType looking for generic-parameter atomics and
// records what argType supplied in their place, widening an existing
// bound via CombineUnion rather than overwriting it — a template used in
// two parameters must bind the union of what both arguments provided.
func inferBounds(templates []codebase.TemplateDeclaration, paramType, argType ttype.Union, bounds map[string]ttype.Union) {
	if len(templates) == 0 {
		return
	}
	for _, pAtom := range paramType.Atomics() {
		if pAtom.Kind != ttype.KindGenericParameter || pAtom.Param == nil {
			continue
		}
		name := pAtom.Param.ParameterName
		if !isDeclaredTemplate(templates, name) {
			continue
		}
		if existing, ok := bounds[name]; ok {
			bounds[name] = ttype.CombineUnion(existing, argType)
		} else {
			bounds[name] = argType
		}
	}
}

func isDeclaredTemplate(templates []codebase.TemplateDeclaration, name string) bool {
	for _, t := range templates {
		if t.Name == name {
			return true
		}
	}
	return false
}

// checkTemplateConsistency verifies every inferred bound satisfies the
// template's declared constraint, emitting TemplateConstraintViolation
// when it doesn't. A template with no inferred bound (unused in any
// by-value parameter) has nothing to check here.
func checkTemplateConsistency(templates []codebase.TemplateDeclaration, bounds map[string]ttype.Union, callSpan astshim.Span, buf *issue.Buffer) {
	for _, t := range templates {
		bound, ok := bounds[t.Name]
		if !ok || t.Constraint.IsEmpty() {
			continue
		}
		if !ttype.IsContainedByUnion(bound, t.Constraint, nil, ttype.Options{}, nil) {
			buf.Add(issue.Issue{
				Code:     issue.TemplateConstraintViolation,
				Severity: issue.SeverityError,
				Message:  "template \"" + t.Name + "\" inferred as " + bound.Id() + ", which does not satisfy its constraint " + t.Constraint.Id(),
				PrimaryAnnotation: issue.Annotation{Span: callSpan},
			})
		}
	}
}

// SubstituteTemplates replaces every generic-parameter atomic in u whose
// name has an inferred bound with that bound, leaving unresolved
// templates as mixed so downstream checks don't choke on a dangling
// template reference.
func SubstituteTemplates(u ttype.Union, bounds map[string]ttype.Union) ttype.Union {
	var out []*ttype.TAtomic
	for _, a := range u.Atomics() {
		if a.Kind == ttype.KindGenericParameter && a.Param != nil {
			if bound, ok := bounds[a.Param.ParameterName]; ok {
				out = append(out, bound.Atomics()...)
				continue
			}
			out = append(out, ttype.MixedAny())
			continue
		}
		out = append(out, a)
	}
	return ttype.NewUnion(out...)
}
