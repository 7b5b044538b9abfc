package ttype

// TemplateResult is the accumulator threaded through invocation analysis.
// It lives in this package rather than internal/invocation because the
// combiner/subtype layer needs to resolve GenericParameter atomics against
// it during substitution, and the type algebra sits below the invocation
// analyzer in the dependency order — so the *shape* lives here, while the
// *construction logic* lives in internal/invocation.
type TemplateResult struct {
	// TemplateTypes maps a template name to its defining entity to its
	// declared constraint union.
	TemplateTypes map[string]map[string]Union

	LowerBounds map[string]map[string][]TemplateBound
	UpperBounds map[string]map[string][]TemplateBound
}

// TemplateBound is one accumulated bound: the type plus its provenance.
type TemplateBound struct {
	Type           Union
	ArgumentOffset int
	EqualityClass  string // "" when this bound is not part of an equality class
}

// NewTemplateResult returns an empty accumulator.
func NewTemplateResult() *TemplateResult {
	return &TemplateResult{
		TemplateTypes: map[string]map[string]Union{},
		LowerBounds:   map[string]map[string][]TemplateBound{},
		UpperBounds:   map[string]map[string][]TemplateBound{},
	}
}

// AddLowerBound records a lower bound for (name, definingEntity).
func (tr *TemplateResult) AddLowerBound(name, definingEntity string, bound TemplateBound) {
	if tr.LowerBounds[name] == nil {
		tr.LowerBounds[name] = map[string][]TemplateBound{}
	}
	tr.LowerBounds[name][definingEntity] = append(tr.LowerBounds[name][definingEntity], bound)
}

// AddUpperBound records an upper bound for (name, definingEntity).
func (tr *TemplateResult) AddUpperBound(name, definingEntity string, bound TemplateBound) {
	if tr.UpperBounds[name] == nil {
		tr.UpperBounds[name] = map[string][]TemplateBound{}
	}
	tr.UpperBounds[name][definingEntity] = append(tr.UpperBounds[name][definingEntity], bound)
}

// HasLowerBound reports whether (name, definingEntity) already has at
// least one lower bound recorded.
func (tr *TemplateResult) HasLowerBound(name, definingEntity string) bool {
	return len(tr.LowerBounds[name][definingEntity]) > 0
}

// MostSpecificLowerBound picks the most-specific (narrowest, i.e. least
// upper bound among lower bounds) recorded lower bound for a template,
// combining all recorded bounds into one union when more than one exists:
// the most specific union containing every observed lower bound is their
// combination.
func (tr *TemplateResult) MostSpecificLowerBound(name, definingEntity string) (Union, bool) {
	bounds := tr.LowerBounds[name][definingEntity]
	if len(bounds) == 0 {
		return Union{}, false
	}
	result := bounds[0].Type
	for _, b := range bounds[1:] {
		result = CombineUnion(result, b.Type)
	}
	return result, true
}

// ReplaceUnion substitutes generic parameters in u with their most-specific
// inferred bound from tr. A generic parameter with no recorded lower
// bound falls back to its constraint.
func ReplaceUnion(u Union, tr *TemplateResult) Union {
	if tr == nil {
		return u
	}
	out := make([]*TAtomic, 0, u.Len())
	for _, a := range u.Atomics() {
		out = append(out, replaceAtomic(a, tr)...)
	}
	result := NewUnion(Combine(out, false)...)
	result.IgnoreNullableIssues = u.IgnoreNullableIssues
	result.IgnoreFalsableIssues = u.IgnoreFalsableIssues
	result.PossiblyUndefined = u.PossiblyUndefined
	result.PossiblyUndefinedFromTry = u.PossiblyUndefinedFromTry
	return result
}

func replaceAtomic(a *TAtomic, tr *TemplateResult) []*TAtomic {
	switch a.Kind {
	case KindGenericParameter:
		if bound, ok := tr.MostSpecificLowerBound(a.Param.ParameterName, a.Param.DefiningEntity); ok {
			return ReplaceUnion(bound, tr).Atomics()
		}
		return ReplaceUnion(a.Param.Constraint, tr).Atomics()
	case KindArrayKeyed:
		cp := a.Clone()
		if cp.Keyed.ParamKey != nil {
			nk := ReplaceUnion(*cp.Keyed.ParamKey, tr)
			cp.Keyed.ParamKey = &nk
		}
		if cp.Keyed.ParamValue != nil {
			nv := ReplaceUnion(*cp.Keyed.ParamValue, tr)
			cp.Keyed.ParamValue = &nv
		}
		for _, item := range cp.Keyed.KnownItems {
			item.Possibly = ReplaceUnion(item.Possibly, tr)
		}
		return []*TAtomic{cp}
	case KindArrayList:
		cp := a.Clone()
		cp.List.ElementType = ReplaceUnion(cp.List.ElementType, tr)
		for _, item := range cp.List.KnownElements {
			item.Possibly = ReplaceUnion(item.Possibly, tr)
		}
		return []*TAtomic{cp}
	case KindIterable:
		cp := a.Clone()
		cp.Iterable.Key = ReplaceUnion(cp.Iterable.Key, tr)
		cp.Iterable.Value = ReplaceUnion(cp.Iterable.Value, tr)
		return []*TAtomic{cp}
	case KindObjectNamed:
		cp := a.Clone()
		for i, p := range cp.Named.TypeParameters {
			cp.Named.TypeParameters[i] = ReplaceUnion(p, tr)
		}
		return []*TAtomic{cp}
	case KindObjectGeneric:
		cp := a.Clone()
		for i, p := range cp.Generic.TypeParameters {
			cp.Generic.TypeParameters[i] = ReplaceUnion(p, tr)
		}
		return []*TAtomic{cp}
	case KindCallable:
		cp := a.Clone()
		for i, p := range cp.Callable.Params {
			cp.Callable.Params[i] = ReplaceUnion(p, tr)
		}
		cp.Callable.Return = ReplaceUnion(cp.Callable.Return, tr)
		return []*TAtomic{cp}
	case KindClassString:
		cp := a.Clone()
		for i, p := range cp.ClassLikeString.TypeParameters {
			cp.ClassLikeString.TypeParameters[i] = ReplaceUnion(p, tr)
		}
		return []*TAtomic{cp}
	default:
		return []*TAtomic{a}
	}
}
