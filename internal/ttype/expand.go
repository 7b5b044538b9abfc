package ttype

// ExpandOptions configures ExpandUnion.
type ExpandOptions struct {
	// SelfClass is the class-like the expression is analyzed within, used
	// to resolve `self`.
	SelfClass string
	// StaticClass is the late static-bound class (the receiver's runtime
	// class for `static`/`is_this` objects).
	StaticClass string
	// ParentClass is SelfClass's declared parent, used to resolve `parent`.
	ParentClass string
	// Aliases resolves file-local type aliases (docblock `@phpstan-type`
	// equivalents) to their expansion. Nil means no aliases are registered.
	Aliases map[string]Union
}

// ExpandUnion resolves `self`/`static`/`parent` against the active class
// context and substitutes file-local type aliases.
func ExpandUnion(u Union, opts ExpandOptions) Union {
	out := make([]*TAtomic, 0, u.Len())
	for _, a := range u.Atomics() {
		out = append(out, expandAtomic(a, opts)...)
	}
	result := NewUnion(Combine(out, false)...)
	result.IgnoreNullableIssues = u.IgnoreNullableIssues
	result.IgnoreFalsableIssues = u.IgnoreFalsableIssues
	result.PossiblyUndefined = u.PossiblyUndefined
	result.PossiblyUndefinedFromTry = u.PossiblyUndefinedFromTry
	return result
}

func expandAtomic(a *TAtomic, opts ExpandOptions) []*TAtomic {
	switch a.Kind {
	case KindObjectNamed:
		name := a.Named.Name
		switch name {
		case "self":
			name = opts.SelfClass
		case "static":
			if opts.StaticClass != "" {
				name = opts.StaticClass
			} else {
				name = opts.SelfClass
			}
		case "parent":
			name = opts.ParentClass
		default:
			if u, ok := opts.Aliases[name]; ok {
				return ReplaceUnion(u, nil).Atomics()
			}
		}
		cp := a.Clone()
		cp.Named.Name = name
		for i, p := range cp.Named.TypeParameters {
			cp.Named.TypeParameters[i] = ExpandUnion(p, opts)
		}
		return []*TAtomic{cp}
	case KindArrayKeyed:
		cp := a.Clone()
		if cp.Keyed.ParamKey != nil {
			nk := ExpandUnion(*cp.Keyed.ParamKey, opts)
			cp.Keyed.ParamKey = &nk
		}
		if cp.Keyed.ParamValue != nil {
			nv := ExpandUnion(*cp.Keyed.ParamValue, opts)
			cp.Keyed.ParamValue = &nv
		}
		for _, item := range cp.Keyed.KnownItems {
			item.Possibly = ExpandUnion(item.Possibly, opts)
		}
		return []*TAtomic{cp}
	case KindArrayList:
		cp := a.Clone()
		cp.List.ElementType = ExpandUnion(cp.List.ElementType, opts)
		return []*TAtomic{cp}
	case KindIterable:
		cp := a.Clone()
		cp.Iterable.Key = ExpandUnion(cp.Iterable.Key, opts)
		cp.Iterable.Value = ExpandUnion(cp.Iterable.Value, opts)
		return []*TAtomic{cp}
	case KindCallable:
		cp := a.Clone()
		for i, p := range cp.Callable.Params {
			cp.Callable.Params[i] = ExpandUnion(p, opts)
		}
		cp.Callable.Return = ExpandUnion(cp.Callable.Return, opts)
		return []*TAtomic{cp}
	default:
		return []*TAtomic{a}
	}
}

// PruneSubclasses applies the hierarchy-aware half of object combination:
// named object variants prune subclasses when a superclass is present, and
// prune a class when an interface it implements is present. This requires
// the codebase view, so it is exposed here as a post-processing step over
// an already-Combine()d atomic slice rather than folded into Combine
// itself, keeping the type algebra free of a codebase view dependency.
func PruneSubclasses(atomics []*TAtomic, h ClassHierarchy) []*TAtomic {
	keep := make([]bool, len(atomics))
	for i := range atomics {
		keep[i] = true
	}
	for i, a := range atomics {
		if a.Kind != KindObjectNamed {
			continue
		}
		for j, b := range atomics {
			if i == j || b.Kind != KindObjectNamed || !keep[j] {
				continue
			}
			if h.ClassExtends(a.Named.Name, b.Named.Name) || h.ClassImplements(a.Named.Name, b.Named.Name) {
				// a is a subclass/implementor of b: b (the wider type) wins,
				// provided b doesn't carry distinguishing type parameters we'd lose.
				if len(b.Named.TypeParameters) == 0 {
					keep[i] = false
				}
			}
		}
	}
	out := make([]*TAtomic, 0, len(atomics))
	for i, a := range atomics {
		if keep[i] {
			out = append(out, a)
		}
	}
	return out
}
