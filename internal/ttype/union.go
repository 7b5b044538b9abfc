package ttype

// Union is the `TUnion` of the type algebra: an unordered but
// stably-identified set of atomics plus metadata. A union is never empty;
// `Never` appears only as the sole atomic (enforced by the
// constructors/combiner, not by this type's invariants alone).
type Union struct {
	atomics map[string]*TAtomic
	order   []string // insertion order, kept so Atomics() is deterministic

	IgnoreNullableIssues       bool
	IgnoreFalsableIssues       bool
	PossiblyUndefined          bool
	PossiblyUndefinedFromTry   bool

	// ParentNodes is the set of dataflow node ids this value originated
	// from. Stored as a set keyed by node id string.
	ParentNodes map[string]struct{}
}

// NewUnion builds a union from one or more atomics, deduplicating by Id().
func NewUnion(atomics ...*TAtomic) Union {
	u := Union{atomics: make(map[string]*TAtomic, len(atomics))}
	for _, a := range atomics {
		u.add(a)
	}
	return u
}

// Single is a convenience constructor for a one-atomic union.
func Single(a *TAtomic) Union { return NewUnion(a) }

func (u *Union) add(a *TAtomic) {
	if a == nil {
		return
	}
	id := a.Id()
	if _, ok := u.atomics[id]; ok {
		return
	}
	if u.atomics == nil {
		u.atomics = make(map[string]*TAtomic)
	}
	u.atomics[id] = a
	u.order = append(u.order, id)
}

// Atomics returns the union's members in stable (insertion) order.
func (u Union) Atomics() []*TAtomic {
	out := make([]*TAtomic, 0, len(u.order))
	for _, id := range u.order {
		out = append(out, u.atomics[id])
	}
	return out
}

// Len reports the number of distinct atomics.
func (u Union) Len() int { return len(u.order) }

// IsEmpty reports whether the union was never populated. A well-formed
// union is never empty; this exists only to detect construction bugs
// during analysis (never exposed as a valid expression type).
func (u Union) IsEmpty() bool { return len(u.order) == 0 }

// IsNever reports whether this union is exactly {Never}.
func (u Union) IsNever() bool {
	return len(u.order) == 1 && u.atomics[u.order[0]].Kind == KindNever
}

// IsMixed reports whether the union contains a Mixed(any) atomic, which per
// the combiner contract absorbs all others, so a well-formed mixed union
// is always a singleton.
func (u Union) IsMixed() bool {
	for _, a := range u.atomics {
		if a.IsMixedAny() {
			return true
		}
	}
	return false
}

// IsNullable reports whether `null` is one of the union's atomics.
func (u Union) IsNullable() bool {
	for _, a := range u.atomics {
		if a.Kind == KindNull {
			return true
		}
	}
	return false
}

// HasAtomicKind reports whether any member atomic has the given kind.
func (u Union) HasAtomicKind(k Kind) bool {
	for _, a := range u.atomics {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// Id returns a canonical string identity for the whole union, built from
// the sorted ids of its members. Used as a map key (e.g. binding-table
// snapshots, test assertions).
func (u Union) Id() string {
	if len(u.order) == 0 {
		return "<empty>"
	}
	ids := make([]string, 0, len(u.order))
	for _, id := range u.order {
		ids = append(ids, id)
	}
	return joinSorted(ids, "|")
}

// Clone returns an independent copy. Unions are frequently cloned for
// per-expression typing and snapshots rather than shared by reference.
func (u Union) Clone() Union {
	cp := Union{
		atomics:                  make(map[string]*TAtomic, len(u.atomics)),
		order:                    append([]string(nil), u.order...),
		IgnoreNullableIssues:     u.IgnoreNullableIssues,
		IgnoreFalsableIssues:     u.IgnoreFalsableIssues,
		PossiblyUndefined:        u.PossiblyUndefined,
		PossiblyUndefinedFromTry: u.PossiblyUndefinedFromTry,
	}
	for id, a := range u.atomics {
		cp.atomics[id] = a.Clone()
	}
	if u.ParentNodes != nil {
		cp.ParentNodes = make(map[string]struct{}, len(u.ParentNodes))
		for k := range u.ParentNodes {
			cp.ParentNodes[k] = struct{}{}
		}
	}
	return cp
}

// WithParentNode returns a copy of u with node added to its dataflow parent
// set, used by the analyzer when an expression's type is derived from a
// dataflow-graph node.
func (u Union) WithParentNode(nodeID string) Union {
	cp := u.Clone()
	if cp.ParentNodes == nil {
		cp.ParentNodes = make(map[string]struct{}, 1)
	}
	cp.ParentNodes[nodeID] = struct{}{}
	return cp
}

func joinSorted(ss []string, sep string) string {
	cp := append([]string(nil), ss...)
	// simple insertion sort: these slices are always small (a handful of
	// atomics per union), so avoiding an extra import keeps this file
	// self-contained.
	for i := 1; i < len(cp); i++ {
		for j := i; j > 0 && cp[j-1] > cp[j]; j-- {
			cp[j-1], cp[j] = cp[j], cp[j-1]
		}
	}
	out := ""
	for i, s := range cp {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}

// ToNonNullable returns u with `null` removed. Combining the result back
// with `null` reproduces u whenever u was nullable; this is the core
// operation behind null-coalesce and isset narrowing. If the only atomic
// was null, the result is Never: no value can flow past this point.
func ToNonNullable(u Union) Union {
	kept := make([]*TAtomic, 0, u.Len())
	for _, a := range u.Atomics() {
		if a.Kind == KindNull {
			continue
		}
		kept = append(kept, a)
	}
	if len(kept) == 0 {
		return Single(Never())
	}
	out := NewUnion(kept...)
	out.IgnoreNullableIssues = u.IgnoreNullableIssues
	out.IgnoreFalsableIssues = u.IgnoreFalsableIssues
	out.PossiblyUndefined = u.PossiblyUndefined
	out.PossiblyUndefinedFromTry = u.PossiblyUndefinedFromTry
	return out
}
