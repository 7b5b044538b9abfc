package clause

import "github.com/shivasurya/phpcheck-analyzer/internal/ttype"

// Binding is one path's current type plus the flags the Block Analyzer
// must track across reads: whether the binding might not exist yet
// (possibly_undefined), whether it was only established inside a `try`
// body (possibly_undefined_from_try), and whether it was forced to mixed
// by a loop's isset-only widening.
type Binding struct {
	Type                     ttype.Union
	PossiblyUndefined        bool
	PossiblyUndefinedFromTry bool
	MixedFromLoopIsset       bool
}

// BindingTable is the per-block-context map from variable/property path to
// its current binding. Paths are plain strings ("$x", "$x->prop",
// "$x[0]") rather than a structured type — the binding table never needs
// to interpret a path's shape, only to look it up and snapshot/merge it.
type BindingTable struct {
	bindings map[string]Binding
}

// NewBindingTable returns an empty table.
func NewBindingTable() *BindingTable {
	return &BindingTable{bindings: map[string]Binding{}}
}

// Get returns the binding for path and whether one exists.
func (t *BindingTable) Get(path string) (Binding, bool) {
	b, ok := t.bindings[path]
	return b, ok
}

// Set records path's binding, overwriting any previous one.
func (t *BindingTable) Set(path string, b Binding) {
	t.bindings[path] = b
}

// Remove deletes path's binding, used by `unset($x)`.
func (t *BindingTable) Remove(path string) {
	delete(t.bindings, path)
}

// Paths returns every bound path, in no particular order. Used by branch
// merge and loop fixed-point to enumerate what might need reconciling.
func (t *BindingTable) Paths() []string {
	out := make([]string, 0, len(t.bindings))
	for p := range t.bindings {
		out = append(out, p)
	}
	return out
}

// Snapshot returns an independent copy: mutating the copy (or the
// original) afterward never affects the other. Used at every branch point
// and loop iteration boundary, since bindings are owned by the block
// context and must be restorable.
func (t *BindingTable) Snapshot() *BindingTable {
	cp := make(map[string]Binding, len(t.bindings))
	for k, v := range t.bindings {
		v.Type = v.Type.Clone()
		cp[k] = v
	}
	return &BindingTable{bindings: cp}
}

// MergeBranch combines t (already holding one branch's exit bindings) with
// other (the other branch's exit bindings) per the branch-merge rule: a
// path bound in both combines its types and inherits either side's
// possibly-undefined flag, keeping the loop-isset flag only when both
// sides carry it; a path bound in only one survives marked
// possibly-undefined.
func (t *BindingTable) MergeBranch(other *BindingTable) *BindingTable {
	out := NewBindingTable()
	seen := map[string]struct{}{}
	for path, a := range t.bindings {
		seen[path] = struct{}{}
		if b, ok := other.bindings[path]; ok {
			out.Set(path, Binding{
				Type:                     ttype.CombineUnion(a.Type, b.Type),
				PossiblyUndefined:        a.PossiblyUndefined || b.PossiblyUndefined,
				PossiblyUndefinedFromTry: a.PossiblyUndefinedFromTry || b.PossiblyUndefinedFromTry,
				MixedFromLoopIsset:       a.MixedFromLoopIsset && b.MixedFromLoopIsset,
			})
		} else {
			a.PossiblyUndefined = true
			out.Set(path, a)
		}
	}
	for path, b := range other.bindings {
		if _, ok := seen[path]; ok {
			continue
		}
		b.PossiblyUndefined = true
		out.Set(path, b)
	}
	return out
}

// WidenedSince reports whether current's binding for path is newly bound
// or has a type not contained by prior's — the loop fixed-point's
// per-iteration growth check. It does not check that prior's type is
// contained by current's.
func WidenedSince(prior, current *BindingTable, path string) bool {
	prevB, hadPrev := prior.Get(path)
	curB, hasCur := current.Get(path)
	if !hasCur {
		return false
	}
	if !hadPrev {
		return true
	}
	return !ttype.IsContainedByUnion(curB.Type, prevB.Type, nil, ttype.Options{}, nil)
}
