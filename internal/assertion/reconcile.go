package assertion

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/clause"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// Outcome reports what reconciling one path's assertions produced, so the
// Block Analyzer can decide whether to mark the surrounding block
// unreachable.
type Outcome struct {
	Type       ttype.Union
	Impossible bool
}

// Reconcile applies a scraped disjunction to bindings, returning the
// narrowed binding for every path the disjunction mentions. A path absent
// from bindings but present in referenced defaults to mixed before
// refinement, matching "default to mixed when absent and the path was
// actively referenced". Reconciling the same disjunction against its own
// result is idempotent: every refiner below either leaves a union
// unchanged or narrows it to a subset already satisfying the assertion, so
// a second pass finds nothing left to narrow.
func Reconcile(disj clause.Disjunction, bindings *clause.BindingTable, referenced map[string]bool) map[string]Outcome {
	out := map[string]Outcome{}
	byPath := groupByPath(disj)
	for path, conjuncts := range byPath {
		current, had := bindings.Get(path)
		base := current.Type
		if !had {
			if !referenced[path] {
				continue
			}
			base = ttype.Single(ttype.MixedAny())
		}

		var unioned ttype.Union
		first := true
		for _, conj := range conjuncts {
			refined := base
			for _, a := range conj {
				refined = refineOne(refined, a)
			}
			if first {
				unioned = refined
				first = false
			} else {
				unioned = ttype.CombineUnion(unioned, refined)
			}
		}

		impossible := unioned.IsNever() && referenced[path]
		out[path] = Outcome{Type: unioned, Impossible: impossible}
	}
	return out
}

func groupByPath(disj clause.Disjunction) map[string][]clause.Conjunction {
	out := map[string][]clause.Conjunction{}
	for _, conj := range disj {
		byPathInConj := map[string]clause.Conjunction{}
		for _, a := range conj {
			byPathInConj[a.Path] = append(byPathInConj[a.Path], a)
		}
		for path, c := range byPathInConj {
			out[path] = append(out[path], c)
		}
	}
	return out
}

// refineOne applies a single assertion's per-kind refiner to u. Unhandled
// kinds (count/ordering assertions without a concrete integer-range
// refiner wired yet) pass u through unchanged rather than widening to
// mixed or narrowing to never — refinement is never required to be exact,
// only sound.
func refineOne(u ttype.Union, a clause.Assertion) ttype.Union {
	switch a.Kind {
	case clause.Truthy:
		return intersectTruthy(u, true)
	case clause.Falsy:
		return intersectTruthy(u, false)
	case clause.IsType, clause.IsIdentical:
		return narrowToNamed(u, a.Type)
	case clause.IsNotType, clause.IsNotIdentical:
		return excludeNamed(u, a.Type)
	case clause.EmptyCountable:
		return u // emptiness narrowing on array atomics needs per-key-shape rebuilding; left to a future pass
	case clause.NonEmptyCountable:
		return stripEmptyArray(u)
	default:
		return u
	}
}

func intersectTruthy(u ttype.Union, truthy bool) ttype.Union {
	var kept []*ttype.TAtomic
	for _, at := range u.Atomics() {
		switch at.Kind {
		case ttype.KindNull:
			if truthy {
				continue
			}
		case ttype.KindBoolTrue:
			if !truthy {
				continue
			}
		case ttype.KindBoolFalse:
			if truthy {
				continue
			}
		}
		kept = append(kept, at)
	}
	if len(kept) == 0 {
		return ttype.Single(ttype.Never())
	}
	return ttype.NewUnion(kept...)
}

func narrowToNamed(u ttype.Union, name string) ttype.Union {
	if name == "" {
		return u
	}
	for _, at := range u.Atomics() {
		if at.Kind == ttype.KindObjectNamed && at.Named != nil && at.Named.Name == name {
			return ttype.Single(at)
		}
	}
	return ttype.Single(ttype.ObjectNamed(name))
}

func excludeNamed(u ttype.Union, name string) ttype.Union {
	if name == "" {
		return u
	}
	var kept []*ttype.TAtomic
	for _, at := range u.Atomics() {
		if at.Kind == ttype.KindObjectNamed && at.Named != nil && at.Named.Name == name {
			continue
		}
		kept = append(kept, at)
	}
	if len(kept) == 0 {
		return ttype.Single(ttype.Never())
	}
	return ttype.NewUnion(kept...)
}

func stripEmptyArray(u ttype.Union) ttype.Union {
	var kept []*ttype.TAtomic
	for _, at := range u.Atomics() {
		if at.Kind == ttype.KindArrayList && at.List != nil && len(at.List.KnownElements) == 0 && !at.List.NonEmpty {
			continue
		}
		if at.Kind == ttype.KindArrayKeyed && at.Keyed != nil && len(at.Keyed.KnownItems) == 0 && !at.Keyed.NonEmpty {
			continue
		}
		kept = append(kept, at)
	}
	if len(kept) == 0 {
		return u
	}
	return ttype.NewUnion(kept...)
}
