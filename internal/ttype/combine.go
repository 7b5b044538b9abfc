package ttype

// Combine collapses redundant variants and widens where necessary (spec
// §4.1 `combine`). The seven-step contract is implemented as one pass per
// rule, mirroring the per-function boundaries of
// original_source/crates/codex/src/ttype/combiner.rs rather than one
// monolithic switch, so each rule can be tested in isolation.
func Combine(atomics []*TAtomic, overwriteEmptyArray bool) []*TAtomic {
	if len(atomics) == 0 {
		return atomics
	}

	// Rule 1: mixed short-circuit. If any atomic is Mixed(any), it absorbs
	// everything else. Otherwise a truthy-mixed combined with a falsy
	// atomic widens to plain (undetermined) mixed.
	if combined, ok := combineMixed(atomics); ok {
		atomics = combined
		if len(atomics) == 1 {
			return atomics
		}
	}

	atomics = combineBooleans(atomics)
	atomics = combineIntegers(atomics)
	atomics = combineStrings(atomics)
	atomics = combineArrays(atomics, overwriteEmptyArray)
	atomics = combineObjects(atomics)

	return atomics
}

// CombineUnion pairs Combine with union metadata merge.
func CombineUnion(a, b Union) Union {
	all := append(append([]*TAtomic(nil), a.Atomics()...), b.Atomics()...)
	combined := Combine(all, false)
	out := NewUnion(combined...)
	out.IgnoreNullableIssues = a.IgnoreNullableIssues || b.IgnoreNullableIssues
	out.IgnoreFalsableIssues = a.IgnoreFalsableIssues || b.IgnoreFalsableIssues
	out.PossiblyUndefined = a.PossiblyUndefined || b.PossiblyUndefined
	out.PossiblyUndefinedFromTry = a.PossiblyUndefinedFromTry || b.PossiblyUndefinedFromTry
	if len(a.ParentNodes) > 0 || len(b.ParentNodes) > 0 {
		out.ParentNodes = make(map[string]struct{}, len(a.ParentNodes)+len(b.ParentNodes))
		for k := range a.ParentNodes {
			out.ParentNodes[k] = struct{}{}
		}
		for k := range b.ParentNodes {
			out.ParentNodes[k] = struct{}{}
		}
	}
	return out
}

// combineMixed implements rule 1. Returns (result, true) when a mixed
// short-circuit applied.
func combineMixed(atomics []*TAtomic) ([]*TAtomic, bool) {
	var anyMixed bool
	var sawTruthyMixed, sawFalsyMixed bool
	var sawNonMixedFalsy bool
	for _, a := range atomics {
		if a.Kind == KindMixed {
			if a.Mixed.IsAny {
				anyMixed = true
			}
			switch a.Mixed.Truthiness {
			case TruthinessTruthy:
				sawTruthyMixed = true
			case TruthinessFalsy:
				sawFalsyMixed = true
			}
		}
	}
	if anyMixed {
		return []*TAtomic{MixedAny()}, true
	}
	if !sawTruthyMixed {
		return atomics, false
	}
	for _, a := range atomics {
		if a.Kind != KindMixed && isFalsyAtomic(a) {
			sawNonMixedFalsy = true
		}
	}
	if sawNonMixedFalsy || sawFalsyMixed {
		// truthy-mixed + a falsy atomic widens to plain (undetermined) mixed
		out := make([]*TAtomic, 0, len(atomics))
		replaced := false
		for _, a := range atomics {
			if a.Kind == KindMixed {
				if !replaced {
					out = append(out, &TAtomic{Kind: KindMixed})
					replaced = true
				}
				continue
			}
			out = append(out, a)
		}
		return out, true
	}
	return atomics, false
}

func isFalsyAtomic(a *TAtomic) bool {
	switch a.Kind {
	case KindNull, KindVoid, KindBoolFalse:
		return true
	case KindIntLiteral:
		return a.IntLiteral != nil && *a.IntLiteral == 0
	case KindFloatLiteral:
		return a.FloatLiteral != nil && *a.FloatLiteral == 0
	case KindStringGeneral:
		if a.StringPredicates.Truthy || a.StringPredicates.NonEmpty {
			return false
		}
		for lit := range a.StringPredicates.LiteralSet {
			if lit == "" || lit == "0" {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// combineBooleans implements rule 2: true+false merge into bool; general
// bool supersedes both literals.
func combineBooleans(atomics []*TAtomic) []*TAtomic {
	var hasTrue, hasFalse, hasGeneral bool
	out := make([]*TAtomic, 0, len(atomics))
	for _, a := range atomics {
		switch a.Kind {
		case KindBoolTrue:
			hasTrue = true
		case KindBoolFalse:
			hasFalse = true
		case KindBoolGeneral:
			hasGeneral = true
		default:
			out = append(out, a)
		}
	}
	switch {
	case hasGeneral || (hasTrue && hasFalse):
		out = append(out, BoolGeneral())
	case hasTrue:
		out = append(out, BoolTrue())
	case hasFalse:
		out = append(out, BoolFalse())
	}
	return out
}

// combineIntegers implements rule 6: a specialized combiner that unions
// ranges, literal sets, non-negative/positive predicates, and `int` top.
// Widening policy: once more than maxIntLiteralSet literals (duplicates
// included) would need to be tracked, collapse to a range instead (grounded on the
// combiner's literal-set-cardinality cap).
const maxIntLiteralSet = 8

func combineIntegers(atomics []*TAtomic) []*TAtomic {
	var literals []int64
	var ranges [][2]int64
	var hasGeneral, hasNonNeg, hasPositive bool
	out := make([]*TAtomic, 0, len(atomics))
	for _, a := range atomics {
		switch a.Kind {
		case KindIntGeneral:
			hasGeneral = true
		case KindIntLiteral:
			literals = append(literals, *a.IntLiteral)
		case KindIntRange:
			ranges = append(ranges, [2]int64{*a.IntRangeLo, *a.IntRangeHi})
		case KindIntNonNegative:
			hasNonNeg = true
		case KindIntPositive:
			hasPositive = true
		default:
			out = append(out, a)
		}
	}
	if !hasGeneral && len(literals) == 0 && len(ranges) == 0 && !hasNonNeg && !hasPositive {
		return out
	}
	if hasGeneral {
		out = append(out, IntGeneral())
		return out
	}
	if hasNonNeg && hasPositive {
		hasPositive = false // non-negative is the wider predicate (includes 0)
	}

	allNonNegLiterals := true
	allPositiveLiterals := true
	for _, v := range literals {
		if v < 0 {
			allNonNegLiterals = false
		}
		if v <= 0 {
			allPositiveLiterals = false
		}
	}
	lo, hi := int64(0), int64(0)
	haveRange := false
	for _, r := range ranges {
		if !haveRange {
			lo, hi = r[0], r[1]
			haveRange = true
			continue
		}
		if r[0] < lo {
			lo = r[0]
		}
		if r[1] > hi {
			hi = r[1]
		}
	}
	for _, v := range literals {
		if !haveRange {
			lo, hi = v, v
			haveRange = true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	switch {
	case haveRange && len(ranges) > 0:
		// Ranges present: collapse everything to a single widened range.
		if hasNonNeg && lo > 0 {
			lo = 0
		}
		out = append(out, IntRange(lo, hi))
	case len(literals) > maxIntLiteralSet:
		out = append(out, IntRange(lo, hi))
	case len(literals) > 0:
		seen := map[int64]bool{}
		var deduped []*TAtomic
		for _, v := range literals {
			if seen[v] {
				continue
			}
			seen[v] = true
			deduped = append(deduped, IntLiteral(v))
		}
		switch {
		case hasNonNeg && !allNonNegLiterals:
			// A literal falls outside the predicate: widen to general int
			// instead of keeping a now-unsound non-negative tag.
			out = append(out, IntGeneral())
		case hasNonNeg:
			out = append(out, deduped...)
			out = append(out, IntNonNegative())
		case hasPositive && !allPositiveLiterals:
			out = append(out, IntNonNegative())
		case hasPositive:
			out = append(out, deduped...)
			out = append(out, IntPositive())
		default:
			out = append(out, deduped...)
		}
	case hasNonNeg:
		out = append(out, IntNonNegative())
	case hasPositive:
		out = append(out, IntPositive())
	}
	return out
}

// combineStrings implements rule 7: merge constraints conjunctively;
// incompatible literals are lifted out as separate literal atomics.
func combineStrings(atomics []*TAtomic) []*TAtomic {
	var strs []*TAtomic
	out := make([]*TAtomic, 0, len(atomics))
	for _, a := range atomics {
		if a.Kind == KindStringGeneral {
			strs = append(strs, a)
		} else {
			out = append(out, a)
		}
	}
	if len(strs) == 0 {
		return out
	}
	if len(strs) == 1 {
		return append(out, strs[0])
	}

	literalUnion := map[string]bool{}
	hasNonLiteral := false
	merged := StringPredicates{Numeric: true, NonEmpty: true, Truthy: true, Lowercase: true}
	for _, s := range strs {
		p := s.StringPredicates
		if len(p.LiteralSet) > 0 {
			for v := range p.LiteralSet {
				literalUnion[v] = true
			}
			continue
		}
		hasNonLiteral = true
		merged.Numeric = merged.Numeric && p.Numeric
		merged.NonEmpty = merged.NonEmpty && p.NonEmpty
		merged.Truthy = merged.Truthy && p.Truthy
		merged.Lowercase = merged.Lowercase && p.Lowercase
	}

	if !hasNonLiteral {
		return append(out, StringWith(StringPredicates{LiteralSet: literalUnion}))
	}

	// conjunctive merge across both literal and general members: a literal
	// that fails a predicate removes it from the merged constraint set.
	if len(literalUnion) > 0 {
		merged.Numeric = merged.Numeric && allLiteralsMatch(literalUnion, isNumericString)
		merged.NonEmpty = merged.NonEmpty && allLiteralsMatch(literalUnion, func(v string) bool { return v != "" })
		merged.Truthy = merged.Truthy && allLiteralsMatch(literalUnion, func(v string) bool { return v != "" && v != "0" })
		merged.Lowercase = merged.Lowercase && allLiteralsMatch(literalUnion, isLowercaseString)
	}
	result := StringWith(merged)
	out = append(out, result)
	return out
}

func allLiteralsMatch(set map[string]bool, pred func(string) bool) bool {
	for v := range set {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isNumericString(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	for i, r := range s {
		if r == '-' && i == 0 {
			continue
		}
		if r == '.' {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
		seenDigit = true
	}
	return seenDigit
}

func isLowercaseString(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return false
		}
	}
	return true
}

// combineArrays implements rule 3: sealed vs. parameterized fusion; keyed +
// list widens to keyed with integer key tracking; known items merge by key
// with union of values and OR of optionality; absent items become
// possibly-undefined; non-emptiness preserved only when every source was
// non-empty.
func combineArrays(atomics []*TAtomic, overwriteEmptyArray bool) []*TAtomic {
	var keyedArrs []*KeyedArray
	var listArrs []*ListArray
	out := make([]*TAtomic, 0, len(atomics))
	for _, a := range atomics {
		switch a.Kind {
		case KindArrayKeyed:
			keyedArrs = append(keyedArrs, a.Keyed)
		case KindArrayList:
			listArrs = append(listArrs, a.List)
		default:
			out = append(out, a)
		}
	}
	if len(keyedArrs) == 0 && len(listArrs) == 0 {
		return out
	}
	if len(keyedArrs) == 0 && len(listArrs) == 1 && !overwriteEmptyArray {
		return append(out, &TAtomic{Kind: KindArrayList, List: listArrs[0]})
	}

	// Promote every list to an equivalent keyed shape so they can merge
	// uniformly (spec: "keyed + list widens to keyed with integer key
	// tracking").
	for _, l := range listArrs {
		keyedArrs = append(keyedArrs, listToKeyed(l))
	}

	merged := &KeyedArray{KnownItems: map[string]*ArrayItem{}}
	allNonEmpty := true
	var paramKeys, paramValues []Union
	for _, k := range keyedArrs {
		if !k.NonEmpty {
			allNonEmpty = false
		}
		for _, key := range k.KnownOrder {
			item := k.KnownItems[key]
			if existing, ok := merged.KnownItems[key]; ok {
				existing.Possibly = CombineUnion(existing.Possibly, item.Possibly)
				existing.Optional = existing.Optional || item.Optional
			} else {
				merged.KnownOrder = append(merged.KnownOrder, key)
				merged.KnownItems[key] = &ArrayItem{Possibly: item.Possibly.Clone(), Optional: item.Optional}
			}
		}
		if k.ParamKey != nil && k.ParamValue != nil {
			paramKeys = append(paramKeys, *k.ParamKey)
			paramValues = append(paramValues, *k.ParamValue)
		}
	}
	// Items only present in some sources become possibly-undefined.
	seenInAll := map[string]int{}
	for _, k := range keyedArrs {
		for key := range k.KnownItems {
			seenInAll[key]++
		}
	}
	for key, cnt := range seenInAll {
		if cnt < len(keyedArrs) {
			merged.KnownItems[key].Optional = true
		}
	}
	if len(paramKeys) > 0 {
		pk := paramKeys[0]
		pv := paramValues[0]
		for i := 1; i < len(paramKeys); i++ {
			pk = CombineUnion(pk, paramKeys[i])
			pv = CombineUnion(pv, paramValues[i])
		}
		merged.ParamKey = &pk
		merged.ParamValue = &pv
	}
	merged.NonEmpty = allNonEmpty
	out = append(out, &TAtomic{Kind: KindArrayKeyed, Keyed: merged})
	return out
}

func listToKeyed(l *ListArray) *KeyedArray {
	k := &KeyedArray{KnownItems: map[string]*ArrayItem{}, NonEmpty: l.NonEmpty}
	for _, idx := range l.KnownOrder {
		key := itoa(idx)
		item := l.KnownElements[idx]
		k.KnownOrder = append(k.KnownOrder, key)
		k.KnownItems[key] = &ArrayItem{Possibly: item.Possibly.Clone(), Optional: item.Optional}
	}
	if len(l.KnownOrder) == 0 {
		nonNeg := Single(IntNonNegative())
		k.ParamKey = &nonNeg
		val := l.ElementType.Clone()
		k.ParamValue = &val
	}
	return k
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// combineObjects implements rules 4 and 5: named objects are keyed by class
// name and their generic parameters merge positionally (see
// mergeTypeParameters); named object variants prune subclasses when a
// superclass is present and prune a class when an interface it implements
// is present; intersections are kept (as the earlier side's) only when both
// sides have them and every member of the later side's is among them.
//
// Pruning against the class hierarchy requires the codebase view, which
// this package deliberately does not depend on (the type algebra sits
// below the codebase view in the dependency order). The
// hierarchy-aware prune step is therefore exposed as PruneSubclasses and
// invoked by internal/analyzer after a plain by-name merge here.
func combineObjects(atomics []*TAtomic) []*TAtomic {
	named := map[string]*NamedObject{}
	var namedOrder []string
	out := make([]*TAtomic, 0, len(atomics))
	for _, a := range atomics {
		if a.Kind != KindObjectNamed {
			out = append(out, a)
			continue
		}
		key := a.Named.Name
		if existing, ok := named[key]; ok {
			existing.TypeParameters = mergeTypeParameters(existing.TypeParameters, a.Named.TypeParameters)
			existing.IntersectionTypes = mergeIntersections(existing.IntersectionTypes, a.Named.IntersectionTypes)
			if !a.Named.IsThis {
				existing.IsThis = false
			}
		} else {
			cp := *a.Named
			named[key] = &cp
			namedOrder = append(namedOrder, key)
		}
	}
	for _, key := range namedOrder {
		out = append(out, &TAtomic{Kind: KindObjectNamed, Named: named[key]})
	}
	return out
}

// mergeTypeParameters merges positionally: a position both sides have
// combines the two unions with CombineUnion, and a position only one side
// has is taken from that side. No variance metadata is available at this
// layer, so every position is treated the same way.
func mergeTypeParameters(a, b []Union) []Union {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]Union, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a):
			out[i] = b[i]
		case i >= len(b):
			out[i] = a[i]
		default:
			out[i] = CombineUnion(a[i], b[i])
		}
	}
	return out
}

func mergeIntersections(a, b []*TAtomic) []*TAtomic {
	if len(a) == 0 || len(b) == 0 {
		return nil // intersections preserved only when both sides have them
	}
	seen := map[string]*TAtomic{}
	for _, t := range a {
		seen[t.Id()] = t
	}
	for _, t := range b {
		if _, ok := seen[t.Id()]; ok {
			continue
		}
		return nil // one side introduces a member the other lacks: not shallowly subsumed
	}
	return a
}
