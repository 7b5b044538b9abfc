package ttype

// ComparisonResult carries the out-parameters of IsContainedBy: why a
// containment check passed via widening rather
// than strict containment.
type ComparisonResult struct {
	TypeCoerced                 bool
	TypeCoercedFromNestedAny    bool
	TypeCoercedFromNestedMixed  bool
	TypeCoercedFromAsMixed      bool
}

// Options controls the non-default containment modes.
type Options struct {
	IgnoreNullable          bool
	IgnoreFalsable          bool
	AllowInterfaceEquality  bool
}

// ClassHierarchy is the subset of the Codebase View the subtype relation
// needs for named-object containment (extends/implements). Kept as a small
// interface here (rather than importing internal/codebase) to preserve the
// dependency ordering: the type algebra sits below the codebase view and
// must not import it.
type ClassHierarchy interface {
	ClassExtends(sub, sup string) bool
	ClassImplements(sub, iface string) bool
}

// nullHierarchy is used when no hierarchy is supplied (unit tests exercising
// pure scalar/array containment rarely need class relationships).
type nullHierarchy struct{}

func (nullHierarchy) ClassExtends(string, string) bool   { return false }
func (nullHierarchy) ClassImplements(string, string) bool { return false }

// IsContainedByUnion is the union-level lifting of containment: every
// atomic of the subtype must be contained by at least one atomic of the
// supertype.
func IsContainedByUnion(sub, sup Union, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	if h == nil {
		h = nullHierarchy{}
	}
	if sub.IsNever() {
		return true // Never is contained by everything
	}
	for _, subAtom := range sub.Atomics() {
		matched := false
		for _, supAtom := range sup.Atomics() {
			if isAtomContainedBy(subAtom, supAtom, h, opts, out) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func isAtomContainedBy(sub, sup *TAtomic, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	// mixed on the super side absorbs anything except when the sub side is
	// itself more informative than a bare top (still contained, but coerced).
	if sup.Kind == KindMixed {
		if sup.Mixed.IsAny {
			if sub.Kind != KindMixed || !sub.Mixed.IsAny {
				markCoercion(out, func(r *ComparisonResult) { r.TypeCoercedFromAsMixed = true })
			}
			return true
		}
		if sup.Mixed.IsNonNull && sub.Kind == KindNull {
			return false
		}
		return true
	}
	if sub.Kind == KindMixed {
		// mixed flowing into a concrete supertype is always accepted with
		// coercion (e.g. mixed nested in a typed array).
		markCoercion(out, func(r *ComparisonResult) { r.TypeCoercedFromNestedMixed = true })
		return true
	}
	if sub.Kind == KindNever {
		return true
	}

	if sub.Kind == KindNull {
		if opts.IgnoreNullable {
			return true
		}
		return sup.Kind == KindNull
	}

	switch sub.Kind {
	case KindBoolTrue, KindBoolFalse:
		return sup.Kind == KindBoolGeneral || sup.Kind == sub.Kind
	case KindBoolGeneral:
		return sup.Kind == KindBoolGeneral
	case KindIntLiteral:
		return intLiteralContained(*sub.IntLiteral, sup)
	case KindIntRange:
		return intRangeContained(*sub.IntRangeLo, *sub.IntRangeHi, sup)
	case KindIntNonNegative:
		return sup.Kind == KindIntNonNegative || sup.Kind == KindIntGeneral || sup.Kind == KindNumeric || sup.Kind == KindScalar
	case KindIntPositive:
		return sup.Kind == KindIntPositive || sup.Kind == KindIntNonNegative || sup.Kind == KindIntGeneral || sup.Kind == KindNumeric || sup.Kind == KindScalar
	case KindIntGeneral:
		return sup.Kind == KindIntGeneral || sup.Kind == KindNumeric || sup.Kind == KindScalar
	case KindFloatLiteral, KindFloatGeneral:
		return sup.Kind == KindFloatGeneral || sup.Kind == KindNumeric || sup.Kind == KindScalar
	case KindStringGeneral:
		return stringContained(sub, sup)
	case KindArrayKey:
		return sup.Kind == KindArrayKey
	case KindNumeric:
		return sup.Kind == KindNumeric || sup.Kind == KindScalar
	case KindScalar:
		return sup.Kind == KindScalar
	case KindVoid:
		return sup.Kind == KindVoid || sup.Kind == KindNull
	case KindResource:
		return resourceContained(sub, sup)
	case KindArrayKeyed:
		return keyedContained(sub.Keyed, sup, h, opts, out)
	case KindArrayList:
		return listContained(sub.List, sup, h, opts, out)
	case KindIterable:
		return iterableContained(sub.Iterable, sup, h, opts, out)
	case KindObjectAny:
		return sup.Kind == KindObjectAny
	case KindObjectNamed:
		return namedObjectContained(sub.Named, sup, h, opts, out)
	case KindObjectEnum:
		return enumContained(sub.Enum, sup)
	case KindObjectGeneric:
		return genericObjectContained(sub.Generic, sup)
	case KindCallable:
		return callableContained(sub.Callable, sup, h, opts, out)
	case KindGenericParameter:
		return genericParamContained(sub.Param, sup, h, opts, out)
	case KindClassString:
		return classStringContained(sub.ClassLikeString, sup, h)
	default:
		return sub.Id() == sup.Id()
	}
}

func markCoercion(out *ComparisonResult, f func(*ComparisonResult)) {
	if out == nil {
		return
	}
	out.TypeCoerced = true
	f(out)
}

func intLiteralContained(v int64, sup *TAtomic) bool {
	switch sup.Kind {
	case KindIntLiteral:
		return sup.IntLiteral != nil && *sup.IntLiteral == v
	case KindIntRange:
		return v >= *sup.IntRangeLo && v <= *sup.IntRangeHi
	case KindIntNonNegative:
		return v >= 0
	case KindIntPositive:
		return v > 0
	case KindIntGeneral, KindNumeric, KindScalar:
		return true
	default:
		return false
	}
}

func intRangeContained(lo, hi int64, sup *TAtomic) bool {
	switch sup.Kind {
	case KindIntRange:
		return lo >= *sup.IntRangeLo && hi <= *sup.IntRangeHi
	case KindIntNonNegative:
		return lo >= 0
	case KindIntPositive:
		return lo > 0
	case KindIntGeneral, KindNumeric, KindScalar:
		return true
	default:
		return false
	}
}

func stringContained(sub, sup *TAtomic) bool {
	if sup.Kind == KindArrayKey || sup.Kind == KindScalar {
		return true
	}
	if sup.Kind != KindStringGeneral {
		return false
	}
	subP, supP := sub.StringPredicates, sup.StringPredicates
	if len(supP.LiteralSet) > 0 {
		if len(subP.LiteralSet) == 0 {
			return false
		}
		for v := range subP.LiteralSet {
			if !supP.LiteralSet[v] {
				return false
			}
		}
		return true
	}
	if supP.Numeric && !(subP.Numeric || allLiteralsMatchPred(subP, isNumericString)) {
		return false
	}
	if supP.NonEmpty && !(subP.NonEmpty || subP.Truthy || allLiteralsMatchPred(subP, func(v string) bool { return v != "" })) {
		return false
	}
	if supP.Truthy && !(subP.Truthy || allLiteralsMatchPred(subP, func(v string) bool { return v != "" && v != "0" })) {
		return false
	}
	if supP.Lowercase && !(subP.Lowercase || allLiteralsMatchPred(subP, isLowercaseString)) {
		return false
	}
	return true
}

func allLiteralsMatchPred(p StringPredicates, pred func(string) bool) bool {
	if len(p.LiteralSet) == 0 {
		return false
	}
	return allLiteralsMatch(p.LiteralSet, pred)
}

func resourceContained(sub, sup *TAtomic) bool {
	if sup.Kind != KindResource {
		return false
	}
	if sup.ResourceClosed == nil {
		return true
	}
	return sub.ResourceClosed != nil && *sub.ResourceClosed == *sup.ResourceClosed
}

func keyedContained(sub *KeyedArray, sup *TAtomic, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	if sup.Kind == KindIterable {
		keyU, valU := arrayParamUnions(sub)
		return IsContainedByUnion(keyU, sup.Iterable.Key, h, opts, out) && IsContainedByUnion(valU, sup.Iterable.Value, h, opts, out)
	}
	if sup.Kind != KindArrayKeyed {
		return false
	}
	if sup.Keyed.NonEmpty && !sub.NonEmpty {
		return false
	}
	for key, supItem := range sup.Keyed.KnownItems {
		subItem, ok := sub.KnownItems[key]
		if !ok {
			if !supItem.Optional {
				if sub.ParamValue == nil {
					return false
				}
				if !IsContainedByUnion(*sub.ParamValue, supItem.Possibly, h, opts, out) {
					return false
				}
			}
			continue
		}
		if !subItem.Optional || supItem.Optional {
			if !IsContainedByUnion(subItem.Possibly, supItem.Possibly, h, opts, out) {
				return false
			}
		}
	}
	if sup.Keyed.ParamKey != nil && sup.Keyed.ParamValue != nil {
		keyU, valU := arrayParamUnions(sub)
		if !IsContainedByUnion(keyU, *sup.Keyed.ParamKey, h, opts, out) {
			return false
		}
		if !IsContainedByUnion(valU, *sup.Keyed.ParamValue, h, opts, out) {
			return false
		}
	}
	return true
}

func arrayParamUnions(k *KeyedArray) (Union, Union) {
	if k.ParamKey != nil && k.ParamValue != nil {
		return *k.ParamKey, *k.ParamValue
	}
	var keys []*TAtomic
	var vals []Union
	for _, key := range k.KnownOrder {
		item := k.KnownItems[key]
		if _, err := parseIntKey(key); err == nil {
			keys = append(keys, IntGeneral())
		} else {
			keys = append(keys, StringGeneral())
		}
		vals = append(vals, item.Possibly)
	}
	keyU := NewUnion(Combine(keys, false)...)
	valAtoms := []*TAtomic{}
	for _, v := range vals {
		valAtoms = append(valAtoms, v.Atomics()...)
	}
	valU := NewUnion(Combine(valAtoms, false)...)
	if keyU.IsEmpty() {
		keyU = Single(ArrayKey())
	}
	if valU.IsEmpty() {
		valU = Single(MixedAny())
	}
	return keyU, valU
}

func parseIntKey(s string) (int64, error) {
	var v int64
	neg := false
	i := 0
	if len(s) == 0 {
		return 0, errNotInt
	}
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, errNotInt
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errNotInt
		}
		v = v*10 + int64(s[i]-'0')
	}
	if neg {
		v = -v
	}
	return v, nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errNotInt = parseError("not an integer key")

func listContained(sub *ListArray, sup *TAtomic, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	if sup.Kind == KindIterable {
		return IsContainedByUnion(Single(IntNonNegative()), sup.Iterable.Key, h, opts, out) &&
			IsContainedByUnion(sub.ElementType, sup.Iterable.Value, h, opts, out)
	}
	if sup.Kind == KindArrayList {
		if sup.List.NonEmpty && !sub.NonEmpty {
			return false
		}
		return IsContainedByUnion(sub.ElementType, sup.List.ElementType, h, opts, out)
	}
	if sup.Kind == KindArrayKeyed {
		subKeyed := listToKeyed(sub)
		return keyedContained(subKeyed, sup, h, opts, out)
	}
	return false
}

func iterableContained(sub *IterableType, sup *TAtomic, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	if sup.Kind != KindIterable {
		return false
	}
	return IsContainedByUnion(sub.Key, sup.Iterable.Key, h, opts, out) && IsContainedByUnion(sub.Value, sup.Iterable.Value, h, opts, out)
}

func namedObjectContained(sub *NamedObject, sup *TAtomic, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	if sup.Kind == KindObjectAny {
		return true
	}
	if sup.Kind != KindObjectNamed {
		return false
	}
	same := sub.Name == sup.Named.Name
	related := same || h.ClassExtends(sub.Name, sup.Named.Name) || h.ClassImplements(sub.Name, sup.Named.Name)
	if !related {
		if opts.AllowInterfaceEquality && strEqualFold(sub.Name, sup.Named.Name) {
			related = true
		}
	}
	if !related {
		return false
	}
	if !same {
		markCoercion(out, func(*ComparisonResult) {})
	}
	for i, supParam := range sup.Named.TypeParameters {
		if i >= len(sub.TypeParameters) {
			markCoercion(out, func(r *ComparisonResult) { r.TypeCoercedFromNestedAny = true })
			continue
		}
		if !IsContainedByUnion(sub.TypeParameters[i], supParam, h, opts, out) {
			return false
		}
	}
	return true
}

func strEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func enumContained(sub *EnumObject, sup *TAtomic) bool {
	switch sup.Kind {
	case KindObjectAny:
		return true
	case KindObjectEnum:
		if sub.Name != sup.Enum.Name {
			return false
		}
		if sup.Enum.Case == "" {
			return true
		}
		return sub.Case == sup.Enum.Case
	case KindObjectNamed:
		return sub.Name == sup.Named.Name
	default:
		return false
	}
}

func genericObjectContained(sub *GenericObject, sup *TAtomic) bool {
	if sup.Kind == KindObjectAny {
		return true
	}
	if sup.Kind != KindObjectGeneric || sup.Generic.Name != sub.Name {
		return false
	}
	return len(sub.TypeParameters) == len(sup.Generic.TypeParameters)
}

func callableContained(sub *CallableSignature, sup *TAtomic, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	if sup.Kind != KindCallable {
		return false
	}
	supC := sup.Callable
	if len(sub.Params) != len(supC.Params) {
		return false
	}
	for i := range sub.Params {
		// Parameter position is treated invariantly here, not
		// contravariantly: PHP's own variance rules for callable-shaped
		// types are not enforced at the language level, so narrowing a
		// stored callable's parameter types is rejected rather than assumed.
		if !IsContainedByUnion(sub.Params[i], supC.Params[i], h, opts, out) ||
			!IsContainedByUnion(supC.Params[i], sub.Params[i], h, opts, nil) {
			return false
		}
	}
	return IsContainedByUnion(sub.Return, supC.Return, h, opts, out)
}

func genericParamContained(sub *GenericParameter, sup *TAtomic, h ClassHierarchy, opts Options, out *ComparisonResult) bool {
	if sup.Kind == KindGenericParameter && sup.Param.ParameterName == sub.ParameterName && sup.Param.DefiningEntity == sub.DefiningEntity {
		return true
	}
	// Fall back to containment of the template's constraint, marking this
	// as coerced-from-nested-any since we've lost template identity.
	markCoercion(out, func(r *ComparisonResult) { r.TypeCoercedFromNestedAny = true })
	return IsContainedByUnion(sub.Constraint, Single(sup), h, opts, out)
}

func classStringContained(sub *ClassString, sup *TAtomic, h ClassHierarchy) bool {
	if sup.Kind == KindStringGeneral {
		return true
	}
	if sup.Kind != KindClassString {
		return false
	}
	if sup.ClassLikeString.OfType == "" {
		return true
	}
	target := sub.OfType
	if target == "" {
		target = sub.LiteralClass
	}
	if target == sup.ClassLikeString.OfType {
		return true
	}
	return h.ClassExtends(target, sup.ClassLikeString.OfType) || h.ClassImplements(target, sup.ClassLikeString.OfType)
}

// CanBeIdentical reports whether a value could simultaneously satisfy both
// types: used by the assertion engine's strict-equality narrowing.
func CanBeIdentical(a, b *TAtomic) bool {
	if a.Kind == KindMixed || b.Kind == KindMixed {
		return true
	}
	if a.Kind != b.Kind {
		// A few cross-kind pairs can still overlap (e.g. int-literal vs
		// int-range); delegate to containment in either direction.
		var cr ComparisonResult
		return isAtomContainedBy(a, b, nullHierarchy{}, Options{}, &cr) || isAtomContainedBy(b, a, nullHierarchy{}, Options{}, &cr)
	}
	switch a.Kind {
	case KindIntLiteral:
		return *a.IntLiteral == *b.IntLiteral
	case KindStringGeneral:
		if len(a.StringPredicates.LiteralSet) > 0 && len(b.StringPredicates.LiteralSet) > 0 {
			for v := range a.StringPredicates.LiteralSet {
				if b.StringPredicates.LiteralSet[v] {
					return true
				}
			}
			return false
		}
		return true
	case KindObjectNamed:
		return a.Named.Name == b.Named.Name
	default:
		return true
	}
}
