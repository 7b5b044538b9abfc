// Package ttype implements the PHP type algebra: atomic types, unions, the
// combiner, and the subtype relation. It has no dependency on the AST or on
// the codebase view; every other analyzer package builds on top of it.
package ttype

// Truthiness narrows a mixed type's known truthiness, used by Mixed and by
// loop-introduced isset widening.
type Truthiness int

const (
	TruthinessUndetermined Truthiness = iota
	TruthinessTruthy
	TruthinessFalsy
)

// Kind tags the variant a TAtomic holds. Keeping it as an explicit enum
// (rather than relying on type-switches alone) lets combine/subtype code
// dispatch with a single comparison before falling into the heavier
// per-variant logic.
type Kind int

const (
	KindBoolGeneral Kind = iota
	KindBoolTrue
	KindBoolFalse
	KindIntGeneral
	KindIntLiteral
	KindIntRange
	KindIntNonNegative
	KindIntPositive
	KindFloatGeneral
	KindFloatLiteral
	KindStringGeneral
	KindArrayKey
	KindNumeric
	KindScalar
	KindNull
	KindVoid
	KindNever
	KindResource
	KindArrayKeyed
	KindArrayList
	KindIterable
	KindObjectAny
	KindObjectNamed
	KindObjectEnum
	KindObjectGeneric
	KindCallable
	KindGenericParameter
	KindMixed
	KindClassString
)

func (k Kind) String() string {
	switch k {
	case KindBoolGeneral:
		return "bool"
	case KindBoolTrue:
		return "true"
	case KindBoolFalse:
		return "false"
	case KindIntGeneral:
		return "int"
	case KindIntLiteral:
		return "int-literal"
	case KindIntRange:
		return "int-range"
	case KindIntNonNegative:
		return "non-negative-int"
	case KindIntPositive:
		return "positive-int"
	case KindFloatGeneral:
		return "float"
	case KindFloatLiteral:
		return "float-literal"
	case KindStringGeneral:
		return "string"
	case KindArrayKey:
		return "array-key"
	case KindNumeric:
		return "numeric"
	case KindScalar:
		return "scalar"
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	case KindNever:
		return "never"
	case KindResource:
		return "resource"
	case KindArrayKeyed:
		return "array-keyed"
	case KindArrayList:
		return "list"
	case KindIterable:
		return "iterable"
	case KindObjectAny:
		return "object"
	case KindObjectNamed:
		return "object-named"
	case KindObjectEnum:
		return "enum"
	case KindObjectGeneric:
		return "object-generic"
	case KindCallable:
		return "callable"
	case KindGenericParameter:
		return "template-param"
	case KindMixed:
		return "mixed"
	case KindClassString:
		return "class-string"
	default:
		return "unknown"
	}
}

// StringPredicates are the conjunctive constraints attached to the string
// atomic: numeric, non-empty, truthy, lowercase, plus an optional literal
// value.
type StringPredicates struct {
	Numeric     bool
	NonEmpty    bool
	Truthy      bool
	Lowercase   bool
	LiteralSet  map[string]bool // nil when not a literal-value string
}

// ArrayItem is one entry of a Keyed array's known_items map, or of a List's
// known_elements map: an optional flag plus the value union.
type ArrayItem struct {
	Possibly Union
	Optional bool
}

// KeyedArray is the `Keyed` array variant: known string/int keys plus an
// optional catch-all (key, value) pair for unknown keys.
type KeyedArray struct {
	KnownItems   map[string]*ArrayItem // ordered iteration handled by KnownOrder
	KnownOrder   []string
	ParamKey     *Union // nil when the array has only known items
	ParamValue   *Union
	NonEmpty     bool
}

// ListArray is the `List` array variant: a zero-based, densely-keyed array.
type ListArray struct {
	KnownElements map[int]*ArrayItem
	KnownOrder    []int
	ElementType   Union
	NonEmpty      bool
	KnownCount    *int
}

// IterableType carries the (key, value) union pair for the Iterable atomic.
type IterableType struct {
	Key   Union
	Value Union
}

// NamedObject is the `Named` object variant: a class/interface name, an
// optional `is_this` marker (the `static` resolved against the current
// call-time class), template type-parameters, and intersection members.
type NamedObject struct {
	Name              string
	IsThis            bool
	TypeParameters    []Union
	IntersectionTypes []*TAtomic
}

// EnumObject is the `Enum` object variant, optionally pinned to one case.
type EnumObject struct {
	Name string
	Case string // empty when unpinned
}

// GenericObject is a named generic class instantiated with type arguments
// that could not be resolved to a concrete NamedObject (e.g. `T<int>` where
// T is itself a template).
type GenericObject struct {
	Name           string
	TypeParameters []Union
}

// CallableSignature models an inline callable type `callable(A, B): C`.
type CallableSignature struct {
	Alias      string // non-empty when this is a named callable alias
	Params     []Union
	ParamsByRef []bool
	Variadic   bool
	Return     Union
}

// GenericParameter is the `TTemplateParam` atomic: an unresolved template
// bound to the entity (function/method/class) that declared it.
type GenericParameter struct {
	ParameterName     string
	DefiningEntity    string // function/method/class FQN the template is declared on
	Constraint        Union
	IntersectionTypes []*TAtomic
}

// MixedFlags are the flags attached to the Mixed atomic.
type MixedFlags struct {
	IsAny         bool
	IsNonNull     bool
	Truthiness    Truthiness
	FromLoopIsset bool
}

// ClassString is the class-like-string atomic: a string whose value is
// (or could be) the literal name of a class, optionally generic.
type ClassString struct {
	OfType         string // class this must be-a, "" if unconstrained
	LiteralClass   string // "" when the literal class name is unknown
	TypeParameters []Union
}

// TAtomic is the tagged variant of a single atomic PHP type. Only the
// field(s) relevant to Kind are populated; the zero value of unrelated
// fields is ignored by every consumer. Go has no sum types, so this is a
// struct-with-discriminant instead of the tagged enum a Rust analyzer core
// would use for the same type.
type TAtomic struct {
	Kind Kind

	// Resource
	ResourceClosed *bool // nil = unknown

	// Scalar string
	StringPredicates StringPredicates

	// Scalar int
	IntLiteral *int64
	IntRangeLo *int64
	IntRangeHi *int64

	// Scalar float
	FloatLiteral *float64

	// Array
	Keyed *KeyedArray
	List  *ListArray

	// Iterable
	Iterable *IterableType

	// Object
	Named   *NamedObject
	Enum    *EnumObject
	Generic *GenericObject
	ObjectAnyNullable bool

	// Callable
	Callable *CallableSignature

	// Generic parameter
	Param *GenericParameter

	// Mixed
	Mixed MixedFlags

	// Class-like string
	ClassLikeString *ClassString
}

// Id returns the canonical textual identity used for deduplication in
// unions and map keys.
func (a *TAtomic) Id() string {
	return canonicalID(a)
}

// IsNever reports whether this atomic is the bottom type.
func (a *TAtomic) IsNever() bool { return a.Kind == KindNever }

// IsMixedAny reports whether this is the fully-unconstrained `mixed` — the
// "any absorbs all" case of the combiner contract.
func (a *TAtomic) IsMixedAny() bool {
	return a.Kind == KindMixed && a.Mixed.IsAny
}

// Clone returns a deep-enough copy for safe independent mutation. Atomics
// are otherwise treated as immutable value objects.
func (a *TAtomic) Clone() *TAtomic {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Keyed != nil {
		k := *a.Keyed
		k.KnownItems = cloneItemMapString(a.Keyed.KnownItems)
		k.KnownOrder = append([]string(nil), a.Keyed.KnownOrder...)
		if a.Keyed.ParamKey != nil {
			pk := a.Keyed.ParamKey.Clone()
			k.ParamKey = &pk
		}
		if a.Keyed.ParamValue != nil {
			pv := a.Keyed.ParamValue.Clone()
			k.ParamValue = &pv
		}
		cp.Keyed = &k
	}
	if a.List != nil {
		l := *a.List
		l.KnownElements = cloneItemMapInt(a.List.KnownElements)
		l.KnownOrder = append([]int(nil), a.List.KnownOrder...)
		l.ElementType = a.List.ElementType.Clone()
		if a.List.KnownCount != nil {
			n := *a.List.KnownCount
			l.KnownCount = &n
		}
		cp.List = &l
	}
	if a.Iterable != nil {
		it := IterableType{Key: a.Iterable.Key.Clone(), Value: a.Iterable.Value.Clone()}
		cp.Iterable = &it
	}
	if a.Named != nil {
		n := *a.Named
		n.TypeParameters = cloneUnionSlice(a.Named.TypeParameters)
		n.IntersectionTypes = cloneAtomicSlice(a.Named.IntersectionTypes)
		cp.Named = &n
	}
	if a.Enum != nil {
		e := *a.Enum
		cp.Enum = &e
	}
	if a.Generic != nil {
		g := *a.Generic
		g.TypeParameters = cloneUnionSlice(a.Generic.TypeParameters)
		cp.Generic = &g
	}
	if a.Callable != nil {
		c := *a.Callable
		c.Params = cloneUnionSlice(a.Callable.Params)
		c.ParamsByRef = append([]bool(nil), a.Callable.ParamsByRef...)
		c.Return = a.Callable.Return.Clone()
		cp.Callable = &c
	}
	if a.Param != nil {
		p := *a.Param
		p.Constraint = a.Param.Constraint.Clone()
		p.IntersectionTypes = cloneAtomicSlice(a.Param.IntersectionTypes)
		cp.Param = &p
	}
	if a.ClassLikeString != nil {
		cs := *a.ClassLikeString
		cs.TypeParameters = cloneUnionSlice(a.ClassLikeString.TypeParameters)
		cp.ClassLikeString = &cs
	}
	if a.StringPredicates.LiteralSet != nil {
		m := make(map[string]bool, len(a.StringPredicates.LiteralSet))
		for k, v := range a.StringPredicates.LiteralSet {
			m[k] = v
		}
		cp.StringPredicates.LiteralSet = m
	}
	return &cp
}

func cloneItemMapString(m map[string]*ArrayItem) map[string]*ArrayItem {
	if m == nil {
		return nil
	}
	out := make(map[string]*ArrayItem, len(m))
	for k, v := range m {
		item := *v
		item.Possibly = v.Possibly.Clone()
		out[k] = &item
	}
	return out
}

func cloneItemMapInt(m map[int]*ArrayItem) map[int]*ArrayItem {
	if m == nil {
		return nil
	}
	out := make(map[int]*ArrayItem, len(m))
	for k, v := range m {
		item := *v
		item.Possibly = v.Possibly.Clone()
		out[k] = &item
	}
	return out
}

func cloneUnionSlice(s []Union) []Union {
	if s == nil {
		return nil
	}
	out := make([]Union, len(s))
	for i, u := range s {
		out[i] = u.Clone()
	}
	return out
}

func cloneAtomicSlice(s []*TAtomic) []*TAtomic {
	if s == nil {
		return nil
	}
	out := make([]*TAtomic, len(s))
	for i, a := range s {
		out[i] = a.Clone()
	}
	return out
}

// Constructors for the common atomics, used pervasively by tests and by
// the analyzer when it needs to widen to a baseline type.

func Null() *TAtomic  { return &TAtomic{Kind: KindNull} }
func Void() *TAtomic  { return &TAtomic{Kind: KindVoid} }
func Never() *TAtomic { return &TAtomic{Kind: KindNever} }

func BoolGeneral() *TAtomic { return &TAtomic{Kind: KindBoolGeneral} }
func BoolTrue() *TAtomic    { return &TAtomic{Kind: KindBoolTrue} }
func BoolFalse() *TAtomic   { return &TAtomic{Kind: KindBoolFalse} }

func IntGeneral() *TAtomic { return &TAtomic{Kind: KindIntGeneral} }
func IntLiteral(v int64) *TAtomic {
	return &TAtomic{Kind: KindIntLiteral, IntLiteral: &v}
}
func IntRange(lo, hi int64) *TAtomic {
	return &TAtomic{Kind: KindIntRange, IntRangeLo: &lo, IntRangeHi: &hi}
}
func IntNonNegative() *TAtomic { return &TAtomic{Kind: KindIntNonNegative} }
func IntPositive() *TAtomic    { return &TAtomic{Kind: KindIntPositive} }

func FloatGeneral() *TAtomic { return &TAtomic{Kind: KindFloatGeneral} }
func FloatLiteral(v float64) *TAtomic {
	return &TAtomic{Kind: KindFloatLiteral, FloatLiteral: &v}
}

func StringGeneral() *TAtomic { return &TAtomic{Kind: KindStringGeneral} }
func StringWith(p StringPredicates) *TAtomic {
	return &TAtomic{Kind: KindStringGeneral, StringPredicates: p}
}
func StringLiteral(v string) *TAtomic {
	return &TAtomic{Kind: KindStringGeneral, StringPredicates: StringPredicates{
		LiteralSet: map[string]bool{v: true},
	}}
}

func ArrayKey() *TAtomic { return &TAtomic{Kind: KindArrayKey} }
func Numeric() *TAtomic  { return &TAtomic{Kind: KindNumeric} }
func Scalar() *TAtomic   { return &TAtomic{Kind: KindScalar} }

func Resource(closed *bool) *TAtomic {
	return &TAtomic{Kind: KindResource, ResourceClosed: closed}
}

func ObjectAny() *TAtomic { return &TAtomic{Kind: KindObjectAny} }

func ObjectNamed(name string) *TAtomic {
	return &TAtomic{Kind: KindObjectNamed, Named: &NamedObject{Name: name}}
}

func ObjectThis(name string) *TAtomic {
	return &TAtomic{Kind: KindObjectNamed, Named: &NamedObject{Name: name, IsThis: true}}
}

func ObjectGeneric(name string, params ...Union) *TAtomic {
	return &TAtomic{Kind: KindObjectNamed, Named: &NamedObject{Name: name, TypeParameters: params}}
}

func Enum(name, caseName string) *TAtomic {
	return &TAtomic{Kind: KindObjectEnum, Enum: &EnumObject{Name: name, Case: caseName}}
}

func MixedAny() *TAtomic {
	return &TAtomic{Kind: KindMixed, Mixed: MixedFlags{IsAny: true}}
}

func MixedNonNull() *TAtomic {
	return &TAtomic{Kind: KindMixed, Mixed: MixedFlags{IsNonNull: true}}
}

func MixedFromLoopIsset() *TAtomic {
	return &TAtomic{Kind: KindMixed, Mixed: MixedFlags{FromLoopIsset: true}}
}

func GenericParam(name, definingEntity string, constraint Union) *TAtomic {
	return &TAtomic{Kind: KindGenericParameter, Param: &GenericParameter{
		ParameterName:  name,
		DefiningEntity: definingEntity,
		Constraint:     constraint,
	}}
}

func Keyed(items map[string]*ArrayItem, order []string, nonEmpty bool) *TAtomic {
	return &TAtomic{Kind: KindArrayKeyed, Keyed: &KeyedArray{
		KnownItems: items, KnownOrder: order, NonEmpty: nonEmpty,
	}}
}

func KeyedMap(keyU, valU Union, nonEmpty bool) *TAtomic {
	return &TAtomic{Kind: KindArrayKeyed, Keyed: &KeyedArray{
		ParamKey: &keyU, ParamValue: &valU, NonEmpty: nonEmpty,
	}}
}

func ListOf(elem Union, nonEmpty bool) *TAtomic {
	return &TAtomic{Kind: KindArrayList, List: &ListArray{ElementType: elem, NonEmpty: nonEmpty}}
}

func Iterable(key, value Union) *TAtomic {
	return &TAtomic{Kind: KindIterable, Iterable: &IterableType{Key: key, Value: value}}
}

func ClassStringOf(class string) *TAtomic {
	return &TAtomic{Kind: KindClassString, ClassLikeString: &ClassString{OfType: class}}
}
