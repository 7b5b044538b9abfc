package ttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeHierarchy struct {
	extends    map[string]string
	implements map[string][]string
}

func (f fakeHierarchy) ClassExtends(sub, sup string) bool {
	return f.extends[sub] == sup
}

func (f fakeHierarchy) ClassImplements(sub, iface string) bool {
	for _, i := range f.implements[sub] {
		if i == iface {
			return true
		}
	}
	return false
}

func TestIsContainedByUnion_Scalars(t *testing.T) {
	t.Run("int literal contained by int general", func(t *testing.T) {
		assert.True(t, IsContainedByUnion(Single(IntLiteral(5)), Single(IntGeneral()), nil, Options{}, nil))
	})

	t.Run("string not contained by int", func(t *testing.T) {
		assert.False(t, IsContainedByUnion(Single(StringGeneral()), Single(IntGeneral()), nil, Options{}, nil))
	})

	t.Run("never is contained by everything", func(t *testing.T) {
		assert.True(t, IsContainedByUnion(Single(Never()), Single(StringGeneral()), nil, Options{}, nil))
	})

	t.Run("mixed(any) supertype absorbs anything", func(t *testing.T) {
		var cr ComparisonResult
		assert.True(t, IsContainedByUnion(Single(IntGeneral()), Single(MixedAny()), nil, Options{}, &cr))
		assert.True(t, cr.TypeCoercedFromAsMixed)
	})

	t.Run("mixed subtype flowing into a concrete type is coerced", func(t *testing.T) {
		var cr ComparisonResult
		assert.True(t, IsContainedByUnion(Single(MixedAny()), Single(IntGeneral()), nil, Options{}, &cr))
		assert.True(t, cr.TypeCoercedFromNestedMixed)
	})
}

func TestIsContainedByUnion_Integers(t *testing.T) {
	t.Run("range contained by wider range", func(t *testing.T) {
		assert.True(t, IsContainedByUnion(Single(IntRange(2, 4)), Single(IntRange(0, 10)), nil, Options{}, nil))
	})

	t.Run("range not contained by narrower range", func(t *testing.T) {
		assert.False(t, IsContainedByUnion(Single(IntRange(2, 11)), Single(IntRange(0, 10)), nil, Options{}, nil))
	})

	t.Run("positive implies non-negative", func(t *testing.T) {
		assert.True(t, IsContainedByUnion(Single(IntPositive()), Single(IntNonNegative()), nil, Options{}, nil))
	})

	t.Run("non-negative does not imply positive", func(t *testing.T) {
		assert.False(t, IsContainedByUnion(Single(IntNonNegative()), Single(IntPositive()), nil, Options{}, nil))
	})
}

func TestIsContainedByUnion_Strings(t *testing.T) {
	t.Run("literal satisfies a non-empty constraint", func(t *testing.T) {
		sup := StringWith(StringPredicates{NonEmpty: true})
		assert.True(t, IsContainedByUnion(Single(StringLiteral("a")), Single(sup), nil, Options{}, nil))
	})

	t.Run("empty literal fails a non-empty constraint", func(t *testing.T) {
		sup := StringWith(StringPredicates{NonEmpty: true})
		assert.False(t, IsContainedByUnion(Single(StringLiteral("")), Single(sup), nil, Options{}, nil))
	})

	t.Run("literal set must be a subset of the supertype's literal set", func(t *testing.T) {
		sub := StringLiteral("a")
		sup := &TAtomic{Kind: KindStringGeneral, StringPredicates: StringPredicates{
			LiteralSet: map[string]bool{"a": true, "b": true},
		}}
		assert.True(t, IsContainedByUnion(Single(sub), Single(sup), nil, Options{}, nil))
	})
}

func TestIsContainedByUnion_Arrays(t *testing.T) {
	t.Run("keyed array with a matching required key", func(t *testing.T) {
		sub := Keyed(map[string]*ArrayItem{"x": {Possibly: Single(IntLiteral(1))}}, []string{"x"}, false)
		sup := Keyed(map[string]*ArrayItem{"x": {Possibly: Single(IntGeneral())}}, []string{"x"}, false)
		assert.True(t, IsContainedByUnion(Single(sub), Single(sup), nil, Options{}, nil))
	})

	t.Run("missing a required key fails containment", func(t *testing.T) {
		sub := Keyed(map[string]*ArrayItem{}, nil, false)
		sup := Keyed(map[string]*ArrayItem{"x": {Possibly: Single(IntGeneral())}}, []string{"x"}, false)
		assert.False(t, IsContainedByUnion(Single(sub), Single(sup), nil, Options{}, nil))
	})

	t.Run("list contained by iterable", func(t *testing.T) {
		list := ListOf(Single(IntGeneral()), false)
		iter := Iterable(Single(IntNonNegative()), Single(IntGeneral()))
		assert.True(t, IsContainedByUnion(Single(list), Single(iter), nil, Options{}, nil))
	})

	t.Run("list contained by keyed via promotion", func(t *testing.T) {
		list := ListOf(Single(StringGeneral()), false)
		keyed := KeyedMap(Single(IntGeneral()), Single(StringGeneral()), false)
		assert.True(t, IsContainedByUnion(Single(list), Single(keyed), nil, Options{}, nil))
	})
}

func TestIsContainedByUnion_Objects(t *testing.T) {
	h := fakeHierarchy{
		extends:    map[string]string{"Dog": "Animal"},
		implements: map[string][]string{"Dog": {"Pettable"}},
	}

	t.Run("subclass contained by superclass", func(t *testing.T) {
		assert.True(t, IsContainedByUnion(Single(ObjectNamed("Dog")), Single(ObjectNamed("Animal")), h, Options{}, nil))
	})

	t.Run("implementor contained by interface", func(t *testing.T) {
		assert.True(t, IsContainedByUnion(Single(ObjectNamed("Dog")), Single(ObjectNamed("Pettable")), h, Options{}, nil))
	})

	t.Run("unrelated classes are not contained", func(t *testing.T) {
		assert.False(t, IsContainedByUnion(Single(ObjectNamed("Dog")), Single(ObjectNamed("Cat")), h, Options{}, nil))
	})

	t.Run("everything is contained by object-any", func(t *testing.T) {
		assert.True(t, IsContainedByUnion(Single(ObjectNamed("Dog")), Single(ObjectAny()), h, Options{}, nil))
	})
}

func TestIsContainedByUnion_Callables(t *testing.T) {
	fn := func(params []Union, ret Union) *TAtomic {
		return &TAtomic{Kind: KindCallable, Callable: &CallableSignature{Params: params, Return: ret}}
	}

	t.Run("matching signature is contained", func(t *testing.T) {
		a := fn([]Union{Single(IntGeneral())}, Single(StringGeneral()))
		b := fn([]Union{Single(IntGeneral())}, Single(StringGeneral()))
		assert.True(t, IsContainedByUnion(Single(a), Single(b), nil, Options{}, nil))
	})

	t.Run("differing arity is not contained", func(t *testing.T) {
		a := fn([]Union{Single(IntGeneral())}, Single(StringGeneral()))
		b := fn(nil, Single(StringGeneral()))
		assert.False(t, IsContainedByUnion(Single(a), Single(b), nil, Options{}, nil))
	})
}

func TestCanBeIdentical(t *testing.T) {
	t.Run("equal int literals can be identical", func(t *testing.T) {
		assert.True(t, CanBeIdentical(IntLiteral(1), IntLiteral(1)))
	})

	t.Run("different int literals cannot be identical", func(t *testing.T) {
		assert.False(t, CanBeIdentical(IntLiteral(1), IntLiteral(2)))
	})

	t.Run("mixed can be identical to anything", func(t *testing.T) {
		assert.True(t, CanBeIdentical(MixedAny(), StringGeneral()))
	})

	t.Run("overlapping string literal sets can be identical", func(t *testing.T) {
		a := StringLiteral("x")
		b := &TAtomic{Kind: KindStringGeneral, StringPredicates: StringPredicates{
			LiteralSet: map[string]bool{"x": true, "y": true},
		}}
		assert.True(t, CanBeIdentical(a, b))
	})

	t.Run("disjoint string literal sets cannot be identical", func(t *testing.T) {
		assert.False(t, CanBeIdentical(StringLiteral("x"), StringLiteral("y")))
	})
}
