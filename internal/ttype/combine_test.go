package ttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine_MixedAnyAbsorbsAll(t *testing.T) {
	result := Combine([]*TAtomic{StringGeneral(), MixedAny(), IntGeneral()}, false)

	assert.Len(t, result, 1)
	assert.True(t, result[0].IsMixedAny())
}

func TestCombine_Booleans(t *testing.T) {
	t.Run("true and false merge into bool", func(t *testing.T) {
		result := Combine([]*TAtomic{BoolTrue(), BoolFalse()}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindBoolGeneral, result[0].Kind)
	})

	t.Run("general bool supersedes literals", func(t *testing.T) {
		result := Combine([]*TAtomic{BoolTrue(), BoolGeneral()}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindBoolGeneral, result[0].Kind)
	})

	t.Run("single literal stays a literal", func(t *testing.T) {
		result := Combine([]*TAtomic{BoolTrue()}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindBoolTrue, result[0].Kind)
	})
}

func TestCombine_Integers(t *testing.T) {
	t.Run("literal set stays distinct until the cap", func(t *testing.T) {
		result := Combine([]*TAtomic{IntLiteral(1), IntLiteral(2), IntLiteral(3)}, false)
		assert.Len(t, result, 3)
	})

	t.Run("beyond the cap widens to a range", func(t *testing.T) {
		atoms := make([]*TAtomic, 0, maxIntLiteralSet+1)
		for i := 0; i < maxIntLiteralSet+1; i++ {
			atoms = append(atoms, IntLiteral(int64(i)))
		}
		result := Combine(atoms, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindIntRange, result[0].Kind)
		assert.EqualValues(t, 0, *result[0].IntRangeLo)
		assert.EqualValues(t, maxIntLiteralSet, *result[0].IntRangeHi)
	})

	t.Run("ranges collapse into a single widened range", func(t *testing.T) {
		result := Combine([]*TAtomic{IntRange(0, 5), IntRange(3, 10)}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindIntRange, result[0].Kind)
		assert.EqualValues(t, 0, *result[0].IntRangeLo)
		assert.EqualValues(t, 10, *result[0].IntRangeHi)
	})

	t.Run("general int supersedes everything", func(t *testing.T) {
		result := Combine([]*TAtomic{IntLiteral(1), IntGeneral(), IntNonNegative()}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindIntGeneral, result[0].Kind)
	})

	t.Run("non-negative literals keep the predicate", func(t *testing.T) {
		result := Combine([]*TAtomic{IntLiteral(1), IntLiteral(2), IntNonNegative()}, false)
		assert.Len(t, result, 3)
		kinds := map[Kind]int{}
		for _, a := range result {
			kinds[a.Kind]++
		}
		assert.Equal(t, 1, kinds[KindIntNonNegative])
	})

	t.Run("a negative literal breaks the non-negative predicate", func(t *testing.T) {
		result := Combine([]*TAtomic{IntLiteral(-1), IntNonNegative()}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindIntGeneral, result[0].Kind)
	})
}

func TestCombine_Strings(t *testing.T) {
	t.Run("literals union", func(t *testing.T) {
		result := Combine([]*TAtomic{StringLiteral("a"), StringLiteral("b")}, false)
		assert.Len(t, result, 1)
		assert.True(t, result[0].StringPredicates.LiteralSet["a"])
		assert.True(t, result[0].StringPredicates.LiteralSet["b"])
	})

	t.Run("predicates merge conjunctively", func(t *testing.T) {
		a := StringWith(StringPredicates{NonEmpty: true, Truthy: true})
		b := StringWith(StringPredicates{NonEmpty: true})
		result := Combine([]*TAtomic{a, b}, false)
		assert.Len(t, result, 1)
		assert.True(t, result[0].StringPredicates.NonEmpty)
		assert.False(t, result[0].StringPredicates.Truthy)
	})

	t.Run("literal violating a predicate drops it", func(t *testing.T) {
		general := StringWith(StringPredicates{NonEmpty: true})
		lit := StringLiteral("")
		result := Combine([]*TAtomic{general, lit}, false)
		assert.Len(t, result, 1)
		assert.False(t, result[0].StringPredicates.NonEmpty)
	})
}

func TestCombine_Arrays(t *testing.T) {
	t.Run("list alone is preserved", func(t *testing.T) {
		result := Combine([]*TAtomic{ListOf(Single(IntGeneral()), false)}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindArrayList, result[0].Kind)
	})

	t.Run("list plus keyed widens to keyed with integer keys", func(t *testing.T) {
		list := ListOf(Single(IntGeneral()), false)
		list.List.KnownOrder = []int{0}
		list.List.KnownElements = map[int]*ArrayItem{0: {Possibly: Single(IntLiteral(1))}}

		keyed := Keyed(map[string]*ArrayItem{
			"name": {Possibly: Single(StringGeneral())},
		}, []string{"name"}, false)

		result := Combine([]*TAtomic{list, keyed}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, KindArrayKeyed, result[0].Kind)
		assert.Contains(t, result[0].Keyed.KnownItems, "0")
		assert.Contains(t, result[0].Keyed.KnownItems, "name")
	})

	t.Run("item present in only one source becomes possibly-undefined", func(t *testing.T) {
		a := Keyed(map[string]*ArrayItem{"x": {Possibly: Single(IntGeneral())}}, []string{"x"}, true)
		b := Keyed(map[string]*ArrayItem{"y": {Possibly: Single(StringGeneral())}}, []string{"y"}, true)

		result := Combine([]*TAtomic{a, b}, false)
		assert.Len(t, result, 1)
		assert.True(t, result[0].Keyed.KnownItems["x"].Optional)
		assert.True(t, result[0].Keyed.KnownItems["y"].Optional)
	})

	t.Run("non-emptiness preserved only when every source was non-empty", func(t *testing.T) {
		a := Keyed(map[string]*ArrayItem{"x": {Possibly: Single(IntGeneral())}}, []string{"x"}, true)
		b := Keyed(map[string]*ArrayItem{"x": {Possibly: Single(IntGeneral())}}, []string{"x"}, false)

		result := Combine([]*TAtomic{a, b}, false)
		assert.Len(t, result, 1)
		assert.False(t, result[0].Keyed.NonEmpty)
	})
}

func TestCombine_Objects(t *testing.T) {
	t.Run("same-name objects merge type parameters", func(t *testing.T) {
		a := ObjectGeneric("Collection", Single(IntGeneral()))
		b := ObjectGeneric("Collection", Single(StringGeneral()))

		result := Combine([]*TAtomic{a, b}, false)
		assert.Len(t, result, 1)
		assert.Equal(t, "Collection", result[0].Named.Name)
		assert.True(t, result[0].Named.TypeParameters[0].HasAtomicKind(KindIntGeneral))
		assert.True(t, result[0].Named.TypeParameters[0].HasAtomicKind(KindStringGeneral))
	})

	t.Run("self-combine is idempotent", func(t *testing.T) {
		a := ObjectNamed("Foo")
		result := Combine([]*TAtomic{a, a.Clone()}, false)
		assert.Len(t, result, 1)
	})
}

func TestCombineUnion_CommutativeAndIdempotent(t *testing.T) {
	u1 := NewUnion(IntGeneral(), StringGeneral())
	u2 := NewUnion(BoolGeneral())

	ab := CombineUnion(u1, u2)
	ba := CombineUnion(u2, u1)
	assert.Equal(t, ab.Id(), ba.Id())

	again := CombineUnion(ab, ab)
	assert.Equal(t, ab.Id(), again.Id())
}
