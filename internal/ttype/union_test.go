package ttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUnion_Deduplicates(t *testing.T) {
	u := NewUnion(IntLiteral(1), IntLiteral(1), IntLiteral(2))
	assert.Equal(t, 2, u.Len())
}

func TestUnion_Atomics_StableOrder(t *testing.T) {
	u := NewUnion(IntGeneral(), StringGeneral(), BoolGeneral())
	first := u.Atomics()
	second := u.Atomics()

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Kind, second[i].Kind)
	}
}

func TestUnion_IsNever(t *testing.T) {
	t.Run("singleton never", func(t *testing.T) {
		assert.True(t, Single(Never()).IsNever())
	})

	t.Run("never alongside another atomic is not the bottom union", func(t *testing.T) {
		assert.False(t, NewUnion(Never(), IntGeneral()).IsNever())
	})
}

func TestUnion_IsMixed(t *testing.T) {
	assert.True(t, Single(MixedAny()).IsMixed())
	assert.False(t, Single(MixedNonNull()).IsMixed())
	assert.False(t, Single(IntGeneral()).IsMixed())
}

func TestUnion_IsNullable(t *testing.T) {
	assert.True(t, NewUnion(IntGeneral(), Null()).IsNullable())
	assert.False(t, NewUnion(IntGeneral()).IsNullable())
}

func TestUnion_HasAtomicKind(t *testing.T) {
	u := NewUnion(IntGeneral(), StringGeneral())
	assert.True(t, u.HasAtomicKind(KindIntGeneral))
	assert.False(t, u.HasAtomicKind(KindBoolGeneral))
}

func TestUnion_Id(t *testing.T) {
	t.Run("order of construction does not affect identity", func(t *testing.T) {
		a := NewUnion(IntGeneral(), StringGeneral())
		b := NewUnion(StringGeneral(), IntGeneral())
		assert.Equal(t, a.Id(), b.Id())
	})

	t.Run("differing membership differs in identity", func(t *testing.T) {
		a := NewUnion(IntGeneral())
		b := NewUnion(IntGeneral(), StringGeneral())
		assert.NotEqual(t, a.Id(), b.Id())
	})
}

func TestUnion_Clone(t *testing.T) {
	original := NewUnion(Keyed(map[string]*ArrayItem{
		"a": {Possibly: Single(IntGeneral())},
	}, []string{"a"}, true))

	clone := original.Clone()
	for _, a := range clone.Atomics() {
		a.Keyed.KnownItems["a"].Possibly = Single(StringGeneral())
	}

	for _, a := range original.Atomics() {
		assert.True(t, a.Keyed.KnownItems["a"].Possibly.HasAtomicKind(KindIntGeneral))
	}
}

func TestUnion_WithParentNode(t *testing.T) {
	u := Single(IntGeneral())
	tagged := u.WithParentNode("node-1")

	assert.Nil(t, u.ParentNodes)
	assert.Contains(t, tagged.ParentNodes, "node-1")
}

func TestToNonNullable(t *testing.T) {
	t.Run("removes null and leaves the rest", func(t *testing.T) {
		u := NewUnion(IntGeneral(), Null())
		result := ToNonNullable(u)

		assert.False(t, result.IsNullable())
		assert.True(t, result.HasAtomicKind(KindIntGeneral))
	})

	t.Run("null-only union collapses to never", func(t *testing.T) {
		result := ToNonNullable(Single(Null()))
		assert.True(t, result.IsNever())
	})

	t.Run("combining the result back with null reproduces a nullable union", func(t *testing.T) {
		u := NewUnion(IntGeneral(), Null())
		stripped := ToNonNullable(u)
		restored := CombineUnion(stripped, Single(Null()))

		assert.Equal(t, u.Id(), restored.Id())
	})
}
