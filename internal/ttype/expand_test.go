package ttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandUnion_SelfStaticParent(t *testing.T) {
	opts := ExpandOptions{SelfClass: "App\\Foo", StaticClass: "App\\Bar", ParentClass: "App\\Base"}

	t.Run("self resolves to the declaring class", func(t *testing.T) {
		result := ExpandUnion(Single(ObjectNamed("self")), opts)
		assert.Equal(t, "App\\Foo", result.Atomics()[0].Named.Name)
	})

	t.Run("static resolves to the late-bound class when known", func(t *testing.T) {
		result := ExpandUnion(Single(ObjectNamed("static")), opts)
		assert.Equal(t, "App\\Bar", result.Atomics()[0].Named.Name)
	})

	t.Run("static falls back to self when no late-bound class is known", func(t *testing.T) {
		result := ExpandUnion(Single(ObjectNamed("static")), ExpandOptions{SelfClass: "App\\Foo"})
		assert.Equal(t, "App\\Foo", result.Atomics()[0].Named.Name)
	})

	t.Run("parent resolves to the declared parent", func(t *testing.T) {
		result := ExpandUnion(Single(ObjectNamed("parent")), opts)
		assert.Equal(t, "App\\Base", result.Atomics()[0].Named.Name)
	})

	t.Run("an unrelated class name passes through unchanged", func(t *testing.T) {
		result := ExpandUnion(Single(ObjectNamed("App\\Other")), opts)
		assert.Equal(t, "App\\Other", result.Atomics()[0].Named.Name)
	})
}

func TestExpandUnion_Aliases(t *testing.T) {
	aliases := map[string]Union{
		"UserId": Single(IntNonNegative()),
	}
	opts := ExpandOptions{Aliases: aliases}

	result := ExpandUnion(Single(ObjectNamed("UserId")), opts)
	assert.True(t, result.HasAtomicKind(KindIntNonNegative))
	assert.False(t, result.HasAtomicKind(KindObjectNamed))
}

func TestExpandUnion_RecursesIntoContainers(t *testing.T) {
	opts := ExpandOptions{SelfClass: "App\\Foo"}
	list := ListOf(Single(ObjectNamed("self")), false)

	result := ExpandUnion(Single(list), opts)
	assert.Equal(t, "App\\Foo", result.Atomics()[0].List.ElementType.Atomics()[0].Named.Name)
}

func TestPruneSubclasses(t *testing.T) {
	h := fakeHierarchy{extends: map[string]string{"Dog": "Animal"}}

	t.Run("a subclass is pruned in favor of its superclass", func(t *testing.T) {
		result := PruneSubclasses([]*TAtomic{ObjectNamed("Dog"), ObjectNamed("Animal")}, h)
		assert.Len(t, result, 1)
		assert.Equal(t, "Animal", result[0].Named.Name)
	})

	t.Run("unrelated classes are both kept", func(t *testing.T) {
		result := PruneSubclasses([]*TAtomic{ObjectNamed("Dog"), ObjectNamed("Cat")}, h)
		assert.Len(t, result, 2)
	})

	t.Run("a superclass with distinguishing type parameters is not pruned away", func(t *testing.T) {
		generic := ObjectGeneric("Animal", Single(StringGeneral()))
		result := PruneSubclasses([]*TAtomic{ObjectNamed("Dog"), generic}, h)
		assert.Len(t, result, 2)
	})
}
