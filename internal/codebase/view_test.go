package codebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixture() *View {
	classLikes := map[string]*ClassLikeMetadata{
		"Countable": {
			Name: "Countable",
			Kind: ClassLikeInterface,
		},
		"Collection": {
			Name:       "Collection",
			Kind:       ClassLikeClass,
			Interfaces: []string{"Countable"},
			Properties: map[string]*PropertyMetadata{
				"items": {Name: "items", DeclaringClass: "Collection"},
			},
			Methods: map[string]*FunctionLikeMetadata{
				"count": {Name: "count", DeclaringClass: "Collection"},
			},
		},
		"TypedCollection": {
			Name:       "TypedCollection",
			Kind:       ClassLikeClass,
			ParentName: "Collection",
			Methods: map[string]*FunctionLikeMetadata{
				"first": {Name: "first", DeclaringClass: "TypedCollection"},
			},
		},
		"IntCollection": {
			Name:       "IntCollection",
			Kind:       ClassLikeClass,
			ParentName: "TypedCollection",
		},
	}
	functions := map[string]*FunctionLikeMetadata{
		"array_map": {Name: "array_map"},
	}
	return NewView(classLikes, functions)
}

func TestView_GetClassLike(t *testing.T) {
	v := fixture()

	meta, ok := v.GetClassLike("Collection")
	assert.True(t, ok)
	assert.Equal(t, ClassLikeClass, meta.Kind)

	_, ok = v.GetClassLike("Nope")
	assert.False(t, ok)
}

func TestView_GetMethod_InheritedAndDeclared(t *testing.T) {
	v := fixture()

	m, ok := v.GetMethod("TypedCollection", "first")
	assert.True(t, ok)
	assert.Equal(t, "TypedCollection", m.DeclaringClass)

	inherited, ok := v.GetMethod("IntCollection", "count")
	assert.True(t, ok)
	assert.Equal(t, "Collection", inherited.DeclaringClass)

	_, ok = v.GetMethod("IntCollection", "missing")
	assert.False(t, ok)
}

func TestView_GetFunction(t *testing.T) {
	v := fixture()
	f, ok := v.GetFunction("array_map")
	assert.True(t, ok)
	assert.Equal(t, "array_map", f.Name)

	_, ok = v.GetFunction("not_a_function")
	assert.False(t, ok)
}

func TestView_GetDeclaringMethodId(t *testing.T) {
	v := fixture()

	declClass, ok := v.GetDeclaringMethodId("IntCollection", "count")
	assert.True(t, ok)
	assert.Equal(t, "Collection", declClass)

	declClass, ok = v.GetDeclaringMethodId("TypedCollection", "first")
	assert.True(t, ok)
	assert.Equal(t, "TypedCollection", declClass)

	_, ok = v.GetDeclaringMethodId("IntCollection", "nonexistent")
	assert.False(t, ok)
}

func TestView_GetDeclaringClassForProperty(t *testing.T) {
	v := fixture()

	declClass, ok := v.GetDeclaringClassForProperty("IntCollection", "items")
	assert.True(t, ok)
	assert.Equal(t, "Collection", declClass)

	_, ok = v.GetDeclaringClassForProperty("IntCollection", "missing")
	assert.False(t, ok)
}

func TestView_ClassExtends(t *testing.T) {
	v := fixture()

	assert.True(t, v.ClassExtends("IntCollection", "TypedCollection"))
	assert.True(t, v.ClassExtends("IntCollection", "Collection"))
	assert.False(t, v.ClassExtends("IntCollection", "Countable")) // interface, not a superclass
	assert.False(t, v.ClassExtends("Collection", "IntCollection"))
	assert.False(t, v.ClassExtends("Collection", "Collection")) // not reflexive
}

func TestView_ClassImplements(t *testing.T) {
	v := fixture()

	assert.True(t, v.ClassImplements("Collection", "Countable"))
	assert.True(t, v.ClassImplements("TypedCollection", "Countable"))
	assert.True(t, v.ClassImplements("IntCollection", "Countable"))
	assert.False(t, v.ClassImplements("Countable", "Countable"))
}

func TestView_IsInstanceOf(t *testing.T) {
	v := fixture()

	assert.True(t, v.IsInstanceOf("IntCollection", "IntCollection"))
	assert.True(t, v.IsInstanceOf("IntCollection", "TypedCollection"))
	assert.True(t, v.IsInstanceOf("IntCollection", "Countable"))
	assert.False(t, v.IsInstanceOf("Countable", "IntCollection"))
}

func TestView_GetSignatureOfFunctionLikeIdentifier(t *testing.T) {
	v := fixture()

	m, ok := v.GetSignatureOfFunctionLikeIdentifier("Collection::count")
	assert.True(t, ok)
	assert.Equal(t, "count", m.Name)

	f, ok := v.GetSignatureOfFunctionLikeIdentifier("array_map")
	assert.True(t, ok)
	assert.Equal(t, "array_map", f.Name)

	_, ok = v.GetSignatureOfFunctionLikeIdentifier("Nope::nope")
	assert.False(t, ok)
}

func TestView_AllClassLikeDescendants(t *testing.T) {
	v := fixture()

	descendants := v.AllClassLikeDescendants("Collection")
	assert.ElementsMatch(t, []string{"TypedCollection", "IntCollection"}, descendants)

	descendants = v.AllClassLikeDescendants("Countable")
	assert.ElementsMatch(t, []string{"Collection", "TypedCollection", "IntCollection"}, descendants)

	assert.Empty(t, v.AllClassLikeDescendants("IntCollection"))
}
