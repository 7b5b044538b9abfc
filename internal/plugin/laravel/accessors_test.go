package laravel

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
	"github.com/stretchr/testify/assert"
)

func TestResolveAccessorPropertyType_Legacy(t *testing.T) {
	view := codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		"App\\Models\\User": {
			Name: "App\\Models\\User",
			Kind: codebase.ClassLikeClass,
			Methods: map[string]*codebase.FunctionLikeMetadata{
				"getFullNameAttribute": {Name: "getFullNameAttribute", ReturnType: ttype.Single(ttype.StringGeneral())},
			},
		},
	}, nil)
	user, _ := view.GetClassLike("App\\Models\\User")

	typ, ok := resolveAccessorPropertyType(view, user, "$full_name")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindStringGeneral))
}

func TestResolveAccessorPropertyType_Modern(t *testing.T) {
	view := codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		"App\\Models\\User": {
			Name: "App\\Models\\User",
			Kind: codebase.ClassLikeClass,
			Methods: map[string]*codebase.FunctionLikeMetadata{
				"fullName": {
					Name: "fullName",
					ReturnType: ttype.Single(ttype.ObjectGeneric("Attribute",
						ttype.Single(ttype.StringGeneral()), ttype.Single(ttype.StringGeneral()))),
				},
			},
		},
	}, nil)
	user, _ := view.GetClassLike("App\\Models\\User")

	typ, ok := resolveAccessorPropertyType(view, user, "$fullName")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindStringGeneral))
}

func TestResolveAccessorPropertyType_NoAccessor(t *testing.T) {
	view := codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		"App\\Models\\User": {Name: "App\\Models\\User", Kind: codebase.ClassLikeClass},
	}, nil)
	user, _ := view.GetClassLike("App\\Models\\User")

	_, ok := resolveAccessorPropertyType(view, user, "$missing")
	assert.False(t, ok)
}

func TestUcFirst(t *testing.T) {
	assert.Equal(t, "FullName", ucFirst("fullName"))
	assert.Equal(t, "", ucFirst(""))
}
