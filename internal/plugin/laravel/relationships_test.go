package laravel

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
	"github.com/stretchr/testify/assert"
)

func userWithPostsView() *codebase.View {
	return codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		"App\\Models\\Post": {Name: "App\\Models\\Post", Kind: codebase.ClassLikeClass},
		"App\\Models\\User": {
			Name: "App\\Models\\User",
			Kind: codebase.ClassLikeClass,
			Methods: map[string]*codebase.FunctionLikeMetadata{
				"posts": {
					Name: "posts",
					ReturnType: ttype.Single(ttype.ObjectGeneric("HasMany",
						ttype.Single(ttype.ObjectNamed("App\\Models\\Post")))),
				},
				"profile": {
					Name: "profile",
					ReturnType: ttype.Single(ttype.ObjectGeneric("HasOne",
						ttype.Single(ttype.ObjectNamed("App\\Models\\Post")))),
				},
			},
		},
	}, nil)
}

func TestResolveRelationshipPropertyType_ToMany(t *testing.T) {
	view := userWithPostsView()
	user, _ := view.GetClassLike("App\\Models\\User")

	typ, ok := resolveRelationshipPropertyType(view, user, "$posts")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindObjectNamed))
}

func TestResolveRelationshipPropertyType_ToOne_IsNullable(t *testing.T) {
	view := userWithPostsView()
	user, _ := view.GetClassLike("App\\Models\\User")

	typ, ok := resolveRelationshipPropertyType(view, user, "$profile")
	assert.True(t, ok)
	assert.True(t, typ.IsNullable())
}

func TestResolveRelationshipPropertyType_NoMatch(t *testing.T) {
	view := userWithPostsView()
	user, _ := view.GetClassLike("App\\Models\\User")

	_, ok := resolveRelationshipPropertyType(view, user, "$missing")
	assert.False(t, ok)
}

func TestResolveCountPropertyType(t *testing.T) {
	view := userWithPostsView()
	user, _ := view.GetClassLike("App\\Models\\User")

	typ, ok := resolveCountPropertyType(view, user, "$posts_count")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindIntGeneral))
}

func TestSnakeToCamel(t *testing.T) {
	assert.Equal(t, "fullName", snakeToCamel("full_name"))
	assert.Equal(t, "name", snakeToCamel("name"))
}
