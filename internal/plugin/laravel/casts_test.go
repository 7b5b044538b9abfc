package laravel

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
	"github.com/stretchr/testify/assert"
)

func modelWithCastsView(casts map[string]string) (*codebase.View, *codebase.ClassLikeMetadata) {
	classes := map[string]*codebase.ClassLikeMetadata{
		"App\\Models\\User": {
			Name: "App\\Models\\User",
			Kind: codebase.ClassLikeClass,
			Properties: map[string]*codebase.PropertyMetadata{
				"$casts": {Name: "$casts", DeclaringClass: "App\\Models\\User", DefaultArrayLiteral: casts},
			},
		},
		"App\\Enums\\Status": {Name: "App\\Enums\\Status", Kind: codebase.ClassLikeEnum},
	}
	view := codebase.NewView(classes, nil)
	user, _ := view.GetClassLike("App\\Models\\User")
	return view, user
}

func TestResolveCastPropertyType_BuiltinInteger(t *testing.T) {
	view, user := modelWithCastsView(map[string]string{"age": "integer"})
	typ, ok := resolveCastPropertyType(view, user, "$age")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindIntGeneral))
}

func TestResolveCastPropertyType_Decimal(t *testing.T) {
	view, user := modelWithCastsView(map[string]string{"price": "decimal:2"})
	typ, ok := resolveCastPropertyType(view, user, "$price")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindFloatGeneral))
}

func TestResolveCastPropertyType_Datetime(t *testing.T) {
	view, user := modelWithCastsView(map[string]string{"created_at": "datetime"})
	typ, ok := resolveCastPropertyType(view, user, "$created_at")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindObjectNamed))
}

func TestResolveCastPropertyType_EnumClass(t *testing.T) {
	view, user := modelWithCastsView(map[string]string{"status": "App\\Enums\\Status"})
	typ, ok := resolveCastPropertyType(view, user, "$status")
	assert.True(t, ok)
	assert.True(t, typ.HasAtomicKind(ttype.KindObjectNamed))
}

func TestResolveCastPropertyType_NotInCasts(t *testing.T) {
	view, user := modelWithCastsView(map[string]string{"age": "integer"})
	_, ok := resolveCastPropertyType(view, user, "$missing")
	assert.False(t, ok)
}

func TestResolveCastPropertyType_NoCastsProperty(t *testing.T) {
	view := codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		"App\\Models\\User": {Name: "App\\Models\\User", Kind: codebase.ClassLikeClass},
	}, nil)
	user, _ := view.GetClassLike("App\\Models\\User")
	_, ok := resolveCastPropertyType(view, user, "$age")
	assert.False(t, ok)
}
