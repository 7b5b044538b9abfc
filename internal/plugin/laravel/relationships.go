package laravel

import (
	"strings"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// singularRelations return one related model directly; pluralRelations
// return a collection of them. Both are resolved from a relationship
// method's declared return type, e.g. `posts(): HasMany<Post>`.
var singularRelations = map[string]bool{
	"HasOne": true, "BelongsTo": true, "MorphOne": true, "MorphTo": true, "HasOneThrough": true,
}

var pluralRelations = map[string]bool{
	"HasMany": true, "BelongsToMany": true, "MorphMany": true, "HasManyThrough": true, "MorphToMany": true,
}

// resolveRelationshipPropertyType resolves a property like $posts to the
// type a call to its backing relationship method (posts(): HasMany<Post>)
// would produce: the related model directly for to-one relations, or an
// Eloquent Collection of the related model for to-many relations.
//
// Tries the property name as-is and its snake_case-to-camelCase form,
// since Eloquent lets either spelling back a relationship accessor.
func resolveRelationshipPropertyType(view *codebase.View, class *codebase.ClassLikeMetadata, propertyName string) (ttype.Union, bool) {
	name := stripDollar(propertyName)
	for _, candidate := range []string{name, snakeToCamel(name)} {
		if method, ok := view.GetMethod(class.Name, candidate); ok {
			if t, ok := relationshipMethodType(method); ok {
				return t, true
			}
		}
	}
	return ttype.Union{}, false
}

// resolveCountPropertyType resolves a `$posts_count`-style property,
// produced by Eloquent's `withCount()`, to int when `posts` (or its
// camelCase form) is itself a relationship method.
func resolveCountPropertyType(view *codebase.View, class *codebase.ClassLikeMetadata, propertyName string) (ttype.Union, bool) {
	name := stripDollar(propertyName)
	base, ok := strings.CutSuffix(name, "_count")
	if !ok {
		return ttype.Union{}, false
	}
	for _, candidate := range []string{base, snakeToCamel(base)} {
		if method, ok := view.GetMethod(class.Name, candidate); ok {
			if _, ok := relationshipMethodType(method); ok {
				return ttype.Single(ttype.IntGeneral()), true
			}
		}
	}
	return ttype.Union{}, false
}

// relationshipMethodType inspects a method's declared return type for a
// relationship generic (HasMany<Post>, BelongsTo<User>, ...) and produces
// the type accessing the property through it would yield.
func relationshipMethodType(method *codebase.FunctionLikeMetadata) (ttype.Union, bool) {
	for _, atom := range method.ReturnType.Atomics() {
		if atom.Kind != ttype.KindObjectNamed || atom.Named == nil {
			continue
		}
		related := relationRelatedModel(atom.Named)
		if related == nil {
			continue
		}
		switch {
		case singularRelations[atom.Named.Name]:
			return ttype.NewUnion(related, ttype.Null()), true
		case pluralRelations[atom.Named.Name]:
			return ttype.Single(ttype.ObjectGeneric(eloquentCollection, ttype.Single(related))), true
		}
	}
	return ttype.Union{}, false
}

func relationRelatedModel(g *ttype.NamedObject) *ttype.TAtomic {
	if len(g.TypeParameters) == 0 {
		return nil
	}
	atomics := g.TypeParameters[0].Atomics()
	if len(atomics) != 1 {
		return nil
	}
	return atomics[0]
}

func stripDollar(name string) string {
	return strings.TrimPrefix(name, "$")
}

// snakeToCamel converts "full_name" to "fullName".
func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
