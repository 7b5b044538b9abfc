package laravel

import (
	"strings"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

const castableInterface = `Illuminate\Contracts\Database\Eloquent\Castable`

// resolveCastPropertyType resolves a property declared in a model's
// `protected $casts = [...]` array to the type the cast produces:
// a built-in scalar for built-in cast strings ("integer", "boolean", ...),
// the enum or Castable class itself for class-based casts, or the return
// type of a custom cast class's get() method.
func resolveCastPropertyType(view *codebase.View, class *codebase.ClassLikeMetadata, propertyName string) (ttype.Union, bool) {
	castsProp, ok := class.Properties["$casts"]
	if !ok || castsProp.DefaultArrayLiteral == nil {
		return ttype.Union{}, false
	}
	castType, ok := castsProp.DefaultArrayLiteral[stripDollar(propertyName)]
	if !ok {
		return ttype.Union{}, false
	}
	return resolveCastType(view, castType), true
}

func resolveCastType(view *codebase.View, castType string) ttype.Union {
	if phpType, ok := castTypeToPHPType(castType); ok {
		return phpTypeToUnion(phpType)
	}

	classPart, _, _ := strings.Cut(castType, ":")
	className := strings.TrimPrefix(classPart, `\`)

	castClass, ok := view.GetClassLike(className)
	if !ok {
		return ttype.Single(ttype.MixedAny())
	}

	if castClass.Kind == codebase.ClassLikeEnum {
		return ttype.Single(ttype.ObjectNamed(castClass.Name))
	}
	if view.ClassImplements(castClass.Name, castableInterface) {
		return ttype.Single(ttype.ObjectNamed(castClass.Name))
	}
	if get, ok := view.GetMethod(castClass.Name, "get"); ok {
		return get.ReturnType
	}
	return ttype.Single(ttype.MixedAny())
}

// castTypeToPHPType maps a built-in Eloquent cast type string (the part
// before any `:argument` suffix) to the PHP type it produces.
func castTypeToPHPType(castType string) (string, bool) {
	prefix, _, _ := strings.Cut(castType, ":")
	switch prefix {
	case "int", "integer":
		return "int", true
	case "real", "float", "double", "decimal":
		return "float", true
	case "string":
		return "string", true
	case "bool", "boolean":
		return "bool", true
	case "object", "collection":
		return "object", true
	case "array", "json", "encrypted:array", "encrypted:collection", "encrypted:object":
		return "array", true
	case "date", "datetime", "immutable_date", "immutable_datetime", "timestamp":
		return `Illuminate\Support\Carbon`, true
	}
	return "", false
}

func phpTypeToUnion(phpType string) ttype.Union {
	switch phpType {
	case "int":
		return ttype.Single(ttype.IntGeneral())
	case "float":
		return ttype.Single(ttype.FloatGeneral())
	case "string":
		return ttype.Single(ttype.StringGeneral())
	case "bool":
		return ttype.Single(ttype.BoolGeneral())
	case "array":
		return ttype.Single(ttype.KeyedMap(ttype.Single(ttype.ArrayKey()), ttype.Single(ttype.MixedAny()), false))
	case "object":
		return ttype.Single(ttype.ObjectAny())
	default:
		return ttype.Single(ttype.ObjectNamed(strings.TrimPrefix(phpType, `\`)))
	}
}
