package laravel

import (
	"strings"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

const attributeClass = `Illuminate\Database\Eloquent\Casts\Attribute`

// resolveAccessorPropertyType resolves a property backed by a Laravel
// accessor, in either its legacy form (getFullNameAttribute(): string)
// or its modern form (fullName(): Attribute<string, string>).
func resolveAccessorPropertyType(view *codebase.View, class *codebase.ClassLikeMetadata, propertyName string) (ttype.Union, bool) {
	camel := snakeToCamel(stripDollar(propertyName))

	if method, ok := view.GetMethod(class.Name, "get"+ucFirst(camel)+"Attribute"); ok {
		return method.ReturnType, true
	}

	if method, ok := view.GetMethod(class.Name, camel); ok {
		if t, ok := modernAccessorGetType(method); ok {
			return t, true
		}
	}

	return ttype.Union{}, false
}

// modernAccessorGetType extracts the `get` side of an
// `Attribute<TGet, TSet>`-returning accessor method.
func modernAccessorGetType(method *codebase.FunctionLikeMetadata) (ttype.Union, bool) {
	for _, atom := range method.ReturnType.Atomics() {
		if atom.Kind != ttype.KindObjectNamed || atom.Named == nil {
			continue
		}
		if !isAttributeGeneric(atom.Named.Name) {
			continue
		}
		if len(atom.Named.TypeParameters) == 0 {
			continue
		}
		return atom.Named.TypeParameters[0], true
	}
	return ttype.Union{}, false
}

func isAttributeGeneric(name string) bool {
	return name == attributeClass || shortName(name) == "Attribute"
}

func shortName(fqn string) string {
	idx := strings.LastIndex(fqn, `\`)
	if idx < 0 {
		return fqn
	}
	return fqn[idx+1:]
}

func ucFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
