package laravel

import (
	"strings"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

const eloquentFactory = `Illuminate\Database\Eloquent\Factories\Factory`

// resolveFactoryReturnType makes `UserFactory::create()` and
// `UserFactory::make()` return the model type derived from the factory's
// naming convention (Database\Factories\UserFactory -> App\Models\User)
// when the factory class extends Factory.
//
// The original skips this inference when the factory already declares
// `@extends Factory<Model>` generics of its own; class metadata here
// doesn't track the type arguments a class passes to its own parent, only
// the parent's name, so that check can't be reproduced and is always
// applied once a class is confirmed to extend Factory.
func resolveFactoryReturnType(view *codebase.View, callingClass, methodName string) (ttype.Union, bool) {
	if methodName != "create" && methodName != "make" {
		return ttype.Union{}, false
	}
	if strings.EqualFold(callingClass, eloquentFactory) {
		return ttype.Union{}, false
	}

	class, ok := view.GetClassLike(callingClass)
	if !ok || !view.ClassExtends(class.Name, eloquentFactory) {
		return ttype.Union{}, false
	}

	modelFQN, ok := factoryToModelFQN(callingClass)
	if !ok {
		return ttype.Union{}, false
	}
	if _, ok := view.GetClassLike(modelFQN); !ok {
		return ttype.Union{}, false
	}
	return ttype.Single(ttype.ObjectNamed(modelFQN)), true
}

// factoryToModelFQN derives a model's FQN from its factory's, replacing
// the last "...\Factories\" path segment with "...\Models\" and
// stripping the trailing "Factory" suffix:
// Database\Factories\Admin\UserFactory -> App\Models\Admin\User.
func factoryToModelFQN(factoryFQN string) (string, bool) {
	trimmed := strings.TrimPrefix(factoryFQN, `\`)
	shortFactory := shortName(trimmed)
	modelShort, ok := strings.CutSuffix(shortFactory, "Factory")
	if !ok || modelShort == "" {
		return "", false
	}

	dir := ""
	if idx := strings.LastIndex(trimmed, `\`); idx >= 0 {
		dir = trimmed[:idx]
	}

	var base string
	switch {
	case dir == "":
		base = `App\Models`
	case strings.Contains(dir, "Factories"):
		base = strings.Replace(dir, "Factories", "Models", 1)
		base = strings.Replace(base, "Database", "App", 1)
	default:
		base = dir
	}

	return base + `\` + modelShort, true
}
