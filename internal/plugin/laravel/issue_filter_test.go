package laravel

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/stretchr/testify/assert"
)

func TestExtractClassName_DoubleColon(t *testing.T) {
	name, ok := classFromDoubleColon("Property `App\\Models\\User::$foo` is not accessible")
	assert.True(t, ok)
	assert.Equal(t, `App\Models\User`, name)
}

func TestExtractClassName_Context(t *testing.T) {
	name, ok := classFromContext("Property `$foo` does not exist on class `App\\Models\\User`.")
	assert.True(t, ok)
	assert.Equal(t, `App\Models\User`, name)
}

func TestExtractClassName_PrefersDoubleColon(t *testing.T) {
	msg := "Property `App\\Models\\User::$name` does not exist on class `App\\Models\\User`."
	name, ok := extractClassName(msg)
	assert.True(t, ok)
	assert.Equal(t, `App\Models\User`, name)
}

func TestLooksLikeClassName(t *testing.T) {
	assert.True(t, looksLikeClassName("User"))
	assert.True(t, looksLikeClassName(`App\Models\User`))
	assert.False(t, looksLikeClassName(""))
	assert.False(t, looksLikeClassName("123"))
	assert.False(t, looksLikeClassName("$foo"))
}

func TestFilterIssue_SuppressesOnModel(t *testing.T) {
	view := codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		eloquentModel:       {Name: eloquentModel, Kind: codebase.ClassLikeClass},
		`App\Models\User`: {Name: `App\Models\User`, Kind: codebase.ClassLikeClass, ParentName: eloquentModel},
	}, nil)
	a := &adapter{view: view}

	iss := issue.Issue{
		Code:    issue.NonExistentProperty,
		Message: "Property `$name` does not exist on class `App\\Models\\User`.",
	}
	assert.False(t, a.filterIssue(iss))
}

func TestFilterIssue_KeepsOnNonModel(t *testing.T) {
	view := codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		`App\Services\Report`: {Name: `App\Services\Report`, Kind: codebase.ClassLikeClass},
	}, nil)
	a := &adapter{view: view}

	iss := issue.Issue{
		Code:    issue.NonExistentProperty,
		Message: "Property `$name` does not exist on class `App\\Services\\Report`.",
	}
	assert.True(t, a.filterIssue(iss))
}

func TestFilterIssue_UnrelatedCodeAlwaysKept(t *testing.T) {
	a := &adapter{view: codebase.NewView(nil, nil)}
	iss := issue.Issue{Code: issue.TooFewArguments, Message: "anything"}
	assert.True(t, a.filterIssue(iss))
}
