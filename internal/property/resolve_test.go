package property

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureView() *codebase.View {
	return codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		"Animal": {
			Name: "Animal",
			Kind: codebase.ClassLikeClass,
			Properties: map[string]*codebase.PropertyMetadata{
				"$name": {Name: "$name", DeclaringClass: "Animal", Type: ttype.Single(ttype.StringGeneral()), Visibility: codebase.VisibilityPublic},
				"$age":  {Name: "$age", DeclaringClass: "Animal", Type: ttype.Single(ttype.IntGeneral()), Visibility: codebase.VisibilityPrivate},
			},
		},
		"Dog": {
			Name:       "Dog",
			Kind:       codebase.ClassLikeClass,
			ParentName: "Animal",
			Properties: map[string]*codebase.PropertyMetadata{},
		},
	}, nil)
}

func span() astshim.Span {
	return astshim.Span{FileID: "a.php", Start: 1, End: 5}
}

func TestResolve_DynamicSelector_IsAmbiguous(t *testing.T) {
	buf := issue.NewBuffer()
	result := Resolve(fixtureView(), Request{ObjectType: ttype.Single(ttype.ObjectNamed("Dog")), AccessSpan: span()}, buf)

	assert.True(t, result.HasAmbiguousPath)
	require.Equal(t, 1, buf.Len())
	assert.Equal(t, issue.AmbiguousObjectPropertyAccess, buf.All()[0].Code)
}

func TestResolve_InheritedProperty(t *testing.T) {
	buf := issue.NewBuffer()
	result := Resolve(fixtureView(), Request{
		ObjectType:   ttype.Single(ttype.ObjectNamed("Dog")),
		PropertyName: "$name",
		AccessSpan:   span(),
	}, buf)

	assert.Equal(t, 0, buf.Len())
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "Animal", result.Properties[0].DeclaringClass)
}

func TestResolve_NonExistentProperty(t *testing.T) {
	buf := issue.NewBuffer()
	Resolve(fixtureView(), Request{
		ObjectType:   ttype.Single(ttype.ObjectNamed("Dog")),
		PropertyName: "$missing",
		AccessSpan:   span(),
	}, buf)

	require.Equal(t, 1, buf.Len())
	assert.Equal(t, issue.NonExistentProperty, buf.All()[0].Code)
}

func TestResolve_PrivatePropertyFromOutsideClass(t *testing.T) {
	buf := issue.NewBuffer()
	Resolve(fixtureView(), Request{
		ObjectType:   ttype.Single(ttype.ObjectNamed("Dog")),
		PropertyName: "$age",
		CurrentClass: "Dog",
		AccessSpan:   span(),
	}, buf)

	require.Equal(t, 1, buf.Len())
	assert.Equal(t, issue.InvalidPropertyAccess, buf.All()[0].Code)
}

func TestResolve_NullReceiver(t *testing.T) {
	buf := issue.NewBuffer()
	result := Resolve(fixtureView(), Request{
		ObjectType:   ttype.Single(ttype.Null()),
		PropertyName: "$name",
		AccessSpan:   span(),
	}, buf)

	assert.True(t, result.EncounteredNull)
	require.Equal(t, 1, buf.Len())
	assert.Equal(t, issue.NullPropertyAccess, buf.All()[0].Code)
}

func TestResolve_NullSafeOnNonNullable_IsRedundant(t *testing.T) {
	buf := issue.NewBuffer()
	Resolve(fixtureView(), Request{
		ObjectType:   ttype.Single(ttype.ObjectNamed("Dog")),
		PropertyName: "$name",
		IsNullSafe:   true,
		AccessSpan:   span(),
	}, buf)

	require.Equal(t, 1, buf.Len())
	assert.Equal(t, issue.RedundantNullsafeOperator, buf.All()[0].Code)
}

func TestResolve_MixedReceiver(t *testing.T) {
	buf := issue.NewBuffer()
	result := Resolve(fixtureView(), Request{
		ObjectType:   ttype.Single(ttype.MixedAny()),
		PropertyName: "$name",
		AccessSpan:   span(),
	}, buf)

	assert.True(t, result.EncounteredMixed)
	require.Equal(t, 1, buf.Len())
	assert.Equal(t, issue.MixedAnyPropertyAccess, buf.All()[0].Code)
}
