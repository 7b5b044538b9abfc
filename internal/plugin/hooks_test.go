package plugin

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
	"github.com/stretchr/testify/assert"
)

func TestContinue_IsZeroOutcome(t *testing.T) {
	assert.False(t, Continue.Skip)
	assert.Nil(t, Continue.Issues)
}

func TestSkipWith(t *testing.T) {
	out := SkipWith(ttype.Single(ttype.StringGeneral()))
	assert.True(t, out.Skip)
	assert.True(t, out.SkipWithType.HasAtomicKind(ttype.KindStringGeneral))
}

func TestNoopHooks_AllContinue(t *testing.T) {
	var h NoopHooks
	assert.False(t, h.BeforeExpression(&astshim.Expr{}, ExprContext{}).Skip)
	assert.False(t, h.BeforeMethodCall(CallContext{}).Skip)
	assert.False(t, h.BeforeStaticMethodCall(CallContext{}).Skip)
	assert.True(t, h.IssueFilter(issue.Issue{}))
}

func TestNoopProviders_NoOpinions(t *testing.T) {
	var p NoopProviders
	_, ok := p.MethodReturnTypeProvider("Foo::bar")
	assert.False(t, ok)
	assert.False(t, p.PropertyInitializationProvider(&codebase.ClassLikeMetadata{}, &codebase.PropertyMetadata{}))
	_, ok = p.VirtualPropertyTypeProvider(&codebase.ClassLikeMetadata{}, "$x")
	assert.False(t, ok)
}
