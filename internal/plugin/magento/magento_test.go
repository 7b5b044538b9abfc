package magento

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureView() *codebase.View {
	return codebase.NewView(map[string]*codebase.ClassLikeMetadata{
		abstractModel:     {Name: abstractModel, Kind: codebase.ClassLikeClass},
		viewTemplate:      {Name: viewTemplate, Kind: codebase.ClassLikeClass},
		dataCollection:    {Name: dataCollection, Kind: codebase.ClassLikeClass},
		testObjectManager: {Name: testObjectManager, Kind: codebase.ClassLikeClass},
		`App\Model\Product`: {Name: `App\Model\Product`, Kind: codebase.ClassLikeClass, ParentName: abstractModel},
		`App\Block\Widget`:  {Name: `App\Block\Widget`, Kind: codebase.ClassLikeClass, ParentName: viewTemplate},
		`App\Model\ResourceModel\Product\Collection`: {
			Name: `App\Model\ResourceModel\Product\Collection`, Kind: codebase.ClassLikeClass, ParentName: dataCollection,
		},
		`App\Test\Unit\Helper\ObjectManager`: {
			Name: `App\Test\Unit\Helper\ObjectManager`, Kind: codebase.ClassLikeClass, ParentName: testObjectManager,
		},
		`App\Model\NotACollection`: {Name: `App\Model\NotACollection`, Kind: codebase.ClassLikeClass},
	}, nil)
}

func TestNew_NoProviders(t *testing.T) {
	a := New(fixtureView())
	assert.Equal(t, "magento", a.Name)
	_, ok := a.Providers.MethodReturnTypeProvider("Foo::bar")
	assert.False(t, ok)
}

func TestBeforeMethodCall_CollectionViaFactory(t *testing.T) {
	a := &adapter{view: fixtureView()}
	out := a.BeforeMethodCall(plugin.CallContext{ClassName: `App\Model\Product`, MethodName: "getCollection"})
	require.Len(t, out.Issues, 1)
	assert.Equal(t, issue.MagentoCollectionViaFactory, out.Issues[0].Code)
	assert.False(t, out.Skip)
}

func TestBeforeMethodCall_NoSetTemplateInBlock(t *testing.T) {
	a := &adapter{view: fixtureView()}
	out := a.BeforeMethodCall(plugin.CallContext{ClassName: `App\Block\Widget`, MethodName: "setTemplate"})
	require.Len(t, out.Issues, 1)
	assert.Equal(t, issue.MagentoNoSetTemplateInBlock, out.Issues[0].Code)
}

func TestBeforeMethodCall_UseResourceModelDirectly(t *testing.T) {
	a := &adapter{view: fixtureView()}
	out := a.BeforeMethodCall(plugin.CallContext{ClassName: `App\Model\Product`, MethodName: "_getResource"})
	require.Len(t, out.Issues, 1)
	assert.Equal(t, issue.MagentoUseResourceModelDirectly, out.Issues[0].Code)
}

func TestBeforeMethodCall_UseServiceContracts(t *testing.T) {
	a := &adapter{view: fixtureView()}
	out := a.BeforeMethodCall(plugin.CallContext{ClassName: `App\Model\Product`, MethodName: "save"})
	require.Len(t, out.Issues, 1)
	assert.Equal(t, issue.MagentoUseServiceContracts, out.Issues[0].Code)
}

func TestBeforeMethodCall_NoViolation(t *testing.T) {
	a := &adapter{view: fixtureView()}
	out := a.BeforeMethodCall(plugin.CallContext{ClassName: `App\Model\Product`, MethodName: "getName"})
	assert.Empty(t, out.Issues)
}

func TestCheckCollectionMockSubclass_ValidCollection(t *testing.T) {
	view := fixtureView()
	call := plugin.CallContext{
		ClassName:  `App\Test\Unit\Helper\ObjectManager`,
		MethodName: "getCollectionMock",
		Args: []astshim.Argument{
			{Value: &astshim.Expr{Kind: astshim.ExprClassConstFetch, ClassName: `App\Model\ResourceModel\Product\Collection`, ConstName: "class"}},
		},
	}
	_, ok := checkCollectionMockSubclass(view, call)
	assert.False(t, ok)
}

func TestCheckCollectionMockSubclass_InvalidClass(t *testing.T) {
	view := fixtureView()
	call := plugin.CallContext{
		ClassName:  `App\Test\Unit\Helper\ObjectManager`,
		MethodName: "getCollectionMock",
		Args: []astshim.Argument{
			{Value: &astshim.Expr{Kind: astshim.ExprClassConstFetch, ClassName: `App\Model\NotACollection`, ConstName: "class"}},
		},
	}
	iss, ok := checkCollectionMockSubclass(view, call)
	require.True(t, ok)
	assert.Equal(t, issue.MagentoCollectionMockSubclass, iss.Code)
}

func TestCheckCollectionMockSubclass_NotObjectManager(t *testing.T) {
	view := fixtureView()
	call := plugin.CallContext{
		ClassName:  `App\Model\Product`,
		MethodName: "getCollectionMock",
		Args: []astshim.Argument{
			{Value: &astshim.Expr{Kind: astshim.ExprClassConstFetch, ClassName: `App\Model\NotACollection`, ConstName: "class"}},
		},
	}
	_, ok := checkCollectionMockSubclass(view, call)
	assert.False(t, ok)
}
