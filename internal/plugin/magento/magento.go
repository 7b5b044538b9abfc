// Package magento is the Magento 2 framework adapter: it flags a handful
// of deprecated Magento\Framework\Model\AbstractModel usage patterns
// (getCollection(), getResource()/_getResource(), direct save/load/delete)
// and one Block/TestFramework convention violation each
// (setTemplate() in a View Block, getCollectionMock() with a non-Collection
// argument).
package magento

import (
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
)

const (
	abstractModel = `Magento\Framework\Model\AbstractModel`
	viewTemplate  = `Magento\Framework\View\Element\Template`
	dataCollection = `Magento\Framework\Data\Collection`
	testObjectManager = `Magento\Framework\TestFramework\Unit\Helper\ObjectManager`
)

// New builds the Magento adapter, wiring all five convention checks
// behind one Hooks pair. Magento contributes no Providers: every rule
// here only ever flags a call site, never resolves a type.
func New(view *codebase.View) plugin.Adapter {
	a := &adapter{view: view}
	return plugin.Adapter{Name: "magento", Hooks: a, Providers: plugin.NoopProviders{}}
}

type adapter struct {
	plugin.NoopHooks
	view *codebase.View
}

// BeforeMethodCall never skips normal analysis; it only ever attaches
// Issues for whichever of the five conventions the call site violates.
func (a *adapter) BeforeMethodCall(call plugin.CallContext) plugin.Outcome {
	var issues []issue.Issue
	if iss, ok := checkCollectionMockSubclass(a.view, call); ok {
		issues = append(issues, iss)
	}
	if iss, ok := checkCollectionViaFactory(a.view, call); ok {
		issues = append(issues, iss)
	}
	if iss, ok := checkNoSetTemplateInBlock(a.view, call); ok {
		issues = append(issues, iss)
	}
	if iss, ok := checkUseResourceModelDirectly(a.view, call); ok {
		issues = append(issues, iss)
	}
	if iss, ok := checkUseServiceContracts(a.view, call); ok {
		issues = append(issues, iss)
	}
	return plugin.Outcome{Issues: issues}
}

// classStringArgument extracts a literal class name from a `Foo::class`
// or bare string-literal argument expression.
func classStringArgument(e *astshim.Expr) (string, bool) {
	if e == nil {
		return "", false
	}
	switch e.Kind {
	case astshim.ExprClassConstFetch:
		if e.ConstName == "class" {
			return e.ClassName, true
		}
	case astshim.ExprLiteralString:
		return e.LiteralString, true
	}
	return "", false
}
