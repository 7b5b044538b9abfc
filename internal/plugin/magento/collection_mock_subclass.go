package magento

import (
	"fmt"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
)

// checkCollectionMockSubclass flags
// `$objectManager->getCollectionMock(Foo::class, ...)` when Foo doesn't
// extend Magento\Framework\Data\Collection.
func checkCollectionMockSubclass(view *codebase.View, call plugin.CallContext) (issue.Issue, bool) {
	if call.MethodName != "getCollectionMock" {
		return issue.Issue{}, false
	}
	if !view.IsInstanceOf(call.ClassName, testObjectManager) {
		return issue.Issue{}, false
	}
	if len(call.Args) == 0 {
		return issue.Issue{}, false
	}
	className, ok := classStringArgument(call.Args[0].Value)
	if !ok {
		return issue.Issue{}, false
	}
	if view.IsInstanceOf(className, dataCollection) {
		return issue.Issue{}, false
	}

	return issue.Issue{
		Code:     issue.MagentoCollectionMockSubclass,
		Severity: issue.SeverityError,
		Message:  fmt.Sprintf("`%s` does not extend `%s` as required by `getCollectionMock()`.", className, dataCollection),
		PrimaryAnnotation: issue.Annotation{
			Span:    call.Args[0].Value.Span(),
			Message: "this class must extend " + dataCollection,
		},
		Help: "Pass a class name that extends " + dataCollection + ".",
	}, true
}
