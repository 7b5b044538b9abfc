package magento

import (
	"fmt"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
)

// checkCollectionViaFactory flags `$model->getCollection()` on an
// AbstractModel subclass, deprecated in favor of injecting the
// collection's factory directly.
func checkCollectionViaFactory(view *codebase.View, call plugin.CallContext) (issue.Issue, bool) {
	if call.MethodName != "getCollection" {
		return issue.Issue{}, false
	}
	if !view.IsInstanceOf(call.ClassName, abstractModel) {
		return issue.Issue{}, false
	}

	return issue.Issue{
		Code:     issue.MagentoCollectionViaFactory,
		Severity: issue.SeverityWarning,
		Message:  fmt.Sprintf("Collections should be retrieved via factory, not via `%s::getCollection()`.", call.ClassName),
		PrimaryAnnotation: issue.Annotation{
			Span:    call.Span,
			Message: "use the collection factory instead",
		},
		Help: "Inject the collection factory (e.g. CollectionFactory) via constructor and use $this->collectionFactory->create() instead.",
	}, true
}
