package magento

import (
	"fmt"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
)

// checkNoSetTemplateInBlock flags `$block->setTemplate()` on a View
// Template Block subclass; templates should come from layout XML or
// constructor arguments instead.
func checkNoSetTemplateInBlock(view *codebase.View, call plugin.CallContext) (issue.Issue, bool) {
	if call.MethodName != "setTemplate" {
		return issue.Issue{}, false
	}
	if !view.IsInstanceOf(call.ClassName, viewTemplate) {
		return issue.Issue{}, false
	}

	return issue.Issue{
		Code:     issue.MagentoNoSetTemplateInBlock,
		Severity: issue.SeverityWarning,
		Message:  fmt.Sprintf("Calling `%s::setTemplate()` is discouraged in Block classes.", call.ClassName),
		PrimaryAnnotation: issue.Annotation{
			Span:    call.Span,
			Message: "use layout XML or constructor arguments to set the template instead",
		},
		Help: "Set the template in layout XML using the template attribute, or pass it as a constructor argument.",
	}, true
}
