package magento

import (
	"fmt"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
)

// checkUseResourceModelDirectly flags `getResource()`/`_getResource()`
// calls on an AbstractModel subclass; the resource model should be
// injected directly via constructor DI instead.
func checkUseResourceModelDirectly(view *codebase.View, call plugin.CallContext) (issue.Issue, bool) {
	if call.MethodName != "getResource" && call.MethodName != "_getResource" {
		return issue.Issue{}, false
	}
	if !view.IsInstanceOf(call.ClassName, abstractModel) {
		return issue.Issue{}, false
	}

	return issue.Issue{
		Code:     issue.MagentoUseResourceModelDirectly,
		Severity: issue.SeverityWarning,
		Message:  fmt.Sprintf("`%s::%s()` is deprecated. Use resource models directly.", call.ClassName, call.MethodName),
		PrimaryAnnotation: issue.Annotation{
			Span:    call.Span,
			Message: "inject the resource model via constructor instead",
		},
		Help: "Inject the resource model directly via constructor DI and call its methods instead.",
	}, true
}
