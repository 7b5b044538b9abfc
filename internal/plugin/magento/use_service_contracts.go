package magento

import (
	"fmt"

	"github.com/shivasurya/phpcheck-analyzer/internal/codebase"
	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
	"github.com/shivasurya/phpcheck-analyzer/internal/plugin"
)

// checkUseServiceContracts flags direct save()/load()/delete() calls on
// an AbstractModel subclass; a repository service contract should be
// used to persist the entity instead.
func checkUseServiceContracts(view *codebase.View, call plugin.CallContext) (issue.Issue, bool) {
	if call.MethodName != "save" && call.MethodName != "load" && call.MethodName != "delete" {
		return issue.Issue{}, false
	}
	if !view.IsInstanceOf(call.ClassName, abstractModel) {
		return issue.Issue{}, false
	}

	return issue.Issue{
		Code:     issue.MagentoUseServiceContracts,
		Severity: issue.SeverityWarning,
		Message:  fmt.Sprintf("Use service contracts to persist entities instead of `%s::%s()`.", call.ClassName, call.MethodName),
		PrimaryAnnotation: issue.Annotation{
			Span:    call.Span,
			Message: "direct model persistence is deprecated",
		},
		Help: "Use the corresponding repository interface (e.g. ProductRepositoryInterface::save()) instead.",
	}, true
}
