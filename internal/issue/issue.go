// Package issue is the diagnostic taxonomy: stable issue codes, the Issue
// record every analyzer check emits, and the append-only buffer issues are
// collected into before filtering and formatting.
package issue

import "github.com/shivasurya/phpcheck-analyzer/internal/astshim"

// Code is a stable diagnostic identifier. Stability matters: consumers
// (CI configs, suppression comments, SARIF rule ids) key off the string
// value, so existing codes are never renumbered or renamed.
type Code string

const (
	NonExistentProperty                  Code = "NonExistentProperty"
	NullPropertyAccess                    Code = "NullPropertyAccess"
	PossiblyNullPropertyAccess            Code = "PossiblyNullPropertyAccess"
	InvalidPropertyAccess                 Code = "InvalidPropertyAccess"
	MixedPropertyAccess                   Code = "MixedPropertyAccess"
	MixedAnyPropertyAccess                Code = "MixedAnyPropertyAccess"
	AmbiguousObjectPropertyAccess         Code = "AmbiguousObjectPropertyAccess"
	PropertyTypeCoercion                  Code = "PropertyTypeCoercion"
	MixedPropertyTypeCoercion             Code = "MixedPropertyTypeCoercion"
	InvalidPropertyAssignmentValue        Code = "InvalidPropertyAssignmentValue"
	RedundantNullsafeOperator             Code = "RedundantNullsafeOperator"

	MixedArgument                        Code = "MixedArgument"
	MixedAnyArgument                     Code = "MixedAnyArgument"
	InvalidArgument                      Code = "InvalidArgument"
	PossiblyInvalidArgument               Code = "PossiblyInvalidArgument"
	LessSpecificArgument                  Code = "LessSpecificArgument"
	LessSpecificNestedArgumentType         Code = "LessSpecificNestedArgumentType"
	LessSpecificNestedAnyArgumentType      Code = "LessSpecificNestedAnyArgumentType"
	NoValue                              Code = "NoValue"
	TooFewArguments                      Code = "TooFewArguments"
	TooManyArguments                     Code = "TooManyArguments"
	InvalidNamedArgument                 Code = "InvalidNamedArgument"
	DuplicateNamedArgument               Code = "DuplicateNamedArgument"
	NamedArgumentOverridesPositional       Code = "NamedArgumentOverridesPositional"
	NamedArgumentForVariadicAfterPositional Code = "NamedArgumentForVariadicAfterPositional"
	NamedArgumentNotAllowed              Code = "NamedArgumentNotAllowed"

	TemplateConstraintViolation           Code = "TemplateConstraintViolation"
	ConflictingTemplateEqualityBounds      Code = "ConflictingTemplateEqualityBounds"
	IncompatibleTemplateLowerBound         Code = "IncompatibleTemplateLowerBound"

	UnevaluatedCode       Code = "UnevaluatedCode"
	UselessControlFlow    Code = "UselessControlFlow"
	UnusedFunctionCall    Code = "UnusedFunctionCall"
	UnusedMethodCall      Code = "UnusedMethodCall"
	UnusedStatement       Code = "UnusedStatement"
	UnsupportedFeature    Code = "UnsupportedFeature"

	ImpureCallInPureContext                 Code = "ImpureCallInPureContext"
	ExternalImpureCallInExternalPureContext Code = "ExternalImpureCallInExternalPureContext"

	RedundantNullCoalesce Code = "RedundantNullCoalesce"
	ImpossibleAssertion   Code = "ImpossibleAssertion"

	DeprecatedFunction Code = "DeprecatedFunction"
	DeprecatedMethod   Code = "DeprecatedMethod"
	DeprecatedClosure  Code = "DeprecatedClosure"

	// Magento framework-convention diagnostics, raised only by the
	// Magento plugin adapter against Magento base-class instance checks.
	MagentoCollectionMockSubclass    Code = "MagentoCollectionMockSubclass"
	MagentoCollectionViaFactory      Code = "MagentoCollectionViaFactory"
	MagentoNoSetTemplateInBlock      Code = "MagentoNoSetTemplateInBlock"
	MagentoUseResourceModelDirectly  Code = "MagentoUseResourceModelDirectly"
	MagentoUseServiceContracts       Code = "MagentoUseServiceContracts"
)

// Severity classifies how an issue should affect exit status and report
// prominence.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Annotation points at one span with an explanatory label, used for both
// the primary location and any secondary spans a diagnostic references
// (e.g. where a conflicting named argument was first bound).
type Annotation struct {
	Span    astshim.Span
	Message string
}

// Fix is an optional suggested edit a consumer may apply automatically.
type Fix struct {
	Description string
	Span        astshim.Span
	Replacement string
}

// Issue is one diagnostic record.
type Issue struct {
	Code               Code
	Severity           Severity
	Message            string
	PrimaryAnnotation  Annotation
	SecondaryAnnotations []Annotation
	Notes              []string
	Help               string
	Fix                *Fix
}

// Buffer collects issues for one file's analysis pass, in the order
// they're emitted. Since the Block Analyzer visits statements in source
// order, issues from a single file come out in source order too;
// cross-file ordering is a report-time concern, not this buffer's.
type Buffer struct {
	issues []Issue
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add appends one issue.
func (b *Buffer) Add(i Issue) {
	b.issues = append(b.issues, i)
}

// All returns every issue added so far, in emission order.
func (b *Buffer) All() []Issue {
	return b.issues
}

// Len reports how many issues are buffered.
func (b *Buffer) Len() int {
	return len(b.issues)
}
