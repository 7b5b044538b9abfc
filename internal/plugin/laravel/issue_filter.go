package laravel

import (
	"strings"

	"github.com/shivasurya/phpcheck-analyzer/internal/issue"
)

// modelSuppressedCodes are false positives Eloquent's magic methods
// (__get, __call, __callStatic) routinely produce on Model subclasses.
var modelSuppressedCodes = map[issue.Code]bool{
	issue.NonExistentProperty:           true,
	issue.AmbiguousObjectPropertyAccess: true,
	issue.MixedPropertyAccess:           true,
	issue.MixedAnyPropertyAccess:        true,
}

// builderSuppressedCodes and factorySuppressedCodes are empty: the
// method-resolution pass that would emit non-existent-method diagnostics
// (the main false-positive source on Builder/Factory calls) isn't part
// of this codebase's issue taxonomy yet, so there's nothing to suppress
// on those classes today beyond what modelSuppressedCodes already covers
// through an Eloquent Model instance.
var builderSuppressedCodes = map[issue.Code]bool{}

var factorySuppressedCodes = map[issue.Code]bool{}

// filterIssue reports whether iss survives, suppressing magic-method
// false positives on Model, Builder, and Factory subclasses whose class
// name it can recover from the issue's own message text (the issue
// carries no structured reference back to the class it was raised
// against, so the message is the only signal available here, same as
// the annotation text itself).
func (a *adapter) filterIssue(iss issue.Issue) bool {
	if !modelSuppressedCodes[iss.Code] && !builderSuppressedCodes[iss.Code] && !factorySuppressedCodes[iss.Code] {
		return true
	}
	className, ok := extractClassName(iss.Message)
	if !ok {
		return true
	}
	if modelSuppressedCodes[iss.Code] && a.view.IsInstanceOf(className, eloquentModel) {
		return false
	}
	if builderSuppressedCodes[iss.Code] && a.view.IsInstanceOf(className, eloquentBuilder) {
		return false
	}
	if factorySuppressedCodes[iss.Code] && a.view.IsInstanceOf(className, eloquentFactory) {
		return false
	}
	return true
}

// extractClassName pulls a backtick-quoted class name out of an issue
// message, preferring a `ClassName::member` form over a bare
// `` `ClassName` `` appearing after one of a handful of known phrasings.
func extractClassName(message string) (string, bool) {
	if name, ok := classFromDoubleColon(message); ok {
		return name, true
	}
	return classFromContext(message)
}

func classFromDoubleColon(message string) (string, bool) {
	rest := message
	offset := 0
	for {
		start := strings.IndexByte(rest, '`')
		if start < 0 {
			return "", false
		}
		segStart := offset + start + 1
		end := strings.IndexByte(message[segStart:], '`')
		if end < 0 {
			return "", false
		}
		segment := message[segStart : segStart+end]
		if colon := strings.Index(segment, "::"); colon >= 0 && looksLikeClassName(segment[:colon]) {
			return segment[:colon], true
		}
		offset = segStart + end + 1
		rest = message[offset:]
	}
}

var classContextPatterns = []string{
	"on class `", "on type `", "of type `", "of class `", "instance of `",
	"In class `", "class `", "on sealed object type `", "on object `",
	"final type `", "final class `",
}

func classFromContext(message string) (string, bool) {
	for _, pattern := range classContextPatterns {
		pos := strings.Index(message, pattern)
		if pos < 0 {
			continue
		}
		after := pos + len(pattern)
		end := strings.IndexByte(message[after:], '`')
		if end < 0 {
			continue
		}
		name := message[after : after+end]
		if looksLikeClassName(name) {
			return name, true
		}
	}
	return "", false
}

func looksLikeClassName(s string) bool {
	if s == "" {
		return false
	}
	hasLetter := false
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9' || c == '\\' || c == '_':
		default:
			return false
		}
	}
	return hasLetter
}
