package issue

import (
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/stretchr/testify/assert"
)

func TestBuffer_AddAndAll(t *testing.T) {
	b := NewBuffer()
	assert.Equal(t, 0, b.Len())

	b.Add(Issue{
		Code:     NonExistentProperty,
		Severity: SeverityError,
		Message:  "property $bar does not exist on Foo",
		PrimaryAnnotation: Annotation{
			Span:    astshim.Span{FileID: "a.php", Start: 10, End: 14},
			Message: "unknown property",
		},
	})

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, NonExistentProperty, b.All()[0].Code)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "hint", SeverityHint.String())
}
