package issue

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Format(t *testing.T) {
	b := NewBuffer()
	b.Add(Issue{
		Code:     TooFewArguments,
		Severity: SeverityError,
		Message:  "expects at least 2 arguments, 1 provided",
		PrimaryAnnotation: Annotation{
			Span: astshim.Span{FileID: "a.php", Start: 5, End: 9},
		},
	})
	b.Add(Issue{
		Code:     DeprecatedFunction,
		Severity: SeverityWarning,
		Message:  "foo() is deprecated",
		PrimaryAnnotation: Annotation{
			Span: astshim.Span{FileID: "a.php", Start: 20, End: 25},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(b))

	var decoded jsonOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Len(t, decoded.Issues, 2)
	assert.Equal(t, 2, decoded.Summary.Total)
	assert.Equal(t, 1, decoded.Summary.BySeverity["error"])
	assert.Equal(t, 1, decoded.Summary.BySeverity["warning"])
	assert.Equal(t, 1, decoded.Summary.ByCode[string(TooFewArguments)])
}

func TestJSONFormatter_Format_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(NewBuffer()))

	var decoded jsonOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 0, decoded.Summary.Total)
	assert.Empty(t, decoded.Issues)
}
