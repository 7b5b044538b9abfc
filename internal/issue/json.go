package issue

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes a Buffer's issues as a single JSON document.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a formatter writing to w.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// jsonOutput is the stable on-disk shape; field names are part of the
// external contract and do not follow the Go identifiers they mirror.
type jsonOutput struct {
	Issues  []jsonIssue    `json:"issues"`
	Summary jsonSummary    `json:"summary"`
}

type jsonAnnotation struct {
	File    string `json:"file"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Message string `json:"message"`
}

type jsonIssue struct {
	Code       string           `json:"code"`
	Severity   string           `json:"severity"`
	Message    string           `json:"message"`
	Primary    jsonAnnotation   `json:"primary"`
	Secondary  []jsonAnnotation `json:"secondary,omitempty"`
	Notes      []string         `json:"notes,omitempty"`
	Help       string           `json:"help,omitempty"`
}

type jsonSummary struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"` //nolint:tagliatelle
	ByCode     map[string]int `json:"by_code"`      //nolint:tagliatelle
}

// Format writes every issue in b as JSON.
func (f *JSONFormatter) Format(b *Buffer) error {
	out := jsonOutput{
		Issues:  make([]jsonIssue, 0, b.Len()),
		Summary: jsonSummary{BySeverity: map[string]int{}, ByCode: map[string]int{}},
	}

	for _, iss := range b.All() {
		out.Issues = append(out.Issues, toJSONIssue(iss))
		out.Summary.Total++
		out.Summary.BySeverity[iss.Severity.String()]++
		out.Summary.ByCode[string(iss.Code)]++
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func toJSONIssue(iss Issue) jsonIssue {
	secondary := make([]jsonAnnotation, 0, len(iss.SecondaryAnnotations))
	for _, a := range iss.SecondaryAnnotations {
		secondary = append(secondary, toJSONAnnotation(a))
	}
	return jsonIssue{
		Code:      string(iss.Code),
		Severity:  iss.Severity.String(),
		Message:   iss.Message,
		Primary:   toJSONAnnotation(iss.PrimaryAnnotation),
		Secondary: secondary,
		Notes:     iss.Notes,
		Help:      iss.Help,
	}
}

func toJSONAnnotation(a Annotation) jsonAnnotation {
	return jsonAnnotation{
		File:    a.Span.FileID,
		Start:   a.Span.Start,
		End:     a.Span.End,
		Message: a.Message,
	}
}
