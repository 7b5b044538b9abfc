package issue

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// SARIFFormatter writes a Buffer's issues as SARIF 2.1.0.
type SARIFFormatter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
}

// NewSARIFFormatter creates a formatter writing to w.
func NewSARIFFormatter(w io.Writer, toolName, toolVersion string) *SARIFFormatter {
	return &SARIFFormatter{writer: w, toolName: toolName, toolVersion: toolVersion}
}

// Format writes every issue in b as one SARIF run.
func (f *SARIFFormatter) Format(b *Buffer) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI(f.toolName, "")
	run.Tool.Driver.WithVersion(f.toolVersion)

	seen := make(map[Code]bool)
	for _, iss := range b.All() {
		if !seen[iss.Code] {
			run.AddRule(string(iss.Code)).
				WithName(string(iss.Code)).
				WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(levelForSeverity(iss.Severity)))
			seen[iss.Code] = true
		}
		f.addResult(iss, run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (f *SARIFFormatter) addResult(iss Issue, run *sarif.Run) {
	result := run.CreateResultForRule(string(iss.Code)).
		WithLevel(levelForSeverity(iss.Severity)).
		WithMessage(sarif.NewTextMessage(iss.Message))

	result.AddLocation(locationFor(iss.PrimaryAnnotation))
	for _, secondary := range iss.SecondaryAnnotations {
		result.AddRelatedLocation(locationFor(secondary))
	}
}

func locationFor(a Annotation) *sarif.Location {
	region := sarif.NewRegion().
		WithByteOffset(a.Span.Start).
		WithByteLength(a.Span.End - a.Span.Start)

	return sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(a.Span.FileID)).
				WithRegion(region),
		).
		WithMessage(sarif.NewTextMessage(a.Message))
}

func levelForSeverity(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
