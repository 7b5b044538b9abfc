package issue

import (
	"fmt"
	"io"
)

// TextFormatter writes a Buffer's issues as human-readable text, grouped
// by severity with errors first.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a formatter writing to w.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every issue in b as text.
func (f *TextFormatter) Format(b *Buffer) error {
	if b.Len() == 0 {
		fmt.Fprintln(f.writer, "No issues found.")
		return nil
	}

	grouped := map[Severity][]Issue{}
	for _, iss := range b.All() {
		grouped[iss.Severity] = append(grouped[iss.Severity], iss)
	}

	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityHint} {
		issues := grouped[sev]
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(f.writer, "%s (%d):\n", sev, len(issues))
		for _, iss := range issues {
			f.writeOne(iss)
		}
		fmt.Fprintln(f.writer)
	}

	fmt.Fprintf(f.writer, "%d issue(s) found.\n", b.Len())
	return nil
}

func (f *TextFormatter) writeOne(iss Issue) {
	fmt.Fprintf(f.writer, "  %s: [%s] %s\n", iss.PrimaryAnnotation.Span, iss.Code, iss.Message)
	if iss.PrimaryAnnotation.Message != "" {
		fmt.Fprintf(f.writer, "    %s\n", iss.PrimaryAnnotation.Message)
	}
	for _, sec := range iss.SecondaryAnnotations {
		fmt.Fprintf(f.writer, "    note: %s: %s\n", sec.Span, sec.Message)
	}
	for _, n := range iss.Notes {
		fmt.Fprintf(f.writer, "    note: %s\n", n)
	}
	if iss.Help != "" {
		fmt.Fprintf(f.writer, "    help: %s\n", iss.Help)
	}
}
