// Package astshim defines the external contract the analyzer consumes: a
// syntax tree with spans, and a map from identifier nodes to resolved
// names. The lexer/parser and symbol collector that produce these values
// live outside this module; this package only declares the shape they must
// satisfy, generalized from a single source-location record
// (file/line/column) into a full expression/statement tree keyed by span.
package astshim

import "fmt"

// Span is a byte-offset range within one file, the unit every diagnostic
// and every expression-type table entry is keyed by.
type Span struct {
	FileID string
	Start  int
	End    int
}

// Key returns the stable string form used as an expression_types/
// if_true_assertions/if_false_assertions map key.
func (s Span) Key() string {
	return fmt.Sprintf("%s:%d:%d", s.FileID, s.Start, s.End)
}

func (s Span) String() string { return s.Key() }

// Node is the minimum contract every syntax-tree node exposes.
type Node interface {
	Span() Span
}
