package astshim

// Program is one parsed PHP file plus the pre-resolved names the symbol
// collector attaches to it. The lexer/parser and symbol collector that
// build this value are external collaborators; the analyzer only reads it.
type Program struct {
	FileID string
	Body   []Stmt

	// ResolvedNames maps identifier-node spans (class names, function
	// names, constant names as they appear at use sites) to their
	// canonical fully-qualified form.
	ResolvedNames map[Span]string
}

// ResolveName looks up the canonical name for an identifier at span, or
// returns raw unchanged when the collector recorded no resolution (e.g.
// a builtin or an unresolved reference the analyzer must treat as opaque).
func (p *Program) ResolveName(span Span, raw string) string {
	if p.ResolvedNames == nil {
		return raw
	}
	if resolved, ok := p.ResolvedNames[span]; ok {
		return resolved
	}
	return raw
}
