// Package assertion is the Assertion Engine: scraping turns an expression
// into named facts about variable paths, reconciliation turns those facts
// plus a binding table into narrowed bindings. The scrapeEquality/
// scrapeComparison/scrapeInstanceOf/scrapeCall split below follows a
// per-binary-operator dispatch shape over astshim's tagged Expr.
package assertion

import (
	"strconv"

	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
	"github.com/shivasurya/phpcheck-analyzer/internal/clause"
)

// ExprID computes the path string an expression resolves to for binding
// table / assertion purposes, or "" when the expression has no stable
// path ("$x" but not "foo()"). Mirrors get_expression_id's narrow
// purpose without the full name-resolution machinery, which lives in
// astshim's Program.ResolveName for identifier-bearing nodes.
func ExprID(e *astshim.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case astshim.ExprVariable:
		return e.VariableName
	case astshim.ExprPropertyAccess, astshim.ExprNullsafePropertyAccess:
		base := ExprID(e.Object)
		if base == "" {
			return ""
		}
		return base + "->" + e.PropertyName
	case astshim.ExprStaticPropertyAccess:
		return e.ClassName + "::$" + e.PropertyName
	case astshim.ExprArrayAccess:
		base := ExprID(e.Container)
		if base == "" || e.Key == nil {
			return ""
		}
		keyID := ExprID(e.Key)
		if keyID == "" && e.Key.Kind == astshim.ExprLiteralString {
			keyID = strconv.Quote(e.Key.LiteralString)
		}
		if keyID == "" && e.Key.Kind == astshim.ExprLiteralInt {
			keyID = strconv.FormatInt(e.Key.LiteralInt, 10)
		}
		if keyID == "" {
			return ""
		}
		return base + "[" + keyID + "]"
	default:
		return ""
	}
}

// Scrape turns expr into a disjunction of conjunctions of assertions, the
// "truthy means what" facts the reconciler applies to narrow bindings.
// Returning nil means no assertion could be derived — the caller treats
// the expression as opaque.
func Scrape(expr *astshim.Expr) clause.Disjunction {
	expr = unwrap(expr)
	if expr == nil {
		return nil
	}

	switch expr.Kind {
	case astshim.ExprLogicalNot:
		// The negation itself establishes nothing; the caller negates
		// whatever the operand would have scraped (see Negate) rather
		// than this function inverting its own result.
		return nil
	case astshim.ExprBinary:
		return scrapeBinary(expr)
	case astshim.ExprInstanceOf:
		return scrapeInstanceOf(expr)
	case astshim.ExprCall:
		return scrapeCall(expr)
	}

	if path := ExprID(expr); path != "" {
		return clause.Disjunction{{{Path: path, Kind: clause.Truthy}}}
	}
	return nil
}

func unwrap(e *astshim.Expr) *astshim.Expr {
	// Parenthesization is not a distinct node in astshim (spans already
	// cover the parenthesized form), so there's nothing to strip here;
	// this hook exists as the place future cast-stripping would go.
	return e
}

func scrapeBinary(expr *astshim.Expr) clause.Disjunction {
	switch expr.Operator {
	case "==", "===":
		return scrapeEquality(expr.Left, expr.Operator, expr.Right, true)
	case "!=", "<>", "!==":
		return scrapeEquality(expr.Left, expr.Operator, expr.Right, false)
	case ">", ">=":
		return scrapeComparison(expr.Left, expr.Operator, expr.Right)
	case "<", "<=":
		return scrapeComparison(expr.Right, flipComparison(expr.Operator), expr.Left)
	case "&&", "and":
		return scrapeConjunction(expr.Left, expr.Right)
	case "||", "or":
		return scrapeDisjunction(expr.Left, expr.Right)
	}
	return nil
}

func flipComparison(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	}
	return op
}

func scrapeConjunction(left, right *astshim.Expr) clause.Disjunction {
	leftDisj := Scrape(left)
	rightDisj := Scrape(right)
	if leftDisj == nil && rightDisj == nil {
		return nil
	}
	var out clause.Disjunction
	for _, l := range onlyOrEmpty(leftDisj) {
		for _, r := range onlyOrEmpty(rightDisj) {
			out = append(out, append(append(clause.Conjunction{}, l...), r...))
		}
	}
	return out
}

func scrapeDisjunction(left, right *astshim.Expr) clause.Disjunction {
	var out clause.Disjunction
	out = append(out, Scrape(left)...)
	out = append(out, Scrape(right)...)
	return out
}

func onlyOrEmpty(d clause.Disjunction) clause.Disjunction {
	if len(d) == 0 {
		return clause.Disjunction{{}}
	}
	return d
}

// scrapeEquality handles `a == b` / `a === b` (positive) and their negated
// forms (`a != b` / `a !== b`, positive=false). A count/sizeof call compared
// with an integer literal is matched first; otherwise one operand must be a
// path, equalityKind picks the assertion kind from the other operand and
// the operator, and the assertion carries a type only when that other
// operand is a literal.
func scrapeEquality(lhs *astshim.Expr, op string, rhs *astshim.Expr, positive bool) clause.Disjunction {
	strict := op == "===" || op == "!=="

	if countArg, count, ok := asCountComparison(lhs, rhs); ok {
		switch {
		case positive && count == 0:
			return clause.Disjunction{{{Path: countArg, Kind: clause.EmptyCountable}}}
		case positive:
			return clause.Disjunction{{{Path: countArg, Kind: clause.HasExactCount, Count: count}}}
		case count == 0:
			return clause.Disjunction{{{Path: countArg, Kind: clause.NonEmptyCountable}}}
		default:
			return nil
		}
	}

	path, other := pickPathOperand(lhs, rhs)
	if path == "" {
		return nil
	}

	kind := equalityKind(other, strict, positive)
	if kind < 0 {
		return nil
	}
	a := clause.Assertion{Path: path, Kind: kind}
	if other != nil && isTypeLiteral(other) {
		a.Type = literalTypeName(other)
	}
	return clause.Disjunction{{a}}
}

func pickPathOperand(lhs, rhs *astshim.Expr) (string, *astshim.Expr) {
	if p := ExprID(lhs); p != "" {
		return p, rhs
	}
	if p := ExprID(rhs); p != "" {
		return p, lhs
	}
	return "", nil
}

func asCountComparison(lhs, rhs *astshim.Expr) (path string, count int, ok bool) {
	countExpr, lit := lhs, rhs
	if !isCountCall(countExpr) {
		countExpr, lit = rhs, lhs
	}
	if !isCountCall(countExpr) || lit == nil || lit.Kind != astshim.ExprLiteralInt {
		return "", 0, false
	}
	if len(countExpr.Args) != 1 {
		return "", 0, false
	}
	path = ExprID(countExpr.Args[0].Value)
	if path == "" {
		return "", 0, false
	}
	return path, int(lit.LiteralInt), true
}

func isCountCall(e *astshim.Expr) bool {
	return e != nil && e.Kind == astshim.ExprCall && (e.CalleeName == "count" || e.CalleeName == "sizeof")
}

func equalityKind(other *astshim.Expr, strict, positive bool) clause.AssertionKind {
	isBoolLiteral := other != nil && other.Kind == astshim.ExprLiteralBool
	switch {
	case isBoolLiteral && other.LiteralBool && positive:
		return clause.Truthy
	case isBoolLiteral && other.LiteralBool && !positive:
		return clause.Falsy
	case isBoolLiteral && !other.LiteralBool && positive:
		return clause.Falsy
	case isBoolLiteral && !other.LiteralBool && !positive:
		return clause.Truthy
	}
	if strict {
		if positive {
			return clause.IsIdentical
		}
		return clause.IsNotIdentical
	}
	if positive {
		return clause.IsEqual
	}
	return clause.IsNotEqual
}

func isTypeLiteral(e *astshim.Expr) bool {
	switch e.Kind {
	case astshim.ExprLiteralNull, astshim.ExprLiteralBool, astshim.ExprLiteralInt,
		astshim.ExprLiteralFloat, astshim.ExprLiteralString:
		return true
	}
	return false
}

func literalTypeName(e *astshim.Expr) string {
	switch e.Kind {
	case astshim.ExprLiteralNull:
		return "null"
	case astshim.ExprLiteralBool:
		return "bool"
	case astshim.ExprLiteralInt:
		return "int"
	case astshim.ExprLiteralFloat:
		return "float"
	case astshim.ExprLiteralString:
		return "string"
	}
	return ""
}

// scrapeComparison handles `a > b` / `a >= b` after normalizing `<`/`<=`
// to their flipped `>`/`>=` form so only one direction needs handling.
func scrapeComparison(left *astshim.Expr, op string, right *astshim.Expr) clause.Disjunction {
	path := ExprID(left)
	if path == "" || right == nil || right.Kind != astshim.ExprLiteralInt {
		return nil
	}
	kind := clause.IsGreaterThan
	if op == ">=" {
		kind = clause.IsGreaterThanOrEqual
	}
	return clause.Disjunction{{{Path: path, Kind: kind, Count: int(right.LiteralInt)}}}
}

func scrapeInstanceOf(expr *astshim.Expr) clause.Disjunction {
	path := ExprID(expr.Left)
	if path == "" {
		return nil
	}
	className := expr.InstanceOfClass
	if className == "" {
		return nil
	}
	return clause.Disjunction{{{Path: path, Kind: clause.IsType, Type: className}}}
}

// scrapeCall handles is_countable/ctype_digit/ctype_lower; any other call
// yields nil. Assertions a user function's signature declares are not
// derived here.
func scrapeCall(expr *astshim.Expr) clause.Disjunction {
	if len(expr.Args) != 1 {
		return nil
	}
	path := ExprID(expr.Args[0].Value)
	if path == "" {
		return nil
	}
	switch expr.CalleeName {
	case "is_countable":
		return clause.Disjunction{{{Path: path, Kind: clause.IsType, Type: "countable"}}}
	case "ctype_digit":
		return clause.Disjunction{{{Path: path, Kind: clause.IsType, Type: "numeric-string"}}}
	case "ctype_lower":
		return clause.Disjunction{{{Path: path, Kind: clause.IsType, Type: "lowercase-string"}}}
	}
	return nil
}

// ScrapeUserAssertions applies a callee's declared @if-true/@if-false
// assertion strings (already resolved against the receiver and template
// result by the Invocation Analyzer) to the call's arguments, producing
// the same disjunction shape as the builtin scrapers.
func ScrapeUserAssertions(args []astshim.Argument, declared map[string]string) clause.Disjunction {
	if len(declared) == 0 {
		return nil
	}
	var conj clause.Conjunction
	for paramName, assertionStr := range declared {
		idx, ok := paramIndex(args, paramName)
		if !ok {
			continue
		}
		path := ExprID(args[idx].Value)
		if path == "" {
			continue
		}
		conj = append(conj, clause.Assertion{Path: path, Kind: clause.IsType, Type: assertionStr})
	}
	if len(conj) == 0 {
		return nil
	}
	return clause.Disjunction{conj}
}

func paramIndex(args []astshim.Argument, name string) (int, bool) {
	for i, a := range args {
		if a.Name == name {
			return i, true
		}
	}
	return 0, false
}
