package ttype

import (
	"sort"
	"strconv"
	"strings"
)

// canonicalID computes the stable textual identity required for
// deduplication in unions and map keys. Two atomics that describe the same
// type must produce the same id regardless of construction order.
func canonicalID(a *TAtomic) string {
	if a == nil {
		return "<nil>"
	}
	switch a.Kind {
	case KindIntLiteral:
		return "int(" + strconv.FormatInt(*a.IntLiteral, 10) + ")"
	case KindIntRange:
		return "int-range(" + strconv.FormatInt(*a.IntRangeLo, 10) + ".." + strconv.FormatInt(*a.IntRangeHi, 10) + ")"
	case KindFloatLiteral:
		return "float(" + strconv.FormatFloat(*a.FloatLiteral, 'g', -1, 64) + ")"
	case KindStringGeneral:
		return stringID(a.StringPredicates)
	case KindResource:
		if a.ResourceClosed == nil {
			return "resource"
		}
		if *a.ResourceClosed {
			return "resource(closed)"
		}
		return "resource(open)"
	case KindArrayKeyed:
		return keyedID(a.Keyed)
	case KindArrayList:
		return listID(a.List)
	case KindIterable:
		return "iterable<" + a.Iterable.Key.Id() + "," + a.Iterable.Value.Id() + ">"
	case KindObjectNamed:
		return namedObjectID(a.Named)
	case KindObjectEnum:
		if a.Enum.Case != "" {
			return "enum(" + a.Enum.Name + "::" + a.Enum.Case + ")"
		}
		return "enum(" + a.Enum.Name + ")"
	case KindObjectGeneric:
		return genericObjectID(a.Generic)
	case KindCallable:
		return callableID(a.Callable)
	case KindGenericParameter:
		return "template(" + a.Param.DefiningEntity + "::" + a.Param.ParameterName + ")"
	case KindMixed:
		return mixedID(a.Mixed)
	case KindClassString:
		return classStringID(a.ClassLikeString)
	default:
		return a.Kind.String()
	}
}

func stringID(p StringPredicates) string {
	if len(p.LiteralSet) > 0 {
		lits := make([]string, 0, len(p.LiteralSet))
		for v := range p.LiteralSet {
			lits = append(lits, v)
		}
		sort.Strings(lits)
		return "string-literal(" + strings.Join(lits, "|") + ")"
	}
	var b strings.Builder
	b.WriteString("string")
	if p.Numeric {
		b.WriteString(":numeric")
	}
	if p.NonEmpty {
		b.WriteString(":non-empty")
	}
	if p.Truthy {
		b.WriteString(":truthy")
	}
	if p.Lowercase {
		b.WriteString(":lowercase")
	}
	return b.String()
}

func keyedID(k *KeyedArray) string {
	var b strings.Builder
	b.WriteString("array{")
	if k.NonEmpty {
		b.WriteString("non-empty,")
	}
	if len(k.KnownOrder) > 0 {
		keys := append([]string(nil), k.KnownOrder...)
		sort.Strings(keys)
		for i, key := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			item := k.KnownItems[key]
			b.WriteString(key)
			if item.Optional {
				b.WriteString("?")
			}
			b.WriteString(":")
			b.WriteString(item.Possibly.Id())
		}
	}
	if k.ParamKey != nil && k.ParamValue != nil {
		b.WriteString("<")
		b.WriteString(k.ParamKey.Id())
		b.WriteString(",")
		b.WriteString(k.ParamValue.Id())
		b.WriteString(">")
	}
	b.WriteString("}")
	return b.String()
}

func listID(l *ListArray) string {
	var b strings.Builder
	b.WriteString("list{")
	if l.NonEmpty {
		b.WriteString("non-empty,")
	}
	if l.KnownCount != nil {
		b.WriteString("count=")
		b.WriteString(strconv.Itoa(*l.KnownCount))
		b.WriteString(",")
	}
	if len(l.KnownOrder) > 0 {
		idxs := append([]int(nil), l.KnownOrder...)
		sort.Ints(idxs)
		for i, idx := range idxs {
			if i > 0 {
				b.WriteString(",")
			}
			item := l.KnownElements[idx]
			b.WriteString(strconv.Itoa(idx))
			if item.Optional {
				b.WriteString("?")
			}
			b.WriteString(":")
			b.WriteString(item.Possibly.Id())
		}
	}
	b.WriteString(";")
	b.WriteString(l.ElementType.Id())
	b.WriteString("}")
	return b.String()
}

func namedObjectID(n *NamedObject) string {
	var b strings.Builder
	if n.IsThis {
		b.WriteString("static(")
	}
	b.WriteString(n.Name)
	if n.IsThis {
		b.WriteString(")")
	}
	if len(n.TypeParameters) > 0 {
		b.WriteString("<")
		for i, p := range n.TypeParameters {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(p.Id())
		}
		b.WriteString(">")
	}
	if len(n.IntersectionTypes) > 0 {
		ids := make([]string, len(n.IntersectionTypes))
		for i, it := range n.IntersectionTypes {
			ids[i] = it.Id()
		}
		sort.Strings(ids)
		b.WriteString("&")
		b.WriteString(strings.Join(ids, "&"))
	}
	return b.String()
}

func genericObjectID(g *GenericObject) string {
	var b strings.Builder
	b.WriteString(g.Name)
	b.WriteString("<")
	for i, p := range g.TypeParameters {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(p.Id())
	}
	b.WriteString(">")
	return b.String()
}

func callableID(c *CallableSignature) string {
	if c.Alias != "" {
		return "callable-alias(" + c.Alias + ")"
	}
	var b strings.Builder
	b.WriteString("callable(")
	for i, p := range c.Params {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(p.Id())
	}
	if c.Variadic {
		b.WriteString("...")
	}
	b.WriteString("):")
	b.WriteString(c.Return.Id())
	return b.String()
}

func mixedID(m MixedFlags) string {
	if m.IsAny {
		return "mixed(any)"
	}
	var b strings.Builder
	b.WriteString("mixed")
	if m.IsNonNull {
		b.WriteString(":non-null")
	}
	switch m.Truthiness {
	case TruthinessTruthy:
		b.WriteString(":truthy")
	case TruthinessFalsy:
		b.WriteString(":falsy")
	}
	if m.FromLoopIsset {
		b.WriteString(":from-loop-isset")
	}
	return b.String()
}

func classStringID(c *ClassString) string {
	if c.LiteralClass != "" {
		return "class-string(" + c.LiteralClass + ")"
	}
	if c.OfType != "" {
		return "class-string<" + c.OfType + ">"
	}
	return "class-string"
}
