// Package codebase is the read-only query surface over pre-built symbol
// metadata: class-likes, method signatures, property declarations,
// template declarations, and inheritance edges. Symbol collection — parsing
// docblocks, resolving imports, walking declarations — happens upstream;
// this package only declares the query contract the rest of the analyzer
// reads through, generalized from the module/builtin-type lookup pattern
// (read-only maps keyed by name, ancestor-chain walks for inherited lookups)
// to PHP class-like lookups.
package codebase

import "github.com/shivasurya/phpcheck-analyzer/internal/ttype"

// View is shared across the whole analysis pass; every method must be
// safe for concurrent read-only use by the file worker pool.
type View struct {
	classLikes map[string]*ClassLikeMetadata
	functions  map[string]*FunctionLikeMetadata
	// descendants maps a class-like name to the set of names that
	// directly or transitively extend/implement it.
	descendants map[string]map[string]struct{}
}

// NewView builds a View from already-collected metadata. Symbol collection
// itself — parsing docblocks, resolving `use` imports, walking the class
// hierarchy — happens upstream; this constructor only indexes what it's
// given.
func NewView(classLikes map[string]*ClassLikeMetadata, functions map[string]*FunctionLikeMetadata) *View {
	v := &View{
		classLikes:  classLikes,
		functions:   functions,
		descendants: map[string]map[string]struct{}{},
	}
	v.indexDescendants()
	return v
}

func (v *View) indexDescendants() {
	for name, meta := range v.classLikes {
		for _, parent := range meta.allAncestors(v) {
			if v.descendants[parent] == nil {
				v.descendants[parent] = map[string]struct{}{}
			}
			v.descendants[parent][name] = struct{}{}
		}
	}
}

// ClassLikeMetadata describes one class, interface, trait, or enum.
type ClassLikeMetadata struct {
	Name       string
	Kind       ClassLikeKind
	ParentName string   // "" for no parent / interfaces with no extends
	Interfaces []string // directly implemented/extended interfaces
	IsFinal    bool
	IsAbstract bool

	Templates  []TemplateDeclaration
	Properties map[string]*PropertyMetadata
	Methods    map[string]*FunctionLikeMetadata

	// Specialized marks a class-like whose instances should get
	// per-variable dataflow property nodes rather than a class-wide one
	// (spec glossary "Specialized instance").
	Specialized bool
}

func (c *ClassLikeMetadata) allAncestors(v *View) []string {
	var out []string
	seen := map[string]struct{}{}
	var walk func(name string)
	walk = func(name string) {
		meta := v.classLikes[name]
		if meta == nil {
			return
		}
		candidates := append([]string{meta.ParentName}, meta.Interfaces...)
		for _, p := range candidates {
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
			walk(p)
		}
	}
	walk(c.Name)
	return out
}

// ClassLikeKind distinguishes the four PHP class-like declaration forms.
type ClassLikeKind int

const (
	ClassLikeClass ClassLikeKind = iota
	ClassLikeInterface
	ClassLikeTrait
	ClassLikeEnum
)

// TemplateDeclaration is a `@template T of Bound` declared on a class,
// method, or function.
type TemplateDeclaration struct {
	Name       string
	Constraint ttype.Union
	Variance   Variance
}

// Variance records declared-site variance; the subtype relation itself
// treats most positions invariantly regardless of what's declared here, but
// reconciliation and provider synthesis still want to know what was
// declared.
type Variance int

const (
	VarianceInvariant Variance = iota
	VarianceCovariant
	VarianceContravariant
)

// PropertyMetadata describes one declared property.
type PropertyMetadata struct {
	Name           string
	DeclaringClass string
	Type           ttype.Union
	Visibility     Visibility
	IsStatic       bool
	IsReadonly     bool
	HasDefault     bool

	// DefaultArrayLiteral holds the key => string-literal-value pairs of a
	// property's default value when it is a keyed array of string
	// literals (e.g. `protected $casts = ['age' => 'integer']`). Nil for
	// properties whose default isn't a string-keyed array literal.
	DefaultArrayLiteral map[string]string
}

// Visibility is PHP's three-level property/method visibility.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityPrivate
)

// FunctionLikeMetadata describes a function, method, or closure signature.
type FunctionLikeMetadata struct {
	Name           string
	DeclaringClass string // "" for free functions
	Params         []ParamMetadata
	ReturnType     ttype.Union
	Templates      []TemplateDeclaration

	IsStatic      bool
	IsAbstract    bool
	IsFinal       bool
	Visibility    Visibility
	IsDeprecated  bool
	IsPure        bool
	AllowsNamedArguments bool

	// IfTrueAssertions / IfFalseAssertions are the `@if-true`/`@if-false`
	// annotations, keyed by parameter name ("$this" for the receiver) to
	// the assertion string they establish on a truthy/falsy return.
	IfTrueAssertions  map[string]string
	IfFalseAssertions map[string]string
	AssertAssertions  map[string]string
}

// ParamMetadata describes one declared parameter.
type ParamMetadata struct {
	Name       string
	Type       ttype.Union
	ByRef      bool
	OutType    *ttype.Union // `@param-out`, nil when absent
	Variadic   bool
	HasDefault bool
	IsTemplate bool // true when Type mentions a template this callable declares
}

// GetClassLike returns a class-like's metadata by fully-qualified name.
func (v *View) GetClassLike(name string) (*ClassLikeMetadata, bool) {
	m, ok := v.classLikes[name]
	return m, ok
}

// GetMethod returns one method's metadata, searching up the class's
// ancestor chain when the method is inherited rather than redeclared.
func (v *View) GetMethod(class, name string) (*FunctionLikeMetadata, bool) {
	declClass, ok := v.GetDeclaringMethodId(class, name)
	if !ok {
		return nil, false
	}
	meta := v.classLikes[declClass]
	if meta == nil {
		return nil, false
	}
	m, ok := meta.Methods[name]
	return m, ok
}

// GetFunction returns a free function's metadata.
func (v *View) GetFunction(name string) (*FunctionLikeMetadata, bool) {
	m, ok := v.functions[name]
	return m, ok
}

// GetDeclaringMethodId walks class's ancestor chain (self, then parent,
// then interfaces) and returns the name of the class-like that actually
// declares the method.
func (v *View) GetDeclaringMethodId(class, name string) (string, bool) {
	visited := map[string]struct{}{}
	var walk func(cur string) (string, bool)
	walk = func(cur string) (string, bool) {
		if _, ok := visited[cur]; ok {
			return "", false
		}
		visited[cur] = struct{}{}
		meta := v.classLikes[cur]
		if meta == nil {
			return "", false
		}
		if _, ok := meta.Methods[name]; ok {
			return cur, true
		}
		if meta.ParentName != "" {
			if declClass, ok := walk(meta.ParentName); ok {
				return declClass, true
			}
		}
		for _, iface := range meta.Interfaces {
			if declClass, ok := walk(iface); ok {
				return declClass, true
			}
		}
		return "", false
	}
	return walk(class)
}

// GetDeclaringClassForProperty walks class's ancestor chain and returns the
// name of the class-like that declares the named property.
func (v *View) GetDeclaringClassForProperty(class, prop string) (string, bool) {
	visited := map[string]struct{}{}
	var walk func(cur string) (string, bool)
	walk = func(cur string) (string, bool) {
		if _, ok := visited[cur]; ok {
			return "", false
		}
		visited[cur] = struct{}{}
		meta := v.classLikes[cur]
		if meta == nil {
			return "", false
		}
		if _, ok := meta.Properties[prop]; ok {
			return cur, true
		}
		if meta.ParentName != "" {
			if declClass, ok := walk(meta.ParentName); ok {
				return declClass, true
			}
		}
		return "", false
	}
	return walk(class)
}

// ClassExtends reports whether sub transitively extends sup (class
// inheritance only, not interface implementation).
func (v *View) ClassExtends(sub, sup string) bool {
	visited := map[string]struct{}{}
	cur := sub
	for {
		if _, ok := visited[cur]; ok {
			return false
		}
		visited[cur] = struct{}{}
		meta := v.classLikes[cur]
		if meta == nil || meta.ParentName == "" {
			return false
		}
		if meta.ParentName == sup {
			return true
		}
		cur = meta.ParentName
	}
}

// ClassImplements reports whether sub implements iface, directly or via an
// ancestor class/interface.
func (v *View) ClassImplements(sub, iface string) bool {
	meta := v.classLikes[sub]
	if meta == nil {
		return false
	}
	for _, direct := range meta.Interfaces {
		if direct == iface {
			return true
		}
		if v.ClassImplements(direct, iface) {
			return true
		}
	}
	if meta.ParentName != "" {
		return v.ClassImplements(meta.ParentName, iface)
	}
	return false
}

// IsInstanceOf reports whether a value statically typed as sub could be an
// instance of sup: identity, class inheritance, or interface
// implementation.
func (v *View) IsInstanceOf(sub, sup string) bool {
	return sub == sup || v.ClassExtends(sub, sup) || v.ClassImplements(sub, sup)
}

// GetSignatureOfFunctionLikeIdentifier resolves a callable identifier of
// the form "Class::method" or "function_name" to its metadata.
func (v *View) GetSignatureOfFunctionLikeIdentifier(id string) (*FunctionLikeMetadata, bool) {
	for i := 0; i+1 < len(id); i++ {
		if id[i] == ':' && id[i+1] == ':' {
			return v.GetMethod(id[:i], id[i+2:])
		}
	}
	return v.GetFunction(id)
}

// AllClassLikeDescendants returns every class-like name that directly or
// transitively extends/implements name.
func (v *View) AllClassLikeDescendants(name string) []string {
	set := v.descendants[name]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}
