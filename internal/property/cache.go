package property

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

// memoKey identifies a property access by the object's path and the
// property name, not by the access site — two reads of the same path
// through the same property in one block share a cache entry.
type memoKey struct {
	path     string
	property string
}

// Memo caches localized property types keyed by object path, so a
// property read repeated on the same binding within a block doesn't
// re-walk the class hierarchy each time. Entries are invalidated
// explicitly by the caller (on assignment to the path); the underlying
// LRU also evicts the least recently used entry once it is full.
type Memo struct {
	cache *lru.Cache[memoKey, ttype.Union]
}

// defaultMemoSize bounds the cache independent of function size; a
// function touching more distinct object paths than this just stops
// benefiting from memoization rather than growing unbounded.
const defaultMemoSize = 512

// NewMemo creates an empty cache. Passing a zero size uses
// defaultMemoSize.
func NewMemo(size int) *Memo {
	if size <= 0 {
		size = defaultMemoSize
	}
	cache, _ := lru.New[memoKey, ttype.Union](size)
	return &Memo{cache: cache}
}

// Get returns the cached type for path.property, if present.
func (m *Memo) Get(path, propertyName string) (ttype.Union, bool) {
	return m.cache.Get(memoKey{path: path, property: propertyName})
}

// Set records the resolved type for path.property.
func (m *Memo) Set(path, propertyName string, t ttype.Union) {
	m.cache.Add(memoKey{path: path, property: propertyName}, t)
}

// Invalidate drops every cached property under path, used when path is
// reassigned (the object it refers to may have changed) or when any of
// its properties is written through.
func (m *Memo) Invalidate(path string) {
	for _, k := range m.cache.Keys() {
		if k.path == path {
			m.cache.Remove(k)
		}
	}
}

// ResolveMemoized is Resolve with a per-path cache consulted first;
// objectPath identifies the binding the object expression resolved to, or
// "" to skip memoization entirely (a dynamic receiver with no stable
// path). Only single-property resolutions are cached; an access that
// resolved against more than one atomic (a union receiver) is re-walked
// every time since a cache entry can't represent more than one type.
func ResolveMemoized(memo *Memo, objectPath string, req Request, resolve func() Result) Result {
	if memo == nil || objectPath == "" || req.PropertyName == "" {
		return resolve()
	}
	if cached, ok := memo.Get(objectPath, req.PropertyName); ok {
		return Result{Properties: []Resolved{{PropertyName: req.PropertyName, Type: cached}}}
	}
	result := resolve()
	if len(result.Properties) == 1 {
		memo.Set(objectPath, req.PropertyName, result.Properties[0].Type)
	}
	return result
}
