package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shivasurya/phpcheck-analyzer/internal/ttype"
)

func TestBindingTable_SetGetRemove(t *testing.T) {
	tbl := NewBindingTable()
	_, ok := tbl.Get("$x")
	assert.False(t, ok)

	tbl.Set("$x", Binding{Type: ttype.Single(ttype.IntGeneral())})
	b, ok := tbl.Get("$x")
	assert.True(t, ok)
	assert.True(t, b.Type.HasAtomicKind(ttype.KindIntGeneral))

	tbl.Remove("$x")
	_, ok = tbl.Get("$x")
	assert.False(t, ok)
}

func TestBindingTable_Snapshot_Independence(t *testing.T) {
	tbl := NewBindingTable()
	tbl.Set("$x", Binding{Type: ttype.Single(ttype.IntGeneral())})

	snap := tbl.Snapshot()
	snap.Set("$x", Binding{Type: ttype.Single(ttype.StringGeneral())})

	original, _ := tbl.Get("$x")
	assert.True(t, original.Type.HasAtomicKind(ttype.KindIntGeneral))

	snapped, _ := snap.Get("$x")
	assert.True(t, snapped.Type.HasAtomicKind(ttype.KindStringGeneral))
}

func TestBindingTable_MergeBranch_BothSides(t *testing.T) {
	a := NewBindingTable()
	a.Set("$x", Binding{Type: ttype.Single(ttype.IntGeneral())})

	b := NewBindingTable()
	b.Set("$x", Binding{Type: ttype.Single(ttype.StringGeneral())})

	merged := a.MergeBranch(b)
	bound, ok := merged.Get("$x")
	assert.True(t, ok)
	assert.False(t, bound.PossiblyUndefined)
	assert.True(t, bound.Type.HasAtomicKind(ttype.KindIntGeneral))
	assert.True(t, bound.Type.HasAtomicKind(ttype.KindStringGeneral))
}

func TestBindingTable_MergeBranch_OneSidedBecomesPossiblyUndefined(t *testing.T) {
	a := NewBindingTable()
	a.Set("$x", Binding{Type: ttype.Single(ttype.IntGeneral())})

	b := NewBindingTable()

	merged := a.MergeBranch(b)
	bound, ok := merged.Get("$x")
	assert.True(t, ok)
	assert.True(t, bound.PossiblyUndefined)
}

func TestWidenedSince(t *testing.T) {
	prior := NewBindingTable()
	prior.Set("$x", Binding{Type: ttype.Single(ttype.IntLiteral(1))})

	current := NewBindingTable()
	current.Set("$x", Binding{Type: ttype.NewUnion(ttype.IntLiteral(1), ttype.IntLiteral(2))})

	assert.True(t, WidenedSince(prior, current, "$x"))

	stable := NewBindingTable()
	stable.Set("$x", Binding{Type: ttype.Single(ttype.IntLiteral(1))})
	assert.False(t, WidenedSince(prior, stable, "$x"))

	assert.True(t, WidenedSince(NewBindingTable(), current, "$x"))
}
