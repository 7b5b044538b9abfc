package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClauseStore_AddAndForPath(t *testing.T) {
	s := NewClauseStore()
	s.Add(Clause{Path: "$x", Possibilities: []Assertion{{Path: "$x", Kind: Truthy}}})
	s.Add(Clause{Path: "$y", Possibilities: []Assertion{{Path: "$y", Kind: Falsy}}})

	xClauses := s.ForPath("$x")
	assert.Len(t, xClauses, 1)
	assert.Equal(t, Truthy, xClauses[0].Possibilities[0].Kind)

	assert.Empty(t, s.ForPath("$z"))
}

func TestClauseStore_Snapshot_Independence(t *testing.T) {
	s := NewClauseStore()
	s.Add(Clause{Path: "$x", Possibilities: []Assertion{{Path: "$x", Kind: Truthy}}})

	snap := s.Snapshot()
	snap.Add(Clause{Path: "$y", Possibilities: []Assertion{{Path: "$y", Kind: Truthy}}})

	assert.Len(t, s.ForPath("$y"), 0)
	assert.Len(t, snap.ForPath("$y"), 1)
}

func TestClauseStore_Intersect(t *testing.T) {
	common := Clause{Path: "$x", Possibilities: []Assertion{{Path: "$x", Kind: Truthy}}}

	a := NewClauseStore()
	a.Add(common)
	a.Add(Clause{Path: "$y", Possibilities: []Assertion{{Path: "$y", Kind: Truthy}}})

	b := NewClauseStore()
	b.Add(common)
	b.Add(Clause{Path: "$z", Possibilities: []Assertion{{Path: "$z", Kind: Falsy}}})

	joined := a.Intersect(b)
	assert.Len(t, joined.ForPath("$x"), 1)
	assert.Empty(t, joined.ForPath("$y"))
	assert.Empty(t, joined.ForPath("$z"))
}

func TestNegate(t *testing.T) {
	conj := Conjunction{
		{Path: "$x", Kind: Truthy},
		{Path: "$y", Kind: IsType, Type: "Foo"},
		{Path: "$z", Kind: IsGreaterThan, Count: 5},
	}
	negated := Negate(conj)
	assert.Equal(t, Falsy, negated[0].Kind)
	assert.Equal(t, IsNotType, negated[1].Kind)
	assert.Equal(t, IsLessThanOrEqual, negated[2].Kind)

	assert.Equal(t, conj, Negate(Negate(conj)))
}
