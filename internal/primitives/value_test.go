package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateValueIsLeaf(t *testing.T) {
	assert.True(t, Leaf("red").IsLeaf())
	assert.False(t, Branch(map[string]*StateValue{"a": Leaf("a1")}).IsLeaf())
	var nilValue *StateValue
	assert.True(t, nilValue.IsLeaf())
}

func TestStateValueEqual(t *testing.T) {
	a := Branch(map[string]*StateValue{"A": Leaf("a1"), "B": Leaf("b1")})
	b := Branch(map[string]*StateValue{"B": Leaf("b1"), "A": Leaf("a1")})
	c := Branch(map[string]*StateValue{"A": Leaf("a2"), "B": Leaf("b1")})

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(a, nil))
	assert.True(t, Equal(nil, nil))
}

func TestStateValueMatches(t *testing.T) {
	value := Branch(map[string]*StateValue{"A": Leaf("a1"), "B": Leaf("b1")})
	ancestor := Branch(map[string]*StateValue{"A": Leaf("a1")})
	mismatched := Branch(map[string]*StateValue{"A": Leaf("a2")})

	assert.True(t, Matches(ancestor, value))
	assert.True(t, Matches(nil, value))
	assert.False(t, Matches(mismatched, value))
	assert.False(t, Matches(Leaf("a1"), Branch(nil)))
}

func TestToPaths(t *testing.T) {
	value := Branch(map[string]*StateValue{
		"B": Leaf("b1"),
		"A": Leaf("a1"),
	})
	paths := ToPaths(value)
	assert.Equal(t, [][]string{{"A", "a1"}, {"B", "b1"}}, paths)
}

func TestFromDottedPath(t *testing.T) {
	assert.Nil(t, FromDottedPath(nil))
	assert.True(t, Equal(Leaf("walk"), FromDottedPath([]string{"walk"})))
	assert.True(t, Equal(
		Branch(map[string]*StateValue{"red": Leaf("walk")}),
		FromDottedPath([]string{"red", "walk"}),
	))
}
