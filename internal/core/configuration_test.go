package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticefsm/statecore/internal/primitives"
)

func TestToStateValueAtomicChildOfRootIsFlatLeaf(t *testing.T) {
	tr := trafficLightTree()
	cfg := NewConfiguration(leavesByKey(tr, "light.yellow"))

	value := ToStateValue(cfg, tr.Root)
	require.True(t, value.IsLeaf())
	assert.Equal(t, "yellow", value.Leaf)
}

func TestToStateValueCompoundDescentIsSingleLevelNested(t *testing.T) {
	tr := trafficLightTree()
	cfg := NewConfiguration(leavesByKey(tr, "light.red.walk"))

	value := ToStateValue(cfg, tr.Root)
	require.False(t, value.IsLeaf())
	require.Len(t, value.Children, 1)
	sub, ok := value.Children["red"]
	require.True(t, ok)
	require.True(t, sub.IsLeaf(), "a leaf child must not be double-wrapped as {walk: 'walk'}")
	assert.Equal(t, "walk", sub.Leaf)
}

func TestToStateValueParallelAlwaysKeysEveryRegion(t *testing.T) {
	tr := parallelTree()
	cfg := NewConfiguration(leavesByKey(tr, "p.A.a2", "p.B.b1"))

	value := ToStateValue(cfg, tr.Root)
	require.False(t, value.IsLeaf())
	assert.True(t, primitives.Equal(value, primitives.Branch(map[string]*primitives.StateValue{
		"A": primitives.Leaf("a2"),
		"B": primitives.Leaf("b1"),
	})))
}

func TestConfigurationWithAddsAndRemoves(t *testing.T) {
	tr := trafficLightTree()
	cfg := NewConfiguration(leavesByKey(tr, "light.green"))

	next := cfg.With(leavesByKey(tr, "light.yellow"), leavesByKey(tr, "light.green"))
	assert.False(t, next.Active(tr.ByID["light.green"]))
	assert.True(t, next.Active(tr.ByID["light.yellow"]))
	assert.True(t, cfg.Active(tr.ByID["light.green"]), "With must not mutate the receiver")
}

func TestConfigurationLeavesSortedByDocOrder(t *testing.T) {
	tr := parallelTree()
	cfg := NewConfiguration(leavesByKey(tr, "p.B.b1", "p.A.a1"))

	leaves := cfg.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, "a1", leaves[0].Key)
	assert.Equal(t, "b1", leaves[1].Key)
}
