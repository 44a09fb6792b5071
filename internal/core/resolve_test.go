package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticefsm/statecore/internal/primitives"
)

func TestResolveValueNilDescendsToDefaultChain(t *testing.T) {
	tr := trafficLightTree()

	leaves, err := ResolveValue(tr, nil)
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, tr.ByID["light.green"], leaves[0])
}

func TestResolveValueLeafAtCompoundDescendsItsOwnDefault(t *testing.T) {
	tr := trafficLightTree()

	leaves, err := ResolveValue(tr, primitives.Leaf("red"))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, tr.ByID["light.red.walk"], leaves[0])
}

func TestResolveValuePartialBranchCompletesNamedDescent(t *testing.T) {
	tr := trafficLightTree()

	value := primitives.Branch(map[string]*primitives.StateValue{
		"red": primitives.Leaf("wait"),
	})
	leaves, err := ResolveValue(tr, value)
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, tr.ByID["light.red.wait"], leaves[0])
}

func TestResolveValueAtomicOrFinalReturnsItself(t *testing.T) {
	tr := trafficLightTree()

	leaves, err := ResolveValue(tr, primitives.Leaf("green"))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, tr.ByID["light.green"], leaves[0])
}

func TestResolveValueUnknownChildKeyFails(t *testing.T) {
	tr := trafficLightTree()

	_, err := ResolveValue(tr, primitives.Leaf("nonexistent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, primitives.ErrNoSuchState)
}

func TestResolveValueParallelNilFillsEveryRegionWithItsDefault(t *testing.T) {
	tr := parallelTree()

	leaves, err := ResolveValue(tr, nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(leaves))
	for _, n := range leaves {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"p.A.a1", "p.B.b1"}, ids)
}

func TestResolveValueParallelPartialFillsMissingRegionOnly(t *testing.T) {
	tr := parallelTree()

	value := primitives.Branch(map[string]*primitives.StateValue{
		"A": primitives.Leaf("a2"),
	})
	leaves, err := ResolveValue(tr, value)
	require.NoError(t, err)

	ids := make([]string, 0, len(leaves))
	for _, n := range leaves {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"p.A.a2", "p.B.b1"}, ids)
}

func TestResolveValueParallelUnknownChildKeyFails(t *testing.T) {
	tr := parallelTree()

	value := primitives.Branch(map[string]*primitives.StateValue{
		"A": primitives.Leaf("nope"),
	})
	_, err := ResolveValue(tr, value)
	require.Error(t, err)
	assert.ErrorIs(t, err, primitives.ErrNoSuchState)
}

func TestResolveValueUnsupportedKindFails(t *testing.T) {
	tr := historyFixture()

	histValue := primitives.Branch(map[string]*primitives.StateValue{
		"hist": primitives.Leaf("walk"),
	})
	_, err := ResolveValue(tr, primitives.Branch(map[string]*primitives.StateValue{
		"red": histValue,
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, primitives.ErrUnresolvableTarget)
}
