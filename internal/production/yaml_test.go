package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

const trafficLightYAML = `
id: light
strict: true
root:
  key: light
  type: compound
  initial: green
  states:
    green:
      key: green
      type: atomic
      on:
        TIMER:
          target: [yellow]
    yellow:
      key: yellow
      type: atomic
      on:
        TIMER:
          target: [red]
    red:
      key: red
      type: compound
      initial: walk
      on:
        TIMER:
          target: [green]
      states:
        walk:
          key: walk
          type: atomic
          on:
            PED:
              target: [wait]
        wait:
          key: wait
          type: atomic
`

func TestLoadYAMLParsesNestedStatesAndTransitions(t *testing.T) {
	cfg, err := LoadYAML([]byte(trafficLightYAML))
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.ID)
	assert.True(t, cfg.Strict)
	require.NotNil(t, cfg.Root)
	assert.Equal(t, primitives.Compound, cfg.Root.Type)
	assert.Equal(t, "green", cfg.Root.Initial)

	require.NotNil(t, cfg.Root.States)
	assert.Equal(t, []string{"green", "yellow", "red"}, cfg.Root.ChildKeys())

	red, ok := cfg.Root.States.Get("red")
	require.True(t, ok)
	assert.Equal(t, primitives.Compound, red.Type)
	assert.Equal(t, "walk", red.Initial)
	assert.Equal(t, []string{"walk", "wait"}, red.ChildKeys())

	walk, ok := red.States.Get("walk")
	require.True(t, ok)
	require.NotNil(t, walk.On)
	trans, ok := walk.On.Get("PED")
	require.True(t, ok)
	require.Len(t, trans, 1)
	assert.Equal(t, []string{"wait"}, trans[0].Target)
	assert.Equal(t, "PED", trans[0].Event)
}

func TestLoadYAMLParsedConfigBuildsATree(t *testing.T) {
	cfg, err := LoadYAML([]byte(trafficLightYAML))
	require.NoError(t, err)

	built, err := tree.Build(cfg)
	require.NoError(t, err)
	assert.NotNil(t, built.ByID["light.red.walk"])
	assert.NotNil(t, built.ByID["light.green"])
}

func TestDumpYAMLThenLoadYAMLRoundTrips(t *testing.T) {
	cfg, err := LoadYAML([]byte(trafficLightYAML))
	require.NoError(t, err)

	dumped, err := DumpYAML(cfg)
	require.NoError(t, err)

	reloaded, err := LoadYAML(dumped)
	require.NoError(t, err)

	assert.Equal(t, cfg.ID, reloaded.ID)
	assert.Equal(t, cfg.Strict, reloaded.Strict)
	assert.Equal(t, cfg.Root.ChildKeys(), reloaded.Root.ChildKeys())

	redBefore, _ := cfg.Root.States.Get("red")
	redAfter, _ := reloaded.Root.States.Get("red")
	assert.Equal(t, redBefore.ChildKeys(), redAfter.ChildKeys())
	assert.Equal(t, redBefore.Initial, redAfter.Initial)

	builtAfter, err := tree.Build(reloaded)
	require.NoError(t, err)
	assert.NotNil(t, builtAfter.ByID["light.red.wait"])
}

func TestLoadYAMLRejectsMalformedDocument(t *testing.T) {
	_, err := LoadYAML([]byte("root: [this, is, a, list, not, a, mapping]"))
	require.Error(t, err)
}
