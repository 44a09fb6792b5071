package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendedContextGet(t *testing.T) {
	ctx := NewExtendedContext(map[string]any{"count": 1})
	v, ok := ctx.Get("count")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = ctx.Get("missing")
	assert.False(t, ok)

	var nilCtx *ExtendedContext
	_, ok = nilCtx.Get("count")
	assert.False(t, ok)
}

func TestExtendedContextWithDoesNotMutateReceiver(t *testing.T) {
	base := NewExtendedContext(map[string]any{"count": 1})
	next := base.With(map[string]any{"count": 2, "extra": "x"})

	baseCount, _ := base.Get("count")
	nextCount, _ := next.Get("count")
	assert.Equal(t, 1, baseCount)
	assert.Equal(t, 2, nextCount)

	_, hasExtra := base.Get("extra")
	assert.False(t, hasExtra)

	assert.Same(t, base, base.With(nil))
}

func TestExtendedContextSnapshotIsDefensiveCopy(t *testing.T) {
	ctx := NewExtendedContext(map[string]any{"count": 1})
	snap := ctx.Snapshot()
	snap["count"] = 99

	v, _ := ctx.Get("count")
	assert.Equal(t, 1, v)
}

func TestExtendedContextEqual(t *testing.T) {
	a := NewExtendedContext(map[string]any{"x": 1})
	b := NewExtendedContext(map[string]any{"x": 1})
	c := NewExtendedContext(map[string]any{"x": 2})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.Equal(a))
}
