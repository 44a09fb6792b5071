package statecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticefsm/statecore/internal/extensibility"
	"github.com/latticefsm/statecore/internal/primitives"
)

func TestWithDelimiterChangesTargetAndOutputSeparator(t *testing.T) {
	b := NewMachineBuilder("m", "red")
	b.WithDelimiter("/")
	red := b.Compound("red", "walk")
	red.Atomic("walk").On("PED", "red/wait")
	red.Atomic("wait")
	m, err := b.Build()
	require.NoError(t, err)

	s0, err := m.InitialState()
	require.NoError(t, err)
	assert.Equal(t, []string{"red/walk"}, ToStrings(s0.Value, "/"))

	s1, err := m.Transition(s0, primitives.NewEvent("PED", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"red/wait"}, ToStrings(s1.Value, "/"))
}

func TestOnInternalFiresActionWithoutExitEntry(t *testing.T) {
	b := NewMachineBuilder("m", "active")
	entries, exits := 0, 0
	active := b.Atomic("active")
	active.Entry(primitives.ActionDescriptor{Kind: primitives.ActionPure, Pure: func(*primitives.ExtendedContext, primitives.Event) []primitives.ActionDescriptor {
		entries++
		return nil
	}})
	active.Exit(primitives.ActionDescriptor{Kind: primitives.ActionPure, Pure: func(*primitives.ExtendedContext, primitives.Event) []primitives.ActionDescriptor {
		exits++
		return nil
	}})
	active.OnInternal("BUMP", nil, primitives.ActionDescriptor{
		Kind: primitives.ActionAssign,
		Assign: func(ctx *primitives.ExtendedContext, e primitives.Event) (map[string]any, error) {
			n, _ := ctx.Get("count")
			c := 0
			if n != nil {
				c = n.(int)
			}
			return map[string]any{"count": c + 1}, nil
		},
	})
	m, err := b.Build()
	require.NoError(t, err)

	s0, err := m.InitialState()
	require.NoError(t, err)
	require.Equal(t, 1, entries, "initial descent must run entry once")

	s1, err := m.Transition(s0, primitives.NewEvent("BUMP", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"active"}, ToStrings(s1.Value, "."))
	assert.True(t, s1.Changed)
	n, _ := s1.Context.Get("count")
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, entries, "an internal transition must not re-run entry")
	assert.Equal(t, 0, exits, "an internal transition must not run exit")
}

func TestEntryAndExitActionsRunOnTransition(t *testing.T) {
	b := NewMachineBuilder("m", "a")
	a := b.Atomic("a")
	a.Exit(primitives.ActionDescriptor{
		Kind: primitives.ActionAssign,
		Assign: func(*primitives.ExtendedContext, primitives.Event) (map[string]any, error) {
			return map[string]any{"leftA": true}, nil
		},
	})
	bState := b.Atomic("b")
	bState.Entry(primitives.ActionDescriptor{
		Kind: primitives.ActionAssign,
		Assign: func(*primitives.ExtendedContext, primitives.Event) (map[string]any, error) {
			return map[string]any{"enteredB": true}, nil
		},
	})
	a.On("GO", "b")
	m, err := b.Build()
	require.NoError(t, err)

	s0, err := m.InitialState()
	require.NoError(t, err)

	s1, err := m.Transition(s0, primitives.NewEvent("GO", nil))
	require.NoError(t, err)
	left, _ := s1.Context.Get("leftA")
	entered, _ := s1.Context.Get("enteredB")
	assert.Equal(t, true, left)
	assert.Equal(t, true, entered)
}

func TestInvokeLowersStartStopActionsAndWiresDoneTransition(t *testing.T) {
	b := NewMachineBuilder("m", "loading")
	loading := b.Atomic("loading")
	loading.Invoke(primitives.InvokeDescriptor{
		ID:  "fetch",
		Src: "fetchService",
		OnDone: &primitives.TransitionConfig{
			Target: []string{"ready"},
		},
		OnError: &primitives.TransitionConfig{
			Target: []string{"failed"},
		},
	})
	b.Atomic("ready")
	b.Atomic("failed")
	reg := extensibility.NewRegistry()
	reg.Services.Register("fetchService")
	m, err := b.Build(WithRegistry(reg))
	require.NoError(t, err)

	s0, err := m.InitialState()
	require.NoError(t, err)
	require.Len(t, s0.Actions, 1)
	assert.Equal(t, primitives.ActionStart, s0.Actions[0].Kind)
	require.NotNil(t, s0.Actions[0].Activity)
	assert.Equal(t, "fetch", s0.Actions[0].Activity.ID)
	assert.Equal(t, "fetchService", s0.Actions[0].Activity.Src)

	s1, err := m.Transition(s0, primitives.NewEvent("done.invoke.fetch", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"ready"}, ToStrings(s1.Value, "."))
	require.Len(t, s1.Actions, 1)
	assert.Equal(t, primitives.ActionStop, s1.Actions[0].Kind)
	assert.Equal(t, "fetch", s1.Actions[0].Activity.ID)

	s2, err := m.Transition(s0, primitives.NewEvent("error.platform.fetch", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"failed"}, ToStrings(s2.Value, "."))
}

func TestActivityLowersStartOnEntryStopOnExit(t *testing.T) {
	b := NewMachineBuilder("m", "polling")
	polling := b.Atomic("polling")
	polling.Activity(primitives.ActivityDescriptor{Name: "heartbeat"})
	polling.On("STOP", "idle")
	b.Atomic("idle")
	reg := extensibility.NewRegistry()
	reg.Activities.Register("heartbeat")
	m, err := b.Build(WithRegistry(reg))
	require.NoError(t, err)

	s0, err := m.InitialState()
	require.NoError(t, err)
	require.Len(t, s0.Actions, 1)
	assert.Equal(t, primitives.ActionStart, s0.Actions[0].Kind)
	assert.Equal(t, "heartbeat", s0.Actions[0].Activity.ID)

	s1, err := m.Transition(s0, primitives.NewEvent("STOP", nil))
	require.NoError(t, err)
	require.Len(t, s1.Actions, 1)
	assert.Equal(t, primitives.ActionStop, s1.Actions[0].Kind)
	assert.Equal(t, "heartbeat", s1.Actions[0].Activity.ID)
}

func TestAfterLowersSendCancelPairAndFiresOnRedelivery(t *testing.T) {
	b := NewMachineBuilder("m", "pending")
	pending := b.Atomic("pending")
	pending.After("250", "timedOut")
	b.Atomic("timedOut")
	m, err := b.Build()
	require.NoError(t, err)

	s0, err := m.InitialState()
	require.NoError(t, err)
	require.Len(t, s0.Actions, 1)
	require.Equal(t, primitives.ActionSend, s0.Actions[0].Kind)
	require.NotNil(t, s0.Actions[0].Send)
	assert.Equal(t, "250", s0.Actions[0].Send.Delay)

	eventName := s0.Actions[0].Send.Event(primitives.NewExtendedContext(nil), primitives.NewEvent("irrelevant", nil)).Type

	s1, err := m.Transition(s0, primitives.NewEvent(eventName, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"timedOut"}, ToStrings(s1.Value, "."))
	require.Len(t, s1.Actions, 1)
	assert.Equal(t, primitives.ActionCancel, s1.Actions[0].Kind)
}

func TestWithRegistryResolvesNamedGuardAndAction(t *testing.T) {
	b := NewMachineBuilder("m", "closed")
	closed := b.Atomic("closed")
	closed.On("OPEN", "opened", primitives.TransitionConfig{
		Guard:   primitives.NamedGuard("isReady"),
		Actions: []primitives.ActionDescriptor{{Kind: primitives.ActionCustom, Label: "announce"}},
	})
	b.Atomic("opened")

	reg := extensibility.NewRegistry()
	reg.Guards.Register("isReady", func(ctx *primitives.ExtendedContext, e primitives.Event) bool {
		v, _ := ctx.Get("ready")
		ok, _ := v.(bool)
		return ok
	})
	announced := false
	reg.Actions.Register("announce", func(*primitives.ExtendedContext, primitives.Event) []primitives.ActionDescriptor {
		announced = true
		return nil
	})

	m, err := b.Build(WithRegistry(reg))
	require.NoError(t, err)
	m = m.WithContext(primitives.NewExtendedContext(map[string]any{"ready": false}))

	s0, err := m.InitialState()
	require.NoError(t, err)
	s1, err := m.Transition(s0, primitives.NewEvent("OPEN", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"closed"}, ToStrings(s1.Value, "."), "guard must block the transition while not ready")
	assert.False(t, announced)

	readyMachine := m.WithContext(primitives.NewExtendedContext(map[string]any{"ready": true}))
	r0, err := readyMachine.InitialState()
	require.NoError(t, err)
	r1, err := readyMachine.Transition(r0, primitives.NewEvent("OPEN", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"opened"}, ToStrings(r1.Value, "."))
	assert.True(t, announced)
}
