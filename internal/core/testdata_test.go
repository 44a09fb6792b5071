package core

import (
	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// trafficLightTree builds the spec's canonical traffic-light-with-pedestrian
// example: light{green,yellow,red{walk,wait,stop}}, used across core tests
// that need a small, pre-built, hierarchical fixture.
func trafficLightTree() *tree.Tree {
	root := primitives.NewStateConfig("light", primitives.Compound).WithInitial("green")

	green := primitives.NewStateConfig("green", primitives.Atomic)
	green.Transition("TIMER", "yellow")

	yellow := primitives.NewStateConfig("yellow", primitives.Atomic)
	yellow.Transition("TIMER", "red")

	red := primitives.NewStateConfig("red", primitives.Compound).WithInitial("walk")
	red.Transition("TIMER", "green")

	walk := primitives.NewStateConfig("walk", primitives.Atomic)
	walk.Transition("PED", "wait")
	wait := primitives.NewStateConfig("wait", primitives.Atomic)
	wait.Transition("PED", "stop")
	stop := primitives.NewStateConfig("stop", primitives.Atomic)
	red.AddChild(walk)
	red.AddChild(wait)
	red.AddChild(stop)

	root.AddChild(green)
	root.AddChild(yellow)
	root.AddChild(red)

	cfg := &primitives.MachineConfig{ID: "light", Root: root}
	t, err := tree.Build(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// parallelTree builds two orthogonal regions A{a1,a2} and B{b1,b2}.
func parallelTree() *tree.Tree {
	root := primitives.NewStateConfig("p", primitives.Parallel)

	a := primitives.NewStateConfig("A", primitives.Compound).WithInitial("a1")
	a1 := primitives.NewStateConfig("a1", primitives.Atomic)
	a1.Transition("X", "a2")
	a2 := primitives.NewStateConfig("a2", primitives.Atomic)
	a.AddChild(a1)
	a.AddChild(a2)

	b := primitives.NewStateConfig("B", primitives.Compound).WithInitial("b1")
	b1 := primitives.NewStateConfig("b1", primitives.Atomic)
	b1.Transition("Y", "b2")
	b2 := primitives.NewStateConfig("b2", primitives.Atomic)
	b.AddChild(b1)
	b.AddChild(b2)

	root.AddChild(a)
	root.AddChild(b)

	cfg := &primitives.MachineConfig{ID: "p", Root: root}
	tr, err := tree.Build(cfg)
	if err != nil {
		panic(err)
	}
	return tr
}

func leavesByKey(t *tree.Tree, keys ...string) []*tree.Node {
	out := make([]*tree.Node, 0, len(keys))
	for _, k := range keys {
		n, ok := t.ByID[k]
		if !ok {
			panic("unknown id " + k)
		}
		out = append(out, n)
	}
	return out
}
