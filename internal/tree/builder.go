package tree

import (
	"fmt"
	"strings"

	"github.com/latticefsm/statecore/internal/primitives"
)

// Tree is the built, immutable state-tree for one machine configuration.
type Tree struct {
	MachineID string
	Delimiter string
	Strict    bool
	Root      *Node
	ByID      map[string]*Node

	// Alphabet holds every concrete (non-null, non-wildcard) event type
	// declared anywhere in the tree, used to enforce strict mode.
	Alphabet map[string]struct{}

	nextDocOrder  int
	pendingInvoke []rawTarget
}

// Build constructs a Tree from a machine configuration. It fails with
// primitives.ErrInvalidConfiguration when an initial child, history
// default, or transition target cannot be resolved, or when two nodes
// share an id.
func Build(cfg *primitives.MachineConfig) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, primitives.WrapConfigError(fmt.Errorf("%w: %v", primitives.ErrInvalidConfiguration, err), cfg.ID, "")
	}

	t := &Tree{
		MachineID: cfg.ID,
		Delimiter: cfg.EffectiveDelimiter(),
		Strict:    cfg.Strict,
		ByID:      make(map[string]*Node),
		Alphabet:  make(map[string]struct{}),
	}

	root, err := t.buildNode(cfg.Root, nil, nil)
	if err != nil {
		return nil, err
	}
	t.Root = root

	if err := t.resolveAll(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", primitives.ErrInvalidConfiguration, err)
	}

	return t, nil
}

// buildNode recursively builds the skeleton tree (pass 1): ids, doc order,
// children, and unresolved transition shells (event/guard/actions/internal
// captured, targets resolved in pass 2).
func (t *Tree) buildNode(cfg *primitives.StateConfig, parent *Node, path []string) (*Node, error) {
	id := cfg.ID
	if id == "" {
		if parent == nil {
			id = t.MachineID
		} else {
			id = strings.Join(append([]string{t.MachineID}, path...), t.Delimiter)
		}
	}
	if _, dup := t.ByID[id]; dup {
		return nil, primitives.WrapConfigError(
			fmt.Errorf("%w: duplicate id %q", primitives.ErrInvalidConfiguration, id), t.MachineID, cfg.Key)
	}

	n := &Node{
		Key:             cfg.Key,
		ID:              id,
		Path:            append([]string(nil), path...),
		Kind:            cfg.Type,
		InitialChildKey: cfg.Initial,
		HistoryDepth:    cfg.HistoryDepth,
		Entry:           append([]primitives.ActionDescriptor(nil), cfg.Entry...),
		Exit:            append([]primitives.ActionDescriptor(nil), cfg.Exit...),
		Activities:      cfg.Activities,
		Invoke:          cfg.Invoke,
		Parent:          parent,
		Children:        make(map[string]*Node),
		DocOrder:        t.nextDocOrder,
		byEvent:         make(map[string][]*Transition),
	}
	t.nextDocOrder++
	t.ByID[id] = n

	for i := range cfg.Activities {
		act := cfg.Activities[i]
		spec := act.Spec
		if spec == nil {
			spec = &primitives.ActivitySpec{ID: act.Name, Src: act.Name}
		} else if spec.ID == "" {
			clone := *spec
			clone.ID = act.Name
			spec = &clone
		}
		n.Entry = append(n.Entry, primitives.ActionDescriptor{Kind: primitives.ActionStart, Activity: spec})
		n.Exit = append(n.Exit, primitives.ActionDescriptor{Kind: primitives.ActionStop, Activity: &primitives.ActivitySpec{ID: spec.ID}})
	}

	for i := range cfg.Invoke {
		invoke := cfg.Invoke[i]
		invokeID := invoke.ID
		if invokeID == "" {
			invokeID = fmt.Sprintf("%s.invoke%d", n.ID, i)
		}

		n.Entry = append(n.Entry, primitives.ActionDescriptor{
			Kind:     primitives.ActionStart,
			Activity: &primitives.ActivitySpec{ID: invokeID, Src: invoke.Src, Data: invoke.Data, Service: true},
		})
		n.Exit = append(n.Exit, primitives.ActionDescriptor{
			Kind:     primitives.ActionStop,
			Activity: &primitives.ActivitySpec{ID: invokeID},
		})

		if invoke.OnDone != nil {
			tr := &Transition{Source: n, Event: "done.invoke." + invokeID, Guard: invoke.OnDone.Guard, Actions: invoke.OnDone.Actions, Internal: invoke.OnDone.Internal}
			t.Alphabet[tr.Event] = struct{}{}
			n.Transitions = append(n.Transitions, tr)
			n.byEvent[tr.Event] = append(n.byEvent[tr.Event], tr)
			t.pendingInvoke = append(t.pendingInvoke, rawTarget{tr: tr, targets: invoke.OnDone.Target})
		}
		if invoke.OnError != nil {
			tr := &Transition{Source: n, Event: "error.platform." + invokeID, Guard: invoke.OnError.Guard, Actions: invoke.OnError.Actions, Internal: invoke.OnError.Internal}
			t.Alphabet[tr.Event] = struct{}{}
			n.Transitions = append(n.Transitions, tr)
			n.byEvent[tr.Event] = append(n.byEvent[tr.Event], tr)
			t.pendingInvoke = append(t.pendingInvoke, rawTarget{tr: tr, targets: invoke.OnError.Target})
		}
	}

	for i := range cfg.After {
		after := cfg.After[i]
		eventName := fmt.Sprintf("after(%s)#%s", after.Delay, n.ID)
		sendID := fmt.Sprintf("%s.after%d", n.ID, i)
		t.Alphabet[eventName] = struct{}{}

		tr := &Transition{Source: n, Event: eventName, Guard: after.Guard, Actions: after.Actions, Internal: after.Internal}
		n.Transitions = append(n.Transitions, tr)
		n.byEvent[tr.Event] = append(n.byEvent[tr.Event], tr)
		t.pendingInvoke = append(t.pendingInvoke, rawTarget{tr: tr, targets: after.Target})

		delay := after.Delay
		n.Entry = append(n.Entry, primitives.ActionDescriptor{
			Kind: primitives.ActionSend,
			Send: &primitives.SendSpec{
				ID:    sendID,
				To:    n.ID,
				Delay: delay,
				Event: func(ctx *primitives.ExtendedContext, e primitives.Event) primitives.Event {
					return primitives.NewEvent(eventName, nil)
				},
			},
		})
		n.Exit = append(n.Exit, primitives.ActionDescriptor{Kind: primitives.ActionCancel, CancelSendID: sendID})
	}

	docIdx := 0
	for _, event := range cfg.EventTypes() {
		configs, _ := cfg.On.Get(event)
		for _, tc := range configs {
			if event != primitives.NullEvent && event != primitives.Wildcard {
				t.Alphabet[event] = struct{}{}
			}
			tr := &Transition{
				Source:   n,
				Event:    event,
				Guard:    tc.Guard,
				Actions:  tc.Actions,
				Internal: tc.Internal,
				DocOrder: docIdx,
			}
			docIdx++
			n.Transitions = append(n.Transitions, tr)
			if event == primitives.NullEvent {
				n.transient = true
			}
			if event == primitives.Wildcard {
				n.wildcard = append(n.wildcard, tr)
			} else {
				n.byEvent[event] = append(n.byEvent[event], tr)
			}
		}
	}

	for _, key := range cfg.ChildKeys() {
		childCfg, _ := cfg.States.Get(key)
		child, err := t.buildNode(childCfg, n, append(path, key))
		if err != nil {
			return nil, err
		}
		n.Children[key] = child
		n.ChildOrder = append(n.ChildOrder, key)
	}

	if cfg.Type == primitives.Compound {
		if _, ok := n.Children[cfg.Initial]; !ok {
			return nil, primitives.WrapConfigError(
				fmt.Errorf("%w: initial child %q not found under %q", primitives.ErrInvalidConfiguration, cfg.Initial, n.ID),
				t.MachineID, n.ID)
		}
	}

	return n, nil
}

// rawTargets pairs each built Transition with the raw target strings and
// history-target string from its originating config, since Node/Transition
// drop those once pass 1 completes.
type rawTarget struct {
	tr      *Transition
	targets []string
	in      string
}

// resolveAll is pass 2: resolves every transition's target list and every
// history node's default target, now that every node id is known.
func (t *Tree) resolveAll(cfg *primitives.MachineConfig) error {
	var raws []rawTarget
	if err := t.walk(t.Root, cfg.Root, &raws); err != nil {
		return err
	}
	raws = append(raws, t.pendingInvoke...)
	for _, rt := range raws {
		targets := make([]*Node, 0, len(rt.targets))
		for _, raw := range rt.targets {
			target, err := t.ResolveTarget(rt.tr.Source, raw)
			if err != nil {
				return primitives.WrapConfigError(err, t.MachineID, rt.tr.Source.ID)
			}
			targets = append(targets, target)
		}
		rt.tr.Targets = targets

		if rt.in != "" {
			inNode, err := t.ResolveTarget(rt.tr.Source, rt.in)
			if err != nil {
				return primitives.WrapConfigError(err, t.MachineID, rt.tr.Source.ID)
			}
			rt.tr.In = inNode
		}
	}

	return t.resolveHistory(cfg.Root)
}

// walk pairs each built Transition with its raw target strings by walking
// the original config tree in lockstep with the already-built node tree
// (same traversal order), since StateConfig keeps raw target paths that
// Node/Transition do not.
func (t *Tree) walk(n *Node, cfg *primitives.StateConfig, out *[]rawTarget) error {
	// n.Transitions holds the invoke-done/error and after-delay transitions
	// lowered in buildNode ahead of the On-declared ones, in that order; the
	// On-declared transitions occupy exactly its trailing totalOn entries.
	totalOn := 0
	for _, event := range cfg.EventTypes() {
		configs, _ := cfg.On.Get(event)
		totalOn += len(configs)
	}
	idx := len(n.Transitions) - totalOn
	for _, event := range cfg.EventTypes() {
		configs, _ := cfg.On.Get(event)
		for _, tc := range configs {
			if idx >= len(n.Transitions) {
				return fmt.Errorf("internal error: transition count mismatch on %q", n.ID)
			}
			*out = append(*out, rawTarget{tr: n.Transitions[idx], targets: tc.Target, in: tc.In})
			idx++
		}
	}
	for _, key := range cfg.ChildKeys() {
		childCfg, _ := cfg.States.Get(key)
		childNode, ok := n.Children[key]
		if !ok {
			return fmt.Errorf("internal error: missing built child %q under %q", key, n.ID)
		}
		if err := t.walk(childNode, childCfg, out); err != nil {
			return err
		}
	}
	return nil
}

// resolveHistory resolves every history node's default target, walking the
// config tree alongside the node tree for the raw target string.
func (t *Tree) resolveHistory(cfg *primitives.StateConfig) error {
	return t.walkHistory(t.Root, cfg)
}

func (t *Tree) walkHistory(n *Node, cfg *primitives.StateConfig) error {
	if cfg.Type == primitives.History && cfg.HistoryTarget != "" {
		target, err := t.ResolveTarget(n, cfg.HistoryTarget)
		if err != nil {
			return primitives.WrapConfigError(err, t.MachineID, n.ID)
		}
		n.HistoryTarget = target
	}
	for _, key := range cfg.ChildKeys() {
		childCfg, _ := cfg.States.Get(key)
		childNode := n.Children[key]
		if err := t.walkHistory(childNode, childCfg); err != nil {
			return err
		}
	}
	return nil
}

// ResolveTarget resolves a raw target path string relative to source,
// following the policy in the design notes: "#id" is absolute, a leading
// delimiter is relative to source itself, and a bare path is tried first
// as a sibling of source, then as a descendant of source, then as a path
// from the tree root.
func (t *Tree) ResolveTarget(source *Node, raw string) (*Node, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty target", primitives.ErrUnresolvableTarget)
	}
	if strings.HasPrefix(raw, "#") {
		id := raw[1:]
		if n, ok := t.ByID[id]; ok {
			return n, nil
		}
		return nil, fmt.Errorf("%w: no state with id %q", primitives.ErrNoSuchState, id)
	}
	if strings.HasPrefix(raw, t.Delimiter) {
		segments := strings.Split(strings.TrimPrefix(raw, t.Delimiter), t.Delimiter)
		return t.descend(source, segments)
	}

	segments := strings.Split(raw, t.Delimiter)
	if source.Parent != nil {
		if sib, err := t.descend(source.Parent, segments); err == nil {
			return sib, nil
		}
	}
	if n, err := t.descend(source, segments); err == nil {
		return n, nil
	}
	if n, err := t.descend(t.Root, segments); err == nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q from %q", primitives.ErrUnresolvableTarget, raw, source.ID)
}

func (t *Tree) descend(from *Node, segments []string) (*Node, error) {
	cur := from
	for _, seg := range segments {
		child, ok := cur.Children[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no child %q", primitives.ErrUnresolvableTarget, cur.ID, seg)
		}
		cur = child
	}
	return cur, nil
}

// ByPath resolves a dotted path of child keys from the root.
func (t *Tree) ByPath(path string) (*Node, error) {
	if path == "" {
		return t.Root, nil
	}
	return t.descend(t.Root, strings.Split(path, t.Delimiter))
}
