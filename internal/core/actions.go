package core

import (
	"strconv"

	"github.com/latticefsm/statecore/internal/primitives"
)

// FoldActions resolves a list of action descriptors in order against ctx,
// threading context updates and accumulating raised events and the
// descriptors meant for the host to execute (log, start, stop, cancel, a
// send whose target isn't "internal", unlabeled custom actions, and any
// descriptor whose Kind is not one of the package's known kinds). Assign
// updates ctx immediately; raise enqueues onto the internal event queue the
// microstep engine drains; a send targeting "internal" enqueues there too
// instead of forwarding to the host; pure and labeled custom actions expand
// recursively through the same fold, so a pure action may itself raise or
// assign. A start action whose Src names a registered service or activity is
// resolved against reg before forwarding, and an outbound send's named delay
// is resolved into its millisecond value the same way.
func FoldActions(descs []primitives.ActionDescriptor, ctx *primitives.ExtendedContext, event primitives.Event, reg *Registries) (*primitives.ExtendedContext, []primitives.Event, []primitives.ActionDescriptor, error) {
	var raised []primitives.Event
	var forwarded []primitives.ActionDescriptor
	cur := ctx
	for _, d := range descs {
		next, err := foldOne(d, cur, event, reg, &raised, &forwarded)
		if err != nil {
			return cur, raised, forwarded, err
		}
		cur = next
	}
	return cur, raised, forwarded, nil
}

func foldOne(d primitives.ActionDescriptor, ctx *primitives.ExtendedContext, event primitives.Event, reg *Registries, raised *[]primitives.Event, forwarded *[]primitives.ActionDescriptor) (*primitives.ExtendedContext, error) {
	switch d.Kind {
	case primitives.ActionAssign:
		if d.Assign == nil {
			return ctx, primitives.ErrAssignEvaluationFailed
		}
		updates, err := d.Assign(ctx, event)
		if err != nil {
			return ctx, primitives.ErrAssignEvaluationFailed
		}
		if len(updates) == 0 {
			return ctx, nil
		}
		return ctx.With(updates), nil

	case primitives.ActionRaise:
		if d.Raise == nil {
			return ctx, primitives.ErrActionEvaluationFailed
		}
		*raised = append(*raised, d.Raise(ctx, event))
		return ctx, nil

	case primitives.ActionPure:
		if d.Pure == nil {
			return ctx, primitives.ErrActionEvaluationFailed
		}
		return foldSub(d.Pure(ctx, event), ctx, event, reg, raised, forwarded)

	case primitives.ActionCustom:
		if d.Label == "" {
			*forwarded = append(*forwarded, d)
			return ctx, nil
		}
		fn, ok := reg.action(d.Label)
		if !ok {
			return ctx, primitives.ErrUnknownAction
		}
		return foldSub(fn(ctx, event), ctx, event, reg, raised, forwarded)

	case primitives.ActionSend:
		if d.Send == nil {
			return ctx, primitives.ErrActionEvaluationFailed
		}
		if d.Send.To == "internal" {
			if d.Send.Event == nil {
				return ctx, primitives.ErrActionEvaluationFailed
			}
			*raised = append(*raised, d.Send.Event(ctx, event))
			return ctx, nil
		}
		resolved, err := resolveDelay(reg, *d.Send)
		if err != nil {
			return ctx, err
		}
		d.Send = &resolved
		*forwarded = append(*forwarded, d)
		return ctx, nil

	case primitives.ActionStart:
		if d.Activity == nil {
			return ctx, primitives.ErrActionEvaluationFailed
		}
		if d.Activity.Src != "" {
			if d.Activity.Service {
				if !reg.hasService(d.Activity.Src) {
					return ctx, primitives.ErrUnknownService
				}
			} else if !reg.hasActivity(d.Activity.Src) {
				return ctx, primitives.ErrUnknownService
			}
		}
		*forwarded = append(*forwarded, d)
		return ctx, nil

	case primitives.ActionLog, primitives.ActionStop, primitives.ActionCancel:
		*forwarded = append(*forwarded, d)
		return ctx, nil

	default:
		*forwarded = append(*forwarded, d)
		return ctx, nil
	}
}

// resolveDelay returns a copy of send with a named Delay ("retryDelay")
// replaced by its millisecond value from reg's delays registry. A Delay
// that already parses as an integer (a literal ms count) passes through
// unresolved, matching SendSpec.Delay's documented "literal or name" shape.
func resolveDelay(reg *Registries, send primitives.SendSpec) (primitives.SendSpec, error) {
	if send.Delay == "" {
		return send, nil
	}
	if _, err := strconv.Atoi(send.Delay); err == nil {
		return send, nil
	}
	ms, ok := reg.delay(send.Delay)
	if !ok {
		return send, primitives.ErrUnknownDelay
	}
	send.Delay = strconv.Itoa(ms)
	return send, nil
}

func foldSub(subs []primitives.ActionDescriptor, ctx *primitives.ExtendedContext, event primitives.Event, reg *Registries, raised *[]primitives.Event, forwarded *[]primitives.ActionDescriptor) (*primitives.ExtendedContext, error) {
	cur := ctx
	for _, sub := range subs {
		next, err := foldOne(sub, cur, event, reg, raised, forwarded)
		if err != nil {
			return cur, err
		}
		cur = next
	}
	return cur, nil
}
