// Descriptors model actions, guards, and their payload factories as tagged
// variants, per the design note "polymorphic action/guard/transition
// descriptors": a fixed set of kinds, with unknown kinds round-tripping as
// custom.
package primitives

// ActionKind tags the variant carried by an ActionDescriptor.
type ActionKind string

const (
	ActionAssign ActionKind = "assign"
	ActionRaise  ActionKind = "raise"
	ActionSend   ActionKind = "send"
	ActionLog    ActionKind = "log"
	ActionPure   ActionKind = "pure"
	ActionStart  ActionKind = "start"
	ActionStop   ActionKind = "stop"
	ActionCancel ActionKind = "cancel"
	ActionCustom ActionKind = "custom"
)

// AssignFunc computes a set of context updates from the pre-action context
// and the triggering event. Returning a nil/empty map is a no-op assign.
type AssignFunc func(ctx *ExtendedContext, event Event) (map[string]any, error)

// EventFactory builds an event payload dynamically from context and the
// triggering event, used by raise/send actions.
type EventFactory func(ctx *ExtendedContext, event Event) Event

// PureFunc returns a list of action descriptors to resolve in its place.
type PureFunc func(ctx *ExtendedContext, event Event) []ActionDescriptor

// LogFunc resolves a diagnostic expression for a log action.
type LogFunc func(ctx *ExtendedContext, event Event) any

// SendSpec describes a send action's destination, payload, and delay.
type SendSpec struct {
	// ID optionally names the send, enabling a later cancel action to
	// reference it.
	ID string
	// To is a target node id, the special target "internal" (routes onto
	// the raised-events queue rather than out as a side effect), or an
	// opaque actor reference understood by the host runtime.
	To string
	// Event builds the outgoing event from context and the triggering event.
	Event EventFactory
	// Delay is either a numeric literal in milliseconds ("250") or a name
	// resolved against the delay registry ("retryDelay"). Empty means
	// immediate.
	Delay string
}

// ActivitySpec names an activity or invocation lowered from a state's
// `activities`/`invoke` declarations into start/stop action descriptors.
type ActivitySpec struct {
	// ID names the running instance (defaults to the activity's declared
	// name for bare activities; invocation ids are caller-supplied).
	ID string
	// Src names the service/activity in the services or activities
	// registry that the host runtime should instantiate.
	Src string
	// Data seeds the invoked/started worker.
	Data map[string]any
	// Service marks a spec lowered from an invoke declaration: Src resolves
	// against the services registry rather than the activities registry.
	Service bool
}

// ActionDescriptor is a tagged union of the action kinds the resolver
// understands. Only the fields relevant to Kind are populated.
type ActionDescriptor struct {
	Kind ActionKind

	// Label names a registry entry for Kind==ActionCustom ("named" custom
	// actions); when empty, a custom action is forwarded verbatim as a
	// soft, tolerated case. Also used as the diagnostic name of inline
	// actions for logging.
	Label string

	Assign AssignFunc

	// Raise/Send share an EventFactory; Raise always lands on the
	// internal queue, Send is routed per SendSpec.To.
	Raise EventFactory
	Send  *SendSpec

	LogLabel string
	LogExpr  LogFunc

	Pure PureFunc

	// Activity carries the activity/invocation spec for Start/Stop.
	Activity *ActivitySpec

	// CancelSendID names the send to cancel, for Kind==ActionCancel.
	CancelSendID string

	// CustomPayload carries opaque data for Kind==ActionCustom actions
	// forwarded to the host runtime verbatim.
	CustomPayload any
}

// GuardKind tags the variant carried by a GuardDescriptor.
type GuardKind string

const (
	GuardInline GuardKind = "inline"
	GuardNamed  GuardKind = "named"
)

// GuardFunc evaluates a guard condition against context and event.
type GuardFunc func(ctx *ExtendedContext, event Event) bool

// GuardDescriptor is a tagged guard: an inline predicate function, or a name
// resolved lazily against the guards registry.
type GuardDescriptor struct {
	Kind GuardKind
	Name string
	Fn   GuardFunc
}

// InlineGuard wraps a plain predicate as an inline GuardDescriptor.
func InlineGuard(fn GuardFunc) *GuardDescriptor {
	return &GuardDescriptor{Kind: GuardInline, Fn: fn}
}

// NamedGuard references a guard registered in the machine's guards registry.
func NamedGuard(name string) *GuardDescriptor {
	return &GuardDescriptor{Kind: GuardNamed, Name: name}
}
