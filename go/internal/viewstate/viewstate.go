// Package viewstate holds the per-screen state unions: one View for the
// screen's data and one Action for the mutation currently in flight.
package viewstate

// Phase of a screen's data.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseFailed
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseFailed:
		return "failed"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// View is Loading, Failed(reason) or Ready(data). The zero value is Loading.
type View[T any] struct {
	phase  Phase
	reason string
	data   T
}

func Loading[T any]() View[T] {
	return View[T]{phase: PhaseLoading}
}

func Failed[T any](reason string) View[T] {
	return View[T]{phase: PhaseFailed, reason: reason}
}

func Ready[T any](data T) View[T] {
	return View[T]{phase: PhaseReady, data: data}
}

func (v View[T]) Phase() Phase { return v.phase }

func (v View[T]) IsLoading() bool { return v.phase == PhaseLoading }

func (v View[T]) IsFailed() bool { return v.phase == PhaseFailed }

func (v View[T]) IsReady() bool { return v.phase == PhaseReady }

// Reason is the failure reason; empty unless Failed.
func (v View[T]) Reason() string { return v.reason }

// Data returns the ready data and whether the view is Ready.
func (v View[T]) Data() (T, bool) {
	return v.data, v.phase == PhaseReady
}

// ActionPhase of a mutating operation.
type ActionPhase int

const (
	ActionIdle ActionPhase = iota
	ActionSubmitting
	ActionSucceeded
	ActionFailed
)

func (p ActionPhase) String() string {
	switch p {
	case ActionIdle:
		return "idle"
	case ActionSubmitting:
		return "submitting"
	case ActionSucceeded:
		return "succeeded"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Action is Idle, Submitting, Succeeded(outcome) or Failed(reason).
type Action[O any] struct {
	phase   ActionPhase
	outcome O
	reason  string
}

func Idle[O any]() Action[O] { return Action[O]{phase: ActionIdle} }

func Submitting[O any]() Action[O] { return Action[O]{phase: ActionSubmitting} }

func Succeeded[O any](outcome O) Action[O] {
	return Action[O]{phase: ActionSucceeded, outcome: outcome}
}

func ActionFailedWith[O any](reason string) Action[O] {
	return Action[O]{phase: ActionFailed, reason: reason}
}

func (a Action[O]) Phase() ActionPhase { return a.phase }

func (a Action[O]) IsSubmitting() bool { return a.phase == ActionSubmitting }

func (a Action[O]) Reason() string { return a.reason }

// Outcome returns the success outcome and whether the action Succeeded.
func (a Action[O]) Outcome() (O, bool) {
	return a.outcome, a.phase == ActionSucceeded
}
