// Package submission holds the state container for one form submission.
//
// The package is split in two layers:
//   - Reduce: a pure (State, Action) -> State function over a closed action set
//   - Store: an owned state handle that serializes dispatches, notifies
//     subscribers and runs the Fetch/Save/Delete operations against a
//     form-service Client
//
// Consumers receive State copies and a Dispatch method, never a mutable
// reference to the store's state.
package submission

import "github.com/pithecene-io/formstate/types"

// Phase is the informal lifecycle grouping of a State.
type Phase string

// Phase values.
const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "succeeded"
	PhaseFailure Phase = "failed"
)

// State is a snapshot of the submission being edited.
type State struct {
	// FormID identifies the parent form.
	FormID string `json:"form_id" yaml:"form_id"`
	// ID identifies the submission record; empty when new or unset.
	ID string `json:"id" yaml:"id"`
	// IsActive is true while a request is in flight.
	IsActive bool `json:"is_active" yaml:"is_active"`
	// Submission is the last-known payload. Empty (never nil) while pending.
	Submission types.Submission `json:"submission" yaml:"submission"`
	// URL is the last resource URL used.
	URL string `json:"url" yaml:"url"`
	// Error is the message of the last failure.
	Error string `json:"error" yaml:"error"`
	// Err is the raw failure as raised by the transport, unexamined.
	Err error `json:"-" yaml:"-"`
	// IsInvalid is set on failure and only cleared by a full reset.
	IsInvalid bool `json:"is_invalid" yaml:"is_invalid"`
}

// InitialState returns the snapshot a store starts from and resets to.
func InitialState() State {
	return State{Submission: types.Submission{}}
}

// Phase derives the lifecycle phase from the state fields.
func (s State) Phase() Phase {
	switch {
	case s.IsActive:
		return PhasePending
	case s.Err != nil || s.Error != "":
		return PhaseFailure
	case s.ID != "" || len(s.Submission) > 0:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// clone returns a copy whose Submission map is not shared with s.
func (s State) clone() State {
	s.Submission = s.Submission.Clone()
	return s
}
