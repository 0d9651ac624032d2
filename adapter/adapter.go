// Package adapter defines the downstream notification boundary.
//
// Adapters publish one submission_changed event per store dispatch to a
// downstream system (an HTTP endpoint, a Redis channel). The CLI owns adapter
// lifecycle; users provide configuration only.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pithecene-io/formstate/submission"
	"github.com/pithecene-io/formstate/types"
)

// EventTypeSubmissionChanged is the only event type published.
const EventTypeSubmissionChanged = "submission_changed"

// SubmissionChangedEvent is the payload published after a dispatch.
type SubmissionChangedEvent struct {
	ContractVersion string `json:"contract_version" msgpack:"contract_version"`
	EventType       string `json:"event_type" msgpack:"event_type"` // always "submission_changed"
	EventID         string `json:"event_id" msgpack:"event_id"`
	StoreID         string `json:"store_id" msgpack:"store_id"`
	Action          string `json:"action" msgpack:"action"` // SUBMISSION_REQUEST, ...
	Phase           string `json:"phase" msgpack:"phase"`
	FormID          string `json:"form_id" msgpack:"form_id"`
	SubmissionID    string `json:"submission_id" msgpack:"submission_id"`
	URL             string `json:"url" msgpack:"url"`
	IsActive        bool   `json:"is_active" msgpack:"is_active"`
	IsInvalid       bool   `json:"is_invalid" msgpack:"is_invalid"`
	Error           string `json:"error,omitempty" msgpack:"error,omitempty"`
	Timestamp       string `json:"timestamp" msgpack:"timestamp"` // RFC 3339
}

// NewEvent builds the event for one dispatch. The submission payload itself
// is not included; downstream systems fetch it if they need it.
func NewEvent(storeID string, a submission.Action, s submission.State, now time.Time) *SubmissionChangedEvent {
	ev := &SubmissionChangedEvent{
		ContractVersion: types.ContractVersion,
		EventType:       EventTypeSubmissionChanged,
		EventID:         uuid.Must(uuid.NewV7()).String(),
		StoreID:         storeID,
		Phase:           string(s.Phase()),
		FormID:          s.FormID,
		SubmissionID:    s.ID,
		URL:             s.URL,
		IsActive:        s.IsActive,
		IsInvalid:       s.IsInvalid,
		Error:           s.Error,
		Timestamp:       now.UTC().Format(time.RFC3339Nano),
	}
	if a != nil {
		ev.Action = string(a.Type())
	}
	return ev
}

// Adapter publishes submission events to a downstream system.
type Adapter interface {
	// Publish sends one event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *SubmissionChangedEvent) error

	// Close releases adapter resources.
	Close() error
}
