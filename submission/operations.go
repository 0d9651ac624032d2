package submission

import (
	"context"

	"github.com/pithecene-io/formstate/formio"
	"github.com/pithecene-io/formstate/metrics"
	"github.com/pithecene-io/formstate/types"
)

// Done is the completion callback of an operation. It is called exactly
// once, with either a non-nil err or the result. A nil Done is a no-op.
type Done func(err error, result any)

func (d Done) call(err error, result any) {
	if d != nil {
		d(err, result)
	}
}

// Fetch loads submission id of form formID.
//
// The store goes Pending, then Success with the loaded record or Failure
// with the client error. done receives (nil, record) or (err, nil).
func (s *Store) Fetch(ctx context.Context, id, formID string, done Done) (types.Submission, error) {
	url := formio.ReadURL(s.projectURL, formID, id)
	s.metrics.IncStarted(metrics.OpFetch)

	s.Dispatch(Request{ID: id, FormID: formID, URL: url})

	result, err := s.client(url).LoadSubmission(ctx)
	if err != nil {
		return nil, s.fail(metrics.OpFetch, formID, id, err, done)
	}

	s.metrics.IncSucceeded(metrics.OpFetch)
	s.Dispatch(Success{Submission: result})
	done.call(nil, result)
	return result, nil
}

// Save persists data to form formID.
//
// Records carrying an _id are updated in place; others are created. On
// success the store URL is rebuilt from the _id of the returned record, not
// the input.
func (s *Store) Save(ctx context.Context, data types.Submission, formID string, done Done) (types.Submission, error) {
	id := data.ID()
	url := formio.SubmissionURL(s.projectURL, formID, id)
	s.metrics.IncStarted(metrics.OpSave)

	// Creates keep the previous resource URL until the new id is known.
	pending := Save{ID: id, FormID: formID}
	if id != "" {
		pending.URL = url
	}
	s.Dispatch(pending)

	result, err := s.client(url).SaveSubmission(ctx, data)
	if err != nil {
		return nil, s.fail(metrics.OpSave, formID, id, err, done)
	}

	s.metrics.IncSucceeded(metrics.OpSave)
	s.Dispatch(Success{
		Submission: result,
		URL:        formio.ReadURL(s.projectURL, formID, result.ID()),
	})
	done.call(nil, result)
	return result, nil
}

// Delete removes submission id of form formID.
//
// Success resets the store to InitialState and calls done(nil, true).
func (s *Store) Delete(ctx context.Context, id, formID string, done Done) error {
	s.metrics.IncStarted(metrics.OpDelete)
	if id == "" {
		return s.fail(metrics.OpDelete, formID, id, ErrMissingID, done)
	}

	url := formio.ReadURL(s.projectURL, formID, id)
	if err := s.client(url).DeleteSubmission(ctx); err != nil {
		return s.fail(metrics.OpDelete, formID, id, err, done)
	}

	s.metrics.IncSucceeded(metrics.OpDelete)
	s.Dispatch(Reset{})
	done.call(nil, true)
	return nil
}

// fail records err in the store, calls done and returns the wrapped error.
func (s *Store) fail(op, formID, id string, err error, done Done) error {
	s.metrics.IncFailed(op)
	s.logger.Warn("submission operation failed", map[string]any{
		"op":            op,
		"form_id":       formID,
		"submission_id": id,
		"error":         err.Error(),
	})

	s.Dispatch(Failure{Err: err})
	done.call(err, nil)
	return &OperationError{Op: op, Err: err}
}
