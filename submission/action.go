package submission

import "github.com/pithecene-io/formstate/types"

// ActionType is the stable wire name of an action, used in logs and events.
type ActionType string

// Action type names.
const (
	TypeClearError ActionType = "SUBMISSION_CLEAR_ERROR"
	TypeRequest    ActionType = "SUBMISSION_REQUEST"
	TypeSave       ActionType = "SUBMISSION_SAVE"
	TypeSuccess    ActionType = "SUBMISSION_SUCCESS"
	TypeFailure    ActionType = "SUBMISSION_FAILURE"
	TypeReset      ActionType = "SUBMISSION_RESET"
)

// Action is a state transition. The set is closed: only the types in this
// file implement it.
type Action interface {
	Type() ActionType
	isAction()
}

// ClearError clears the last error message and nothing else.
type ClearError struct{}

// Request starts loading an existing submission.
type Request struct {
	ID     string
	FormID string
	URL    string
}

// Save starts persisting a submission. An empty URL keeps the current one.
type Save struct {
	ID     string
	FormID string
	URL    string
}

// Success resolves a pending request with the record returned by the service.
// An empty URL keeps the current one.
type Success struct {
	Submission types.Submission
	URL        string
}

// Failure resolves a pending request with the transport error.
type Failure struct {
	Err error
}

// Reset returns the store to InitialState.
type Reset struct{}

func (ClearError) Type() ActionType { return TypeClearError }
func (Request) Type() ActionType    { return TypeRequest }
func (Save) Type() ActionType       { return TypeSave }
func (Success) Type() ActionType    { return TypeSuccess }
func (Failure) Type() ActionType    { return TypeFailure }
func (Reset) Type() ActionType      { return TypeReset }

func (ClearError) isAction() {}
func (Request) isAction()    {}
func (Save) isAction()       {}
func (Success) isAction()    {}
func (Failure) isAction()    {}
func (Reset) isAction()      {}
