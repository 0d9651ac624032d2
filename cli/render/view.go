package render

import (
	"github.com/pithecene-io/formstate/submission"
	"github.com/pithecene-io/formstate/types"
)

// StateView is the rendered form of a store snapshot.
type StateView struct {
	StoreID    string           `json:"store_id" yaml:"store_id"`
	Action     string           `json:"action,omitempty" yaml:"action,omitempty"`
	Phase      string           `json:"phase" yaml:"phase"`
	FormID     string           `json:"form_id" yaml:"form_id"`
	ID         string           `json:"id" yaml:"id"`
	URL        string           `json:"url" yaml:"url"`
	IsActive   bool             `json:"is_active" yaml:"is_active"`
	IsInvalid  bool             `json:"is_invalid" yaml:"is_invalid"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
	Submission types.Submission `json:"submission" yaml:"submission"`
}

// NewStateView builds a view of s. action names the last dispatched
// action and may be empty.
func NewStateView(storeID, action string, s submission.State) StateView {
	sub := s.Submission
	if sub == nil {
		sub = types.Submission{}
	}
	return StateView{
		StoreID:    storeID,
		Action:     action,
		Phase:      string(s.Phase()),
		FormID:     s.FormID,
		ID:         s.ID,
		URL:        s.URL,
		IsActive:   s.IsActive,
		IsInvalid:  s.IsInvalid,
		Error:      s.Error,
		Submission: sub,
	}
}
