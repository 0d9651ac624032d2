package submission

import "github.com/pithecene-io/formstate/types"

// Reduce applies a to s and returns the next state. It never mutates s.
// Unknown actions (nil included) return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ClearError:
		s.Error = ""
		s.Err = nil
		return s

	case Request:
		s.FormID = a.FormID
		s.ID = a.ID
		s.URL = a.URL
		s.Submission = types.Submission{}
		s.IsActive = true
		return s

	case Save:
		s.FormID = a.FormID
		s.ID = a.ID
		if a.URL != "" {
			s.URL = a.URL
		}
		s.Submission = types.Submission{}
		s.IsActive = true
		return s

	case Success:
		s.ID = a.Submission.ID()
		s.Submission = a.Submission.Clone()
		if a.URL != "" {
			s.URL = a.URL
		}
		s.IsActive = false
		s.Error = ""
		s.Err = nil
		return s

	case Failure:
		s.IsActive = false
		// Sticky until Reset.
		s.IsInvalid = true
		s.Err = a.Err
		s.Error = errorMessage(a.Err)
		return s

	case Reset:
		return InitialState()

	default:
		return s
	}
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
