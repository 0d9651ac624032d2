// Package types defines the shared record types for formstate.
//
//nolint:revive // types is a common Go package naming convention
package types

import "maps"

// IDKey is the record field holding the server-assigned submission identifier.
const IDKey = "_id"

// Submission is a single filled-in form instance as returned by the form service.
// The payload is kept schemaless; only the identifier is interpreted.
type Submission map[string]any

// ID returns the submission identifier, or "" when the record is new or the
// identifier is not a string.
func (s Submission) ID() string {
	if s == nil {
		return ""
	}
	id, _ := s[IDKey].(string)
	return id
}

// HasID reports whether the record carries a non-empty identifier.
func (s Submission) HasID() bool {
	return s.ID() != ""
}

// Data returns the nested "data" object, or nil when absent.
func (s Submission) Data() map[string]any {
	if s == nil {
		return nil
	}
	data, _ := s["data"].(map[string]any)
	return data
}

// Clone returns a shallow copy. A nil record clones to an empty one.
func (s Submission) Clone() Submission {
	out := make(Submission, len(s))
	maps.Copy(out, s)
	return out
}
