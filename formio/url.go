package formio

import (
	"net/url"
	"strings"
)

// ReadURL returns the resource URL of an existing submission:
// {projectURL}/form/{formID}/submission/{id}.
func ReadURL(projectURL, formID, id string) string {
	return CreateURL(projectURL, formID) + "/" + url.PathEscape(id)
}

// CreateURL returns the collection URL new submissions are posted to:
// {projectURL}/form/{formID}/submission.
func CreateURL(projectURL, formID string) string {
	return strings.TrimRight(projectURL, "/") + "/form/" + url.PathEscape(formID) + "/submission"
}

// UpdateURL returns the resource URL an existing submission is saved to.
// Same shape as ReadURL.
func UpdateURL(projectURL, formID, id string) string {
	return ReadURL(projectURL, formID, id)
}

// SubmissionURL picks UpdateURL when id is set and CreateURL otherwise.
func SubmissionURL(projectURL, formID, id string) string {
	if id == "" {
		return CreateURL(projectURL, formID)
	}
	return UpdateURL(projectURL, formID, id)
}
