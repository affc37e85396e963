// Package model contains domain types for the pulse application.
// These types are independent of any external GitHub library.
package model

import "time"

// IssueState represents the lifecycle state of an issue.
type IssueState string

const (
	IssueOpen   IssueState = "OPEN"
	IssueClosed IssueState = "CLOSED"
)

// Milestone is the milestone reference carried by an issue.
type Milestone struct {
	Title string     `json:"title"`
	DueOn *time.Time `json:"dueOn,omitempty"`
}

// Issue represents a GitHub issue in the shape the analyzers consume.
// Analyzers treat an Issue as an immutable value for the duration of one
// analysis pass.
type Issue struct {
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	State      IssueState `json:"state"`
	Labels     []string   `json:"labels,omitempty"`
	Assignees  []string   `json:"assignees,omitempty"`
	Milestone  *Milestone `json:"milestone,omitempty"`
	Repository string     `json:"repository"` // owner/name
	CreatedAt  time.Time  `json:"createdAt"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	HTMLURL    string     `json:"htmlUrl,omitempty"`
}

// HasDueDate reports whether the issue belongs to a milestone with a due date.
func (i *Issue) HasDueDate() bool {
	return i.Milestone != nil && i.Milestone.DueOn != nil
}
