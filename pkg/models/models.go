package models

import (
	"time"
)

// Identity models

// Person holds the per-system handles for one team member. The tracker name is
// the canonical spelling used when writing assignees back to the task tracker.
type Person struct {
	TrackerName      string `json:"tracker_name" koanf:"tracker_name"`
	GitHubLogin      string `json:"github_login" koanf:"github_login"`
	SlackID          string `json:"slack_id" koanf:"slack_id"`
	SlackDisplayName string `json:"slack_display_name" koanf:"slack_display_name"`
}

// UnassignedName is the fallback assignee used when a raw name cannot be
// resolved to any known person.
const UnassignedName = "Unassigned"

// Source control models

// Commit represents a single commit fetched from the source-control host.
type Commit struct {
	SHA         string    `json:"sha"`
	AuthorLogin string    `json:"author_login"` // empty when the host has no account for the author
	Message     string    `json:"message"`
	AuthoredAt  time.Time `json:"authored_at"`
	HTMLURL     string    `json:"html_url,omitempty"`
}

// ShortSHA returns the abbreviated commit id used in human-facing listings.
func (c Commit) ShortSHA() string {
	if len(c.SHA) <= 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Task tracker models

// TaskStatus is the lifecycle state of a tracker task.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// Task represents a single row in the task tracker database.
type Task struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Assignee string     `json:"assignee,omitempty"`
	Status   TaskStatus `json:"status,omitempty"`
	Due      *time.Time `json:"due,omitempty"`
}

// Standup models

// TaskRef is the (title, status) pair carried into a person's activity bundle.
type TaskRef struct {
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
}

// ActivityBundle collects one person's recent activity across systems,
// in fetch order.
type ActivityBundle struct {
	CommitMessages []string  `json:"commit_messages"`
	Tasks          []TaskRef `json:"tasks"`
}

// Empty reports whether the bundle carries no activity at all.
func (b *ActivityBundle) Empty() bool {
	return len(b.CommitMessages) == 0 && len(b.Tasks) == 0
}

// Meeting models

// ActionItem is a single task extracted from a meeting transcript.
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
}

// MeetingSummary is the structured output the summarization model returns
// for a transcript.
type MeetingSummary struct {
	Summary     string       `json:"summary"`
	Topics      []string     `json:"topics"`
	ActionItems []ActionItem `json:"action_items"`
}

// MeetingRecord is the stored result of ingesting one meeting.
type MeetingRecord struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Timestamp        time.Time       `json:"timestamp"`
	Transcript       string          `json:"transcript"`
	Structured       *MeetingSummary `json:"structured,omitempty"`
	FormattedSummary string          `json:"formatted_summary"`
	TasksCreated     int             `json:"tasks_created"`
}
