package domain

// Metadata carries the upstream-specific payload attached to an activity.
// Every field is optional; classification rules and priority inference treat
// absent fields as non-matching rather than as errors. JSON tags define the
// dot-path vocabulary rule expressions address.
type Metadata struct {
	Issue       *Issue           `json:"issue,omitempty"`
	PullRequest *PullRequest     `json:"pullRequest,omitempty"`
	Commits     []Commit         `json:"commits,omitempty"`
	Comments    []Comment        `json:"comments,omitempty"`
	Attachments []Attachment     `json:"attachments,omitempty"`
	ChangeLog   []ChangeLogEntry `json:"changeLog,omitempty"`
	Page        *Page            `json:"page,omitempty"`
	Space       *Space           `json:"space,omitempty"`
	Label       *Label           `json:"label,omitempty"`
	Repository  string           `json:"repository,omitempty"`
}

// Issue describes the Jira issue an activity refers to.
type Issue struct {
	Key      string `json:"key"`
	Project  string `json:"project,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// PullRequest describes the GitHub pull request an activity refers to.
type PullRequest struct {
	Ref   string `json:"ref"`
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// Commit is one commit attached to a code activity.
type Commit struct {
	Ref     string `json:"ref,omitempty"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// Comment is one comment attached to an issue, pull request, or page.
type Comment struct {
	Author string `json:"author,omitempty"`
	Body   string `json:"body"`
	URI    string `json:"uri,omitempty"`
}

// Attachment is one file attached to an upstream object.
type Attachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// ChangeLogEntry is one field transition from a Jira change log.
type ChangeLogEntry struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue,omitempty"`
	NewValue string `json:"newValue,omitempty"`
}

// Page describes the Confluence page an activity refers to.
type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Version int    `json:"version,omitempty"`
}

// Space describes the Confluence space an activity refers to.
type Space struct {
	Key   string `json:"key"`
	Title string `json:"title,omitempty"`
}

// Label is one label applied by an upstream labeling event.
type Label struct {
	Name string `json:"name"`
}
