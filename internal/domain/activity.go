package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// Artifact classifies the kind of object an activity touched.
type Artifact string

// Artifact values.
const (
	ArtifactCode    Artifact = "code"
	ArtifactCodeOrg Artifact = "codeOrg"
	ArtifactTask    Artifact = "task"
	ArtifactTaskOrg Artifact = "taskOrg"
	ArtifactDoc     Artifact = "doc"
	ArtifactDocOrg  Artifact = "docOrg"
)

var validArtifacts = []Artifact{
	ArtifactCode,
	ArtifactCodeOrg,
	ArtifactTask,
	ArtifactTaskOrg,
	ArtifactDoc,
	ArtifactDocOrg,
}

// Artifacts returns every artifact kind in canonical order.
func Artifacts() []Artifact {
	return slices.Clone(validArtifacts)
}

// Phase identifies the delivery phase an activity belongs to.
type Phase string

// Phase values.
const (
	PhaseDesign    Phase = "design"
	PhaseDev       Phase = "dev"
	PhaseTest      Phase = "test"
	PhaseDeploy    Phase = "deploy"
	PhaseStabilize Phase = "stabilize"
	PhaseOps       Phase = "ops"
)

var validPhases = []Phase{
	PhaseDesign,
	PhaseDev,
	PhaseTest,
	PhaseDeploy,
	PhaseStabilize,
	PhaseOps,
}

// Phases returns every phase in canonical order.
func Phases() []Phase {
	return slices.Clone(validPhases)
}

// UnknownPriority marks an activity whose priority has not been provided
// upstream and has not been inferred from ticket references yet.
const UnknownPriority = -1

// Activity is one observed event from an upstream feed (GitHub, Jira,
// Confluence). InitiativeID and LaunchItemID are tri-state: nil means the
// activity has never been classified, an empty string means a user explicitly
// unset the classification, and any other value is a bucket id.
type Activity struct {
	ID               string    `json:"id"`
	Timestamp        int64     `json:"timestamp"`
	CreatedTimestamp int64     `json:"createdTimestamp,omitempty"`
	ActorID          string    `json:"actorId,omitempty"`
	Artifact         Artifact  `json:"artifact"`
	Action           string    `json:"action"`
	Event            string    `json:"event,omitempty"`
	EventType        string    `json:"eventType,omitempty"`
	InitiativeID     *string   `json:"initiativeId,omitempty"`
	LaunchItemID     *string   `json:"launchItemId,omitempty"`
	Priority         int       `json:"priority,omitempty"`
	Phase            Phase     `json:"phase,omitempty"`
	Effort           float64   `json:"effort,omitempty"`
	Note             string    `json:"note,omitempty"`
	Metadata         *Metadata `json:"metadata,omitempty"`
}

// NewActivity validates and canonicalizes an activity decoded from an
// upstream export. A priority of zero (absent in the wire format) is
// canonicalized to UnknownPriority.
func NewActivity(in Activity) (Activity, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ActorID = strings.TrimSpace(in.ActorID)
	in.Action = strings.TrimSpace(in.Action)
	in.Event = strings.TrimSpace(in.Event)
	in.EventType = strings.TrimSpace(in.EventType)

	if in.ID == "" {
		return Activity{}, ErrInvalidID
	}
	if in.Timestamp <= 0 {
		return Activity{}, ErrInvalidTimestamp
	}
	if in.CreatedTimestamp <= 0 {
		in.CreatedTimestamp = in.Timestamp
	}
	if in.Action == "" {
		return Activity{}, ErrInvalidAction
	}
	if !slices.Contains(validArtifacts, in.Artifact) {
		return Activity{}, ErrInvalidArtifact
	}
	if in.Phase != "" && !slices.Contains(validPhases, in.Phase) {
		return Activity{}, ErrInvalidPhase
	}
	if in.Effort < 0 {
		return Activity{}, ErrInvalidEffort
	}
	if in.Priority == 0 {
		in.Priority = UnknownPriority
	}
	return in, nil
}

// ArtifactActionKey combines artifact kind and action into the leaderboard
// grouping key, e.g. "code-created".
func (a Activity) ArtifactActionKey() string {
	return string(a.Artifact) + "-" + a.Action
}

// HasPriority reports whether the activity carries an explicit priority
// level (1 highest through 5 lowest).
func (a Activity) HasPriority() bool {
	return a.Priority >= 1
}

// Env returns the nested map view of the activity that classification rules
// evaluate against. Field names follow the activity's JSON encoding, so rule
// authors address the same vocabulary the wire format uses
// ("metadata.issue.key", "metadata.commits_1st.message").
func (a Activity) Env() map[string]any {
	raw, err := json.Marshal(a)
	if err != nil {
		return map[string]any{}
	}
	env := map[string]any{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return map[string]any{}
	}
	return env
}
