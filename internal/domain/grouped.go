package domain

// TopActorLimit caps each artifact-action leaderboard; actors past the cap
// collapse into one synthetic entry keyed by OtherActorsID.
const TopActorLimit = 10

// OtherActorsID is the reserved actor id of the synthetic leaderboard entry
// holding the summed counts of actors beyond TopActorLimit.
const OtherActorsID = "__others__"

// ActorCount is one leaderboard row: an actor and how many activities of one
// artifact-action kind they authored.
type ActorCount struct {
	ActorID string `json:"actorId"`
	Count   int    `json:"count"`
}

// PriorityCount is one priority-histogram row.
type PriorityCount struct {
	Priority int `json:"priority"`
	Count    int `json:"count"`
}

// ArtifactCounts holds per-artifact-kind activity counts for one bucket.
// Every field starts at zero when a rollup is created, whether or not a
// matching activity ever arrives.
type ArtifactCounts struct {
	Code    int `json:"code"`
	CodeOrg int `json:"codeOrg"`
	Task    int `json:"task"`
	TaskOrg int `json:"taskOrg"`
	Doc     int `json:"doc"`
	DocOrg  int `json:"docOrg"`
}

// Add increments the counter matching the artifact kind.
func (c *ArtifactCounts) Add(artifact Artifact) {
	switch artifact {
	case ArtifactCode:
		c.Code++
	case ArtifactCodeOrg:
		c.CodeOrg++
	case ArtifactTask:
		c.Task++
	case ArtifactTaskOrg:
		c.TaskOrg++
	case ArtifactDoc:
		c.Doc++
	case ArtifactDocOrg:
		c.DocOrg++
	}
}

// PhaseCounts holds per-phase activity counts for one bucket.
type PhaseCounts struct {
	Design    int `json:"design"`
	Dev       int `json:"dev"`
	Test      int `json:"test"`
	Deploy    int `json:"deploy"`
	Stabilize int `json:"stabilize"`
	Ops       int `json:"ops"`
}

// Add increments the counter matching the phase.
func (c *PhaseCounts) Add(phase Phase) {
	switch phase {
	case PhaseDesign:
		c.Design++
	case PhaseDev:
		c.Dev++
	case PhaseTest:
		c.Test++
	case PhaseDeploy:
		c.Deploy++
	case PhaseStabilize:
		c.Stabilize++
	case PhaseOps:
		c.Ops++
	}
}

// BucketRollup aggregates the activities classified into one bucket.
// ActorCount is the number of distinct actor ids seen; the underlying set is
// an internal accumulator and is never exposed. Initiative rollups carry
// zeroed phase counts: only launch items track phase per activity.
type BucketRollup struct {
	ID          string         `json:"id"`
	Artifacts   ArtifactCounts `json:"artifacts"`
	Phases      PhaseCounts    `json:"phases"`
	ActorCount  int            `json:"actorCount"`
	EffortTotal float64        `json:"effortTotal"`
}

// GroupedActivities is the derived, ephemeral rollup recomputed from a full
// activity collection on every report request.
type GroupedActivities struct {
	TopActors   map[string][]ActorCount `json:"topActors"`
	Priorities  []PriorityCount         `json:"priorities"`
	Initiatives []BucketRollup          `json:"initiatives"`
	LaunchItems []BucketRollup          `json:"launchItems"`
}
