package domain

import "testing"

func TestNewActivityNormalization(t *testing.T) {
	in := Activity{
		ID:        "  act-1  ",
		Timestamp: 1700000000000,
		ActorID:   " dev@github ",
		Artifact:  ArtifactCode,
		Action:    " created ",
	}
	a, err := NewActivity(in)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}
	if a.ID != "act-1" {
		t.Fatalf("unexpected id %q", a.ID)
	}
	if a.Action != "created" {
		t.Fatalf("unexpected action %q", a.Action)
	}
	if a.CreatedTimestamp != a.Timestamp {
		t.Fatalf("expected created timestamp to default to timestamp, got %d", a.CreatedTimestamp)
	}
	if a.Priority != UnknownPriority {
		t.Fatalf("expected absent priority to canonicalize to %d, got %d", UnknownPriority, a.Priority)
	}
}

func TestNewActivityValidation(t *testing.T) {
	base := Activity{ID: "a1", Timestamp: 1, Artifact: ArtifactTask, Action: "updated"}

	tests := []struct {
		name    string
		mutate  func(*Activity)
		wantErr error
	}{
		{"empty id", func(a *Activity) { a.ID = "  " }, ErrInvalidID},
		{"zero timestamp", func(a *Activity) { a.Timestamp = 0 }, ErrInvalidTimestamp},
		{"empty action", func(a *Activity) { a.Action = "" }, ErrInvalidAction},
		{"unknown artifact", func(a *Activity) { a.Artifact = "widget" }, ErrInvalidArtifact},
		{"unknown phase", func(a *Activity) { a.Phase = "shipping" }, ErrInvalidPhase},
		{"negative effort", func(a *Activity) { a.Effort = -1 }, ErrInvalidEffort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := NewActivity(in); err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestActivityEnvExposesMetadataPaths(t *testing.T) {
	a := Activity{
		ID:        "a1",
		Timestamp: 1,
		Artifact:  ArtifactCode,
		Action:    "created",
		Metadata: &Metadata{
			Issue:   &Issue{Key: "ABC-12"},
			Commits: []Commit{{Message: "ABC-12 fix flaky retry"}},
		},
	}
	env := a.Env()
	meta, ok := env["metadata"].(map[string]any)
	if !ok {
		t.Fatal("expected metadata node in env")
	}
	issue, ok := meta["issue"].(map[string]any)
	if !ok {
		t.Fatal("expected issue node in env")
	}
	if issue["key"] != "ABC-12" {
		t.Fatalf("unexpected issue key %v", issue["key"])
	}
	commits, ok := meta["commits"].([]any)
	if !ok || len(commits) != 1 {
		t.Fatalf("expected one commit in env, got %v", meta["commits"])
	}
}

func TestActivityEnvOmitsAbsentFields(t *testing.T) {
	a := Activity{ID: "a1", Timestamp: 1, Artifact: ArtifactDoc, Action: "updated"}
	env := a.Env()
	if _, present := env["metadata"]; present {
		t.Fatal("expected absent metadata to be omitted from env")
	}
	if _, present := env["initiativeId"]; present {
		t.Fatal("expected unclassified initiativeId to be omitted from env")
	}
}

func TestArtifactActionKey(t *testing.T) {
	a := Activity{Artifact: ArtifactTaskOrg, Action: "created"}
	if key := a.ArtifactActionKey(); key != "taskOrg-created" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestArtifactAndPhaseCounts(t *testing.T) {
	var artifacts ArtifactCounts
	artifacts.Add(ArtifactCode)
	artifacts.Add(ArtifactCode)
	artifacts.Add(ArtifactDocOrg)
	if artifacts.Code != 2 || artifacts.DocOrg != 1 {
		t.Fatalf("unexpected artifact counts %+v", artifacts)
	}
	if artifacts.Task != 0 || artifacts.TaskOrg != 0 || artifacts.Doc != 0 || artifacts.CodeOrg != 0 {
		t.Fatalf("expected untouched counters to stay zero, got %+v", artifacts)
	}

	var phases PhaseCounts
	phases.Add(PhaseStabilize)
	if phases.Stabilize != 1 || phases.Design != 0 {
		t.Fatalf("unexpected phase counts %+v", phases)
	}
}

func TestNewBucketDefaultsKeyToID(t *testing.T) {
	b, err := NewBucket(Bucket{ID: " init-1 ", ActivityMapper: ` artifact == "code" `})
	if err != nil {
		t.Fatalf("NewBucket() error = %v", err)
	}
	if b.Key != "init-1" {
		t.Fatalf("unexpected key %q", b.Key)
	}
	if b.ActivityMapper != `artifact == "code"` {
		t.Fatalf("unexpected mapper %q", b.ActivityMapper)
	}
	if _, err := NewBucket(Bucket{}); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestNewIdentityDropsBlankAccounts(t *testing.T) {
	identity, err := NewIdentity(Identity{
		ID:          "id-1",
		DisplayName: " Ada ",
		Accounts:    []Account{{ID: " gh-ada "}, {ID: "   "}},
	})
	if err != nil {
		t.Fatalf("NewIdentity() error = %v", err)
	}
	if identity.DisplayName != "Ada" {
		t.Fatalf("unexpected display name %q", identity.DisplayName)
	}
	if len(identity.Accounts) != 1 || identity.Accounts[0].ID != "gh-ada" {
		t.Fatalf("unexpected accounts %+v", identity.Accounts)
	}
}
