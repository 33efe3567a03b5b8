package main

import (
	"encoding/json"
	"fmt"
	"os"

	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stelvio-labs/worklens/internal/domain"
)

// exportFile is the JSON document produced by upstream feed exporters.
type exportFile struct {
	Activities       []domain.Activity `json:"activities"`
	Initiatives      []domain.Bucket   `json:"initiatives"`
	LaunchItems      []domain.Bucket   `json:"launchItems"`
	Identities       []domain.Identity `json:"identities"`
	Accounts         []domain.Account  `json:"accounts"`
	TicketPriorities map[string]int    `json:"ticketPriorities"`
}

var importCmd = &cobra.Command{
	Use:   "import <export.json>",
	Short: "Load an activity export into the local database",
	Long: `Import reads a JSON export produced by an upstream feed exporter and
upserts its activities, buckets, identities, accounts, and ticket
priorities into the local database. Invalid records are skipped with a
warning. Activities without an id get a generated one.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	var export exportFile
	if err := json.Unmarshal(raw, &export); err != nil {
		return fmt.Errorf("decode export: %w", err)
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()

	imported := 0
	for _, in := range export.Activities {
		if in.ID == "" {
			in.ID = uuid.NewString()
		}
		activity, err := domain.NewActivity(in)
		if err != nil {
			charmLog.Warn("skipping invalid activity", "id", in.ID, "err", err)
			continue
		}
		if err := rt.repo.UpsertActivity(ctx, activity); err != nil {
			return fmt.Errorf("import activity %s: %w", activity.ID, err)
		}
		imported++
	}

	buckets := 0
	for category, list := range map[domain.Category][]domain.Bucket{
		domain.CategoryInitiative: export.Initiatives,
		domain.CategoryLaunchItem: export.LaunchItems,
	} {
		for _, in := range list {
			bucket, err := domain.NewBucket(in)
			if err != nil {
				charmLog.Warn("skipping invalid bucket", "category", category, "id", in.ID, "err", err)
				continue
			}
			if err := rt.repo.UpsertBucket(ctx, category, bucket); err != nil {
				return fmt.Errorf("import bucket %s: %w", bucket.ID, err)
			}
			buckets++
		}
	}

	accounts := 0
	for _, account := range export.Accounts {
		if account.ID == "" {
			charmLog.Warn("skipping account without id")
			continue
		}
		if err := rt.repo.UpsertAccount(ctx, account); err != nil {
			return fmt.Errorf("import account %s: %w", account.ID, err)
		}
		accounts++
	}

	identities := 0
	for _, in := range export.Identities {
		identity, err := domain.NewIdentity(in)
		if err != nil {
			charmLog.Warn("skipping invalid identity", "id", in.ID, "err", err)
			continue
		}
		if err := rt.repo.UpsertIdentity(ctx, identity); err != nil {
			return fmt.Errorf("import identity %s: %w", identity.ID, err)
		}
		identities++
	}

	tickets := 0
	for key, priority := range export.TicketPriorities {
		if err := rt.repo.UpsertTicketPriority(ctx, key, priority); err != nil {
			charmLog.Warn("skipping ticket priority", "key", key, "err", err)
			continue
		}
		tickets++
	}

	fmt.Printf("imported %d activities, %d buckets, %d accounts, %d identities, %d ticket priorities\n",
		imported, buckets, accounts, identities, tickets)
	return nil
}
