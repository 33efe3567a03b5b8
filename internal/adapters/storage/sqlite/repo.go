// Package sqlite stores activities, buckets, identities, and ticket
// priorities in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stelvio-labs/worklens/internal/app"
	"github.com/stelvio-labs/worklens/internal/domain"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Repository implements the app source ports on top of database/sql.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a throwaway in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		// initiative_id and launch_item_id are nullable on purpose: NULL
		// means never classified, '' means a user explicitly unset the
		// classification.
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			created_timestamp INTEGER NOT NULL,
			actor_id TEXT NOT NULL DEFAULT '',
			artifact TEXT NOT NULL,
			action TEXT NOT NULL,
			event TEXT NOT NULL DEFAULT '',
			event_type TEXT NOT NULL DEFAULT '',
			initiative_id TEXT,
			launch_item_id TEXT,
			priority INTEGER NOT NULL DEFAULT -1,
			phase TEXT NOT NULL DEFAULT '',
			effort REAL NOT NULL DEFAULT 0,
			note TEXT NOT NULL DEFAULT '',
			metadata_json TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS buckets (
			category TEXT NOT NULL,
			id TEXT NOT NULL,
			key TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			activity_mapper TEXT NOT NULL DEFAULT '',
			PRIMARY KEY(category, id)
		);`,
		`CREATE TABLE IF NOT EXISTS identities (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT ''
		);`,
		// identity_id is the account-to-identity link; '' means unlinked.
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			identity_id TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS ticket_priorities (
			key TEXT PRIMARY KEY,
			priority INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_event_type ON activities(event_type, timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_identity ON accounts(identity_id);`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	if _, err := r.db.ExecContext(ctx, `ALTER TABLE activities ADD COLUMN note TEXT NOT NULL DEFAULT ''`); err != nil && !isDuplicateColumnErr(err) {
		return fmt.Errorf("migrate sqlite add activities.note: %w", err)
	}
	return nil
}

const activityColumns = `
	id, timestamp, created_timestamp, actor_id, artifact, action, event, event_type,
	initiative_id, launch_item_id, priority, phase, effort, note, metadata_json
`

// UpsertActivity inserts or replaces one activity row.
func (r *Repository) UpsertActivity(ctx context.Context, a domain.Activity) error {
	metadataJSON, err := encodeMetadata(a.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activities(`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timestamp = excluded.timestamp,
			created_timestamp = excluded.created_timestamp,
			actor_id = excluded.actor_id,
			artifact = excluded.artifact,
			action = excluded.action,
			event = excluded.event,
			event_type = excluded.event_type,
			initiative_id = excluded.initiative_id,
			launch_item_id = excluded.launch_item_id,
			priority = excluded.priority,
			phase = excluded.phase,
			effort = excluded.effort,
			note = excluded.note,
			metadata_json = excluded.metadata_json
	`,
		a.ID, a.Timestamp, a.CreatedTimestamp, a.ActorID, string(a.Artifact), a.Action,
		a.Event, a.EventType, nullableStr(a.InitiativeID), nullableStr(a.LaunchItemID),
		a.Priority, string(a.Phase), a.Effort, a.Note, metadataJSON,
	)
	return err
}

// ListActivities lists activities matching the filter, oldest first.
func (r *Repository) ListActivities(ctx context.Context, filter app.ActivityFilter) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE 1 = 1`
	args := []any{}
	if filter.Since > 0 {
		query += ` AND timestamp >= ?`
		args = append(args, filter.Since)
	}
	if filter.Until > 0 {
		query += ` AND timestamp < ?`
		args = append(args, filter.Until)
	}
	if filter.EventType != "" {
		query += ` AND event_type = ?`
		args = append(args, filter.EventType)
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Activity{}
	for rows.Next() {
		var (
			a            domain.Activity
			artifact     string
			phase        string
			initiative   sql.NullString
			launchItem   sql.NullString
			metadataJSON sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.Timestamp, &a.CreatedTimestamp, &a.ActorID, &artifact, &a.Action,
			&a.Event, &a.EventType, &initiative, &launchItem, &a.Priority, &phase,
			&a.Effort, &a.Note, &metadataJSON,
		); err != nil {
			return nil, err
		}
		a.Artifact = domain.Artifact(artifact)
		a.Phase = domain.Phase(phase)
		a.InitiativeID = parseNullStr(initiative)
		a.LaunchItemID = parseNullStr(launchItem)
		a.Metadata, err = decodeMetadata(metadataJSON)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateActivityClassification persists the classification and priority
// fields of one activity.
func (r *Repository) UpdateActivityClassification(ctx context.Context, a domain.Activity) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET initiative_id = ?, launch_item_id = ?, priority = ?
		WHERE id = ?
	`, nullableStr(a.InitiativeID), nullableStr(a.LaunchItemID), a.Priority, a.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// UpsertBucket inserts or replaces one bucket in its category.
func (r *Repository) UpsertBucket(ctx context.Context, category domain.Category, b domain.Bucket) error {
	if !domain.IsValidCategory(category) {
		return fmt.Errorf("unknown bucket category %q", category)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO buckets(category, id, key, label, color, activity_mapper)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category, id) DO UPDATE SET
			key = excluded.key,
			label = excluded.label,
			color = excluded.color,
			activity_mapper = excluded.activity_mapper
	`, string(category), b.ID, b.Key, b.Label, b.Color, b.ActivityMapper)
	return err
}

// ListBuckets lists the buckets of one category ordered by id.
func (r *Repository) ListBuckets(ctx context.Context, category domain.Category) ([]domain.Bucket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, key, label, color, activity_mapper
		FROM buckets
		WHERE category = ?
		ORDER BY id ASC
	`, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Bucket{}
	for rows.Next() {
		var b domain.Bucket
		if err := rows.Scan(&b.ID, &b.Key, &b.Label, &b.Color, &b.ActivityMapper); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpsertIdentity inserts or replaces one identity and links its accounts.
func (r *Repository) UpsertIdentity(ctx context.Context, identity domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities(id, display_name, email)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email
	`, identity.ID, identity.DisplayName, identity.Email)
	if err != nil {
		return err
	}
	for _, account := range identity.Accounts {
		account.ID = strings.TrimSpace(account.ID)
		if account.ID == "" {
			continue
		}
		if err := r.upsertAccount(ctx, account, identity.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpsertAccount inserts or replaces one unlinked account. An existing
// identity link is preserved.
func (r *Repository) UpsertAccount(ctx context.Context, account domain.Account) error {
	return r.upsertAccount(ctx, account, "")
}

func (r *Repository) upsertAccount(ctx context.Context, account domain.Account, identityID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts(id, type, name, url, identity_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			url = excluded.url,
			identity_id = CASE
				WHEN excluded.identity_id != '' THEN excluded.identity_id
				ELSE accounts.identity_id
			END
	`, account.ID, account.Type, account.Name, account.URL, identityID)
	return err
}

// ListAccounts lists every known account ordered by id.
func (r *Repository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, name, url
		FROM accounts
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.Type, &account.Name, &account.URL); err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

// ListIdentities lists every identity with its linked accounts attached.
func (r *Repository) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, email
		FROM identities
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Identity{}
	index := map[string]int{}
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(&identity.ID, &identity.DisplayName, &identity.Email); err != nil {
			return nil, err
		}
		index[identity.ID] = len(out)
		out = append(out, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	accountRows, err := r.db.QueryContext(ctx, `
		SELECT id, type, name, url, identity_id
		FROM accounts
		WHERE identity_id != ''
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer accountRows.Close()

	for accountRows.Next() {
		var (
			account    domain.Account
			identityID string
		)
		if err := accountRows.Scan(&account.ID, &account.Type, &account.Name, &account.URL, &identityID); err != nil {
			return nil, err
		}
		if i, ok := index[identityID]; ok {
			out[i].Accounts = append(out[i].Accounts, account)
		}
	}
	return out, accountRows.Err()
}

// AccountIdentityMap returns the account-id to identity-id links.
func (r *Repository) AccountIdentityMap(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, identity_id
		FROM accounts
		WHERE identity_id != ''
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var accountID, identityID string
		if err := rows.Scan(&accountID, &identityID); err != nil {
			return nil, err
		}
		out[accountID] = identityID
	}
	return out, rows.Err()
}

// UpsertTicketPriority records the priority level for one ticket key.
func (r *Repository) UpsertTicketPriority(ctx context.Context, key string, priority int) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("ticket key is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ticket_priorities(key, priority)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET priority = excluded.priority
	`, key, priority)
	return err
}

// TicketPriorities returns the full ticket-key to priority-level table.
func (r *Repository) TicketPriorities(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, priority FROM ticket_priorities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			key      string
			priority int
		)
		if err := rows.Scan(&key, &priority); err != nil {
			return nil, err
		}
		out[key] = priority
	}
	return out, rows.Err()
}

func encodeMetadata(meta *domain.Metadata) (any, error) {
	if meta == nil {
		return nil, nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode activity metadata: %w", err)
	}
	return string(raw), nil
}

func decodeMetadata(v sql.NullString) (*domain.Metadata, error) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil, nil
	}
	meta := &domain.Metadata{}
	if err := json.Unmarshal([]byte(v.String), meta); err != nil {
		return nil, fmt.Errorf("decode activities.metadata_json: %w", err)
	}
	return meta, nil
}

func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

func nullableStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func parseNullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func isDuplicateColumnErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column name")
}
