package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pasperfection/checklist/internal/model"
)

// GlobalStore keeps per-workspace checklist snapshots in a single SQLite
// database under the user's data directory. It is the cross-workspace
// counterpart of the workspace JSON file: the same forest, flattened into
// relational rows.
type GlobalStore struct {
	db *sqlx.DB
}

// NewGlobalStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewGlobalStore(dbPath string) (*GlobalStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &GlobalStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *GlobalStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *GlobalStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveSnapshot replaces the stored snapshot for a workspace with the given
// forest, inserting rows depth-first so parent rows always precede their
// children.
func (s *GlobalStore) SaveSnapshot(
	ctx context.Context,
	workspaceID string,
	items []*model.Item,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Cascades to children, notes, and tags.
	_, err = tx.ExecContext(ctx,
		"DELETE FROM items WHERE workspace_id = ? AND parent_id IS NULL",
		workspaceID)
	if err != nil {
		return fmt.Errorf("clearing workspace snapshot: %w", err)
	}

	itemStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO items (
			id, workspace_id, label, completed, priority,
			due_date, parent_id, position,
			created_at, updated_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()

	noteStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO notes (id, item_id, text, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing note insert: %w", err)
	}
	defer noteStmt.Close()

	tagStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO item_tags (item_id, tag, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing tag insert: %w", err)
	}
	defer tagStmt.Close()

	var insert func(list []*model.Item, parentID *string) error
	insert = func(list []*model.Item, parentID *string) error {
		for pos, it := range list {
			var due, completedAt *time.Time
			if it.DueDate != nil {
				d := it.DueDate.UTC()
				due = &d
			}
			if it.CompletedAt != nil {
				c := it.CompletedAt.UTC()
				completedAt = &c
			}

			_, err := itemStmt.ExecContext(ctx,
				it.ID, workspaceID, it.Label, boolToInt(it.Completed), it.Priority,
				due, parentID, pos,
				it.CreatedAt.UTC(), it.UpdatedAt.UTC(), completedAt,
			)
			if err != nil {
				return fmt.Errorf("inserting item %s: %w", it.ID, err)
			}

			for npos, n := range it.Notes {
				var updated *time.Time
				if n.UpdatedAt != nil {
					u := n.UpdatedAt.UTC()
					updated = &u
				}
				_, err := noteStmt.ExecContext(ctx,
					n.ID, it.ID, n.Text, npos, n.CreatedAt.UTC(), updated)
				if err != nil {
					return fmt.Errorf("inserting note %s: %w", n.ID, err)
				}
			}

			for tpos, tag := range it.Tags {
				if _, err := tagStmt.ExecContext(ctx, it.ID, tag, tpos); err != nil {
					return fmt.Errorf("inserting tag %q: %w", tag, err)
				}
			}

			id := it.ID
			if err := insert(it.Children, &id); err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(items, nil); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadSnapshot reconstructs the item forest stored for a workspace.
func (s *GlobalStore) LoadSnapshot(
	ctx context.Context,
	workspaceID string,
) ([]*model.Item, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, label, completed, priority, due_date,
		       parent_id, created_at, updated_at, completed_at
		FROM items WHERE workspace_id = ?
		ORDER BY position`,
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var roots []*model.Item
	byID := map[string]*model.Item{}
	var order []string

	for rows.Next() {
		var (
			it           model.Item
			completedInt int
			due          *time.Time
			parentID     *string
			completedAt  *time.Time
		)
		err := rows.Scan(
			&it.ID, &it.Label, &completedInt, &it.Priority, &due,
			&parentID, &it.CreatedAt, &it.UpdatedAt, &completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		it.Completed = completedInt != 0
		it.DueDate = due
		it.CompletedAt = completedAt
		if parentID != nil {
			it.ParentID = *parentID
		}

		byID[it.ID] = &it
		order = append(order, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// All rows are indexed before linking, so parent lookups always
	// succeed regardless of row order. Sibling order follows position.
	for _, id := range order {
		it := byID[id]
		if it.ParentID == "" {
			roots = append(roots, it)
			continue
		}
		if parent, ok := byID[it.ParentID]; ok {
			parent.Children = append(parent.Children, it)
		} else {
			roots = append(roots, it)
		}
	}

	if err := s.loadNotes(ctx, workspaceID, byID); err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, workspaceID, byID); err != nil {
		return nil, err
	}

	if roots == nil {
		roots = []*model.Item{}
	}
	return roots, nil
}

// loadNotes attaches all notes belonging to a workspace's items.
func (s *GlobalStore) loadNotes(
	ctx context.Context,
	workspaceID string,
	byID map[string]*model.Item,
) error {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT n.id, n.item_id, n.text, n.created_at, n.updated_at
		FROM notes n
		INNER JOIN items i ON n.item_id = i.id
		WHERE i.workspace_id = ?
		ORDER BY n.position`,
		workspaceID)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n       model.Note
			itemID  string
			updated *time.Time
		)
		if err := rows.Scan(&n.ID, &itemID, &n.Text, &n.CreatedAt, &updated); err != nil {
			return fmt.Errorf("scanning note row: %w", err)
		}
		n.UpdatedAt = updated
		if it, ok := byID[itemID]; ok {
			it.Notes = append(it.Notes, n)
		}
	}
	return rows.Err()
}

// loadTags attaches all tags belonging to a workspace's items.
func (s *GlobalStore) loadTags(
	ctx context.Context,
	workspaceID string,
	byID map[string]*model.Item,
) error {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT t.item_id, t.tag
		FROM item_tags t
		INNER JOIN items i ON t.item_id = i.id
		WHERE i.workspace_id = ?
		ORDER BY t.position`,
		workspaceID)
	if err != nil {
		return fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, tag string
		if err := rows.Scan(&itemID, &tag); err != nil {
			return fmt.Errorf("scanning tag row: %w", err)
		}
		if it, ok := byID[itemID]; ok {
			it.Tags = append(it.Tags, tag)
		}
	}
	return rows.Err()
}

// Adapter returns an Adapter view over a single workspace's snapshot,
// mapping load failures to the empty-collection startup policy.
func (s *GlobalStore) Adapter(workspaceID string) Adapter {
	return globalAdapter{store: s, workspaceID: workspaceID}
}

type globalAdapter struct {
	store       *GlobalStore
	workspaceID string
}

func (a globalAdapter) Save(items []*model.Item) error {
	return a.store.SaveSnapshot(context.Background(), a.workspaceID, items)
}

func (a globalAdapter) Load() []*model.Item {
	items, err := a.store.LoadSnapshot(context.Background(), a.workspaceID)
	if err != nil {
		log.Printf("loading global snapshot: %v", err)
		return []*model.Item{}
	}
	return items
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
