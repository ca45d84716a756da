package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func insertProfile(t *testing.T, db *DB, id string, role profile.Role) {
	t.Helper()
	now := time.Now()
	err := NewProfileRepository(db).Create(context.Background(), &profile.Profile{
		ID:        id,
		Name:      id,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"profiles",
		"projects",
		"project_versions",
		"messages",
		"video_comments",
		"activity_log",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrations_Rerun(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestProjectsTable_Constraints(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProfile(t, db, "c1", profile.RoleCreator)
	insertProfile(t, db, "e1", profile.RoleEditor)

	insert := `INSERT INTO projects (id, title, platform, status, creator_id, editor_id) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, insert, "p1", "Reel", "youtube", "briefing", "c1", nil)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "p2", "Reel", "youtube", "archived", "c1", "e1")
	require.Error(t, err, "unknown status must be rejected")

	_, err = db.ExecContext(ctx, insert, "p3", "Reel", "youtube", "in_edit", "c1", nil)
	require.Error(t, err, "editor is required outside briefing")

	_, err = db.ExecContext(ctx, insert, "p4", "Reel", "youtube", "briefing", "nobody", nil)
	require.Error(t, err, "creator must exist")

	_, err = db.ExecContext(ctx, `UPDATE projects SET unread_creator_messages = -1 WHERE id = 'p1'`)
	require.Error(t, err, "unread counters cannot go negative")

	_, err = db.ExecContext(ctx, `UPDATE projects SET creator_rating = 6 WHERE id = 'p1'`)
	require.Error(t, err, "rating is bounded")
}

func TestProjectsTable_RatingImmutable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProfile(t, db, "c1", profile.RoleCreator)

	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, title, platform, status, creator_id, creator_rating) VALUES ('p1', 'Reel', 'other', 'briefing', 'c1', 4)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE projects SET creator_rating = 5 WHERE id = 'p1'`)
	require.Error(t, err)

	var rating int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT creator_rating FROM projects WHERE id = 'p1'`).Scan(&rating))
	require.Equal(t, 4, rating)
}
