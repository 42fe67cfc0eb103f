//go:build integration

package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maillist/maillist/internal/testutil"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	if err := testutil.ResetUsersSchema(ctx, pool); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}
	if err := testutil.ResetSubscribersSchema(ctx, pool); err != nil {
		t.Fatalf("reset subscribers schema: %v", err)
	}

	// Verify all expected tables exist
	tables := []string{
		"users",
		"subscribers",
	}

	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, pool, table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_SubscribersTableSchema(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	if err := testutil.ResetUsersSchema(ctx, pool); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}
	if err := testutil.ResetSubscribersSchema(ctx, pool); err != nil {
		t.Fatalf("reset subscribers schema: %v", err)
	}

	expectedColumns := []string{
		"id",
		"email",
		"created",
		"owner_id",
	}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, pool, "subscribers", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in subscribers table", col)
			}
		})
	}
}

func TestIntegrationMigration_UsersTableSchema(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	if err := testutil.ResetUsersSchema(ctx, pool); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}

	expectedColumns := []string{
		"id",
		"email",
		"display_name",
		"password_hash",
		"created_at",
	}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, pool, "users", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in users table", col)
			}
		})
	}
}

func TestIntegrationMigration_SubscribersConstraints(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	if err := testutil.ResetUsersSchema(ctx, pool); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}
	if err := testutil.ResetSubscribersSchema(ctx, pool); err != nil {
		t.Fatalf("reset subscribers schema: %v", err)
	}

	// Verify the owner foreign key
	_, err := pool.Exec(ctx, `
		INSERT INTO subscribers (id, email, created, owner_id)
		VALUES ('test-id', 'a@example.com', now(), 'no-such-user')
	`)
	if err == nil {
		t.Error("Expected foreign key violation for unknown owner_id")
	}

	// Verify email NOT NULL
	_, err = pool.Exec(ctx, `
		INSERT INTO subscribers (id, email, created)
		VALUES ('test-id-2', NULL, now())
	`)
	if err == nil {
		t.Error("Expected NOT NULL violation for missing email")
	}
}

func TestIntegrationMigration_RollbackSubscribers(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	root, err := testutil.ProjectRoot()
	if err != nil {
		t.Fatalf("ProjectRoot failed: %v", err)
	}

	if err := testutil.ResetUsersSchema(ctx, pool); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}
	if err := testutil.ResetSubscribersSchema(ctx, pool); err != nil {
		t.Fatalf("reset subscribers schema: %v", err)
	}

	// Apply down migration
	downPath := filepath.Join(root, "migrations", "000002_subscribers.down.sql")
	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		t.Fatalf("read down migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		t.Fatalf("apply down migration: %v", err)
	}

	// Verify table doesn't exist
	exists, err := tableExists(ctx, pool, "subscribers")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if exists {
		t.Error("subscribers table should not exist after rollback")
	}

	// Re-apply up migration for cleanup
	upPath := filepath.Join(root, "migrations", "000002_subscribers.up.sql")
	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		t.Fatalf("read up migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		t.Fatalf("reapply up migration: %v", err)
	}
}

func TestIntegrationMigration_RepeatedSchemaReset(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	// Two full rounds: the second executes the users down migration while
	// subscribers still holds a foreign key to users(id), which is the
	// state every rerun against a populated database starts from.
	for round := 0; round < 2; round++ {
		if err := testutil.ResetUsersSchema(ctx, pool); err != nil {
			t.Fatalf("round %d: reset users schema: %v", round, err)
		}
		if err := testutil.ResetSubscribersSchema(ctx, pool); err != nil {
			t.Fatalf("round %d: reset subscribers schema: %v", round, err)
		}
	}

	// The rebuilt subscribers table still enforces the owner foreign key.
	_, err := pool.Exec(ctx, `
		INSERT INTO subscribers (id, email, created, owner_id)
		VALUES ('reset-test-id', 'reset@example.com', now(), 'no-such-user')
	`)
	if err == nil {
		t.Error("Expected foreign key violation for unknown owner_id after reset")
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newMigrationTestEnv(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	return ctx, pool
}
