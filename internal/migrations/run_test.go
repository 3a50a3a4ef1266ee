package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getTestDB(t *testing.T) (*sql.DB, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("gym_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

func getMigrationsPath(t *testing.T) string {
	projectRoot, err := filepath.Abs("../..")
	require.NoError(t, err)
	return filepath.Join(projectRoot, "migrations")
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRunMigrations(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	version, err := Run(db, getMigrationsPath(t))
	require.NoError(t, err)
	require.Equal(t, uint(1), version)

	for _, table := range []string{"users", "members", "subscriptions", "attendance_records", "transactions"} {
		require.True(t, tableExists(t, db, table), "table %s should exist", table)
	}

	var exists bool
	err = db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public'
			AND tablename = 'attendance_records'
			AND indexname = 'idx_attendance_open_per_member'
		)`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists, "open attendance index should exist")
}

func TestMigrationIdempotency(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	path := getMigrationsPath(t)

	_, err := Run(db, path)
	require.NoError(t, err)

	version, err := Run(db, path)
	require.NoError(t, err, "running migrations twice should not fail")
	require.Equal(t, uint(1), version)
}

func TestMigrationsDown(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	path := getMigrationsPath(t)

	_, err := Run(db, path)
	require.NoError(t, err)

	require.NoError(t, Down(db, path))
	require.False(t, tableExists(t, db, "members"))
	require.False(t, tableExists(t, db, "users"))
}

func TestSchemaRejectsInvalidEnums(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	_, err := Run(db, getMigrationsPath(t))
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (username, password_hash, full_name, role)
		VALUES ('x', 'h', 'X', 'superuser')`)
	require.Error(t, err, "unknown role must violate the check constraint")

	_, err = db.Exec(`INSERT INTO members (full_name, phone, membership_type, start_date, end_date)
		VALUES ('M', '1', 'lifetime', NOW(), NOW())`)
	require.Error(t, err, "unknown membership type must violate the check constraint")
}
