package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alqaqa03/gym1/internal/migrations"
	"github.com/alqaqa03/gym1/internal/models"
)

const postgresPort = nat.Port("5432/tcp")

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового сотрудника и возвращает его ID
func (f *TestDataFactory) CreateUser(t *testing.T, username string, role models.Role) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, email, password_hash, full_name, role)
		VALUES ($1, $2, 'hashedpassword', $3, $4) RETURNING id`,
		username, username+"@gym.local", "Test "+username, string(role)).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateMember создает тестового участника с окном [start, end]
func (f *TestDataFactory) CreateMember(t *testing.T, name string, start, end time.Time, active bool) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO members (full_name, phone, membership_type, start_date, end_date, is_active)
		VALUES ($1, '+70000000000', 'monthly', $2, $3, $4) RETURNING id`,
		name, start, end, active).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyMemberWindow проверяет окно членства участника
func (v *TestVerification) VerifyMemberWindow(t *testing.T, memberID int64, start, end time.Time) {
	var gotStart, gotEnd time.Time
	err := v.storage.DB.QueryRow("SELECT start_date, end_date FROM members WHERE id = $1", memberID).
		Scan(&gotStart, &gotEnd)
	require.NoError(t, err)
	require.True(t, start.Equal(gotStart), "start: want %s, got %s", start, gotStart)
	require.True(t, end.Equal(gotEnd), "end: want %s, got %s", end, gotEnd)
}

// CountSubscriptions возвращает число подписок участника
func (v *TestVerification) CountSubscriptions(t *testing.T, memberID int64) int {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM subscriptions WHERE member_id = $1", memberID).Scan(&count)
	require.NoError(t, err)
	return count
}

// CountAttendance возвращает число записей посещений участника
func (v *TestVerification) CountAttendance(t *testing.T, memberID int64) int {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM attendance_records WHERE member_id = $1", memberID).Scan(&count)
	require.NoError(t, err)
	return count
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{string(postgresPort)},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(postgresPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err, "failed to get host")
	port, err := postgresContainer.MappedPort(ctx, postgresPort)
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, migrationsPath)
	require.NoError(t, err, "failed to apply migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
