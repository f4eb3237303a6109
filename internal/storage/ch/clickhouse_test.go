package ch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"medbot/internal/models"
)

// runMigrations manually runs ClickHouse migrations
func runMigrations(ctx context.Context, db *ClickHouseDB) error {
	// Drop existing tables
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS users")

	// Create users table
	return db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			user_id Int64,
			is_start_dialog Bool,
			messages String,
			updated_at DateTime64(3) DEFAULT now64(3)
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY user_id
	`)
}

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*ClickHouseDB, func()) {
	ctx := context.Background()

	// Start ClickHouse container
	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	// Get connection details
	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	// Create database connection
	db, err := NewClickHouseDB(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")

	// Run migrations manually (goose doesn't work well with ClickHouse)
	err = runMigrations(ctx, db)
	require.NoError(t, err, "Failed to run migrations")

	// Cleanup function
	cleanup := func() {
		db.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestClickHouseDB_GetMissingConversation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	conv, err := db.GetConversation(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestClickHouseDB_SaveAndGetConversation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	conv := models.NewConversation(42)
	conv.Append(models.RoleUser, "Hello")
	conv.Append(models.RoleAssistant, "Hi there")
	conv.IsStartDialog = false

	require.NoError(t, db.SaveConversation(ctx, conv))

	loaded, err := db.GetConversation(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, int64(42), loaded.UserID)
	assert.False(t, loaded.IsStartDialog)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, models.RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, "Hello", loaded.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, loaded.Messages[1].Role)
	assert.Equal(t, "Hi there", loaded.Messages[1].Content)
}

func TestClickHouseDB_LatestWriteWins(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	conv := models.NewConversation(42)
	conv.Append(models.RoleUser, "Hello")
	conv.IsStartDialog = false
	require.NoError(t, db.SaveConversation(ctx, conv))

	// A reset rewrites the same key; FINAL reads must see the new row
	require.NoError(t, db.SaveConversation(ctx, models.NewConversation(42)))

	loaded, err := db.GetConversation(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.IsStartDialog)
	assert.Empty(t, loaded.Messages)
}

func TestClickHouseDB_UsersAreIsolated(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	first := models.NewConversation(1)
	first.Append(models.RoleUser, "first user")
	require.NoError(t, db.SaveConversation(ctx, first))

	second := models.NewConversation(2)
	second.Append(models.RoleUser, "second user")
	require.NoError(t, db.SaveConversation(ctx, second))

	loaded, err := db.GetConversation(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "first user", loaded.Messages[0].Content)
}

func TestClickHouseDB_ToleratesUnknownFields(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// A row written by a newer version with extra per-message fields
	err := db.conn.Exec(ctx,
		`INSERT INTO users (user_id, is_start_dialog, messages, updated_at) VALUES (?, ?, ?, now64(3))`,
		int64(42), false,
		`[{"role":"user","content":"Hello","timestamp":"2026-01-01T00:00:00Z"}]`)
	require.NoError(t, err)

	loaded, err := db.GetConversation(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "Hello", loaded.Messages[0].Content)
}
