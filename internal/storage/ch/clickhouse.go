package ch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"

	"medbot/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	// This method is kept for interface compatibility
	return nil
}

// GetConversation returns the latest stored state for the user, or nil if
// the user has never started a dialog. The users table is a
// ReplacingMergeTree keyed by user_id, so FINAL collapses to the last write.
func (db *ClickHouseDB) GetConversation(ctx context.Context, userID int64) (*models.Conversation, error) {
	rows, err := db.conn.Query(ctx,
		`SELECT is_start_dialog, messages FROM users FINAL WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}

	var (
		isStartDialog bool
		messagesJSON  string
	)
	if err := rows.Scan(&isStartDialog, &messagesJSON); err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}

	conv := &models.Conversation{
		UserID:        userID,
		IsStartDialog: isStartDialog,
		Messages:      []models.Message{},
	}
	if messagesJSON != "" {
		// Unknown fields in stored entries are ignored on decode
		if err := json.Unmarshal([]byte(messagesJSON), &conv.Messages); err != nil {
			return nil, fmt.Errorf("failed to decode message history: %w", err)
		}
	}
	return conv, nil
}

// SaveConversation writes a new state row for the user. The latest row
// wins on read, so this acts as an upsert.
func (db *ClickHouseDB) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode message history: %w", err)
	}

	err = db.conn.Exec(ctx,
		`INSERT INTO users (user_id, is_start_dialog, messages, updated_at) VALUES (?, ?, ?, now64(3))`,
		conv.UserID, conv.IsStartDialog, string(messagesJSON))
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
