package stubs

import (
	"context"
	"sync"

	"medbot/internal/models"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu            sync.RWMutex
	conversations map[int64]*models.Conversation
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		conversations: make(map[int64]*models.Conversation),
	}
}

// Initialize does nothing for mock DB
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// GetConversation returns a copy of the stored conversation, or nil if absent
func (m *MockDB) GetConversation(ctx context.Context, userID int64) (*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.conversations[userID]
	if !ok {
		return nil, nil
	}
	return copyConversation(conv), nil
}

// SaveConversation stores a copy of the conversation state
func (m *MockDB) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conversations[conv.UserID] = copyConversation(conv)
	return nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

// copyConversation guards against callers mutating stored state in place
func copyConversation(conv *models.Conversation) *models.Conversation {
	messages := make([]models.Message, len(conv.Messages))
	copy(messages, conv.Messages)
	return &models.Conversation{
		UserID:        conv.UserID,
		IsStartDialog: conv.IsStartDialog,
		Messages:      messages,
	}
}
