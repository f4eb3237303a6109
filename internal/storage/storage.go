package storage

import (
	"context"

	"medbot/internal/models"
)

// Storage defines the interface for conversation state persistence
type Storage interface {
	// GetConversation returns the stored conversation for the user,
	// or nil if the user has never started a dialog.
	GetConversation(ctx context.Context, userID int64) (*models.Conversation, error)

	// SaveConversation durably writes the conversation state. A turn's
	// reply must not be sent before this returns successfully.
	SaveConversation(ctx context.Context, conv *models.Conversation) error

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
