package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"medbot/internal/assistant"
	"medbot/internal/storage"
)

// Assistant is the gateway to the remote consultation backend
type Assistant interface {
	SendMessage(ctx context.Context, req *assistant.TurnRequest) (*assistant.TurnResponse, error)
	SendImage(ctx context.Context, req *assistant.ImageTurnRequest) (*assistant.TurnResponse, error)
}

// sender is the slice of the Telegram API the bot writes through.
// *tgbotapi.BotAPI satisfies it; tests substitute a recorder.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// fileFetcher downloads a Telegram file by its file id
type fileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

// Bot represents the Telegram bot wrapper
type Bot struct {
	api        *tgbotapi.BotAPI
	sender     sender
	files      fileFetcher
	db         storage.Storage
	assistant  Assistant
	logger     *zap.Logger
	maxHistory int

	// Per-chat update queues; see queue.go
	queuesMu sync.Mutex
	queues   map[int64]chan tgbotapi.Update
	done     chan struct{}
	stopOnce sync.Once
	workers  sync.WaitGroup
}
