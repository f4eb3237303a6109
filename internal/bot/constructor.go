package bot

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"medbot/internal/storage"
)

// NewBot creates a new Telegram bot
func NewBot(token string, db storage.Storage, gateway Assistant, maxHistory int, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:    api,
		sender: api,
		files: &telegramFileFetcher{
			api:        api,
			httpClient: &http.Client{Timeout: 30 * time.Second},
		},
		db:         db,
		assistant:  gateway,
		logger:     logger,
		maxHistory: maxHistory,
		queues:     make(map[int64]chan tgbotapi.Update),
		done:       make(chan struct{}),
	}, nil
}
