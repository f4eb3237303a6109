package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"medbot/internal/assistant"
	"medbot/internal/models"
)

// handleUpdate processes a single update from the per-chat queue
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	b.handleMessage(update.Message)
}

// handleMessage classifies an inbound message and runs the matching
// transition: /start, the reset button, or a conversation turn.
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage",
				zap.Int64("user_id", chatID),
				zap.Any("panic", r),
			)
			b.sendText(chatID, unavailableMessage)
		}
	}()

	ctx := context.Background()

	// A photo with a caption equal to a command text is still a turn;
	// commands are only matched on plain text messages
	if len(message.Photo) == 0 {
		switch message.Text {
		case startCommand:
			b.handleStart(ctx, chatID)
			return
		case newConversationCommand:
			b.handleReset(ctx, chatID)
			return
		}
	}

	b.handleTurn(ctx, message)
}

// handleStart begins a fresh dialog epoch, discarding any prior history
func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	b.logger.Info("Starting new dialog", zap.Int64("user_id", chatID))

	conv := models.NewConversation(chatID)
	if err := b.db.SaveConversation(ctx, conv); err != nil {
		b.logger.Error("Failed to persist dialog reset",
			zap.Int64("user_id", chatID),
			zap.Error(err),
		)
		b.sendText(chatID, unavailableMessage)
		return
	}

	b.sendTextWithKeyboard(chatID, welcomeMessage, mainKeyboard())
}

// handleReset clears the history; state-wise identical to /start
func (b *Bot) handleReset(ctx context.Context, chatID int64) {
	b.logger.Info("Resetting dialog", zap.Int64("user_id", chatID))

	conv := models.NewConversation(chatID)
	if err := b.db.SaveConversation(ctx, conv); err != nil {
		b.logger.Error("Failed to persist dialog reset",
			zap.Int64("user_id", chatID),
			zap.Error(err),
		)
		b.sendText(chatID, unavailableMessage)
		return
	}

	b.sendTextWithKeyboard(chatID, newConversationMessage, mainKeyboard())
}

// handleTurn runs one conversation turn against the assistant backend.
// State is persisted before the reply is sent; on any failure the stored
// state is left untouched and the user gets the unavailable notice.
func (b *Bot) handleTurn(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	hasPhoto := len(message.Photo) > 0

	text := message.Text
	if hasPhoto {
		text = message.Caption
	}

	// Nothing to relay
	if text == "" && !hasPhoto {
		return
	}

	conv, err := b.db.GetConversation(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to load conversation",
			zap.Int64("user_id", chatID),
			zap.Error(err),
		)
		b.sendText(chatID, unavailableMessage)
		return
	}
	if conv == nil {
		// No /start was ever issued for this chat; don't create state
		// for unaddressed chatter
		b.logger.Debug("Ignoring message from chat without a dialog",
			zap.Int64("user_id", chatID))
		return
	}

	// Image-only turns do not inject an empty text entry
	if text != "" {
		conv.Append(models.RoleUser, text)
	}

	turnReq := assistant.TurnRequest{
		Prompt:        conv.Messages,
		UserID:        chatID,
		IsStartDialog: conv.IsStartDialog,
	}

	var resp *assistant.TurnResponse
	if hasPhoto {
		image, fetchErr := b.encodeLargestPhoto(ctx, message.Photo)
		if fetchErr != nil {
			b.logger.Error("Failed to fetch photo",
				zap.Int64("user_id", chatID),
				zap.Error(fetchErr),
			)
			b.sendText(chatID, unavailableMessage)
			return
		}
		resp, err = b.assistant.SendImage(ctx, &assistant.ImageTurnRequest{
			TurnRequest: turnReq,
			Image:       image,
		})
	} else {
		resp, err = b.assistant.SendMessage(ctx, &turnReq)
	}
	if err != nil {
		b.logGatewayFailure(chatID, err)
		b.sendText(chatID, unavailableMessage)
		return
	}

	conv.Append(models.RoleAssistant, resp.Response)
	conv.IsStartDialog = false
	conv.Trim(b.maxHistory)

	if err := b.db.SaveConversation(ctx, conv); err != nil {
		b.logger.Error("Failed to persist turn",
			zap.Int64("user_id", chatID),
			zap.Error(err),
		)
		b.sendText(chatID, unavailableMessage)
		return
	}

	b.sendText(chatID, resp.Response)
}

// logGatewayFailure records the distinct failure cause; the user-facing
// degradation is the same for all of them
func (b *Bot) logGatewayFailure(chatID int64, err error) {
	var (
		statusErr    *assistant.StatusError
		decodeErr    *assistant.DecodeError
		transportErr *assistant.TransportError
	)
	switch {
	case errors.As(err, &statusErr):
		b.logger.Error("Assistant rejected turn",
			zap.Int64("user_id", chatID),
			zap.Int("status", statusErr.Code),
		)
	case errors.As(err, &decodeErr):
		b.logger.Error("Assistant response malformed",
			zap.Int64("user_id", chatID),
			zap.Error(decodeErr.Err),
		)
	case errors.As(err, &transportErr):
		b.logger.Error("Assistant unreachable",
			zap.Int64("user_id", chatID),
			zap.Error(transportErr.Err),
		)
	default:
		b.logger.Error("Assistant call failed",
			zap.Int64("user_id", chatID),
			zap.Error(err),
		)
	}
}
