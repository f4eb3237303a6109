package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendText sends a plain reply to the chat
func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return b.send(msg)
}

// sendTextWithKeyboard sends a reply together with the persistent menu
func (b *Bot) sendTextWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	return b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) error {
	if b.sender == nil {
		return nil // For testing
	}
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Cannot send message",
			zap.Int64("user_id", msg.ChatID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
