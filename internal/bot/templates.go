package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	startCommand = "/start"

	// Reply-keyboard button text that resets the dialog
	newConversationCommand = "Начать новое обсуждение ✍️"

	welcomeMessage = "Здравствуйте, здесь вы можете получить бесплатную консультацию по вопросам здоровья, а также записаться на прием к врачу"

	newConversationMessage = "История обсуждения очищена. Опишите, пожалуйста, что вас беспокоит."

	unavailableMessage = "Извините, ассистент временно недоступен. Попробуйте повторить запрос позже."

	appointmentTemplate = "Вы успешно записаны к %s (%s)\nДата и время записи: %s\nМедорганизация: %s\nАдрес: %s"

	appointmentTimeFormat = "02.01.2006 в 15:04"
)

// mainKeyboard is the persistent menu shown after /start
func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(newConversationCommand),
		),
	)
}
