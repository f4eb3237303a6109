package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Updates for one chat must be processed strictly in arrival order: the
// conversation history is a causally ordered log. Each chat gets a
// dedicated worker fed by its own channel, so turns for a chat are
// serialized while different chats proceed in parallel. Stop closes the
// done channel; workers finish their current turn and exit, updates
// still queued at that point are dropped.

const queueBuffer = 16

// dispatch routes an update to the owning chat's queue, creating the
// queue and its worker on first contact
func (b *Bot) dispatch(update tgbotapi.Update) {
	chatID := updateChatID(update)
	if chatID == 0 {
		return
	}

	b.queuesMu.Lock()
	select {
	case <-b.done:
		b.queuesMu.Unlock()
		return
	default:
	}
	queue, ok := b.queues[chatID]
	if !ok {
		queue = make(chan tgbotapi.Update, queueBuffer)
		b.queues[chatID] = queue
		b.workers.Add(1)
		go b.worker(queue)
	}
	b.queuesMu.Unlock()

	// Blocks when the chat's queue is full, which back-pressures the
	// delivery loop instead of dropping or reordering updates
	select {
	case queue <- update:
	case <-b.done:
	}
}

func (b *Bot) worker(queue <-chan tgbotapi.Update) {
	defer b.workers.Done()
	for {
		select {
		case <-b.done:
			return
		case update := <-queue:
			b.handleUpdate(update)
		}
	}
}

// stopWorkers signals all chat workers and waits for them to exit
func (b *Bot) stopWorkers() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
	b.workers.Wait()
}

func updateChatID(update tgbotapi.Update) int64 {
	if update.Message != nil && update.Message.Chat != nil {
		return update.Message.Chat.ID
	}
	return 0
}
