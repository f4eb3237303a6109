package bot

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const imageDataURIPrefix = "data:image/jpeg;base64,"

// encodeLargestPhoto downloads the largest variant of the photo and
// returns it as a data-URI base64 string for the assistant backend
func (b *Bot) encodeLargestPhoto(ctx context.Context, photos []tgbotapi.PhotoSize) (string, error) {
	// Telegram orders variants by size ascending
	largest := photos[len(photos)-1]

	data, err := b.files.Fetch(ctx, largest.FileID)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("photo %s is empty", largest.FileID)
	}

	return imageDataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// telegramFileFetcher downloads files through the Bot API file endpoint
type telegramFileFetcher struct {
	api        *tgbotapi.BotAPI
	httpClient *http.Client
}

func (f *telegramFileFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	url, err := f.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build file request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	return data, nil
}
