package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medbot/internal/models"
)

const (
	messagePath = "/check-uc-sync"
	imagePath   = "/check-uc-sync-image"
)

// TurnRequest is the body of a text-only turn sent to the assistant backend
type TurnRequest struct {
	Prompt        []models.Message `json:"prompt"`
	UserID        int64            `json:"user_id"`
	IsStartDialog bool             `json:"is_start_dialog"`
}

// ImageTurnRequest additionally carries the photo as a data-URI base64 string
type ImageTurnRequest struct {
	TurnRequest
	Image string `json:"image"`
}

// ConversationStateEcho is returned by the backend alongside the reply.
// The dispatcher does not consume it.
type ConversationStateEcho struct {
	Messages []string `json:"messages"`
}

// TurnResponse is the assistant backend's reply to a turn
type TurnResponse struct {
	ConversationState *ConversationStateEcho `json:"conversation_state"`
	Response          string                 `json:"response"`
}

// Client is the HTTP gateway to the remote assistant backend.
// Calls are synchronous, never retried, and bounded by the client timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an assistant gateway for the given base URL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SendMessage performs a text-only turn
func (c *Client) SendMessage(ctx context.Context, req *TurnRequest) (*TurnResponse, error) {
	return c.post(ctx, messagePath, req, req.UserID)
}

// SendImage performs an image-bearing turn
func (c *Client) SendImage(ctx context.Context, req *ImageTurnRequest) (*TurnResponse, error) {
	return c.post(ctx, imagePath, req, req.UserID)
}

func (c *Client) post(ctx context.Context, path string, body any, userID int64) (*TurnResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode turn request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build turn request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Assistant request failed",
			zap.Int64("user_id", userID),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Assistant returned unexpected status",
			zap.Int64("user_id", userID),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var turnResp TurnResponse
	if err := json.NewDecoder(resp.Body).Decode(&turnResp); err != nil {
		c.logger.Error("Failed to decode assistant response",
			zap.Int64("user_id", userID),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &DecodeError{Err: err}
	}

	return &turnResp, nil
}
