package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medbot/internal/models"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, 2*time.Second, zap.NewNop())
}

func TestClient_SendMessage(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/check-uc-sync", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"conversation_state": map[string]any{"messages": []string{}},
			"response":           "Hi there",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.SendMessage(context.Background(), &TurnRequest{
		Prompt:        []models.Message{{Role: models.RoleUser, Content: "Hello"}},
		UserID:        42,
		IsStartDialog: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hi there", resp.Response)

	assert.Equal(t, float64(42), gotBody["user_id"])
	assert.Equal(t, true, gotBody["is_start_dialog"])
	prompt, ok := gotBody["prompt"].([]any)
	require.True(t, ok)
	require.Len(t, prompt, 1)
}

func TestClient_SendImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/check-uc-sync-image", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "data:image/jpeg;base64,aGk=", body["image"])

		json.NewEncoder(w).Encode(map[string]any{"response": "I see an image"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.SendImage(context.Background(), &ImageTurnRequest{
		TurnRequest: TurnRequest{UserID: 42, IsStartDialog: true},
		Image:       "data:image/jpeg;base64,aGk=",
	})

	require.NoError(t, err)
	assert.Equal(t, "I see an image", resp.Response)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SendMessage(context.Background(), &TurnRequest{UserID: 42})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SendMessage(context.Background(), &TurnRequest{UserID: 42})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuse connections

	client := newTestClient(server.URL)
	_, err := client.SendMessage(context.Background(), &TurnRequest{UserID: 42})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClient_TimeoutSurfacesAsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond, zap.NewNop())
	_, err := client.SendMessage(context.Background(), &TurnRequest{UserID: 42})

	require.Error(t, err)
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}
