package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role of a conversation message, as understood by the assistant backend.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in the conversation history
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the per-user dialog state persisted between updates.
// Messages is chronological; IsStartDialog stays true until the first
// assistant reply of the current dialog epoch.
type Conversation struct {
	UserID        int64
	IsStartDialog bool
	Messages      []Message
}

// NewConversation returns a fresh conversation for the given chat
func NewConversation(userID int64) *Conversation {
	return &Conversation{
		UserID:        userID,
		IsStartDialog: true,
		Messages:      []Message{},
	}
}

// Append adds a message to the history
func (c *Conversation) Append(role Role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

// Trim drops the oldest messages so that at most max entries remain.
// max <= 0 disables trimming.
func (c *Conversation) Trim(max int) {
	if max > 0 && len(c.Messages) > max {
		c.Messages = c.Messages[len(c.Messages)-max:]
	}
}

const appointmentTimeLayout = "2006-01-02 15:04"

// AppointmentTime wraps time.Time to accept the "yyyy-MM-dd HH:mm" layout
// used by the scheduling system.
type AppointmentTime struct {
	time.Time
}

func (t *AppointmentTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("appointment time is required")
	}
	parsed, err := time.Parse(appointmentTimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid appointment time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t AppointmentTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(appointmentTimeLayout))
}

// Appointment is a confirmation event pushed by the scheduling system.
// It is formatted and forwarded to the user, never persisted.
type Appointment struct {
	UserID             int64           `json:"userId"`
	Specialist         string          `json:"specialist"`
	Specialisation     string          `json:"specialisation"`
	Time               AppointmentTime `json:"time"`
	InstitutionName    string          `json:"institutionName"`
	InstitutionAddress string          `json:"institutionAddress"`
}
