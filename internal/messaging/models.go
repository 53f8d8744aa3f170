// internal/messaging/models.go

package messaging

import (
	"errors"
	"time"
)

var (
	ErrNotMatched   = errors.New("messages can only be sent within a mutual match")
	ErrEmptyMessage = errors.New("message content is required")
)

// Message is a text message exchanged inside a matched pair
type Message struct {
	ID        int64     `json:"id" db:"id"`
	MatchID   int64     `json:"match_id" db:"match_id"`
	SenderID  int64     `json:"sender_id" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SendMessageRequest is the body of the send endpoint
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
