package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxChatMessageLength = 4000

type ChatMessage struct {
	ID        uint
	RoomID    uint
	Author    Member
	Text      string
	CreatedAt time.Time
}

// NormalizeChatText trims the text and rejects empty or oversized messages.
func NormalizeChatText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: chat message cannot be empty", ErrBadRequest)
	}
	if utf8.RuneCountInString(trimmed) > MaxChatMessageLength {
		return "", fmt.Errorf("%w: chat message is too long", ErrBadRequest)
	}
	return trimmed, nil
}
