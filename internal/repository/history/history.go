package history

import (
	"context"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
)

// Repository defines persistence for the append-only chat history log
type Repository interface {
	// Append stores one conversation turn
	Append(ctx context.Context, message *model.ChatMessage) error
	// LoadRecent returns up to limit turns for a chat in chronological order
	LoadRecent(ctx context.Context, userID, chatID string, limit int) ([]*model.ChatMessage, error)
	// LoadAll returns the complete history of a chat in chronological order
	LoadAll(ctx context.Context, userID, chatID string) ([]*model.ChatMessage, error)
	// ListChats summarizes every chat a user has, most recently updated first
	ListChats(ctx context.Context, userID string) ([]*model.ChatSummary, error)
	// DeleteChat removes every message of a chat and reports whether any existed
	DeleteChat(ctx context.Context, userID, chatID string) (bool, error)
	// Exists reports whether a chat has at least one message
	Exists(ctx context.Context, userID, chatID string) (bool, error)
}
