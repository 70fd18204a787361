package ingestcache

import (
	"context"
)

// Repository defines the ingest idempotency cache: one index handle per
// (user, chat, source URL) key. Entries are written once on first ingestion
// and removed only when a chat is deleted.
type Repository interface {
	// Get returns the cached index handle for a key, or a NOT_FOUND error
	Get(ctx context.Context, userID, chatID, sourceURL string) (string, error)
	// Save upserts the mapping for a key. Concurrent first-time ingestions may
	// both build and race here; the upsert makes the second write harmless.
	Save(ctx context.Context, userID, chatID, sourceURL, indexHandle string) error
	// URLForChat returns the video URL associated with a chat, or NOT_FOUND
	URLForChat(ctx context.Context, userID, chatID string) (string, error)
	// HandlesByChat lists every index handle owned by a chat
	HandlesByChat(ctx context.Context, userID, chatID string) ([]string, error)
	// DeleteByChat removes all cache entries for a chat and reports how many
	DeleteByChat(ctx context.Context, userID, chatID string) (int64, error)
}
