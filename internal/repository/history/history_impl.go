package history

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/common"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// historyRepository implements Repository using PostgreSQL
type historyRepository struct {
	pool Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool Pool) Repository {
	return &historyRepository{
		pool: pool,
	}
}

// Append stores one conversation turn
func (r *historyRepository) Append(ctx context.Context, message *model.ChatMessage) error {
	sql := `INSERT INTO chat_messages (user_id, chat_id, role, content)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, sql,
		message.UserID,
		message.ChatID,
		message.Role,
		message.Content,
	)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to append chat message")
	}
	return nil
}

// LoadRecent returns up to limit turns in chronological order
func (r *historyRepository) LoadRecent(ctx context.Context, userID, chatID string, limit int) ([]*model.ChatMessage, error) {
	sql := `SELECT user_id, chat_id, role, content, ts FROM chat_messages
		WHERE user_id = $1 AND chat_id = $2
		ORDER BY ts ASC
		LIMIT $3`
	rows, err := r.pool.Query(ctx, sql, userID, chatID, limit)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to load chat history")
	}
	defer rows.Close()

	return scanMessages(rows)
}

// LoadAll returns the complete history of a chat
func (r *historyRepository) LoadAll(ctx context.Context, userID, chatID string) ([]*model.ChatMessage, error) {
	sql := `SELECT user_id, chat_id, role, content, ts FROM chat_messages
		WHERE user_id = $1 AND chat_id = $2
		ORDER BY ts ASC`
	rows, err := r.pool.Query(ctx, sql, userID, chatID)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to load chat history")
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListChats summarizes every chat a user has
func (r *historyRepository) ListChats(ctx context.Context, userID string) ([]*model.ChatSummary, error) {
	sql := `SELECT chat_id, COUNT(*) AS message_count, MAX(ts) AS last_updated
		FROM chat_messages
		WHERE user_id = $1
		GROUP BY chat_id
		ORDER BY last_updated DESC`
	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list chats")
	}
	defer rows.Close()

	var summaries []*model.ChatSummary
	for rows.Next() {
		var summary model.ChatSummary
		err := rows.Scan(&summary.ChatID, &summary.MessageCount, &summary.LastUpdated)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan chat summary")
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

// DeleteChat removes every message of a chat
func (r *historyRepository) DeleteChat(ctx context.Context, userID, chatID string) (bool, error) {
	sql := `DELETE FROM chat_messages WHERE user_id = $1 AND chat_id = $2`
	tag, err := r.pool.Exec(ctx, sql, userID, chatID)
	if err != nil {
		return false, common.HandlePostgreSQLError(err, "failed to delete chat")
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether a chat has at least one message
func (r *historyRepository) Exists(ctx context.Context, userID, chatID string) (bool, error) {
	sql := `SELECT 1 FROM chat_messages WHERE user_id = $1 AND chat_id = $2 LIMIT 1`
	row := r.pool.QueryRow(ctx, sql, userID, chatID)

	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, common.HandlePostgreSQLError(err, "failed to check chat existence")
	}
	return true, nil
}

func scanMessages(rows pgx.Rows) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	for rows.Next() {
		var message model.ChatMessage
		err := rows.Scan(
			&message.UserID,
			&message.ChatID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan chat message")
		}
		messages = append(messages, &message)
	}
	return messages, nil
}
