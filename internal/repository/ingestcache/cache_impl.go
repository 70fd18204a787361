package ingestcache

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/Taichi-iskw/yt-tutor/internal/errors"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/common"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// cacheRepository implements Repository using PostgreSQL
type cacheRepository struct {
	pool Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool Pool) Repository {
	return &cacheRepository{
		pool: pool,
	}
}

// Get returns the cached index handle for an exact key match
func (r *cacheRepository) Get(ctx context.Context, userID, chatID, sourceURL string) (string, error) {
	sql := `SELECT index_handle FROM indexed_videos
		WHERE user_id = $1 AND chat_id = $2 AND source_url = $3`
	row := r.pool.QueryRow(ctx, sql, userID, chatID, sourceURL)

	var handle string
	if err := row.Scan(&handle); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.Wrap(err, apperrors.CodeNotFound, "no index for this video in this chat")
		}
		return "", common.HandlePostgreSQLError(err, "failed to look up ingest cache")
	}
	return handle, nil
}

// Save upserts a cache entry
func (r *cacheRepository) Save(ctx context.Context, userID, chatID, sourceURL, indexHandle string) error {
	sql := `INSERT INTO indexed_videos (user_id, chat_id, source_url, index_handle)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, chat_id, source_url) DO UPDATE SET index_handle = EXCLUDED.index_handle`
	_, err := r.pool.Exec(ctx, sql, userID, chatID, sourceURL, indexHandle)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to save ingest cache entry")
	}
	return nil
}

// URLForChat returns the video URL associated with a chat
func (r *cacheRepository) URLForChat(ctx context.Context, userID, chatID string) (string, error) {
	sql := `SELECT source_url FROM indexed_videos
		WHERE user_id = $1 AND chat_id = $2 LIMIT 1`
	row := r.pool.QueryRow(ctx, sql, userID, chatID)

	var url string
	if err := row.Scan(&url); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.Wrap(err, apperrors.CodeNotFound, "no video associated with this chat")
		}
		return "", common.HandlePostgreSQLError(err, "failed to look up chat video")
	}
	return url, nil
}

// HandlesByChat lists every index handle owned by a chat
func (r *cacheRepository) HandlesByChat(ctx context.Context, userID, chatID string) ([]string, error) {
	sql := `SELECT index_handle FROM indexed_videos
		WHERE user_id = $1 AND chat_id = $2`
	rows, err := r.pool.Query(ctx, sql, userID, chatID)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list chat indexes")
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var handle string
		if err := rows.Scan(&handle); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan index handle")
		}
		handles = append(handles, handle)
	}
	return handles, nil
}

// DeleteByChat removes all cache entries for a chat
func (r *cacheRepository) DeleteByChat(ctx context.Context, userID, chatID string) (int64, error) {
	sql := `DELETE FROM indexed_videos WHERE user_id = $1 AND chat_id = $2`
	tag, err := r.pool.Exec(ctx, sql, userID, chatID)
	if err != nil {
		return 0, common.HandlePostgreSQLError(err, "failed to delete ingest cache entries")
	}
	return tag.RowsAffected(), nil
}
