package index

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/common"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// indexRepository implements Repository using PostgreSQL with pgvector
type indexRepository struct {
	pool Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool Pool) Repository {
	return &indexRepository{
		pool: pool,
	}
}

// CreateIndex registers a new empty index row
func (r *indexRepository) CreateIndex(ctx context.Context, handle, videoID string) error {
	sql := `INSERT INTO video_indexes (handle, video_id) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, sql, handle, videoID)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to create index")
	}
	return nil
}

// InsertSnippets bulk-inserts embedded snippets using COPY FROM
func (r *indexRepository) InsertSnippets(ctx context.Context, handle string, snippets []*model.Snippet, vectors [][]float32) error {
	if len(snippets) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(snippets))
	for i, s := range snippets {
		rows = append(rows, []any{
			handle,
			s.Text,
			s.Start,
			s.End,
			string(s.Source),
			s.VideoID,
			pgvector.NewVector(vectors[i]),
		})
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"snippets"},
		[]string{"index_id", "text", "start_s", "end_s", "source", "video_id", "embedding"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to insert snippets")
	}
	return nil
}

// Search runs cosine-similarity search over one index
func (r *indexRepository) Search(ctx context.Context, handle string, vector []float32, limit int) ([]*model.ScoredSnippet, error) {
	sql := `SELECT text, start_s, end_s, source, video_id, 1 - (embedding <=> $2) AS score
		FROM snippets WHERE index_id = $1
		ORDER BY embedding <=> $2 LIMIT $3`
	rows, err := r.pool.Query(ctx, sql, handle, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to search index")
	}
	defer rows.Close()

	var results []*model.ScoredSnippet
	for rows.Next() {
		var snippet model.Snippet
		var score float64
		err := rows.Scan(
			&snippet.Text,
			&snippet.Start,
			&snippet.End,
			&snippet.Source,
			&snippet.VideoID,
			&score,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan search result")
		}
		results = append(results, &model.ScoredSnippet{Snippet: &snippet, Score: score})
	}

	return results, nil
}

// SpeechInWindow scans speech snippets overlapping a time window directly,
// bypassing similarity search
func (r *indexRepository) SpeechInWindow(ctx context.Context, handle string, from, to float64) ([]*model.Snippet, error) {
	sql := `SELECT text, start_s, end_s, source, video_id
		FROM snippets
		WHERE index_id = $1 AND source = 'speech'
			AND (start_s BETWEEN $2 AND $3 OR end_s BETWEEN $2 AND $3)
		ORDER BY start_s`
	rows, err := r.pool.Query(ctx, sql, handle, from, to)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to scan speech window")
	}
	defer rows.Close()

	return scanSnippets(rows)
}

// VisualNearTimestamp scans visual snippets around a timestamp. Visual sampling
// is sparser than speech, so the match is looser: window overlap or start
// within the window of the timestamp itself.
func (r *indexRepository) VisualNearTimestamp(ctx context.Context, handle string, timestamp, window float64) ([]*model.Snippet, error) {
	sql := `SELECT text, start_s, end_s, source, video_id
		FROM snippets
		WHERE index_id = $1 AND source = 'visual'
			AND ((start_s <= $3 AND end_s >= $2) OR abs(start_s - $4) <= $5)
		ORDER BY start_s`
	rows, err := r.pool.Query(ctx, sql, handle, timestamp-window, timestamp+window, timestamp, window)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to scan visual snippets")
	}
	defer rows.Close()

	return scanSnippets(rows)
}

// DeleteByHandle removes an index; snippets go with it via ON DELETE CASCADE
func (r *indexRepository) DeleteByHandle(ctx context.Context, handle string) error {
	sql := `DELETE FROM video_indexes WHERE handle = $1`
	_, err := r.pool.Exec(ctx, sql, handle)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete index")
	}
	return nil
}

func scanSnippets(rows pgx.Rows) ([]*model.Snippet, error) {
	var snippets []*model.Snippet
	for rows.Next() {
		var snippet model.Snippet
		err := rows.Scan(
			&snippet.Text,
			&snippet.Start,
			&snippet.End,
			&snippet.Source,
			&snippet.VideoID,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan snippet")
		}
		snippets = append(snippets, &snippet)
	}
	return snippets, nil
}
