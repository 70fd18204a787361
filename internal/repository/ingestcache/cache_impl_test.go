package ingestcache

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-tutor/internal/errors"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestCacheRepository_Get(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(mock pgxmock.PgxPoolIface)
		wantHandle string
		wantErr    bool
		wantCode   string
	}{
		{
			name: "cache hit",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"index_handle"}).AddRow("handle-1")
				mock.ExpectQuery("SELECT index_handle FROM indexed_videos").
					WithArgs("user-1", "chat-1", testURL).
					WillReturnRows(rows)
			},
			wantHandle: "handle-1",
		},
		{
			name: "cache miss maps to not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT index_handle FROM indexed_videos").
					WithArgs("user-1", "chat-1", testURL).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr:  true,
			wantCode: apperrors.CodeNotFound,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT index_handle FROM indexed_videos").
					WithArgs("user-1", "chat-1", testURL).
					WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			repo := NewRepository(mock)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			handle, err := repo.Get(ctx, "user-1", "chat-1", testURL)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != "" {
					assert.True(t, apperrors.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantHandle, handle)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCacheRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO indexed_videos").
		WithArgs("user-1", "chat-1", testURL, "handle-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepository(mock)

	err = repo.Save(context.Background(), "user-1", "chat-1", testURL, "handle-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepository_URLForChat(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"source_url"}).AddRow(testURL)
	mock.ExpectQuery("SELECT source_url FROM indexed_videos").
		WithArgs("user-1", "chat-1").
		WillReturnRows(rows)

	repo := NewRepository(mock)

	url, err := repo.URLForChat(context.Background(), "user-1", "chat-1")

	require.NoError(t, err)
	assert.Equal(t, testURL, url)
}

func TestCacheRepository_URLForChat_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT source_url FROM indexed_videos").
		WithArgs("user-1", "chat-1").
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepository(mock)

	_, err = repo.URLForChat(context.Background(), "user-1", "chat-1")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCacheRepository_HandlesByChat(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"index_handle"}).
		AddRow("handle-1").
		AddRow("handle-2")
	mock.ExpectQuery("SELECT index_handle FROM indexed_videos").
		WithArgs("user-1", "chat-1").
		WillReturnRows(rows)

	repo := NewRepository(mock)

	handles, err := repo.HandlesByChat(context.Background(), "user-1", "chat-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"handle-1", "handle-2"}, handles)
}

func TestCacheRepository_DeleteByChat(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM indexed_videos").
		WithArgs("user-1", "chat-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	repo := NewRepository(mock)

	deleted, err := repo.DeleteByChat(context.Background(), "user-1", "chat-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
