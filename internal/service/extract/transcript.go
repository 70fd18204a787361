package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Taichi-iskw/yt-tutor/internal/errors"
	"github.com/Taichi-iskw/yt-tutor/internal/model"
	"github.com/Taichi-iskw/yt-tutor/internal/service/common"
)

// TranscriptService loads the spoken-word transcript of a video as timestamped
// snippets. A missing transcript is not an error: downstream tolerates an empty
// speech stream, so failures here degrade to an empty list with a warning.
type TranscriptService interface {
	Load(ctx context.Context, videoURL, videoID string) ([]*model.Snippet, error)
}

// transcriptService implements TranscriptService using yt-dlp subtitle dumps
type transcriptService struct {
	cmdRunner common.CmdRunner
	logger    *slog.Logger
}

// NewTranscriptService creates a new TranscriptService
func NewTranscriptService(cmdRunner common.CmdRunner) TranscriptService {
	return &transcriptService{
		cmdRunner: cmdRunner,
		logger:    slog.Default(),
	}
}

// json3Track mirrors yt-dlp's json3 subtitle format
type json3Track struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64      `json:"tStartMs"`
	DurationMs int64      `json:"dDurationMs"`
	Segs       []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// Load fetches English captions (manual or auto-generated) with yt-dlp and
// converts them into speech snippets
func (s *transcriptService) Load(ctx context.Context, videoURL, videoID string) ([]*model.Snippet, error) {
	if videoURL == "" {
		return nil, errors.New(errors.CodeInvalidArg, "video URL is required")
	}

	tempDir, err := os.MkdirTemp("", "yt-tutor-subs-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", "en.*",
		"--sub-format", "json3",
		"-o", filepath.Join(tempDir, "%(id)s"),
		videoURL,
	}

	if _, err := s.cmdRunner.Run(ctx, "yt-dlp", args...); err != nil {
		// Captions disabled or not exposed: proceed with visual-only context
		s.logger.Warn("no transcript obtainable, answers will rely on visual content only",
			"video_id", videoID, "error", err)
		return []*model.Snippet{}, nil
	}

	matches, err := filepath.Glob(filepath.Join(tempDir, videoID+"*.json3"))
	if err != nil || len(matches) == 0 {
		s.logger.Warn("no transcript file produced, answers will rely on visual content only",
			"video_id", videoID)
		return []*model.Snippet{}, nil
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read subtitle file")
	}

	var track json3Track
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse subtitle file")
	}

	snippets := make([]*model.Snippet, 0, len(track.Events))
	for _, event := range track.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}

		start := float64(event.StartMs) / 1000
		snippets = append(snippets, &model.Snippet{
			Text:    text,
			Start:   start,
			End:     start + float64(event.DurationMs)/1000,
			Source:  model.SourceSpeech,
			VideoID: videoID,
		})
	}

	return snippets, nil
}
