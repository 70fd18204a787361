package extract

import (
	"context"
	"strings"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
	"github.com/Taichi-iskw/yt-tutor/internal/service/common"
)

// MinVisualTextLen is the noise filter threshold: recognized frame text is kept
// only if its stripped length exceeds this many characters
const MinVisualTextLen = 10

// Extractor turns one raw video into two parallel streams of timestamped
// snippets: spoken-word segments and on-screen-text segments
type Extractor interface {
	Extract(ctx context.Context, videoURL string) (*model.Extraction, error)
}

// extractor implements Extractor by combining transcript loading and frame recognition
type extractor struct {
	transcript     TranscriptService
	frames         FrameService
	sampleInterval int
}

// NewExtractor creates an Extractor with default dependencies
func NewExtractor(cmdRunner common.CmdRunner) Extractor {
	return NewExtractorWithServices(
		NewTranscriptService(cmdRunner),
		NewFrameService(cmdRunner),
		DefaultSampleInterval,
	)
}

// NewExtractorWithServices creates an Extractor with custom dependencies (for testing)
func NewExtractorWithServices(transcript TranscriptService, frames FrameService, sampleInterval int) Extractor {
	return &extractor{
		transcript:     transcript,
		frames:         frames,
		sampleInterval: sampleInterval,
	}
}

// Extract produces the speech and visual snippet streams for one video.
// A missing transcript yields an empty speech stream; an unopenable frame
// stream aborts the extraction.
func (e *extractor) Extract(ctx context.Context, videoURL string) (*model.Extraction, error) {
	videoID, err := ParseVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	speech, err := e.transcript.Load(ctx, videoURL, videoID)
	if err != nil {
		return nil, err
	}

	frameTexts, err := e.frames.Recognize(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	visual := make([]*model.Snippet, 0, len(frameTexts))
	for _, ft := range frameTexts {
		text := strings.TrimSpace(ft.Text)
		if len(text) <= MinVisualTextLen {
			continue
		}
		visual = append(visual, &model.Snippet{
			Text:  text,
			Start: ft.Start,
			// Visual content has no natural duration; the sampling period
			// approximates it
			End:     ft.Start + float64(e.sampleInterval),
			Source:  model.SourceVisual,
			VideoID: videoID,
		})
	}

	return &model.Extraction{
		VideoID: videoID,
		Speech:  speech,
		Visual:  visual,
	}, nil
}
