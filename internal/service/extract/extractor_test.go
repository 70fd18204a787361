package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
)

// mockCmdRunner for testing
type mockCmdRunner struct {
	mock.Mock
}

func (m *mockCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	callArgs := m.Called(ctx, name, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

// fakeTranscriptService returns canned speech snippets
type fakeTranscriptService struct {
	snippets []*model.Snippet
	err      error
}

func (f *fakeTranscriptService) Load(ctx context.Context, videoURL, videoID string) ([]*model.Snippet, error) {
	return f.snippets, f.err
}

// fakeFrameService returns canned frame texts
type fakeFrameService struct {
	frames []FrameText
	err    error
}

func (f *fakeFrameService) Recognize(ctx context.Context, videoURL string) ([]FrameText, error) {
	return f.frames, f.err
}

func TestExtractor_ProducesBothStreams(t *testing.T) {
	transcript := &fakeTranscriptService{
		snippets: []*model.Snippet{
			{Text: "welcome to the lecture", Start: 0, End: 4.2, Source: model.SourceSpeech, VideoID: "dQw4w9WgXcQ"},
		},
	}
	frames := &fakeFrameService{
		frames: []FrameText{
			{Start: 8, Text: "E = mc^2 derivation steps"},
		},
	}

	extractor := NewExtractorWithServices(transcript, frames, DefaultSampleInterval)
	extraction, err := extractor.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", extraction.VideoID)
	require.Len(t, extraction.Speech, 1)
	require.Len(t, extraction.Visual, 1)

	visual := extraction.Visual[0]
	assert.Equal(t, "E = mc^2 derivation steps", visual.Text)
	assert.Equal(t, 8.0, visual.Start)
	assert.Equal(t, 16.0, visual.End)
	assert.Equal(t, model.SourceVisual, visual.Source)
	assert.Equal(t, "dQw4w9WgXcQ", visual.VideoID)
}

func TestExtractor_FiltersShortFrameText(t *testing.T) {
	transcript := &fakeTranscriptService{snippets: []*model.Snippet{}}
	frames := &fakeFrameService{
		frames: []FrameText{
			{Start: 0, Text: "  noise  "},                // 5 chars stripped: dropped
			{Start: 8, Text: "exactly10c"},               // 10 chars: dropped, threshold is exclusive
			{Start: 16, Text: "elevenchars"},             // 11 chars: kept
			{Start: 24, Text: "   padded real content "}, // stripped before measuring
		},
	}

	extractor := NewExtractorWithServices(transcript, frames, DefaultSampleInterval)
	extraction, err := extractor.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	require.NoError(t, err)
	require.Len(t, extraction.Visual, 2)
	assert.Equal(t, "elevenchars", extraction.Visual[0].Text)
	assert.Equal(t, "padded real content", extraction.Visual[1].Text)
}

func TestExtractor_EmptyTranscriptIsNotFatal(t *testing.T) {
	transcript := &fakeTranscriptService{snippets: []*model.Snippet{}}
	frames := &fakeFrameService{
		frames: []FrameText{{Start: 0, Text: "some on-screen formula"}},
	}

	extractor := NewExtractorWithServices(transcript, frames, DefaultSampleInterval)
	extraction, err := extractor.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Empty(t, extraction.Speech)
	assert.Len(t, extraction.Visual, 1)
}

func TestExtractor_FrameFailureIsFatal(t *testing.T) {
	transcript := &fakeTranscriptService{snippets: []*model.Snippet{}}
	frames := &fakeFrameService{err: assert.AnError}

	extractor := NewExtractorWithServices(transcript, frames, DefaultSampleInterval)
	_, err := extractor.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	assert.Error(t, err)
}

func TestExtractor_RejectsUnsupportedURL(t *testing.T) {
	extractor := NewExtractorWithServices(&fakeTranscriptService{}, &fakeFrameService{}, DefaultSampleInterval)

	_, err := extractor.Extract(context.Background(), "https://vimeo.com/12345")

	assert.Error(t, err)
}
