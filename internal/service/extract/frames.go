package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Taichi-iskw/yt-tutor/internal/errors"
	"github.com/Taichi-iskw/yt-tutor/internal/service/common"
)

// Default frame sampling parameters
const (
	DefaultSampleInterval = 8   // seconds between sampled frames
	DefaultMaxFrames      = 120 // frame budget per video
)

// FrameText is the raw text recognized on one sampled frame
type FrameText struct {
	Start float64 // frame timestamp in seconds
	Text  string  // recognized text, possibly empty
}

// FrameService samples frames from a video stream and runs text recognition on
// each. Unlike the transcript, an unopenable frame stream is fatal: with no
// frame data there is nothing left to index.
type FrameService interface {
	Recognize(ctx context.Context, videoURL string) ([]FrameText, error)
}

// frameService implements FrameService using yt-dlp for the stream URL, ffmpeg
// for sampling and tesseract for recognition
type frameService struct {
	cmdRunner      common.CmdRunner
	sampleInterval int
	maxFrames      int
	logger         *slog.Logger
}

// NewFrameService creates a FrameService with default sampling parameters
func NewFrameService(cmdRunner common.CmdRunner) FrameService {
	return NewFrameServiceWithOptions(cmdRunner, DefaultSampleInterval, DefaultMaxFrames)
}

// NewFrameServiceWithOptions creates a FrameService with custom sampling parameters
func NewFrameServiceWithOptions(cmdRunner common.CmdRunner, sampleInterval, maxFrames int) FrameService {
	return &frameService{
		cmdRunner:      cmdRunner,
		sampleInterval: sampleInterval,
		maxFrames:      maxFrames,
		logger:         slog.Default(),
	}
}

// Recognize samples one frame every sampleInterval seconds up to the frame
// budget and OCRs each
func (s *frameService) Recognize(ctx context.Context, videoURL string) ([]FrameText, error) {
	streamURL, err := s.resolveStreamURL(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "yt-tutor-frames-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	args := []string{
		"-i", streamURL,
		"-vf", fmt.Sprintf("fps=1/%d", s.sampleInterval),
		"-frames:v", fmt.Sprintf("%d", s.maxFrames),
		filepath.Join(tempDir, "frame%05d.png"),
	}
	if _, err := s.cmdRunner.Run(ctx, "ffmpeg", args...); err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to open video stream")
	}

	frames, err := filepath.Glob(filepath.Join(tempDir, "frame*.png"))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list sampled frames")
	}
	sort.Strings(frames)

	results := make([]FrameText, 0, len(frames))
	for i, frame := range frames {
		text, err := s.cmdRunner.Run(ctx, "tesseract", frame, "stdout")
		if err != nil {
			// Recognition backends report "no text" as empty output; a failing
			// run on one frame is treated the same way
			s.logger.Debug("text recognition failed for frame", "frame", frame, "error", err)
			continue
		}
		results = append(results, FrameText{
			Start: float64(i * s.sampleInterval),
			Text:  string(text),
		})
	}

	return results, nil
}

// resolveStreamURL asks yt-dlp for a playable low-resolution stream URL
func (s *frameService) resolveStreamURL(ctx context.Context, videoURL string) (string, error) {
	args := []string{
		"-f", "best[height<=360]",
		"--get-url",
		videoURL,
	}
	output, err := s.cmdRunner.Run(ctx, "yt-dlp", args...)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, "failed to resolve video stream URL")
	}

	streamURL := strings.TrimSpace(strings.SplitN(string(output), "\n", 2)[0])
	if streamURL == "" {
		return "", errors.New(errors.CodeExternal, "yt-dlp returned no stream URL")
	}
	return streamURL, nil
}
