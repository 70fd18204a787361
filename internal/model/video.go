package model

import (
	"fmt"
	"time"
)

// Source identifies where an extracted snippet came from
type Source string

const (
	// SourceSpeech marks snippets taken from the spoken transcript
	SourceSpeech Source = "speech"
	// SourceVisual marks snippets recognized from sampled video frames
	SourceVisual Source = "visual"
)

// Snippet is an atomic unit of extracted video content.
// Created once during ingestion and immutable afterwards.
type Snippet struct {
	Text    string  `json:"text" db:"text"`
	Start   float64 `json:"start" db:"start_s"` // start time in seconds
	End     float64 `json:"end" db:"end_s"`     // end time in seconds
	Source  Source  `json:"source" db:"source"`
	VideoID string  `json:"video_id" db:"video_id"`
}

// Marker renders the snippet start time as a M:SS context marker
func (s Snippet) Marker() string {
	total := int(s.Start)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Extraction holds the two parallel snippet streams produced for one video
type Extraction struct {
	VideoID string
	Speech  []*Snippet
	Visual  []*Snippet
}

// ScoredSnippet is a snippet annotated with its similarity score
type ScoredSnippet struct {
	Snippet *Snippet
	Score   float64
}

// IngestResult reports where a video's index lives after ingestion
type IngestResult struct {
	IndexHandle string
	VideoID     string
	Reused      bool // true when the ingest cache already had an entry
}

// RetrievalResult is the blended candidate set returned by priority retrieval,
// speech entries first, similarity order preserved within each source
type RetrievalResult struct {
	Speech []*ScoredSnippet
	Visual []*ScoredSnippet
}

// All returns every retrieved snippet in result order
func (r RetrievalResult) All() []*ScoredSnippet {
	out := make([]*ScoredSnippet, 0, len(r.Speech)+len(r.Visual))
	out = append(out, r.Speech...)
	out = append(out, r.Visual...)
	return out
}

// ComposedContext is the assembled prompt context for one question
type ComposedContext struct {
	SpeechBlock string
	VisualBlock string
	Used        []*Snippet
	Timestamp   *int // resolved timestamp in seconds, nil when the query had none
}

// Empty reports whether composition found no usable context at all
func (c ComposedContext) Empty() bool {
	return c.SpeechBlock == "" && c.VisualBlock == ""
}

// Answer is the final response for a tutoring question
type Answer struct {
	Text       string   `json:"answer"`
	Timestamps []string `json:"timestamps"` // M:SS references into the video
	FromVideo  bool     `json:"from_video"` // false for the fixed no-context reply
}

// ChatMessage is one persisted conversation turn
type ChatMessage struct {
	UserID    string    `json:"user_id" db:"user_id"`
	ChatID    string    `json:"chat_id" db:"chat_id"`
	Role      string    `json:"role" db:"role"` // "human" or "ai"
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"ts"`
}

// ChatSummary describes one chat for listing
type ChatSummary struct {
	ChatID       string     `json:"chat_id"`
	MessageCount int        `json:"message_count"`
	VideoURL     string     `json:"video_url,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}
