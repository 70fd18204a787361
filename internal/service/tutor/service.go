package tutor

import (
	"context"
	"sort"

	"github.com/tmc/langchaingo/llms"

	"github.com/Taichi-iskw/yt-tutor/internal/errors"
	"github.com/Taichi-iskw/yt-tutor/internal/model"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/history"
	"github.com/Taichi-iskw/yt-tutor/internal/service/ingest"
	"github.com/Taichi-iskw/yt-tutor/internal/service/retrieval"
)

const (
	// historyTurns is how many previous turns seed the conversation
	historyTurns = 8
	// maxReferenceTimestamps caps the timestamp list in an answer
	maxReferenceTimestamps = 10
	// answerTemperature keeps explanations natural without drifting from sources
	answerTemperature = 0.3
)

// Service answers student questions about a previously ingested video
type Service interface {
	Ask(ctx context.Context, userID, chatID, videoURL, question string) (*model.Answer, error)
}

// service implements Service by wiring the full pipeline: ingest cache,
// context composition, LLM call, history persistence
type service struct {
	ingest      ingest.Service
	composer    retrieval.Composer
	historyRepo history.Repository
	llm         llms.Model
}

// NewService creates a new tutoring Service. The LLM client is constructed by
// the caller and passed in.
func NewService(ingestService ingest.Service, composer retrieval.Composer, historyRepo history.Repository, llm llms.Model) Service {
	return &service{
		ingest:      ingestService,
		composer:    composer,
		historyRepo: historyRepo,
		llm:         llm,
	}
}

// Ask runs one question through the pipeline and returns the answer with its
// reference timestamps
func (s *service) Ask(ctx context.Context, userID, chatID, videoURL, question string) (*model.Answer, error) {
	if question == "" {
		return nil, errors.New(errors.CodeInvalidArg, "question is required")
	}

	ingested, err := s.ingest.EnsureIndex(ctx, userID, chatID, videoURL)
	if err != nil {
		return nil, err
	}

	composed, err := s.composer.Compose(ctx, ingested.IndexHandle, question)
	if err != nil {
		return nil, err
	}

	// No usable context: answer honestly without invoking the model
	if composed.Empty() {
		return &model.Answer{
			Text:       NoContextAnswer,
			Timestamps: []string{},
			FromVideo:  false,
		}, nil
	}

	messages, err := s.buildMessages(ctx, userID, chatID, composed, question)
	if err != nil {
		return nil, err
	}

	response, err := s.llm.GenerateContent(ctx, messages, llms.WithTemperature(answerTemperature))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to generate answer")
	}
	if len(response.Choices) == 0 {
		return nil, errors.New(errors.CodeExternal, "model returned no choices")
	}
	answer := response.Choices[0].Content

	if err := s.historyRepo.Append(ctx, &model.ChatMessage{
		UserID: userID, ChatID: chatID, Role: "human", Content: question,
	}); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Append(ctx, &model.ChatMessage{
		UserID: userID, ChatID: chatID, Role: "ai", Content: answer,
	}); err != nil {
		return nil, err
	}

	return &model.Answer{
		Text:       answer,
		Timestamps: referenceTimestamps(composed.Used),
		FromVideo:  true,
	}, nil
}

// buildMessages assembles the system prompt, recent history and the new question
func (s *service) buildMessages(ctx context.Context, userID, chatID string, composed *model.ComposedContext, question string) ([]llms.MessageContent, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	}

	turns, err := s.historyRepo.LoadRecent(ctx, userID, chatID, historyTurns)
	if err != nil {
		return nil, err
	}
	for _, turn := range turns {
		role := llms.ChatMessageTypeHuman
		if turn.Role == "ai" {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}

	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, buildUserPrompt(composed, question)))
	return messages, nil
}

// referenceTimestamps collects the unique start markers of the used snippets in
// playback order, capped at maxReferenceTimestamps
func referenceTimestamps(used []*model.Snippet) []string {
	seen := make(map[int]bool)
	var seconds []int
	for _, snippet := range used {
		s := int(snippet.Start)
		if !seen[s] {
			seen[s] = true
			seconds = append(seconds, s)
		}
	}
	sort.Ints(seconds)

	if len(seconds) > maxReferenceTimestamps {
		seconds = seconds[:maxReferenceTimestamps]
	}

	markers := make([]string, 0, len(seconds))
	for _, s := range seconds {
		markers = append(markers, model.Snippet{Start: float64(s)}.Marker())
	}
	return markers
}
