package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/glowadvisor/backend/internal/domain"
	"github.com/glowadvisor/backend/internal/infrastructure/openai"
)

// Chat surfaces, also used as metric labels
const (
	ChatKindMessage = "chat"
	ChatKindRoutine = "routine"
)

// Chat outcomes, used as metric labels
const (
	OutcomeSuccess     = "success"
	OutcomeAPIError    = "api_error"
	OutcomeTransport   = "transport_error"
	OutcomeNoSelection = "no_selection"
	OutcomeRejected    = "rejected"
)

// ChatServiceConfig holds configuration for the chat service
type ChatServiceConfig struct {
	Model            string
	MaxTokens        int
	RoutineMaxTokens int
	Logger           *slog.Logger
	Metrics          domain.MetricsRecorder
}

// ChatService runs the free-form chat and generate-routine flows against the
// transcript. Each surface allows one outstanding request; a second one is
// rejected with domain.ErrRequestInFlight.
type ChatService struct {
	client     domain.ChatCompletionClient
	selection  *SelectionStore
	transcript *Transcript
	config     ChatServiceConfig
	logger     *slog.Logger

	chatBusy    atomic.Bool
	routineBusy atomic.Bool
}

// NewChatService creates a new chat service with dependencies
func NewChatService(
	client domain.ChatCompletionClient,
	selection *SelectionStore,
	transcript *Transcript,
	config ChatServiceConfig,
) *ChatService {
	if config.Model == "" {
		config.Model = "gpt-4o"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 200
	}
	if config.RoutineMaxTokens == 0 {
		config.RoutineMaxTokens = 300
	}
	if config.Metrics == nil {
		config.Metrics = noopMetrics{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ChatService{
		client:     client,
		selection:  selection,
		transcript: transcript,
		config:     config,
		logger:     logger.With("component", "chat"),
	}
}

// SendMessage appends the user's text, asks the advisor, and appends the
// reply or an error entry. The returned message is the final entry appended.
func (s *ChatService) SendMessage(ctx context.Context, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, domain.ErrEmptyMessage
	}
	if !s.chatBusy.CompareAndSwap(false, true) {
		s.config.Metrics.ObserveChat(ChatKindMessage, OutcomeRejected)
		return domain.ChatMessage{}, domain.ErrRequestInFlight
	}
	defer s.chatBusy.Store(false)

	s.transcript.Append(domain.RoleUser, userTitle, text)

	return s.complete(ctx, completion{
		kind:         ChatKindMessage,
		loadingText:  advisorTypingText,
		systemPrompt: advisorSystemPrompt,
		userPrompt:   text,
		maxTokens:    s.config.MaxTokens,
		title:        advisorTitle,
		errorTitle:   advisorTitle,
	})
}

// GenerateRoutine asks for a routine built from the current selection. With
// an empty selection it appends one instruction entry and sends nothing.
func (s *ChatService) GenerateRoutine(ctx context.Context) (domain.ChatMessage, error) {
	if !s.routineBusy.CompareAndSwap(false, true) {
		s.config.Metrics.ObserveChat(ChatKindRoutine, OutcomeRejected)
		return domain.ChatMessage{}, domain.ErrRequestInFlight
	}
	defer s.routineBusy.Store(false)

	items := s.selection.Items()
	if len(items) == 0 {
		s.config.Metrics.ObserveChat(ChatKindRoutine, OutcomeNoSelection)
		return s.transcript.Append(domain.RoleError, systemTitle, noSelectionText), domain.ErrNoSelection
	}

	return s.complete(ctx, completion{
		kind:         ChatKindRoutine,
		loadingText:  routineGeneratingText,
		systemPrompt: routineSystemPrompt,
		userPrompt:   BuildRoutinePrompt(items),
		maxTokens:    s.config.RoutineMaxTokens,
		title:        routineTitle,
		errorTitle:   systemTitle,
		format:       FormatRoutineSteps,
	})
}

// Transcript returns a copy of the transcript entries
func (s *ChatService) Transcript() []domain.ChatMessage {
	return s.transcript.Entries()
}

// ResetTranscript clears the transcript
func (s *ChatService) ResetTranscript() {
	s.transcript.Reset()
}

type completion struct {
	kind         string
	loadingText  string
	systemPrompt string
	userPrompt   string
	maxTokens    int
	title        string
	errorTitle   string
	format       func(string) string
}

// complete runs one request/response cycle. The loading placeholder it adds
// is removed exactly once whatever the outcome.
func (s *ChatService) complete(ctx context.Context, c completion) (domain.ChatMessage, error) {
	loadingID := s.transcript.AppendLoading(c.loadingText)

	resp, err := s.client.CreateChatCompletion(ctx, &domain.CompletionRequest{
		Model: s.config.Model,
		Messages: []domain.CompletionMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: c.userPrompt},
		},
		MaxTokens: c.maxTokens,
	})

	s.transcript.RemoveLoading(loadingID)

	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		s.logger.Warn("chat endpoint returned an error", "kind", c.kind, "status", apiErr.StatusCode, "message", apiErr.Message)
		s.config.Metrics.ObserveChat(c.kind, OutcomeAPIError)
		return s.transcript.Append(domain.RoleError, c.errorTitle, fmt.Sprintf(apiErrorFormat, apiErr.Message)), err
	case err != nil:
		s.logger.Error("chat request failed", "kind", c.kind, "error", err)
		s.config.Metrics.ObserveChat(c.kind, OutcomeTransport)
		return s.transcript.Append(domain.RoleError, c.errorTitle, connectivityErrorText), err
	}

	reply := openai.FirstContent(resp)
	if c.format != nil {
		reply = c.format(reply)
	}
	s.config.Metrics.ObserveChat(c.kind, OutcomeSuccess)
	return s.transcript.Append(domain.RoleAssistant, c.title, reply), nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveChat(kind, outcome string) {}
func (noopMetrics) SetSelectionSize(n int)           {}
