package openai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/glowadvisor/backend/internal/domain"
)

// ParseCompletion classifies a response body. An error payload wins over the
// status code so the endpoint's message reaches the user verbatim.
func ParseCompletion(statusCode int, body []byte) (*domain.CompletionResponse, error) {
	var completion domain.CompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response (status %d): %v", domain.ErrChatTransport, statusCode, err)
	}

	if completion.Error != nil {
		return nil, &domain.APIError{
			StatusCode: statusCode,
			Message:    completion.Error.Message,
		}
	}

	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrChatTransport, statusCode)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", domain.ErrChatTransport)
	}

	return &completion, nil
}

// FirstContent returns the text of the first choice
func FirstContent(completion *domain.CompletionResponse) string {
	if completion == nil || len(completion.Choices) == 0 {
		return ""
	}
	return completion.Choices[0].Message.Content
}
