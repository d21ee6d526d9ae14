package usecase

import (
	"context"
	"sync"

	"github.com/glowadvisor/backend/internal/domain"
)

// MockLocalStorage is a mock implementation of domain.LocalStorage
type MockLocalStorage struct {
	mu       sync.Mutex
	data     map[string]string
	getError error
	setError error
	setCalls int
	// honorContext makes SetItem fail on a done context like a network backend
	honorContext bool
}

func NewMockLocalStorage() *MockLocalStorage {
	return &MockLocalStorage{data: make(map[string]string)}
}

func (m *MockLocalStorage) GetItem(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return "", m.getError
	}
	value, ok := m.data[key]
	if !ok {
		return "", domain.ErrStorageKeyNotFound
	}
	return value, nil
}

func (m *MockLocalStorage) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.honorContext && ctx.Err() != nil {
		return ctx.Err()
	}
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockLocalStorage) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockLocalStorage) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// MockChatClient is a mock implementation of domain.ChatCompletionClient
type MockChatClient struct {
	mu       sync.Mutex
	response *domain.CompletionResponse
	err      error
	requests []*domain.CompletionRequest
	// block, when set, is received from before answering
	block chan struct{}
	// started, when set, is signalled once the request arrives
	started chan struct{}
}

func NewMockChatClient(content string) *MockChatClient {
	return &MockChatClient{
		response: &domain.CompletionResponse{
			Choices: []domain.CompletionChoice{
				{Message: domain.CompletionMessage{Role: "assistant", Content: content}},
			},
		},
	}
}

func (m *MockChatClient) CreateChatCompletion(ctx context.Context, request *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	started, block := m.started, m.block
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockChatClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockChatClient) lastRequest() *domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// MockCatalogSource is a mock implementation of domain.CatalogSource
type MockCatalogSource struct {
	products []domain.Product
	err      error
	calls    int
}

func (m *MockCatalogSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

// MockMetrics records observations
type MockMetrics struct {
	mu            sync.Mutex
	chats         map[string]int
	selectionSize int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{chats: make(map[string]int)}
}

func (m *MockMetrics) ObserveChat(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[kind+"/"+outcome]++
}

func (m *MockMetrics) SetSelectionSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectionSize = n
}

func (m *MockMetrics) count(kind, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chats[kind+"/"+outcome]
}

var (
	serum = domain.Product{Name: "Serum", Brand: "X", Category: "skin", Image: "https://img/serum.jpg"}
	gel   = domain.Product{Name: "Gel", Brand: "Y", Category: "hair", Image: "https://img/gel.jpg"}
	toner = domain.Product{Name: "Toner", Brand: "X", Category: "skin", Image: "https://img/toner.jpg"}
)
