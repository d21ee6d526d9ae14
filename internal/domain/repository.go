package domain

import "context"

// LocalStorage is the persistence boundary for client state. It mirrors the
// browser localStorage contract: string keys to string values.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// CatalogSource loads the product catalog
type CatalogSource interface {
	LoadProducts(ctx context.Context) ([]Product, error)
}

// ChatCompletionClient sends one request to a chat-completion endpoint
type ChatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)
}

// MetricsRecorder receives observations from the usecase layer
type MetricsRecorder interface {
	ObserveChat(kind, outcome string)
	SetSelectionSize(n int)
}
