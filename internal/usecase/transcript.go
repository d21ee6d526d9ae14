package usecase

import (
	"sync"
	"time"

	"github.com/glowadvisor/backend/internal/domain"
	"github.com/google/uuid"
)

// Transcript is the ordered list of chat turns. Entries are only ever
// appended; the one exception is removing a loading placeholder by id.
type Transcript struct {
	mu      sync.RWMutex
	entries []domain.ChatMessage
	now     func() time.Time
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// Append adds an entry and returns it
func (t *Transcript) Append(role domain.Role, title, text string) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Title:     title,
		Text:      text,
		CreatedAt: t.now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, msg)
	return msg
}

// AppendLoading adds a loading placeholder and returns its id
func (t *Transcript) AppendLoading(text string) string {
	return t.Append(domain.RoleLoading, "", text).ID
}

// RemoveLoading removes the loading placeholder with id. It reports false
// when no such placeholder exists.
func (t *Transcript) RemoveLoading(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, msg := range t.entries {
		if msg.ID == id && msg.Role == domain.RoleLoading {
			t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the transcript in arrival order
func (t *Transcript) Entries() []domain.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.ChatMessage{}, t.entries...)
}

// Len returns the number of entries
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Reset removes every entry
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}
