package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bm-github/persona-analyser/internal/models"
)

// MemoryStorage is a non-durable Store used for tests and the "memory"
// backend. Values are deep-copied on the way in and out so callers can never
// alias stored state.
type MemoryStorage struct {
	mu        sync.RWMutex
	datasets  map[string]*models.UserDataset
	histories map[string][]models.ConversationTurn
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		datasets:  make(map[string]*models.UserDataset),
		histories: make(map[string][]models.ConversationTurn),
	}
}

func (s *MemoryStorage) LoadDataset(ctx context.Context, username string) (*models.UserDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, exists := s.datasets[username]
	if !exists {
		return nil, nil
	}
	return copyDataset(dataset)
}

func (s *MemoryStorage) SaveDataset(ctx context.Context, dataset *models.UserDataset) error {
	copied, err := copyDataset(dataset)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[dataset.Username] = copied
	return nil
}

func (s *MemoryStorage) LoadHistory(ctx context.Context, username string) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.histories[username]
	out := make([]models.ConversationTurn, len(history))
	copy(out, history)
	return out, nil
}

func (s *MemoryStorage) AppendTurn(ctx context.Context, username string, turn models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[username] = append(s.histories[username], turn)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// copyDataset round-trips through JSON, which also keeps the memory backend
// honest about what the durable backends can represent.
func copyDataset(dataset *models.UserDataset) (*models.UserDataset, error) {
	raw, err := json.Marshal(dataset)
	if err != nil {
		return nil, err
	}
	var out models.UserDataset
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
