package storage

import (
	"context"

	"github.com/bm-github/persona-analyser/internal/models"
)

// Store persists per-user datasets and conversation history. All state is
// partitioned by username; implementations must guarantee that LoadDataset
// never observes a partially written dataset.
type Store interface {
	// LoadDataset returns the cached dataset for the user, or (nil, nil)
	// when none exists. A corrupt entry is treated as absent.
	LoadDataset(ctx context.Context, username string) (*models.UserDataset, error)
	// SaveDataset overwrites the user's cache entry atomically.
	SaveDataset(ctx context.Context, dataset *models.UserDataset) error

	// LoadHistory returns the user's conversation turns in append order,
	// empty when none exist.
	LoadHistory(ctx context.Context, username string) ([]models.ConversationTurn, error)
	// AppendTurn durably adds one turn without losing earlier ones.
	AppendTurn(ctx context.Context, username string, turn models.ConversationTurn) error

	Close() error
}
