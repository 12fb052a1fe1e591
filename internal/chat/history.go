package chat

import (
	"context"
	"time"

	"github.com/bm-github/persona-analyser/internal/models"
	"github.com/bm-github/persona-analyser/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WindowSize is the fixed number of prior turns supplied as context to the
// next completion. It bounds prompt growth over a long session at the cost
// of the model forgetting older exchanges.
const WindowSize = 3

// Manager handles the per-user question/answer history.
type Manager struct {
	store  storage.Store
	logger *zap.Logger
}

func NewManager(store storage.Store, logger *zap.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// History returns all persisted turns for the user in chronological order.
func (m *Manager) History(ctx context.Context, username string) ([]models.ConversationTurn, error) {
	return m.store.LoadHistory(ctx, username)
}

// Append durably records one exchange and returns the stored turn.
func (m *Manager) Append(ctx context.Context, username, question, answer string) (models.ConversationTurn, error) {
	turn := models.ConversationTurn{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Question:  question,
		Answer:    answer,
	}
	if err := m.store.AppendTurn(ctx, username, turn); err != nil {
		return models.ConversationTurn{}, err
	}
	m.logger.Debug("Appended conversation turn",
		zap.String("username", username),
		zap.String("turn_id", turn.ID))
	return turn, nil
}

// Window returns the most recent WindowSize turns (or fewer) in
// chronological order.
func Window(history []models.ConversationTurn) []models.ConversationTurn {
	if len(history) <= WindowSize {
		return history
	}
	return history[len(history)-WindowSize:]
}
