package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/bm-github/persona-analyser/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStorage keeps the dataset payload as JSONB so cached snapshots
// round-trip exactly as the file backend does.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStorage) LoadDataset(ctx context.Context, username string) (*models.UserDataset, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reddit_cache WHERE username = $1`,
		username,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying cache: %w", err)
	}

	var dataset models.UserDataset
	if err := json.Unmarshal(payload, &dataset); err != nil {
		s.logger.Warn("Corrupt cache payload, treating as absent",
			zap.String("username", username),
			zap.Error(err))
		return nil, nil
	}
	return &dataset, nil
}

func (s *PostgresStorage) SaveDataset(ctx context.Context, dataset *models.UserDataset) error {
	payload, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("error encoding dataset: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reddit_cache (username, fetched_at, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (username)
		DO UPDATE SET fetched_at = EXCLUDED.fetched_at, payload = EXCLUDED.payload`,
		dataset.Username, dataset.FetchedAt, payload)
	if err != nil {
		return fmt.Errorf("error saving cache entry: %w", err)
	}
	return nil
}

func (s *PostgresStorage) LoadHistory(ctx context.Context, username string) ([]models.ConversationTurn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, question, answer
		FROM chat_history
		WHERE username = $1
		ORDER BY created_at`,
		username)
	if err != nil {
		return nil, fmt.Errorf("error querying history: %w", err)
	}
	defer rows.Close()

	history := []models.ConversationTurn{}
	for rows.Next() {
		var turn models.ConversationTurn
		if err := rows.Scan(&turn.ID, &turn.Timestamp, &turn.Question, &turn.Answer); err != nil {
			return nil, fmt.Errorf("error scanning history row: %w", err)
		}
		history = append(history, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return history, nil
}

func (s *PostgresStorage) AppendTurn(ctx context.Context, username string, turn models.ConversationTurn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_history (id, username, created_at, question, answer)
		VALUES ($1, $2, $3, $4, $5)`,
		turn.ID, username, turn.Timestamp, turn.Question, turn.Answer)
	if err != nil {
		return fmt.Errorf("error appending turn: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
