package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bm-github/persona-analyser/internal/models"
	"go.uber.org/zap"
)

// FileStore keeps one JSON file per user under a cache directory and a
// history directory. Writes go to a temp file in the same directory followed
// by a rename, so readers see either the old or the new complete value.
type FileStore struct {
	cacheDir   string
	historyDir string
	logger     *zap.Logger
}

func NewFileStore(cacheDir, historyDir string, logger *zap.Logger) (*FileStore, error) {
	for _, dir := range []string{cacheDir, historyDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	return &FileStore{cacheDir: cacheDir, historyDir: historyDir, logger: logger}, nil
}

// encode makes a username safe to use as a file name.
func encode(username string) string {
	return url.PathEscape(username)
}

func (s *FileStore) cachePath(username string) string {
	return filepath.Join(s.cacheDir, encode(username)+".json")
}

func (s *FileStore) historyPath(username string) string {
	return filepath.Join(s.historyDir, encode(username)+"_history.json")
}

func (s *FileStore) LoadDataset(ctx context.Context, username string) (*models.UserDataset, error) {
	path := s.cachePath(username)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading cache file: %w", err)
	}

	var dataset models.UserDataset
	if err := json.Unmarshal(raw, &dataset); err != nil {
		s.logger.Warn("Corrupt cache file, treating as absent",
			zap.String("username", username),
			zap.String("path", path),
			zap.Error(err))
		return nil, nil
	}
	return &dataset, nil
}

func (s *FileStore) SaveDataset(ctx context.Context, dataset *models.UserDataset) error {
	raw, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding dataset: %w", err)
	}
	return writeAtomic(s.cachePath(dataset.Username), raw)
}

func (s *FileStore) LoadHistory(ctx context.Context, username string) ([]models.ConversationTurn, error) {
	path := s.historyPath(username)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []models.ConversationTurn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading history file: %w", err)
	}

	var history []models.ConversationTurn
	if err := json.Unmarshal(raw, &history); err != nil {
		s.logger.Warn("Corrupt history file, treating as empty",
			zap.String("username", username),
			zap.String("path", path),
			zap.Error(err))
		return []models.ConversationTurn{}, nil
	}
	return history, nil
}

func (s *FileStore) AppendTurn(ctx context.Context, username string, turn models.ConversationTurn) error {
	history, err := s.LoadHistory(ctx, username)
	if err != nil {
		return err
	}
	history = append(history, turn)

	raw, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding history: %w", err)
	}
	return writeAtomic(s.historyPath(username), raw)
}

func (s *FileStore) Close() error { return nil }

// writeAtomic writes data to a sibling temp file and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error replacing %s: %w", path, err)
	}
	return nil
}
