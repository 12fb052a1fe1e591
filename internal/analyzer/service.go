package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bm-github/persona-analyser/internal/models"
	"github.com/bm-github/persona-analyser/internal/reddit"
	"github.com/bm-github/persona-analyser/internal/storage"
	"go.uber.org/zap"
)

// FreshnessWindow is how long a cached dataset may be served without a
// refetch.
const FreshnessWindow = 24 * time.Hour

// ErrDataUnavailable means neither a fresh cache entry nor a successful
// fetch could produce a usable dataset. Any stale cache entry is left in
// place as the last-good value.
var ErrDataUnavailable = errors.New("no usable dataset for user")

// Fetcher is the remote capability the pipeline drains. The concrete
// reddit.Client satisfies it through its materializing helpers.
type Fetcher interface {
	CheckUser(ctx context.Context, username string) error
	FetchSubmissions(ctx context.Context, username string, limit int) ([]models.Submission, error)
	FetchComments(ctx context.Context, username string, limit int) ([]models.Comment, error)
}

// Service ties the fetcher, the cache store and the aggregator into the
// fetch-or-reuse pipeline.
type Service struct {
	store      storage.Store
	fetcher    Fetcher
	fetchLimit int
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(store storage.Store, fetcher Fetcher, fetchLimit int, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		fetcher:    fetcher,
		fetchLimit: fetchLimit,
		logger:     logger,
		now:        time.Now,
	}
}

// FetchUserData returns the user's dataset, reusing the cache when it is
// younger than FreshnessWindow. On refresh the dataset is rebuilt wholesale:
// both feeds drained, statistics recomputed, entry overwritten atomically.
func (s *Service) FetchUserData(ctx context.Context, username string, forceRefresh bool) (*models.UserDataset, error) {
	if !forceRefresh {
		cached, err := s.store.LoadDataset(ctx, username)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			age := s.now().Sub(cached.FetchedAt)
			if age < FreshnessWindow {
				s.logger.Info("Using cached data",
					zap.String("username", username),
					zap.Duration("age", age))
				return cached, nil
			}
			s.logger.Info("Cache is stale, refreshing",
				zap.String("username", username),
				zap.Duration("age", age))
		}
	}

	if err := s.fetcher.CheckUser(ctx, username); err != nil {
		if errors.Is(err, reddit.ErrUserNotFound) || errors.Is(err, reddit.ErrInvalidUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	submissions, err := s.fetcher.FetchSubmissions(ctx, username, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	comments, err := s.fetcher.FetchComments(ctx, username, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	dataset := &models.UserDataset{
		Username:    username,
		FetchedAt:   s.now().UTC(),
		Submissions: submissions,
		Comments:    comments,
		Statistics:  Aggregate(submissions, comments),
	}
	if err := s.store.SaveDataset(ctx, dataset); err != nil {
		return nil, err
	}

	s.logger.Info("Fetched and cached user data",
		zap.String("username", username),
		zap.Int("submissions", len(submissions)),
		zap.Int("comments", len(comments)))
	return dataset, nil
}
