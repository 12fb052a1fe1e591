package analyzer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bm-github/persona-analyser/internal/models"
	"github.com/bm-github/persona-analyser/internal/reddit"
	"github.com/bm-github/persona-analyser/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFetcher counts remote calls and can be told to fail.
type fakeFetcher struct {
	submissions []models.Submission
	comments    []models.Comment

	checkErr error
	fetchErr error

	checkCalls int
	fetchCalls int
}

func (f *fakeFetcher) CheckUser(ctx context.Context, username string) error {
	f.checkCalls++
	return f.checkErr
}

func (f *fakeFetcher) FetchSubmissions(ctx context.Context, username string, limit int) ([]models.Submission, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.submissions, nil
}

func (f *fakeFetcher) FetchComments(ctx context.Context, username string, limit int) ([]models.Comment, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.comments, nil
}

func newTestService(fetcher *fakeFetcher) (*Service, storage.Store) {
	store := storage.NewMemoryStorage()
	svc := NewService(store, fetcher, 100, zap.NewNop())
	return svc, store
}

func TestFetchUserDataCachesWithinWindow(t *testing.T) {
	fetcher := &fakeFetcher{
		submissions: []models.Submission{{Subreddit: "golang", Title: "hi", Score: 3}},
		comments:    []models.Comment{{Subreddit: "golang", Body: "yo"}},
	}
	svc, _ := newTestService(fetcher)
	ctx := context.Background()

	first, err := svc.FetchUserData(ctx, "alice", false)
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.fetchCalls)

	second, err := svc.FetchUserData(ctx, "alice", false)
	require.NoError(t, err)

	// Zero remote calls the second time, and byte-identical data.
	assert.Equal(t, 2, fetcher.fetchCalls)
	assert.Equal(t, 1, fetcher.checkCalls)
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestFetchUserDataComputesStatistics(t *testing.T) {
	fetcher := &fakeFetcher{
		submissions: []models.Submission{{Subreddit: "golang"}},
		comments:    []models.Comment{{Subreddit: "golang"}, {Subreddit: "rust"}},
	}
	svc, _ := newTestService(fetcher)

	dataset, err := svc.FetchUserData(context.Background(), "alice", false)
	require.NoError(t, err)

	assert.Equal(t, 1, dataset.Statistics.TotalSubmissions)
	assert.Equal(t, 2, dataset.Statistics.TotalComments)
	assert.Equal(t, []models.SubredditCount{
		{Subreddit: "golang", Count: 2},
		{Subreddit: "rust", Count: 1},
	}, dataset.Statistics.TopSubreddits)
	assert.False(t, dataset.FetchedAt.IsZero())
}

func TestFetchUserDataStaleCacheRefetches(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, _ := newTestService(fetcher)
	ctx := context.Background()

	_, err := svc.FetchUserData(ctx, "alice", false)
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.fetchCalls)

	// Move the clock past the freshness window.
	svc.now = func() time.Time { return time.Now().Add(FreshnessWindow + time.Hour) }

	_, err = svc.FetchUserData(ctx, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, 4, fetcher.fetchCalls)
}

func TestFetchUserDataForceRefresh(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, _ := newTestService(fetcher)
	ctx := context.Background()

	_, err := svc.FetchUserData(ctx, "alice", false)
	require.NoError(t, err)

	_, err = svc.FetchUserData(ctx, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, 4, fetcher.fetchCalls)
}

func TestFetchUserDataNotFoundWritesNothing(t *testing.T) {
	fetcher := &fakeFetcher{checkErr: reddit.ErrUserNotFound}
	svc, store := newTestService(fetcher)
	ctx := context.Background()

	_, err := svc.FetchUserData(ctx, "doesnotexist123", false)
	require.ErrorIs(t, err, reddit.ErrUserNotFound)
	assert.Zero(t, fetcher.fetchCalls)

	cached, err := store.LoadDataset(ctx, "doesnotexist123")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestFetchUserDataTransientKeepsStaleCache(t *testing.T) {
	fetcher := &fakeFetcher{
		submissions: []models.Submission{{Subreddit: "golang"}},
	}
	svc, store := newTestService(fetcher)
	ctx := context.Background()

	_, err := svc.FetchUserData(ctx, "alice", false)
	require.NoError(t, err)

	// Cache goes stale, then the remote starts failing.
	svc.now = func() time.Time { return time.Now().Add(FreshnessWindow + time.Hour) }
	fetcher.fetchErr = &reddit.TransientError{Op: "fetch submitted"}

	_, err = svc.FetchUserData(ctx, "alice", false)
	require.ErrorIs(t, err, ErrDataUnavailable)

	// The stale entry is still the last-good value.
	cached, err := store.LoadDataset(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Len(t, cached.Submissions, 1)
}

func TestFetchUserDataTransientProbe(t *testing.T) {
	fetcher := &fakeFetcher{checkErr: &reddit.TransientError{Op: "check user"}}
	svc, _ := newTestService(fetcher)

	_, err := svc.FetchUserData(context.Background(), "alice", false)
	require.ErrorIs(t, err, ErrDataUnavailable)
}
