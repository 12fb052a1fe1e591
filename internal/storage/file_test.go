package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bm-github/persona-analyser/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "cache"), filepath.Join(dir, "history"), zap.NewNop())
	require.NoError(t, err)
	return store
}

func testDataset(username string) *models.UserDataset {
	subs := []models.Submission{{
		Title:        "Go generics in practice",
		Body:         "long writeup",
		Subreddit:    "golang",
		Score:        120,
		UpvoteRatio:  0.93,
		CreatedUTC:   1705276800,
		CommentCount: 42,
		URL:          "https://example.com/post",
		IsSelf:       true,
		Flair:        "discussion",
		Permalink:    "/r/golang/comments/abc/post/",
	}}
	comments := []models.Comment{{
		Body:        "have you tried pprof",
		Subreddit:   "golang",
		Score:       15,
		CreatedUTC:  1705363200,
		IsSubmitter: false,
		ParentID:    "t1_xyz",
		LinkID:      "t3_abc",
		Permalink:   "/r/golang/comments/abc/post/def/",
	}}
	return &models.UserDataset{
		Username:    username,
		FetchedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Submissions: subs,
		Comments:    comments,
		Statistics: models.Statistics{
			TotalSubmissions: 1,
			TotalComments:    1,
			TopSubreddits:    []models.SubredditCount{{Subreddit: "golang", Count: 2}},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	dataset := testDataset("alice")
	require.NoError(t, store.SaveDataset(ctx, dataset))

	loaded, err := store.LoadDataset(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, dataset, loaded)
}

func TestFileStoreRoundTripEmpty(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	dataset := &models.UserDataset{
		Username:    "bob",
		FetchedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Submissions: []models.Submission{},
		Comments:    []models.Comment{},
		Statistics:  models.Statistics{TopSubreddits: []models.SubredditCount{}},
	}
	require.NoError(t, store.SaveDataset(ctx, dataset))

	loaded, err := store.LoadDataset(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, dataset, loaded)
}

func TestFileStoreAbsent(t *testing.T) {
	store := newTestFileStore(t)

	loaded, err := store.LoadDataset(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStoreCorruptCache(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDataset(ctx, testDataset("alice")))
	require.NoError(t, os.WriteFile(store.cachePath("alice"), []byte("{not json"), 0o644))

	loaded, err := store.LoadDataset(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	first := testDataset("alice")
	require.NoError(t, store.SaveDataset(ctx, first))

	second := testDataset("alice")
	second.FetchedAt = first.FetchedAt.Add(time.Hour)
	second.Submissions = []models.Submission{}
	require.NoError(t, store.SaveDataset(ctx, second))

	loaded, err := store.LoadDataset(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	store := newTestFileStore(t)
	require.NoError(t, store.SaveDataset(context.Background(), testDataset("alice")))

	entries, err := os.ReadDir(store.cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice.json", entries[0].Name())
}

func TestFileStoreUsernameEncoding(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	// Hostile names must not escape the cache directory.
	dataset := testDataset("../evil")
	require.NoError(t, store.SaveDataset(ctx, dataset))

	loaded, err := store.LoadDataset(ctx, "../evil")
	require.NoError(t, err)
	assert.Equal(t, dataset, loaded)

	entries, err := os.ReadDir(store.cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestHistoryAppendAndReload(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	historyDir := filepath.Join(dir, "history")
	ctx := context.Background()

	store, err := NewFileStore(cacheDir, historyDir, zap.NewNop())
	require.NoError(t, err)

	turns := []models.ConversationTurn{
		{ID: "1", Timestamp: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), Question: "q1", Answer: "a1"},
		{ID: "2", Timestamp: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC), Question: "q2", Answer: "a2"},
	}
	for _, turn := range turns {
		require.NoError(t, store.AppendTurn(ctx, "alice", turn))
	}

	// A fresh store over the same directories must see every turn.
	reopened, err := NewFileStore(cacheDir, historyDir, zap.NewNop())
	require.NoError(t, err)

	history, err := reopened.LoadHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, turns, history)
}

func TestHistoryEmpty(t *testing.T) {
	store := newTestFileStore(t)

	history, err := store.LoadHistory(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NotNil(t, history)
}

func TestHistoryCorrupt(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(store.historyPath("alice"), []byte("garbage"), 0o644))

	history, err := store.LoadHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, history)

	// Appending after corruption starts a fresh history rather than failing.
	turn := models.ConversationTurn{ID: "1", Timestamp: time.Now().UTC(), Question: "q", Answer: "a"}
	require.NoError(t, store.AppendTurn(ctx, "alice", turn))

	history, err = store.LoadHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
