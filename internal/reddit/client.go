package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://www.reddit.com"

// pageSize is the maximum listing page the API will serve.
const pageSize = 100

// usernamePattern matches valid Reddit account names.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

// ProgressFunc is invoked once per fetched record with the running total.
// It exists purely for observability and must not fail.
type ProgressFunc func(fetched int)

// Client pages through a user's public submissions and comments via the
// reddit.com JSON listing endpoints.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Progress   ProgressFunc

	logger *zap.Logger
}

func NewClient(baseURL, userAgent string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ValidUsername reports whether name could be a Reddit account.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// CheckUser is a cheap existence probe against the account's about endpoint,
// done before any pagination starts.
func (c *Client) CheckUser(ctx context.Context, username string) error {
	if !ValidUsername(username) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	endpoint := fmt.Sprintf("%s/user/%s/about.json", c.BaseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return transient("check user", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return transient("check user", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %q", ErrUserNotFound, username)
	default:
		return transient("check user", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// Submissions returns a lazy iterator over the user's submissions, newest
// first. The iterator is finite and non-restartable; limit <= 0 drains the
// listing to exhaustion.
func (c *Client) Submissions(ctx context.Context, username string, limit int) *SubmissionIterator {
	return &SubmissionIterator{iter: c.newIterator(ctx, username, "submitted", limit)}
}

// Comments returns a lazy iterator over the user's comments, newest first.
func (c *Client) Comments(ctx context.Context, username string, limit int) *CommentIterator {
	return &CommentIterator{iter: c.newIterator(ctx, username, "comments", limit)}
}

// fetchPage retrieves one listing page and returns its records plus the
// cursor for the next page ("" when exhausted).
func (c *Client) fetchPage(ctx context.Context, username, feed, after string, limit int) ([]thing, string, error) {
	endpoint := fmt.Sprintf("%s/user/%s/%s.json", c.BaseURL, url.PathEscape(username), feed)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", transient("fetch "+feed, err)
	}
	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", transient("fetch "+feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", transient("fetch "+feed, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var page listing
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", transient("decode "+feed, err)
	}

	things := make([]thing, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		things = append(things, child.Data)
	}
	if c.logger != nil {
		c.logger.Debug("Fetched listing page",
			zap.String("username", username),
			zap.String("feed", feed),
			zap.Int("items", len(things)),
			zap.String("after", page.Data.After))
	}
	return things, page.Data.After, nil
}
