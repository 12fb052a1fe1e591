package reddit

import (
	"context"

	"github.com/bm-github/persona-analyser/internal/models"
)

// iterator drives cursor pagination lazily, one record at a time, in the
// style of bufio.Scanner. It cannot be restarted once exhausted.
type iterator struct {
	client   *Client
	ctx      context.Context
	username string
	feed     string

	after     string
	remaining int // < 0 means unlimited
	buf       []thing
	cur       thing
	exhausted bool
	fetched   int
	err       error
}

func (c *Client) newIterator(ctx context.Context, username, feed string, limit int) *iterator {
	if limit <= 0 {
		limit = -1
	}
	return &iterator{
		client:    c,
		ctx:       ctx,
		username:  username,
		feed:      feed,
		remaining: limit,
	}
}

func (it *iterator) next() bool {
	if it.err != nil || it.remaining == 0 {
		return false
	}
	if len(it.buf) == 0 {
		if it.exhausted {
			return false
		}
		size := pageSize
		if it.remaining > 0 && it.remaining < size {
			size = it.remaining
		}
		things, after, err := it.client.fetchPage(it.ctx, it.username, it.feed, it.after, size)
		if err != nil {
			it.err = err
			return false
		}
		it.buf = things
		it.after = after
		if after == "" || len(things) == 0 {
			it.exhausted = true
		}
		if len(it.buf) == 0 {
			return false
		}
	}
	it.cur = it.buf[0]
	it.buf = it.buf[1:]
	it.fetched++
	if it.remaining > 0 {
		it.remaining--
	}
	if it.client.Progress != nil {
		it.client.Progress(it.fetched)
	}
	return true
}

// SubmissionIterator yields the user's submissions in listing order.
type SubmissionIterator struct {
	iter *iterator
}

func (s *SubmissionIterator) Next() bool { return s.iter.next() }

func (s *SubmissionIterator) Record() models.Submission { return s.iter.cur.submission() }

func (s *SubmissionIterator) Err() error { return s.iter.err }

// CommentIterator yields the user's comments in listing order.
type CommentIterator struct {
	iter *iterator
}

func (c *CommentIterator) Next() bool { return c.iter.next() }

func (c *CommentIterator) Record() models.Comment { return c.iter.cur.comment() }

func (c *CommentIterator) Err() error { return c.iter.err }

// FetchSubmissions drains the submission iterator in one pass, for callers
// that need the full materialized slice (the cache pipeline does).
func (c *Client) FetchSubmissions(ctx context.Context, username string, limit int) ([]models.Submission, error) {
	it := c.Submissions(ctx, username, limit)
	subs := []models.Submission{}
	for it.Next() {
		subs = append(subs, it.Record())
	}
	if err := it.Err(); err != nil {
		return subs, err
	}
	return subs, nil
}

// FetchComments drains the comment iterator in one pass.
func (c *Client) FetchComments(ctx context.Context, username string, limit int) ([]models.Comment, error) {
	it := c.Comments(ctx, username, limit)
	comments := []models.Comment{}
	for it.Next() {
		comments = append(comments, it.Record())
	}
	if err := it.Err(); err != nil {
		return comments, err
	}
	return comments, nil
}
