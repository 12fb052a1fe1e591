package models

// Submission is a single post authored by the user, as returned by the
// Reddit listing API. Records are immutable once fetched; Permalink is the
// stable identity across fetches.
type Submission struct {
	Title        string  `json:"title"`
	Body         string  `json:"selftext"`
	Subreddit    string  `json:"subreddit"`
	Score        int     `json:"score"`
	UpvoteRatio  float64 `json:"upvote_ratio"`
	CreatedUTC   int64   `json:"created_utc"`
	CommentCount int     `json:"num_comments"`
	URL          string  `json:"url"`
	IsSelf       bool    `json:"is_self"`
	Flair        string  `json:"link_flair_text,omitempty"`
	NSFW         bool    `json:"over_18"`
	Permalink    string  `json:"permalink"`
}

// Comment is a single comment authored by the user.
type Comment struct {
	Body          string `json:"body"`
	Subreddit     string `json:"subreddit"`
	Score         int    `json:"score"`
	CreatedUTC    int64  `json:"created_utc"`
	IsSubmitter   bool   `json:"is_submitter"`
	Distinguished string `json:"distinguished,omitempty"`
	ParentID      string `json:"parent_id"`
	LinkID        string `json:"link_id"`
	Permalink     string `json:"permalink"`
}
