package models

import "time"

// SubredditCount is one entry of the ranked subreddit activity list. A slice
// of these preserves rank order through JSON, which a map would not.
type SubredditCount struct {
	Subreddit string `json:"subreddit"`
	Count     int    `json:"count"`
}

// Statistics summarizes a user's fetched activity.
type Statistics struct {
	TotalSubmissions int              `json:"total_submissions"`
	TotalComments    int              `json:"total_comments"`
	TopSubreddits    []SubredditCount `json:"top_subreddits"`
}

// UserDataset is the full cached snapshot for one user. It is rebuilt
// wholesale on refresh, never patched incrementally.
type UserDataset struct {
	Username    string       `json:"username"`
	FetchedAt   time.Time    `json:"fetched_at"`
	Submissions []Submission `json:"submissions"`
	Comments    []Comment    `json:"comments"`
	Statistics  Statistics   `json:"statistics"`
}
