package reddit

import "github.com/bm-github/persona-analyser/internal/models"

// Wire structures for the public listing API. Only the fields the analyser
// keeps are decoded; everything else in the payload is dropped.

type listing struct {
	Data struct {
		After    string         `json:"after"`
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Kind string `json:"kind"`
	Data thing  `json:"data"`
}

// thing is the union of the submission and comment fields we care about.
// Reddit uses null for absent flair/distinguished, hence the pointers.
type thing struct {
	Title         string  `json:"title"`
	Selftext      string  `json:"selftext"`
	Body          string  `json:"body"`
	Subreddit     string  `json:"subreddit"`
	Score         int     `json:"score"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	CreatedUTC    float64 `json:"created_utc"`
	NumComments   int     `json:"num_comments"`
	URL           string  `json:"url"`
	IsSelf        bool    `json:"is_self"`
	LinkFlairText *string `json:"link_flair_text"`
	Over18        bool    `json:"over_18"`
	IsSubmitter   bool    `json:"is_submitter"`
	Distinguished *string `json:"distinguished"`
	ParentID      string  `json:"parent_id"`
	LinkID        string  `json:"link_id"`
	Permalink     string  `json:"permalink"`
	Name          string  `json:"name"`
}

func (t thing) submission() models.Submission {
	s := models.Submission{
		Title:        t.Title,
		Body:         t.Selftext,
		Subreddit:    t.Subreddit,
		Score:        t.Score,
		UpvoteRatio:  t.UpvoteRatio,
		CreatedUTC:   int64(t.CreatedUTC),
		CommentCount: t.NumComments,
		URL:          t.URL,
		IsSelf:       t.IsSelf,
		NSFW:         t.Over18,
		Permalink:    t.Permalink,
	}
	if t.LinkFlairText != nil {
		s.Flair = *t.LinkFlairText
	}
	return s
}

func (t thing) comment() models.Comment {
	c := models.Comment{
		Body:        t.Body,
		Subreddit:   t.Subreddit,
		Score:       t.Score,
		CreatedUTC:  int64(t.CreatedUTC),
		IsSubmitter: t.IsSubmitter,
		ParentID:    t.ParentID,
		LinkID:      t.LinkID,
		Permalink:   t.Permalink,
	}
	if t.Distinguished != nil {
		c.Distinguished = *t.Distinguished
	}
	return c
}
