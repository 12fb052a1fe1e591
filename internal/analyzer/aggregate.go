package analyzer

import (
	"sort"

	"github.com/bm-github/persona-analyser/internal/models"
)

// TopSubredditCount pins the top-K policy for subreddit rankings. Writers
// and readers of the cache must agree on one value, so it lives here and
// nowhere else.
const TopSubredditCount = 5

// Aggregate computes summary statistics over both record streams. It is
// deterministic: ranking is by descending count, ties broken by first
// appearance in the merged submissions-then-comments order.
func Aggregate(submissions []models.Submission, comments []models.Comment) models.Statistics {
	counts := make(map[string]int)
	order := []string{}
	bump := func(subreddit string) {
		if _, seen := counts[subreddit]; !seen {
			order = append(order, subreddit)
		}
		counts[subreddit]++
	}
	for _, s := range submissions {
		bump(s.Subreddit)
	}
	for _, c := range comments {
		bump(c.Subreddit)
	}

	ranked := make([]models.SubredditCount, 0, len(order))
	for _, subreddit := range order {
		ranked = append(ranked, models.SubredditCount{Subreddit: subreddit, Count: counts[subreddit]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > TopSubredditCount {
		ranked = ranked[:TopSubredditCount]
	}

	return models.Statistics{
		TotalSubmissions: len(submissions),
		TotalComments:    len(comments),
		TopSubreddits:    ranked,
	}
}
