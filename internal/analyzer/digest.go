package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bm-github/persona-analyser/internal/models"
)

const (
	// ExcerptLimit bounds every rendered excerpt so the digest stays within
	// the model's prompt budget.
	ExcerptLimit = 500
	// DefaultMaxItems is how many top submissions and comments the digest
	// carries when the caller has no opinion.
	DefaultMaxItems = 25
)

// BuildDigest renders a bounded textual summary of the dataset: overview
// statistics followed by the highest-scoring submissions and comments.
// Ranking is by score rather than recency: the point is to surface the
// highest-signal content, not the freshest.
func BuildDigest(dataset *models.UserDataset, maxItems int) string {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User Activity Analysis for u/%s\n\n", dataset.Username)
	b.WriteString("OVERVIEW:\n")
	fmt.Fprintf(&b, "Total Submissions: %d\n", dataset.Statistics.TotalSubmissions)
	fmt.Fprintf(&b, "Total Comments: %d\n", dataset.Statistics.TotalComments)
	b.WriteString("\nTop Active Subreddits:\n")
	for _, entry := range dataset.Statistics.TopSubreddits {
		fmt.Fprintf(&b, "- r/%s: %d posts/comments\n", entry.Subreddit, entry.Count)
	}

	b.WriteString("\nTOP SUBMISSIONS:\n")
	for _, s := range topSubmissions(dataset.Submissions, maxItems) {
		fmt.Fprintf(&b, "\nDate: %s\n", formatDate(s.CreatedUTC))
		fmt.Fprintf(&b, "Title: %s\n", excerpt(s.Title))
		fmt.Fprintf(&b, "Subreddit: r/%s\n", s.Subreddit)
		fmt.Fprintf(&b, "Score: %d\n", s.Score)
		if s.Body != "" {
			fmt.Fprintf(&b, "Content: %s\n", excerpt(s.Body))
		}
	}

	b.WriteString("\nTOP COMMENTS:\n")
	for _, c := range topComments(dataset.Comments, maxItems) {
		fmt.Fprintf(&b, "\nDate: %s\n", formatDate(c.CreatedUTC))
		fmt.Fprintf(&b, "Subreddit: r/%s\n", c.Subreddit)
		fmt.Fprintf(&b, "Score: %d\n", c.Score)
		fmt.Fprintf(&b, "Content: %s\n", excerpt(c.Body))
	}

	return b.String()
}

// topSubmissions ranks by descending score, keeping dataset order for ties.
func topSubmissions(submissions []models.Submission, maxItems int) []models.Submission {
	ranked := make([]models.Submission, len(submissions))
	copy(ranked, submissions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxItems {
		ranked = ranked[:maxItems]
	}
	return ranked
}

func topComments(comments []models.Comment, maxItems int) []models.Comment {
	ranked := make([]models.Comment, len(comments))
	copy(ranked, comments)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxItems {
		ranked = ranked[:maxItems]
	}
	return ranked
}

func formatDate(epochSeconds int64) string {
	return time.Unix(epochSeconds, 0).UTC().Format("2006-01-02")
}

// excerpt truncates to ExcerptLimit runes, marking the cut with an ellipsis.
func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= ExcerptLimit {
		return text
	}
	return string(runes[:ExcerptLimit]) + "..."
}
