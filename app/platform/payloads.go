package platform

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// PostsInput builds the actor input for fetching a handle's posts in the
// given date range. Payload shapes mirror what each backend actor expects.
func (c *Config) PostsInput(handle string, start, end time.Time, limit int) map[string]any {
	profileURL := fmt.Sprintf(c.ProfileURL, handle)

	switch c.Name {
	case "twitter":
		return map[string]any{
			"startUrls":     []string{profileURL},
			"start":         start.Format(dateLayout),
			"end":           end.Format(dateLayout),
			"maxItems":      limit,
			"sort":          "Latest",
			"tweetLanguage": "en",
		}
	case "instagram":
		return map[string]any{
			"directUrls":         []string{profileURL},
			"resultsType":        "posts",
			"resultsLimit":       limit,
			"onlyPostsNewerThan": start.Format(dateLayout),
			"addParentData":      false,
		}
	default:
		return map[string]any{
			"startUrls":          []map[string]any{{"url": profileURL}},
			"resultsLimit":       limit,
			"onlyPostsNewerThan": start.Format(dateLayout),
		}
	}
}

// CommentsInput builds the actor input for fetching the comments of one
// post, addressed by the post reference taken from PostRefColumn.
func (c *Config) CommentsInput(postRef string, start time.Time, limit int) map[string]any {
	switch c.Name {
	case "twitter":
		return map[string]any{
			"startUrls": []string{postRef},
			"maxItems":  limit,
			"sort":      "Latest",
		}
	case "instagram":
		return map[string]any{
			"directUrls":         []string{postRef},
			"resultsType":        "comments",
			"resultsLimit":       limit,
			"onlyPostsNewerThan": start.Format(dateLayout),
			"addParentData":      false,
		}
	default:
		return map[string]any{
			"post_url": postRef,
			"count":    limit,
		}
	}
}
