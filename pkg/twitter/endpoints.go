package twitter

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the root of the v1.1 REST API
	BaseURL = "https://api.twitter.com/1.1"

	// UserTimelineResource is the rate-limit resource of a user's timeline
	UserTimelineResource = "/statuses/user_timeline"

	// RetweetsOfMeResource is the rate-limit resource of the authenticated
	// user's retweeted posts
	RetweetsOfMeResource = "/statuses/retweets_of_me"

	// RateLimitStatusEndpoint reports the caller's remaining quota
	RateLimitStatusEndpoint = "/application/rate_limit_status.json"

	// DefaultCount is the number of posts requested per page
	DefaultCount = 200

	// MaxCount is the largest page the timeline endpoints will return
	MaxCount = 200
)

// TimelineQuery selects one page of posts
type TimelineQuery struct {
	ScreenName string

	// MaxID is the inclusive upper id bound; nil requests the newest page
	MaxID *int64

	Count int

	// Retweets selects the user's posts that others retweeted
	Retweets bool
}

// Resource returns the rate-limit resource the query is counted against
func (q TimelineQuery) Resource() string {
	if q.Retweets {
		return RetweetsOfMeResource
	}
	return UserTimelineResource
}

// TimelineURL constructs the URL for one page of the query
func TimelineURL(baseURL string, q TimelineQuery) string {
	count := q.Count
	if count <= 0 {
		count = DefaultCount
	} else if count > MaxCount {
		count = MaxCount
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	params.Set("tweet_mode", "extended")
	if !q.Retweets {
		params.Set("screen_name", q.ScreenName)
		params.Set("include_rts", "true")
	}
	if q.MaxID != nil {
		params.Set("max_id", strconv.FormatInt(*q.MaxID, 10))
	}

	return strings.TrimRight(baseURL, "/") + q.Resource() + ".json?" + params.Encode()
}

// RateLimitStatusURL constructs the URL of the quota document for the
// statuses family of resources
func RateLimitStatusURL(baseURL string) string {
	params := url.Values{}
	params.Set("resources", "statuses")
	return strings.TrimRight(baseURL, "/") + RateLimitStatusEndpoint + "?" + params.Encode()
}
