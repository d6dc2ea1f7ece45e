package twitter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineURL(t *testing.T) {
	maxID := int64(12345)

	tests := []struct {
		name     string
		query    TimelineQuery
		path     string
		expected map[string]string
	}{
		{
			name:  "first page",
			query: TimelineQuery{ScreenName: "jschauma"},
			path:  "/1.1/statuses/user_timeline.json",
			expected: map[string]string{
				"screen_name": "jschauma",
				"count":       "200",
				"max_id":      "",
			},
		},
		{
			name:  "with cursor and oversized count",
			query: TimelineQuery{ScreenName: "jschauma", MaxID: &maxID, Count: 500},
			path:  "/1.1/statuses/user_timeline.json",
			expected: map[string]string{
				"count":  "200",
				"max_id": "12345",
			},
		},
		{
			name:  "retweets",
			query: TimelineQuery{ScreenName: "jschauma", Count: 50, Retweets: true},
			path:  "/1.1/statuses/retweets_of_me.json",
			expected: map[string]string{
				"count":       "50",
				"screen_name": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(TimelineURL("https://api.twitter.com/1.1/", tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.path, u.Path)
			assert.Equal(t, "extended", u.Query().Get("tweet_mode"))
			for k, v := range tt.expected {
				assert.Equal(t, v, u.Query().Get(k), k)
			}
		})
	}
}

func TestRateLimitStatusURL(t *testing.T) {
	assert.Equal(t,
		"https://api.twitter.com/1.1/application/rate_limit_status.json?resources=statuses",
		RateLimitStatusURL(BaseURL))
}

func TestQueryResource(t *testing.T) {
	assert.Equal(t, UserTimelineResource, TimelineQuery{}.Resource())
	assert.Equal(t, RetweetsOfMeResource, TimelineQuery{Retweets: true}.Resource())
}
