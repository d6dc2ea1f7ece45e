package twitter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CreatedAtLayout is the timestamp format of the v1.1 API
const CreatedAtLayout = time.RubyDate

// Tweet is one fetched post
type Tweet struct {
	ID        int64
	Text      string
	CreatedAt time.Time
}

// apiTweet is the wire form of a status object
type apiTweet struct {
	ID        int64  `json:"id"`
	FullText  string `json:"full_text"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// UnmarshalJSON decodes a status object, preferring the untruncated text
func (t *Tweet) UnmarshalJSON(data []byte) error {
	var raw apiTweet
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.ID = raw.ID
	t.Text = raw.FullText
	if t.Text == "" {
		t.Text = raw.Text
	}

	if raw.CreatedAt != "" {
		created, err := time.Parse(CreatedAtLayout, raw.CreatedAt)
		if err != nil {
			return fmt.Errorf("invalid created_at %q: %w", raw.CreatedAt, err)
		}
		t.CreatedAt = created
	}

	return nil
}

// rateLimitStatus is the application/rate_limit_status document
type rateLimitStatus struct {
	Resources map[string]map[string]rateLimitEntry `json:"resources"`
}

type rateLimitEntry struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// apiErrors is the error document returned with failing responses
type apiErrors struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e apiErrors) String() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s (%d)", item.Message, item.Code))
	}
	return strings.Join(msgs, "; ")
}
