package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromHeaders(t *testing.T) {
	h := make(http.Header)
	h.Set(HeaderLimit, "900")
	h.Set(HeaderRemaining, "0")
	h.Set(HeaderReset, "1403602426")

	q, ok := FromHeaders(h)
	assert.True(t, ok)
	assert.Equal(t, 900, q.Limit)
	assert.Equal(t, 0, q.Remaining)
	assert.Equal(t, time.Unix(1403602426, 0), q.Reset)
	assert.True(t, q.Exhausted())
}

func TestFromHeadersMissing(t *testing.T) {
	_, ok := FromHeaders(make(http.Header))
	assert.False(t, ok)

	h := make(http.Header)
	h.Set(HeaderRemaining, "many")
	_, ok = FromHeaders(h)
	assert.False(t, ok)
}

func TestBackoff(t *testing.T) {
	now := time.Date(2013, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		quota  Quota
		margin time.Duration
		want   time.Duration
	}{
		{"reset in ten seconds", Quota{Reset: now.Add(10 * time.Second)}, 2 * time.Second, 12 * time.Second},
		{"reset already passed", Quota{Reset: now.Add(-time.Minute)}, 2 * time.Second, 2 * time.Second},
		{"unknown reset", Quota{}, 2 * time.Second, 2 * time.Second},
		{"no margin", Quota{Reset: now.Add(time.Minute)}, 0, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.quota.Backoff(now, tt.margin))
		})
	}
}

func TestExhausted(t *testing.T) {
	assert.False(t, FromUnix(900, 3, 0).Exhausted())
	assert.True(t, FromUnix(900, 0, 0).Exhausted())
	assert.True(t, FromUnix(0, 0, 0).Reset.IsZero())
}
