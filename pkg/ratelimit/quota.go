package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Header names the API uses to report the caller's quota
const (
	HeaderLimit     = "X-Rate-Limit-Limit"
	HeaderRemaining = "X-Rate-Limit-Remaining"
	HeaderReset     = "X-Rate-Limit-Reset"
)

// Quota is a snapshot of the request allowance for one endpoint
type Quota struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// FromUnix builds a Quota from the numeric form used in API documents
func FromUnix(limit, remaining int, reset int64) Quota {
	q := Quota{Limit: limit, Remaining: remaining}
	if reset > 0 {
		q.Reset = time.Unix(reset, 0)
	}
	return q
}

// FromHeaders reads the quota headers of a response. The second return
// value is false when the remaining-count header is absent or malformed.
func FromHeaders(h http.Header) (Quota, bool) {
	remaining, err := strconv.Atoi(h.Get(HeaderRemaining))
	if err != nil {
		return Quota{}, false
	}

	limit, _ := strconv.Atoi(h.Get(HeaderLimit))
	reset, _ := strconv.ParseInt(h.Get(HeaderReset), 10, 64)

	return FromUnix(limit, remaining, reset), true
}

// Exhausted reports whether no requests are left until Reset
func (q Quota) Exhausted() bool {
	return q.Remaining <= 0
}

// Backoff returns how long to wait at now before the quota is usable again,
// padded by margin. A reset time in the past yields just the margin.
func (q Quota) Backoff(now time.Time, margin time.Duration) time.Duration {
	wait := q.Reset.Sub(now)
	if q.Reset.IsZero() || wait < 0 {
		wait = 0
	}
	return wait + margin
}

func (q Quota) String() string {
	if q.Reset.IsZero() {
		return fmt.Sprintf("%d/%d remaining", q.Remaining, q.Limit)
	}
	return fmt.Sprintf("%d/%d remaining, resets %s", q.Remaining, q.Limit, q.Reset.Format(time.RFC1123))
}
