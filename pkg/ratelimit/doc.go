// Package ratelimit models the request quota reported by the Twitter API.
//
// A Quota is read either from the X-Rate-Limit-* headers of a response or
// from the application/rate_limit_status document. When the quota is
// exhausted the caller sleeps for Backoff and retries:
//
//	if q.Exhausted() {
//	    retry.Wait(ctx, q.Backoff(time.Now(), 2*time.Second))
//	}
package ratelimit
