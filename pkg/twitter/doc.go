// Package twitter is a small client for the parts of the Twitter v1.1 REST
// API twistory reads: a user's timeline, the user's retweeted posts and the
// rate-limit status document.
//
// Failing responses come back as *errors.Error values typed by status:
// 429 and 420 are rate limits, 401 and 403 authorization failures, 500 a
// server error, 502 and 503 an outage. A body cut short is a network error
// so that the caller can re-request the page.
package twitter
