// Package retry re-runs operations that failed for transient reasons.
//
// Only errors whose type is retryable (an interrupted or partial read) are
// retried; everything else is returned immediately so the caller can
// classify it. Waiting honours the context, so an interrupt ends a pending
// retry at once.
//
//	tweets, err := retry.DoWithResult(ctx, fetchPage,
//	    retry.TransientConfig(5*time.Second, 5, log))
package retry
