// Package timeline drives the fetch of one user's history.
//
// A Fetcher requests pages newest first, moving a max_id cursor to just
// below the oldest post seen. Each post is run through the Range filter:
// posts inside the window are expanded and printed, posts at or above the
// upper bound are skipped, and the first post below the lower bound ends
// the run, since every later page is older still.
//
// Failed page requests are retried in place when the read was cut short.
// Anything else goes to the Classifier, which sleeps out real rate limits
// and otherwise lets the run end with what it has printed.
package timeline
