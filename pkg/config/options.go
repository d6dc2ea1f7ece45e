package config

import "errors"

// Options is the immutable record of one invocation's command line.
// It is built once after flag parsing and only read afterwards.
type Options struct {
	// User whose timeline is fetched (-u)
	User string

	// After is the exclusive lower id bound (-a); nil means unbounded
	After *int64

	// Before is the exclusive upper id bound (-b); nil means it is
	// resolved from the newest fetched post
	Before *int64

	// Lineify escapes embedded newlines (-l)
	Lineify bool

	// Retweets fetches the user's tweets that others retweeted (-r)
	Retweets bool

	// Verbosity is the number of -v flags
	Verbosity int
}

// ErrMissingUser is returned by Validate when no user was given
var ErrMissingUser = errors.New("a user is required")

// Validate checks the options for required values
func (o Options) Validate() error {
	if o.User == "" {
		return ErrMissingUser
	}
	return nil
}

// Int64 returns a pointer to v, for building Options literals
func Int64(v int64) *int64 {
	return &v
}
