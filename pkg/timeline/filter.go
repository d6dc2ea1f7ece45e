package timeline

import (
	"fmt"
	"math"
)

// Decision is the verdict on one post
type Decision int

const (
	// Keep prints the post
	Keep Decision = iota
	// Skip passes over the post and continues scanning
	Skip
	// Stop ends the whole fetch; every later post is older still
	Stop
)

func (d Decision) String() string {
	switch d {
	case Keep:
		return "keep"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Range is the exclusive (after, before) id window of one run
type Range struct {
	after    int64
	before   int64
	resolved bool
}

// NewRange builds a Range. A nil after is unbounded; a nil before is
// resolved from the newest post by Resolve.
func NewRange(after, before *int64) *Range {
	r := &Range{after: math.MinInt64}
	if after != nil {
		r.after = *after
	}
	if before != nil {
		r.before = *before
		r.resolved = true
	}
	return r
}

// Resolve fixes an open upper bound just above newestID so that the newest
// post is included. It has no effect once the bound is set.
func (r *Range) Resolve(newestID int64) bool {
	if r.resolved {
		return false
	}
	r.before = newestID + 1
	r.resolved = true
	return true
}

// Resolved reports whether the upper bound is fixed
func (r *Range) Resolved() bool {
	return r.resolved
}

// After returns the lower bound and whether one was given
func (r *Range) After() (int64, bool) {
	return r.after, r.after != math.MinInt64
}

// Before returns the upper bound and whether it is resolved
func (r *Range) Before() (int64, bool) {
	return r.before, r.resolved
}

// Classify decides what to do with the post id. Posts arrive newest first,
// so an id under the lower bound means nothing later can match.
func (r *Range) Classify(id int64) Decision {
	if id < r.after {
		return Stop
	}
	if id > r.after && (!r.resolved || id < r.before) {
		return Keep
	}
	return Skip
}

func (r *Range) String() string {
	after, before := "-inf", "+inf"
	if v, ok := r.After(); ok {
		after = fmt.Sprint(v)
	}
	if v, ok := r.Before(); ok {
		before = fmt.Sprint(v)
	}
	return fmt.Sprintf("(%s, %s)", after, before)
}
