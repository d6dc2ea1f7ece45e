package timeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "twistory/pkg/errors"
	"twistory/pkg/logger"
	"twistory/pkg/ratelimit"
	"twistory/pkg/retry"
)

// Action tells the fetch loop what to do after a failed page request
type Action int

const (
	// Retry re-issues the same page request
	Retry Action = iota
	// Abort gives up on the request
	Abort
)

func (a Action) String() string {
	if a == Retry {
		return "retry"
	}
	return "abort"
}

// QuotaChecker reports the caller's remaining quota for an API resource
type QuotaChecker interface {
	RateLimitStatus(ctx context.Context, resource string) (ratelimit.Quota, error)
}

// Classifier decides how the fetch loop reacts to upstream failures
type Classifier struct {
	quota  QuotaChecker
	margin time.Duration
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	logger logger.Logger
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithClock replaces the time source
func WithClock(now func() time.Time) ClassifierOption {
	return func(c *Classifier) { c.now = now }
}

// WithSleep replaces the rate-limit sleep
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ClassifierOption {
	return func(c *Classifier) { c.sleep = sleep }
}

// NewClassifier creates a Classifier. margin pads every rate-limit sleep.
func NewClassifier(quota QuotaChecker, margin time.Duration, log logger.Logger, opts ...ClassifierOption) *Classifier {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Classifier{
		quota:  quota,
		margin: margin,
		now:    time.Now,
		sleep:  retry.Wait,
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle inspects err from a request against resource. info describes
// the request for the user. A non-nil error return must end the program.
func (c *Classifier) Handle(ctx context.Context, err error, resource, info string) (Action, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Abort, err
	}

	e, ok := errs.As(err)
	if !ok {
		c.report(info, fmt.Sprintf("On %s Twitter told me:\n'%v'", c.asctime(), err))
		return Abort, nil
	}

	switch e.Type {
	case errs.ErrorTypeAuth:
		return Abort, err

	case errs.ErrorTypeRateLimit:
		if !e.Reset.IsZero() {
			c.logger.WithFields(map[string]interface{}{
				"remaining": e.Remaining,
				"reset":     e.Reset,
			}).Debug("Rate limit reported with response")
		}
		return c.handleRateLimit(ctx, resource, info)

	case errs.ErrorTypeServiceUnavailable:
		c.report(info, fmt.Sprintf("Twitter #FailWhale'd on me on %s.", c.asctime()))

	case errs.ErrorTypeServerError:
		c.report(info, fmt.Sprintf("Twitter is busted again: %s", c.asctime()))

	case errs.ErrorTypeNetwork:
		c.report(info, fmt.Sprintf("Reading from Twitter kept failing: %v", err))

	default:
		c.report(info, fmt.Sprintf("On %s Twitter told me:\n'%s'", c.asctime(), e.Message))
	}

	return Abort, nil
}

// handleRateLimit sleeps until the quota resets, unless the limit turns out
// to be a false alarm
func (c *Classifier) handleRateLimit(ctx context.Context, resource, info string) (Action, error) {
	q, err := c.quota.RateLimitStatus(ctx, resource)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Abort, ctxErr
		}
		c.logger.WithError(err).Debug("Unable to look up rate limit status")
		return Abort, nil
	}

	if !q.Exhausted() {
		// The request landed right on the reset boundary
		c.logger.WithField("remaining", q.Remaining).Debug("Rate limit was a false alarm")
		return Abort, nil
	}

	c.report(info, fmt.Sprintf("Rate limited until %s.", q.Reset.Format(time.ANSIC)))

	wait := q.Backoff(c.now(), c.margin)
	c.logger.WithField("resource", resource).Warn(fmt.Sprintf("Sleeping for %d seconds...", int(wait.Round(time.Second)/time.Second)))

	if err := c.sleep(ctx, wait); err != nil {
		return Abort, err
	}
	return Retry, nil
}

func (c *Classifier) report(info, msg string) {
	c.logger.Warn(info + "\n" + msg)
}

func (c *Classifier) asctime() string {
	return c.now().Format(time.ANSIC)
}
