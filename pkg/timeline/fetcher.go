package timeline

import (
	"context"
	"fmt"
	"time"

	"twistory/pkg/logger"
	"twistory/pkg/retry"
	"twistory/pkg/twitter"
)

// PageSource fetches one page of posts, newest first
type PageSource interface {
	FetchTimeline(ctx context.Context, q twitter.TimelineQuery) ([]twitter.Tweet, error)
}

// Expander rewrites post text before it is printed
type Expander interface {
	Expand(ctx context.Context, text string) string
}

// Printer receives the output of a run
type Printer interface {
	PrintUser(user string) error
	PrintPost(t twitter.Tweet) error
}

// Query is one run's worth of work
type Query struct {
	User     string
	Retweets bool
	Range    *Range
}

// Stats summarises a finished run
type Stats struct {
	Pages   int
	Seen    int
	Printed int
	Stopped bool
}

// Fetcher walks a timeline page by page from newest to oldest
type Fetcher struct {
	source     PageSource
	classifier *Classifier
	expander   Expander
	printer    Printer
	retry      *retry.Config
	pageSize   int
	logger     logger.Logger
}

// FetcherConfig holds the tunables of a Fetcher
type FetcherConfig struct {
	PageSize      int
	RetryDelay    time.Duration
	RetryAttempts int
}

// NewFetcher creates a Fetcher
func NewFetcher(source PageSource, classifier *Classifier, expander Expander, printer Printer, cfg FetcherConfig, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = twitter.DefaultCount
	}

	rc := retry.TransientConfig(cfg.RetryDelay, cfg.RetryAttempts, log)
	rc.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.WithField("attempt", attempt).Info(fmt.Sprintf("Incomplete read, trying again in %d seconds.", int(delay/time.Second)))
	}

	return &Fetcher{
		source:     source,
		classifier: classifier,
		expander:   expander,
		printer:    printer,
		retry:      rc,
		pageSize:   cfg.PageSize,
		logger:     log,
	}
}

// Run fetches and prints q.User's posts. Upstream failures end the run
// quietly with whatever was printed so far; the returned error is set only
// for authorization failures, output errors and cancellation.
func (f *Fetcher) Run(ctx context.Context, q Query) (Stats, error) {
	var stats Stats
	var cursor *int64
	userPrinted := false

	rng := q.Range
	if rng == nil {
		rng = NewRange(nil, nil)
	}

	f.logger.Info("Fetching tweets...")

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		query := twitter.TimelineQuery{
			ScreenName: q.User,
			MaxID:      cursor,
			Count:      f.pageSize,
			Retweets:   q.Retweets,
		}

		page, err := retry.DoWithResult(ctx, func(ctx context.Context) ([]twitter.Tweet, error) {
			return f.source.FetchTimeline(ctx, query)
		}, f.retry)
		if err != nil {
			action, fatal := f.classifier.Handle(ctx, err, query.Resource(), "Unable to get messages for "+q.User)
			if fatal != nil {
				return stats, fatal
			}
			if action == Retry {
				continue
			}
			page = nil
		} else {
			stats.Pages++
			if !userPrinted {
				if err := f.printer.PrintUser(q.User); err != nil {
					return stats, err
				}
				userPrinted = true
			}
		}

		advanced := false
		for _, tweet := range page {
			if cursor != nil && tweet.ID > *cursor {
				// Already covered by an earlier page
				continue
			}
			next := tweet.ID - 1
			cursor = &next
			advanced = true

			stats.Seen++
			f.logger.Debug(fmt.Sprintf("Iterating (%d)...", stats.Seen))

			if rng.Resolve(tweet.ID) {
				f.logger.WithField("before", tweet.ID+1).Debug("Resolved upper bound from newest tweet")
			}

			decision := rng.Classify(tweet.ID)
			f.logger.TraceWithFields("Classified tweet", map[string]interface{}{
				"id":       tweet.ID,
				"range":    rng.String(),
				"cursor":   next,
				"decision": decision.String(),
			})

			switch decision {
			case Stop:
				f.logger.Debug("Tweet earlier than threshold, breaking out.")
				stats.Stopped = true
				return stats, nil
			case Skip:
				continue
			}

			if f.expander != nil {
				tweet.Text = f.expander.Expand(ctx, tweet.Text)
			}
			if err := f.printer.PrintPost(tweet); err != nil {
				return stats, err
			}
			stats.Printed++
		}

		if !advanced {
			break
		}
		f.logger.InfoWithFields("Moving to next page", map[string]interface{}{
			"user":    q.User,
			"max_id":  *cursor,
			"printed": stats.Printed,
		})
	}

	f.logger.InfoWithFields("Finished fetching tweets", map[string]interface{}{
		"user":    q.User,
		"pages":   stats.Pages,
		"seen":    stats.Seen,
		"printed": stats.Printed,
	})

	return stats, nil
}
