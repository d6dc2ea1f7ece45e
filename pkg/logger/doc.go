// Package logger provides the structured diagnostics used by twistory.
//
// It wraps zerolog behind a small Logger interface. All console output goes
// to standard error so that standard output carries nothing but fetched
// posts. The number of -v flags selects the level:
//
//	0  warn   rate limits, upstream failures
//	1  info   page progress
//	2  debug  per-post iteration and range boundaries
//	3+ trace  URL unwrapping and HTTP detail
//
// Basic Usage:
//
//	err := logger.Initialize(&config.LoggingConfig{
//	    Level: logger.LevelForVerbosity(opts.Verbosity),
//	})
//
//	logger.WithField("user", "jschauma").Info("Fetching tweets")
//
// Tests can capture messages with NewTestLogger or silence them with
// NewNopLogger.
package logger
