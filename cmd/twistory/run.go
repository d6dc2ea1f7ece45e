package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
	"twistory/pkg/auth"
	"twistory/pkg/config"
	errs "twistory/pkg/errors"
	"twistory/pkg/logger"
	"twistory/pkg/timeline"
	"twistory/pkg/twitter"
	"twistory/pkg/ui"
	"twistory/pkg/unwrap"
)

// runFetch loads settings and credentials, then prints opts.User's history
func runFetch(ctx context.Context, opts config.Options, configPath string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeConfig, err, "Unable to load settings")
	}

	if opts.Verbosity > 0 {
		cfg.Logging.Level = logger.LevelForVerbosity(opts.Verbosity)
	}
	log, err := logger.NewWithWriter(&cfg.Logging, stderr)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeConfig, err, "Unable to set up logging")
	}
	logger.SetLogger(log)

	log.WithFields(map[string]interface{}{
		"version": version,
		"user":    opts.User,
	}).Debug("twistory starting")

	fileStore, err := auth.LoadFileStore(cfg.Credentials.File)
	if err != nil {
		return err
	}

	var store auth.CredentialStore = fileStore
	if cfg.Credentials.Keyring {
		ks, err := auth.NewKeyringStore(fileStore, log)
		if err != nil {
			log.WithError(err).Debug("Keychain probe failed")
			ui.NewTerminal(stderr).PrintWarning("System keychain unavailable, using the config file only")
		} else {
			store = ks
		}
	}

	authorizer := auth.NewAuthorizer(store, cfg.API.OAuthURL, log,
		auth.WithSource(fileStore.Path()),
		auth.WithPrompt(os.Stdin, stderr, func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		}),
	)
	creds, err := authorizer.Ensure(ctx, opts.User)
	if err != nil {
		return err
	}

	client := twitter.NewClient(
		auth.NewHTTPClient(ctx, creds, cfg.API.OAuthURL, cfg.API.RequestTimeout),
		cfg.API.BaseURL,
		log,
	)
	client.SetHeader("User-Agent", cfg.API.UserAgent)

	fetcher := timeline.NewFetcher(
		client,
		timeline.NewClassifier(client, cfg.Fetch.RateLimitMargin, log),
		unwrap.New(cfg.API.UnwrapEndpoint, cfg.API.RequestTimeout, log),
		ui.NewPresenter(stdout, opts.Lineify),
		timeline.FetcherConfig{
			PageSize:      cfg.Fetch.PageSize,
			RetryDelay:    cfg.Fetch.TransientRetryDelay,
			RetryAttempts: cfg.Fetch.TransientRetryAttempts,
		},
		log,
	)

	_, err = fetcher.Run(ctx, timeline.Query{
		User:     opts.User,
		Retweets: opts.Retweets,
		Range:    timeline.NewRange(opts.After, opts.Before),
	})
	return err
}
