package unwrap

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	errs "twistory/pkg/errors"
	"twistory/pkg/logger"
)

// DefaultEndpoint is the link shortener posts are rewritten through
const DefaultEndpoint = "https://t.co"

var shortLink = regexp.MustCompile(`(?i)https?://t\.co/([0-9a-z]+)`)

// Unwrapper replaces shortened links in post text with their destinations
type Unwrapper struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates an Unwrapper resolving codes against endpoint. The client
// never follows redirects; the first Location header is the answer.
func New(endpoint string, timeout time.Duration, log logger.Logger) *Unwrapper {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Unwrapper{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: log,
	}
}

// Expand returns text with every resolvable short link replaced. Links that
// cannot be resolved are left as they are.
func (u *Unwrapper) Expand(ctx context.Context, text string) string {
	resolved := make(map[string]string)

	for _, m := range shortLink.FindAllStringSubmatch(text, -1) {
		link, code := m[0], m[1]
		if _, seen := resolved[link]; seen {
			continue
		}
		resolved[link] = link

		u.logger.WithField("code", code).Trace("Unwrapping " + code + "...")

		target, err := u.Resolve(ctx, code)
		if err != nil {
			u.logger.WithError(err).Trace("Unable to unwrap " + link)
			continue
		}
		resolved[link] = target
	}

	if len(resolved) == 0 {
		return text
	}
	return shortLink.ReplaceAllStringFunc(text, func(link string) string {
		return resolved[link]
	})
}

// Resolve looks up the destination of one short code
func (u *Unwrapper) Resolve(ctx context.Context, code string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.endpoint+"/"+code, nil)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeUnwrap, err, "failed to create request for %s", code)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeUnwrap, err, "lookup of %s failed", code)
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		return "", errs.New(errs.ErrorTypeUnwrap, resp.StatusCode, "no Location for %s", code)
	}

	return location, nil
}
