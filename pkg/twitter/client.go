package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "twistory/pkg/errors"
	"twistory/pkg/logger"
	"twistory/pkg/ratelimit"
)

// Client is a Twitter v1.1 API client. Request signing is the job of the
// http.Client it is given.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new API client on top of httpClient
func NewClient(httpClient *http.Client, baseURL string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		httpClient: httpClient,
		headers: map[string]string{
			"Accept": "application/json",
		},
		baseURL: baseURL,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs a GET with the configured headers
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.TraceWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "network error: %v", err)
	}

	c.logger.TraceWithFields("HTTP request completed", map[string]interface{}{
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errs.Wrap(errs.ErrorTypeNetwork, err, "incomplete read: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		// A body cut short looks like truncated JSON
		var syntaxErr *json.SyntaxError
		if errors.Is(err, io.ErrUnexpectedEOF) || (errors.As(err, &syntaxErr) && syntaxErr.Offset >= int64(len(body))) {
			return errs.Wrap(errs.ErrorTypeNetwork, err, "incomplete read of %d bytes", len(body))
		}

		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.DebugWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		e := errs.Wrap(errs.ErrorTypeUnknown, err, "failed to parse JSON: %v", err)
		e.Code = resp.StatusCode
		return e
	}

	return nil
}

// checkResponseStatus maps a failing HTTP status onto a typed error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, StatusEnhanceYourCalm:
		c.logger.DebugWithFields("rate limit exceeded", fields)
		e := errs.New(errs.ErrorTypeRateLimit, resp.StatusCode, "rate limit exceeded")
		if q, ok := ratelimit.FromHeaders(resp.Header); ok {
			e.Remaining = q.Remaining
			e.Reset = q.Reset
		}
		return e
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.DebugWithFields("authorization failure", fields)
		return errs.New(errs.ErrorTypeAuth, resp.StatusCode, "not authorized: %s", describeBody(resp))
	case http.StatusInternalServerError:
		c.logger.DebugWithFields("server error", fields)
		return errs.New(errs.ErrorTypeServerError, resp.StatusCode, "internal server error")
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.DebugWithFields("service unavailable", fields)
		return errs.New(errs.ErrorTypeServiceUnavailable, resp.StatusCode, "service unavailable")
	default:
		c.logger.DebugWithFields("unexpected API error", fields)
		return errs.New(errs.ErrorTypeUnknown, resp.StatusCode, "%s", describeBody(resp))
	}
}

// StatusEnhanceYourCalm is the legacy rate-limit status of the search API
const StatusEnhanceYourCalm = 420

// describeBody summarises an error response for a message
func describeBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var doc apiErrors
	if err := json.Unmarshal(body, &doc); err == nil && len(doc.Errors) > 0 {
		return doc.String()
	}
	return fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// FetchTimeline fetches one page of posts, newest first
func (c *Client) FetchTimeline(ctx context.Context, q TimelineQuery) ([]Tweet, error) {
	url := TimelineURL(c.baseURL, q)

	fields := map[string]interface{}{
		"user":     q.ScreenName,
		"retweets": q.Retweets,
	}
	if q.MaxID != nil {
		fields["max_id"] = *q.MaxID
	}
	c.logger.DebugWithFields("fetching timeline page", fields)

	var tweets []Tweet
	if err := c.GetJSON(ctx, url, &tweets); err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("fetched timeline page", map[string]interface{}{
		"user":  q.ScreenName,
		"count": len(tweets),
	})

	return tweets, nil
}

// RateLimitStatus fetches the caller's current quota for resource
func (c *Client) RateLimitStatus(ctx context.Context, resource string) (ratelimit.Quota, error) {
	var doc rateLimitStatus
	if err := c.GetJSON(ctx, RateLimitStatusURL(c.baseURL), &doc); err != nil {
		return ratelimit.Quota{}, err
	}

	entry, ok := doc.Resources["statuses"][resource]
	if !ok {
		return ratelimit.Quota{}, errs.New(errs.ErrorTypeUnknown, 0, "no quota reported for %s", resource)
	}

	q := ratelimit.FromUnix(entry.Limit, entry.Remaining, entry.Reset)
	c.logger.DebugWithFields("fetched rate limit status", map[string]interface{}{
		"resource":  resource,
		"remaining": q.Remaining,
		"reset":     q.Reset,
	})
	return q, nil
}
