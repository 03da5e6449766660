package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/metrics"
)

// Options configures a Client. Zero fields fall back to defaults.
type Options struct {
	BaseURL    string
	Headers    map[string]string
	Retry      RetryPolicy
	RateLimit  float64 // requests per second, 0 disables pacing
	RateBurst  int
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client issues JSON requests against one API base URL, retrying retryable
// failures with exponential backoff and normalizing every success into a
// canonical Result. Configuration is read-only after New, so one instance
// is shared safely across goroutines.
type Client struct {
	baseURL    string
	headers    map[string]string
	retry      RetryPolicy
	limiter    *rate.Limiter
	log        *slog.Logger
	httpClient *http.Client

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client for the given base URL.
func New(opts Options) *Client {
	retry := opts.Retry
	if retry == (RetryPolicy{}) {
		retry = DefaultRetryPolicy
	}
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if retry.Timeout <= 0 {
		retry.Timeout = DefaultRetryPolicy.Timeout
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		headers:    headers,
		retry:      retry,
		limiter:    limiter,
		log:        log,
		httpClient: httpClient,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// Request describes one logical call. Method defaults to GET. Timeout and
// Retry override the client defaults for this call only.
type Request struct {
	Method  string
	Path    string
	Query   Query
	Body    any
	Headers map[string]string
	Timeout time.Duration
	Retry   *RetryPolicy
}

// Do runs one logical call: up to MaxRetries+1 strictly sequential attempts
// with exponential backoff between retryable failures, then normalization
// of the winning payload. A returned error is always a *Error carrying the
// last cause, its classification and the request id.
func (c *Client) Do(ctx context.Context, req Request) (Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	policy := c.retry
	if req.Retry != nil {
		policy = *req.Retry
		if policy.MaxRetries < 0 {
			policy.MaxRetries = 0
		}
		if policy.BaseDelay <= 0 {
			policy.BaseDelay = c.retry.BaseDelay
		}
		if policy.Timeout <= 0 {
			policy.Timeout = c.retry.Timeout
		}
	}
	if req.Timeout > 0 {
		policy.Timeout = req.Timeout
	}

	requestID := newRequestID(c.now())
	url := c.url(req.Path, req.Query)

	var payload []byte
	if req.Body != nil && method != http.MethodGet {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return Result{}, &Error{
				Kind:      KindValidation,
				Message:   "encode request body: " + err.Error(),
				RequestID: requestID,
				Err:       err,
			}
		}
		payload = b
	}

	var lastErr *Error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return Result{}, c.wrap(err, requestID, attempt)
			}
		}

		data, err := c.execute(ctx, method, url, payload, req.Headers, requestID, attempt, policy.Timeout)
		if err == nil {
			res, nerr := Normalize(data)
			if nerr == nil {
				return res, nil
			}
			err = nerr
		}

		lastErr = c.wrap(err, requestID, attempt)
		metrics.RequestErrors.WithLabelValues(method, string(lastErr.Kind)).Inc()
		if !lastErr.Retryable() || attempt == policy.MaxRetries {
			break
		}

		delay := backoffDelay(policy.BaseDelay, attempt)
		c.log.Warn("retrying request",
			"requestId", requestID,
			"method", method,
			"url", url,
			"attempt", attempt,
			"delay", delay,
			"error", lastErr.Message)
		metrics.RequestRetries.WithLabelValues(method).Inc()
		if serr := c.sleep(ctx, delay); serr != nil {
			return Result{}, c.wrap(serr, requestID, attempt)
		}
	}

	c.log.Error("request failed",
		"requestId", requestID,
		"method", method,
		"url", url,
		"attempts", lastErr.Attempt+1,
		"kind", string(lastErr.Kind),
		"error", lastErr.Message)
	return Result{}, lastErr
}

// execute performs one physical attempt under its own timeout.
func (c *Client) execute(ctx context.Context, method, url string, payload []byte, headers map[string]string, requestID string, attempt int, timeout time.Duration) ([]byte, error) {
	start := c.now()
	c.log.Debug("request start",
		"requestId", requestID,
		"method", method,
		"url", url,
		"attempt", attempt)

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if len(payload) > 0 {
		body = bytes.NewReader(payload)
	}
	hreq, err := http.NewRequestWithContext(actx, method, url, body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "create request: " + err.Error(), Err: err}
	}
	hreq.Header.Set("Accept", "application/json")
	if len(payload) > 0 {
		hreq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		hreq.Header.Set(k, v)
	}
	for k, v := range headers {
		hreq.Header.Set(k, v)
	}
	hreq.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		duration := c.now().Sub(start)
		if actx.Err() == context.DeadlineExceeded {
			c.log.Debug("request end",
				"requestId", requestID,
				"attempt", attempt,
				"outcome", "timeout",
				"duration_ms", duration.Milliseconds())
			return nil, &Error{
				Kind:    KindTransport,
				Timeout: true,
				Message: fmt.Sprintf("request timed out after %s", timeout),
				Err:     err,
			}
		}
		c.log.Debug("request end",
			"requestId", requestID,
			"attempt", attempt,
			"outcome", "error",
			"duration_ms", duration.Milliseconds())
		return nil, &Error{Kind: KindTransport, Message: "request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	duration := c.now().Sub(start)
	metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.RequestLatency.WithLabelValues(method).Observe(duration.Seconds())
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "read response: " + err.Error(), Err: err}
	}

	c.log.Debug("request end",
		"requestId", requestID,
		"method", method,
		"status", resp.StatusCode,
		"attempt", attempt,
		"duration_ms", duration.Milliseconds())

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	message := errorMessage(data)
	if message == "" {
		message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return nil, &Error{
		Kind:       classifyStatus(resp.StatusCode, message),
		Message:    message,
		StatusCode: resp.StatusCode,
	}
}

// wrap stamps an error with the call identity, converting foreign errors
// into the transport bucket.
func (c *Client) wrap(err error, requestID string, attempt int) *Error {
	e, ok := AsError(err)
	if !ok {
		e = &Error{Kind: Classify(err), Message: err.Error(), Err: err}
	}
	e.RequestID = requestID
	e.Attempt = attempt
	return e
}

func (c *Client) url(path string, q Query) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if qs := q.Encode(); qs != "" {
		u += "?" + qs
	}
	return u
}

// AuthHeader builds the bearer header domain services attach per call.
// An empty token yields nil so anonymous calls carry no header.
func AuthHeader(token string) map[string]string {
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// errorMessage pulls the message field out of a non-2xx body. Returns ""
// when the body does not decode, so the caller synthesizes "HTTP <status>".
func errorMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
