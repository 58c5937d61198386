package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"golang.org/x/time/rate"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// Config configures the request executor.
type Config struct {
	// Timeout bounds a single attempt. Default: 30 seconds
	Timeout time.Duration

	// MaxRetries is the total number of attempts, the first one included. Default: 3
	MaxRetries int

	// DefaultRetryAfter is used on 429 when the platform sends no delay. Default: 5 seconds
	DefaultRetryAfter time.Duration

	// RateLimitRPS enables a proactive client-side limiter when positive.
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultConfig returns the executor defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		DefaultRetryAfter: 5 * time.Second,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.DefaultRetryAfter <= 0 {
		cfg.DefaultRetryAfter = 5 * time.Second
	}
	if cfg.RateLimitBurst < 1 {
		cfg.RateLimitBurst = 1
	}
	return cfg
}

// Request describes one outbound call. At most one of JSON, Form and Body is set.
type Request struct {
	Platform  string
	Operation string
	Method    string
	Endpoint  string
	Query     url.Values
	Headers   map[string]string
	JSON      any
	Form      url.Values
	Body      []byte
}

// Response is a fully read 2xx response.
type Response struct {
	Platform   string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &apperrors.PlatformError{Platform: r.Platform, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Executor issues outbound platform calls with uniform retry and rate-limit
// handling. It keeps no per-call state and is safe for concurrent use.
type Executor struct {
	client  *http.Client
	cfg     Config
	limiter *rate.Limiter
	logger  logging.Logger
	now     func() time.Time
}

func New(cfg Config, logger logging.Logger) *Executor {
	cfg = normalizeConfig(cfg)
	return NewWithClient(&http.Client{Timeout: cfg.Timeout}, cfg, logger)
}

func NewWithClient(client *http.Client, cfg Config, logger logging.Logger) *Executor {
	cfg = normalizeConfig(cfg)
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	e := &Executor{
		client: client,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	if cfg.RateLimitRPS > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	return e
}

// HTTPClient exposes the underlying client for libraries that take one (oauth2).
func (e *Executor) HTTPClient() *http.Client {
	return e.client
}

func (e *Executor) MaxRetries() int {
	return e.cfg.MaxRetries
}

// Do executes req with the configured retry policy.
func (e *Executor) Do(ctx context.Context, req *Request) (*Response, error) {
	return Retry(ctx, e, req.Platform, e.cfg.MaxRetries, func(ctx context.Context) (*Response, error) {
		return e.Execute(ctx, req)
	})
}

// DoJSON executes req with retries and decodes the body into out when out is non-nil.
func (e *Executor) DoJSON(ctx context.Context, req *Request, out any) (*Response, error) {
	resp, err := e.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := resp.Decode(out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Execute performs a single attempt. Non-2xx responses fail with a classified
// error wrapping *apperrors.RequestError.
func (e *Executor) Execute(ctx context.Context, req *Request) (*Response, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	httpReq, err := e.buildRequest(ctx, req)
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "request", Message: err.Error()}
	}

	log := e.logger.WithFields(logging.Fields{
		"platform":  req.Platform,
		"operation": req.Operation,
		"method":    httpReq.Method,
		"endpoint":  req.Endpoint,
	})

	start := e.now()
	resp, err := e.client.Do(httpReq)
	platformRequestDuration.WithLabelValues(req.Platform, req.Operation).Observe(time.Since(start).Seconds())
	if err != nil {
		platformRequests.WithLabelValues(req.Platform, req.Operation, outcomeLabel(0, err)).Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WithError(err).Debug("platform request failed")
		return nil, &apperrors.TransientError{Err: fmt.Errorf("%s %s: %w", httpReq.Method, req.Endpoint, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	platformRequests.WithLabelValues(req.Platform, req.Operation, outcomeLabel(resp.StatusCode, err)).Inc()
	if err != nil {
		return nil, &apperrors.TransientError{Err: fmt.Errorf("read %s body: %w", req.Endpoint, err)}
	}

	log.WithField("status", resp.StatusCode).Debug("platform request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &apperrors.RequestError{
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Endpoint:   req.Endpoint,
			Body:       body,
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			reqErr.RetryAfter = parseRetryAfter(resp.Header, e.now())
		}
		return nil, apperrors.Classify(req.Platform, reqErr)
	}

	return &Response{
		Platform:   req.Platform,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (e *Executor) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	endpoint := req.Endpoint
	if len(req.Query) > 0 {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for key, values := range req.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.JSON != nil:
		payload, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	return httpReq, nil
}

// Retry invokes fn up to maxRetries times in total. A rate-limited failure
// waits for its retry-after (or the configured default) before the next
// attempt; other failures are retried immediately. After the last attempt the
// original error is returned unchanged. platform only labels logs and metrics.
func Retry[T any](ctx context.Context, e *Executor, platform string, maxRetries int, fn func(ctx context.Context) (T, error)) (T, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	policy := retrypolicy.NewBuilder[T]().
		HandleIf(func(_ T, err error) bool {
			return apperrors.Retryable(err)
		}).
		WithMaxAttempts(maxRetries).
		WithDelayFunc(func(exec failsafe.ExecutionAttempt[T]) time.Duration {
			return e.retryDelay(platform, exec.LastError())
		}).
		ReturnLastFailure().
		OnRetry(func(event failsafe.ExecutionEvent[T]) {
			err := event.LastError()
			reason := "error"
			if apperrors.IsRateLimit(err) {
				reason = "rate_limit"
			} else if apperrors.IsTransient(err) {
				reason = "transient"
			}
			platformRetries.WithLabelValues(platform, reason).Inc()
			e.logger.WithFields(logging.Fields{
				"platform": platform,
				"attempt":  event.Attempts(),
				"reason":   reason,
			}).WithError(err).Warn("retrying platform call")
		}).
		Build()

	result, err := failsafe.With[T](policy).WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[T]) (T, error) {
		return fn(exec.Context())
	})
	if err != nil && apperrors.Retryable(err) {
		e.logger.WithField("platform", platform).WithError(err).Error("platform call failed after retries")
	}
	return result, err
}

func (e *Executor) retryDelay(platform string, err error) time.Duration {
	var rl *apperrors.RateLimitError
	if !errors.As(err, &rl) {
		return 0
	}
	delay := rl.RetryAfter
	if delay <= 0 {
		delay = e.cfg.DefaultRetryAfter
	}
	rateLimitWait.WithLabelValues(platform).Add(delay.Seconds())
	return delay
}

// parseRetryAfter reads Retry-After (seconds or HTTP date), falling back to
// the x-rate-limit-reset epoch header Twitter sends.
func parseRetryAfter(h http.Header, now time.Time) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(v); err == nil && at.After(now) {
			return at.Sub(now)
		}
	}
	if v := h.Get("x-rate-limit-reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			if at := time.Unix(epoch, 0); at.After(now) {
				return at.Sub(now)
			}
		}
	}
	return 0
}
