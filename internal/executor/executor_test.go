package executor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
)

func newTestExecutor(retryAfter time.Duration) *Executor {
	return New(Config{MaxRetries: 3, DefaultRetryAfter: retryAfter}, nil)
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	e := newTestExecutor(time.Millisecond)
	calls := 0

	result, err := Retry(context.Background(), e, "test", 3, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("temporary")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestRetryReturnsOriginalErrorAfterMaxAttempts(t *testing.T) {
	e := newTestExecutor(time.Millisecond)
	original := errors.New("always failing")
	calls := 0

	_, err := Retry(context.Background(), e, "test", 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, original
	})

	require.Error(t, err)
	assert.Same(t, original, err)
	assert.Equal(t, 3, calls)
}

func TestRetryDoesNotRetryAuthenticationErrors(t *testing.T) {
	e := newTestExecutor(time.Millisecond)
	calls := 0

	_, err := Retry(context.Background(), e, "test", 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, &apperrors.AuthenticationError{Platform: "test", Err: errors.New("expired")}
	})

	assert.True(t, apperrors.IsAuthentication(err))
	assert.Equal(t, 1, calls)
}

func TestRetryWithZeroMaxRetriesRunsOnce(t *testing.T) {
	e := newTestExecutor(time.Millisecond)
	calls := 0

	_, err := Retry(context.Background(), e, "test", 0, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("nope")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoWaitsDefaultRetryAfterOnRateLimit(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id":"42"}`))
	}))
	defer server.Close()

	e := newTestExecutor(50 * time.Millisecond)
	start := time.Now()

	var out struct {
		ID string `json:"id"`
	}
	_, err := e.DoJSON(context.Background(), &Request{Platform: "test", Endpoint: server.URL}, &out)

	require.NoError(t, err)
	assert.Equal(t, "42", out.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestDoHonorsRetryAfterHeader(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	e := newTestExecutor(time.Millisecond)
	start := time.Now()

	_, err := e.Do(context.Background(), &Request{Platform: "test", Endpoint: server.URL})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestExecuteReturnsRequestErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"missing"}`))
	}))
	defer server.Close()

	e := newTestExecutor(time.Millisecond)

	_, err := e.Execute(context.Background(), &Request{Platform: "test", Endpoint: server.URL})

	var reqErr *apperrors.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "Not Found", reqErr.StatusText)
	assert.JSONEq(t, `{"error":"missing"}`, string(reqErr.Body))
	assert.True(t, apperrors.IsPlatform(err))
}

func TestDoRetriesServerErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	e := newTestExecutor(time.Millisecond)

	_, err := e.Do(context.Background(), &Request{Platform: "test", Endpoint: server.URL})

	assert.True(t, apperrors.IsTransient(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestExecuteEncodesJSONQueryAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		assert.Equal(t, "1", r.URL.Query().Get("existing"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"hello"}`, string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	e := newTestExecutor(time.Millisecond)

	resp, err := e.Execute(context.Background(), &Request{
		Platform: "test",
		Method:   http.MethodPost,
		Endpoint: server.URL + "/path?existing=1",
		Query:    url.Values{"access_token": {"tok"}},
		Headers:  map[string]string{"X-Restli-Protocol-Version": "2.0.0"},
		JSON:     map[string]string{"text": "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestExecuteEncodesForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
	}))
	defer server.Close()

	e := newTestExecutor(time.Millisecond)

	_, err := e.Execute(context.Background(), &Request{
		Method:   http.MethodPost,
		Endpoint: server.URL,
		Form:     url.Values{"grant_type": {"refresh_token"}},
	})

	require.NoError(t, err)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	e := newTestExecutor(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := e.Do(ctx, &Request{Endpoint: server.URL})

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	h := http.Header{}
	h.Set("Retry-After", "12")
	assert.Equal(t, 12*time.Second, parseRetryAfter(h, now))

	h = http.Header{}
	h.Set("Retry-After", now.Add(30*time.Second).Format(http.TimeFormat))
	assert.Equal(t, 30*time.Second, parseRetryAfter(h, now))

	h = http.Header{}
	h.Set("x-rate-limit-reset", "1704110460")
	assert.Equal(t, time.Minute, parseRetryAfter(h, now))

	assert.Equal(t, time.Duration(0), parseRetryAfter(http.Header{}, now))
}

func TestResponseDecodeFailureIsPlatformError(t *testing.T) {
	resp := &Response{Platform: "twitter", Body: []byte("not json")}

	var out map[string]any
	err := resp.Decode(&out)

	assert.True(t, apperrors.IsPlatform(err))
}
