package media

import (
	"context"
	"net/http"

	"github.com/maheshrc27/socialbridge/internal/executor"
)

// HTTPFetcher downloads media through the shared executor so downloads get
// the same retry and rate-limit treatment as platform calls.
type HTTPFetcher struct {
	exec *executor.Executor
}

func NewHTTPFetcher(exec *executor.Executor) *HTTPFetcher {
	return &HTTPFetcher{exec: exec}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Object, error) {
	resp, err := f.exec.Do(ctx, &executor.Request{
		Platform:  "media",
		Operation: "fetch",
		Method:    http.MethodGet,
		Endpoint:  rawURL,
	})
	if err != nil {
		return nil, err
	}
	return newObject(resp.Body, resp.Header.Get("Content-Type"), rawURL), nil
}
