package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

var ErrFetchFailed = errors.New("catalog fetch failed")

// SourceFetcher reads http(s) sources through a colly collector and anything
// else from the local filesystem. MaxBodyBytes caps remote bodies; zero
// means unlimited. An oversized body is an error, never a truncated catalog.
type SourceFetcher struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

func NewSourceFetcher(userAgent string, timeout time.Duration) *SourceFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SourceFetcher{UserAgent: strings.TrimSpace(userAgent), Timeout: timeout}
}

func (f *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrFetchFailed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isRemote(source) {
		return f.fetchRemote(ctx, source)
	}

	b, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return b, nil
}

func (f *SourceFetcher) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	// colly truncates silently at its body limit, so read one byte past ours
	// to tell a full body from a cut one.
	limit := 0
	if f.MaxBodyBytes > 0 {
		limit = f.MaxBodyBytes + 1
	}
	opts := []colly.CollectorOption{colly.AllowURLRevisit(), colly.MaxBodySize(limit)}
	if f.UserAgent != "" {
		opts = append(opts, colly.UserAgent(f.UserAgent))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(f.Timeout)

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		if status != 0 {
			return nil, fmt.Errorf("%w: status=%d: %v", ErrFetchFailed, status, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: status=%d", ErrFetchFailed, status)
	}
	if f.MaxBodyBytes > 0 && len(body) > f.MaxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrFetchFailed, f.MaxBodyBytes)
	}
	return body, nil
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
