package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	"github.com/ironsheep/imagegen-service/internal/logging"
)

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned for a response with a non-2xx status. The body is
// kept since some providers describe the failure in it.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// FetchOptions configures an HTTPFetcher.
type FetchOptions struct {
	UserAgent string
	Timeout   time.Duration
}

// HTTPFetcher is a Fetcher backed by a resty client. Requests are not
// retried.
type HTTPFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts FetchOptions, logger *slog.Logger) *HTTPFetcher {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "*/*")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	return &HTTPFetcher{client: client, logger: logging.OrDefault(logger)}
}

// Fetch performs a GET and returns the body. Network failures and non-2xx
// responses are transport errors; the latter wrap a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "source.fetch", "failed to fetch "+url, err)
	}

	f.logger.Debug("fetched remote image",
		"url", url,
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"duration", time.Since(start))

	if resp.IsError() || resp.StatusCode() >= 300 {
		return nil, apperr.Wrap(apperr.KindTransport, "source.fetch", "failed to fetch "+url, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		})
	}
	return resp.Body(), nil
}
