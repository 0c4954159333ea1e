package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tartampluch/go-timeturner/internal/config"
)

// VCardFetcher defines the contract for retrieving vCard data.
// This interface allows for mocking in tests and decoupling from the network layer.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements VCardFetcher over net/http with retries.
type HTTPFetcher struct {
	Client *http.Client

	// MaxRetries is the number of extra attempts after a transient failure
	// (network error or 5xx). Zero disables retries.
	MaxRetries      uint64
	InitialInterval time.Duration
}

// NewHTTPFetcher creates a new instance of HTTPFetcher with configured timeouts.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		MaxRetries:      config.FetchMaxRetries,
		InitialInterval: config.FetchInitialInterval,
	}
}

// Fetch retrieves vCard data from a remote URL.
// It sanitizes the URL for logging purposes to avoid leaking sensitive tokens.
// It enforces a maximum response size limit.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}

	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query parameters might contain tokens.
	safeURL := u.Scheme + "://" + u.Host + u.Path

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.InitialInterval
	bo.MaxElapsedTime = config.FetchMaxElapsed
	bo.Reset()

	var body io.ReadCloser
	operation := func() error {
		rc, err := f.fetchOnce(ctx, targetURL, user, pass, log)
		if err != nil {
			return err
		}
		body = rc
		return nil
	}
	notify := func(err error, next time.Duration) {
		log.Warn(config.MsgFetchRetry,
			slog.Any(config.LogKeyError, err),
			slog.Duration(config.LogKeyAttempt, next),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, f.MaxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

// fetchOnce performs a single GET. Errors worth retrying are returned as-is;
// the rest are wrapped with backoff.Permanent.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, targetURL, user, pass string, log *slog.Logger) (io.ReadCloser, error) {
	log.Debug("Initiating vCard download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set(config.HeaderUserAgent, config.UserAgent)

	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		wrapped := fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
		if ctx.Err() != nil {
			return nil, backoff.Permanent(wrapped)
		}
		return nil, wrapped
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Server returned error status",
			slog.Int(config.LogKeyStatus, resp.StatusCode),
		)
		statusErr := fmt.Errorf("%s: %d %s", config.ErrFetchStatus, resp.StatusCode, resp.Status)
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	log.Info("vCards downloading",
		slog.Int64("content_length", resp.ContentLength),
	)

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// limitedReadCloser wraps an io.Reader (Limited) and the original io.Closer.
// This ensures we can close the network connection properly while limiting the read size.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	return l.Reader.Read(p)
}

func (l *limitedReadCloser) Close() error {
	return l.Closer.Close()
}
