// Package fetch downloads the source README and stores it verbatim on disk.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
	"git.home.luguber.info/inful/weeklysync/internal/logfields"
)

const (
	// DefaultTimeout bounds a single GET including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps the downloaded document size.
	DefaultMaxBodyBytes int64 = 16 << 20

	maxRedirects = 5
)

// NewHTTPClient creates an HTTP client with a timeout and a same-host redirect policy.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return errors.New("redirect to different host blocked")
			}
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// Doer is the subset of *http.Client used by Fetcher.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher performs a single GET and writes the body to a local path. It never retries.
type Fetcher struct {
	client   Doer
	maxBytes int64
	logger   *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fetcher. A nil client selects NewHTTPClient(DefaultTimeout).
func New(client Doer, opts ...Option) *Fetcher {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	f := &Fetcher{
		client:   client,
		maxBytes: DefaultMaxBodyBytes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL and writes the body to dest, replacing any existing file.
// Transport failures and non-2xx responses are returned as FetchError; local
// write failures as IOError. Nothing is written unless the whole body was read.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	if err := ValidateURL(rawURL); err != nil {
		return err
	}

	body, err := f.get(ctx, rawURL)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return ferrors.IOError("create cache directory").
			WithCause(err).
			WithContext("path", filepath.Dir(dest)).
			Build()
	}
	// #nosec G306 -- the cached README is public content.
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return ferrors.IOError("write cached document").
			WithCause(err).
			WithContext("path", dest).
			Build()
	}

	f.logger.Debug("Fetched source document", logfields.URL(rawURL), logfields.Path(dest), logfields.Bytes(len(body)))
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, ferrors.FetchError("build request").
			WithCause(err).
			WithContext("url", rawURL).
			Build()
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ferrors.FetchError("request failed").
			WithCause(err).
			WithContext("url", rawURL).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ferrors.FetchError("unexpected HTTP status").
			WithCause(fmt.Errorf("HTTP %d", resp.StatusCode)).
			WithContext("url", rawURL).
			WithContext("status_code", resp.StatusCode).
			Build()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, ferrors.FetchError("read response body").
			WithCause(err).
			WithContext("url", rawURL).
			Build()
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ferrors.FetchError("response too large").
			WithContext("url", rawURL).
			WithContext("limit_bytes", f.maxBytes).
			Build()
	}
	return data, nil
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ferrors.ConfigError("invalid source URL").
			WithCause(err).
			WithContext("url", raw).
			Build()
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ferrors.ConfigError(fmt.Sprintf("unsupported source URL %q", raw)).
			WithContext("url", raw).
			Build()
	}
	return nil
}
