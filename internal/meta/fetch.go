package meta

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hmoreau/linkshelf/internal/domain"
	"github.com/hmoreau/linkshelf/internal/logger"
	"github.com/hmoreau/linkshelf/internal/utils"
)

const (
	// FetchTimeout bounds the outbound page fetch so a slow site can never
	// hang a form submit; on timeout the caller gets empty metadata.
	FetchTimeout = 5 * time.Second

	// userAgent identifies the scraper to the fetched site.
	userAgent = "linkshelf-bot/1.0 (+https://github.com/hmoreau/linkshelf)"

	// maxBodyBytes caps how much HTML is read; head tags live at the top.
	maxBodyBytes = 1 << 20
)

// Cache is the optional read-through cache in front of live fetches.
type Cache interface {
	Get(ctx context.Context, url string) (*domain.Metadata, error)
	Set(ctx context.Context, url string, meta domain.Metadata) error
}

// Extractor fetches a page and scrapes title/description/favicon from its
// head tags.
type Extractor struct {
	client  *http.Client
	cache   Cache // nil = caching disabled
	logger  logger.Logger
	timeout time.Duration
}

// Option tweaks an Extractor (used by tests to shrink the timeout).
type Option func(*Extractor)

// WithTimeout overrides the fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

// WithCache attaches a best-effort metadata cache.
func WithCache(c Cache) Option {
	return func(e *Extractor) { e.cache = c }
}

func NewExtractor(log logger.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		client:  &http.Client{},
		logger:  log,
		timeout: FetchTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.client.Timeout = e.timeout
	return e
}

// Extract returns the page metadata for rawURL. It never returns an error:
// anything that goes wrong yields a record with all fields nil.
func (e *Extractor) Extract(ctx context.Context, rawURL string) domain.Metadata {
	if e.cache != nil {
		if cached, err := e.cache.Get(ctx, rawURL); err == nil && cached != nil {
			e.logger.Debug("metadata cache hit", logger.String("url", rawURL))
			return *cached
		}
	}

	meta := e.fetch(ctx, rawURL)

	if e.cache != nil && !meta.Empty() {
		if err := e.cache.Set(ctx, rawURL, meta); err != nil {
			e.logger.Debug("metadata cache write failed",
				logger.String("url", rawURL),
				logger.Error(err))
		}
	}
	return meta
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) domain.Metadata {
	base, err := url.Parse(rawURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		e.logger.Debug("metadata fetch skipped, unusable url",
			logger.String("url", rawURL))
		return domain.Metadata{}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Metadata{}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("metadata fetch failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return domain.Metadata{}
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Debug("metadata fetch non-2xx",
			logger.String("url", rawURL),
			logger.Int("status", resp.StatusCode))
		return domain.Metadata{}
	}

	meta, err := parseHead(io.LimitReader(resp.Body, maxBodyBytes), resp.Request.URL)
	if err != nil {
		e.logger.Debug("metadata parse failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return domain.Metadata{}
	}
	return meta
}
