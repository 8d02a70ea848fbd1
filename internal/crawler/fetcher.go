package crawler

import (
	"net"
	"net/http"
	"time"

	"github.com/alvmarrod/word-weaver/internal/config"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

// Fetcher retrieves the raw markup of an article by display title.
// An empty string means no content, whatever the reason.
type Fetcher interface {
	Fetch(title string) string
}

// WikiFetcher fetches articles through a shared colly collector.
// It is safe for concurrent use by independent crawls.
type WikiFetcher struct {
	baseURL       string
	retryAttempts int
	retryDelay    time.Duration
	collector     *colly.Collector
	transport     *http.Transport
}

// NewWikiFetcher creates a fetcher with a bounded connection pool
func NewWikiFetcher(cfg *config.Config) *WikiFetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout(),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout(),
		MaxConnsPerHost:     cfg.MaxConnections,
		MaxIdleConns:        cfg.MaxIdleConnections,
		MaxIdleConnsPerHost: cfg.MaxIdleConnections,
		IdleConnTimeout:     90 * time.Second,
	}

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(cfg.MaxBodySize),
	)
	collector.WithTransport(transport)
	collector.SetRequestTimeout(cfg.RequestTimeout())

	return &WikiFetcher{
		baseURL:       cfg.BaseURL,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay(),
		collector:     collector,
		transport:     transport,
	}
}

// URL returns the request URL for an article title
func (f *WikiFetcher) URL(title string) string {
	return f.baseURL + ArticlePath(title)
}

// Fetch returns the article body, or an empty string when the article does
// not exist or every attempt failed
func (f *WikiFetcher) Fetch(title string) string {
	target := f.URL(title)

	for attempt := 1; attempt <= f.retryAttempts; attempt++ {
		logrus.Infof("Fetching article: %s (attempt %d)", title, attempt)

		body, status, err := f.get(target)
		switch {
		case err == nil && status == http.StatusOK:
			return body
		case status == http.StatusNotFound:
			logrus.Warnf("Article not found: %s", title)
			return ""
		case err != nil && status == 0:
			logrus.Errorf("Request error for article %s: %v", title, err)
		default:
			logrus.Errorf("Error fetching article %s: %d", title, status)
		}

		if attempt < f.retryAttempts && f.retryDelay > 0 {
			time.Sleep(f.retryDelay)
		}
	}

	logrus.Warnf("Giving up on article %s after %d attempts", title, f.retryAttempts)
	return ""
}

// get performs one request on a clone of the shared collector.
// Clones share the HTTP backend, so the connection pool is process-wide.
func (f *WikiFetcher) get(target string) (body string, status int, err error) {
	c := f.collector.Clone()

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = string(r.Body)
	})

	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	err = c.Visit(target)
	return body, status, err
}

// Close releases idle pooled connections
func (f *WikiFetcher) Close() {
	f.transport.CloseIdleConnections()
}
