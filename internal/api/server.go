// Package api exposes the crawl engine over HTTP.
//
// Every analysis request gets its own crawler, so no state is shared
// between requests except the fetcher's connection pool and the metrics
// tracker.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/alvmarrod/word-weaver/internal/config"
	"github.com/alvmarrod/word-weaver/internal/crawler"
	"github.com/alvmarrod/word-weaver/internal/metrics"
	"github.com/alvmarrod/word-weaver/internal/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// maxRequestBodySize caps the JSON body of POST /keywords
const maxRequestBodySize = 1 << 20

// Server routes API requests to per-request crawlers
type Server struct {
	cfg     *config.Config
	fetcher crawler.Fetcher
	tracker *metrics.Tracker
	slots   *semaphore.Weighted
	mux     *http.ServeMux
}

// NewServer creates a server that crawls through fetcher
func NewServer(cfg *config.Config, fetcher crawler.Fetcher, tracker *metrics.Tracker) *Server {
	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		tracker: tracker,
		slots:   semaphore.NewWeighted(int64(cfg.MaxConcurrentCrawls)),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
	s.mux.HandleFunc("GET /word-frequency", s.handleWordFrequency)
	s.mux.HandleFunc("POST /keywords", s.handleKeywords)

	return s
}

// Handler returns the root handler with panic recovery installed
func (s *Server) Handler() http.Handler {
	return recoverer(s.mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	logrus.Info("Serving root endpoint")
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Wikipedia Word-Frequency Analyzer",
		"version": version.Version,
		"endpoints": map[string]string{
			"/word-frequency": "GET - Analyze word frequencies",
			"/keywords":       "POST - Get filtered keywords by percentile",
			"/metrics":        "GET - Crawl metrics since start",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.GetSnapshot())
}

func (s *Server) handleWordFrequency(w http.ResponseWriter, r *http.Request) {
	req, err := parseWordFrequency(r.URL.Query(), s.cfg.MaxDepthLimit)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	logrus.Infof("Starting word-frequency analysis for '%s' with depth %d", req.Article, req.MaxDepth)

	c, err := s.crawl(r.Context(), req.Article, req.MaxDepth)
	if err != nil {
		logrus.Errorf("Error in word-frequency endpoint for '%s': %v", req.Article, err)
		writeError(w, http.StatusInternalServerError, analysisFailure(err))
		return
	}

	result := c.Statistics()
	logrus.Infof("Word-frequency analysis complete for '%s': %d total words, %d unique words, %d articles processed",
		req.Article, result.TotalWords, len(result.WordCount), c.Visited())

	writeJSON(w, http.StatusOK, FrequencyResponse{
		WordCount:      result.WordCount,
		WordPercentage: result.WordPercentage,
	})
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	req, err := parseKeywords(r.Body, s.cfg.MaxDepthLimit)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	logrus.Infof("Starting keywords analysis for '%s' with depth %d, percentile %d, ignoring %d words",
		req.Article, req.Depth, req.Percentile, len(req.IgnoreList))

	c, err := s.crawl(r.Context(), req.Article, req.Depth)
	if err != nil {
		logrus.Errorf("Error in keywords endpoint: %v", err)
		writeError(w, http.StatusInternalServerError, analysisFailure(err))
		return
	}

	result := c.FilterByPercentile(req.Percentile, req.IgnoreList)
	logrus.Infof("Keywords analysis complete for '%s': %d keywords filtered from %d total words, %d articles processed",
		req.Article, result.FilteredWords, result.TotalWords, c.Visited())

	writeJSON(w, http.StatusOK, FrequencyResponse{
		WordCount:      result.WordCount,
		WordPercentage: result.WordPercentage,
	})
}

// crawl runs one full crawl once a slot is free
func (s *Server) crawl(ctx context.Context, article string, maxDepth int) (*crawler.Crawler, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a crawl slot: %w", err)
	}
	defer s.slots.Release(1)

	s.tracker.IncrementCrawlsStarted()
	c := crawler.NewCrawler(s.fetcher, s.cfg.MaxLinksPerArticle, s.tracker.ObserveArticle)
	c.Crawl(article, 0, maxDepth)
	s.tracker.IncrementCrawlsCompleted()

	return c, nil
}

func analysisFailure(v any) string {
	return fmt.Sprintf("Internal server error during analysis: %v", v)
}

// recoverer turns a panic inside a handler into a 500 response
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			logrus.Errorf("Panic serving %s %s: %v", r.Method, r.URL.Path, rec)
			writeError(w, http.StatusInternalServerError, analysisFailure(rec))
		}()
		next.ServeHTTP(w, r)
	})
}

// writeRequestError answers 413 for oversized bodies, 422 for validation
// failures and 500 otherwise
func writeRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if errors.Is(err, errValidation) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, analysisFailure(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	if status < http.StatusInternalServerError {
		logrus.Warnf("HTTP %d: %s", status, detail)
	}
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
