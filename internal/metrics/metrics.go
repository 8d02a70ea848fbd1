package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Metrics is the exported view of crawl activity since process start
type Metrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	CrawlsStarted     int       `json:"crawls_started"`
	CrawlsCompleted   int       `json:"crawls_completed"`
	ArticlesFetched   int       `json:"articles_fetched"`
	ArticlesFailed    int       `json:"articles_failed"`
	TokensCounted     int       `json:"tokens_counted"`
	TotalFetchTimeMs  int64     `json:"total_fetch_time_ms"`
	AvgFetchTimeMs    int64     `json:"avg_fetch_time_ms"`
	TerminationReason string    `json:"termination_reason,omitempty"`
}

// Tracker holds and manages crawl metrics.
// It is shared by every crawl in the process.
type Tracker struct {
	mu               sync.Mutex
	data             Metrics
	totalFetchTimeMs int64
	fetchCount       int
}

// NewTracker creates a new metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		data: Metrics{
			StartTime: time.Now(),
		},
	}
}

// IncrementCrawlsStarted increments the started crawls counter
func (t *Tracker) IncrementCrawlsStarted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.CrawlsStarted++
}

// IncrementCrawlsCompleted increments the completed crawls counter
func (t *Tracker) IncrementCrawlsCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.CrawlsCompleted++
}

// ObserveArticle records the outcome of one article fetch.
// Its signature matches crawler.MetricsCallback.
func (t *Tracker) ObserveArticle(fetched, failed, tokens int, fetchTime time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.ArticlesFetched += fetched
	t.data.ArticlesFailed += failed
	t.data.TokensCounted += tokens
	t.totalFetchTimeMs += fetchTime.Milliseconds()
	t.fetchCount++
}

// GetSnapshot returns a copy of current metrics
func (t *Tracker) GetSnapshot() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.data
	snapshot.TotalFetchTimeMs = t.totalFetchTimeMs

	if t.fetchCount > 0 {
		snapshot.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}

	return snapshot
}

// WriteToFile exports metrics to a JSON file
func (t *Tracker) WriteToFile(path, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Finalize metrics
	t.data.EndTime = time.Now()
	t.data.TerminationReason = reason
	t.data.TotalFetchTimeMs = t.totalFetchTimeMs

	if t.fetchCount > 0 {
		t.data.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}

	jsonData, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	return nil
}

// LogProgress formats current metrics for periodic log lines
func (t *Tracker) LogProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("Crawls: %d started, %d completed | Articles: %d fetched, %d failed | Tokens: %d",
		t.data.CrawlsStarted,
		t.data.CrawlsCompleted,
		t.data.ArticlesFetched,
		t.data.ArticlesFailed,
		t.data.TokensCounted,
	)
}
