package crawler

import (
	"time"

	"github.com/alvmarrod/word-weaver/internal/stats"
	"github.com/sirupsen/logrus"
)

// MetricsCallback receives the outcome of every article fetch.
// fetched and failed are 0 or 1; tokens counts the words added.
type MetricsCallback func(fetched, failed, tokens int, fetchTime time.Duration)

// Crawler walks article links depth first and accumulates word counts.
// One Crawler serves exactly one crawl session; its visited set and
// counts are never shared.
type Crawler struct {
	fetcher         Fetcher
	maxLinks        int
	frontier        *Frontier
	visited         map[string]struct{}
	counts          map[string]int
	metricsCallback MetricsCallback
}

// NewCrawler creates a crawler that follows at most maxLinks links per article
func NewCrawler(fetcher Fetcher, maxLinks int, metricsCallback MetricsCallback) *Crawler {
	return &Crawler{
		fetcher:         fetcher,
		maxLinks:        maxLinks,
		frontier:        NewFrontier(),
		visited:         make(map[string]struct{}),
		counts:          make(map[string]int),
		metricsCallback: metricsCallback,
	}
}

// Crawl processes article at currentDepth and follows links until maxDepth.
// Articles already visited in this session are skipped.
func (c *Crawler) Crawl(article string, currentDepth, maxDepth int) {
	c.frontier.Push(Entry{Article: article, Depth: currentDepth})

	for {
		entry, ok := c.frontier.Pop()
		if !ok {
			return
		}
		c.visit(entry, maxDepth)
	}
}

// visit handles one popped entry. The visited check comes before the depth
// check, and marking happens only after both pass.
func (c *Crawler) visit(entry Entry, maxDepth int) {
	key := NormalizeTitle(entry.Article)
	if _, seen := c.visited[key]; seen {
		logrus.Debugf("Skipping %s: already visited", entry.Article)
		return
	}

	if entry.Depth > maxDepth {
		return
	}

	c.visited[key] = struct{}{}

	start := time.Now()
	markup := c.fetcher.Fetch(entry.Article)
	elapsed := time.Since(start)

	if markup == "" {
		logrus.Warnf("No content for article: %s", entry.Article)
		c.report(0, 1, 0, elapsed)
		return
	}

	words := Tokenize(ExtractText(markup))
	for _, word := range words {
		c.counts[word]++
	}
	c.report(1, 0, len(words), elapsed)

	logrus.Debugf("Crawled %s (depth=%d, words=%d)", entry.Article, entry.Depth, len(words))

	if entry.Depth >= maxDepth {
		return
	}

	links := ExtractLinks(markup)
	if len(links) > c.maxLinks {
		links = links[:c.maxLinks]
	}
	c.frontier.PushChildren(links, entry.Depth+1)
}

func (c *Crawler) report(fetched, failed, tokens int, fetchTime time.Duration) {
	if c.metricsCallback != nil {
		c.metricsCallback(fetched, failed, tokens, fetchTime)
	}
}

// Visited returns the number of articles processed in this session
func (c *Crawler) Visited() int {
	return len(c.visited)
}

// HasVisited reports whether an article, in any spelling that normalizes to
// the same key, has been processed
func (c *Crawler) HasVisited(article string) bool {
	_, ok := c.visited[NormalizeTitle(article)]
	return ok
}

// Counts returns a copy of the accumulated word counts
func (c *Crawler) Counts() map[string]int {
	counts := make(map[string]int, len(c.counts))
	for word, n := range c.counts {
		counts[word] = n
	}
	return counts
}

// Statistics returns the full statistics of the session
func (c *Crawler) Statistics() stats.Result {
	return stats.Calculate(c.counts)
}

// FilterByPercentile returns the session statistics narrowed by percentile
// and exclusion list
func (c *Crawler) FilterByPercentile(percentile int, exclude []string) stats.FilteredResult {
	return stats.FilterByPercentile(c.counts, percentile, exclude)
}
