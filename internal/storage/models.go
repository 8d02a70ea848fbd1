package storage

import "time"

// Run is one exported crawl
type Run struct {
	RunID           int
	Article         string
	MaxDepth        int
	Percentile      *int
	ArticlesVisited int
	TotalWords      int
	DistinctWords   int
	CreatedAt       time.Time
}

// WordCount is one word of an exported run
type WordCount struct {
	RunID      int
	Word       string
	Count      int
	Percentage float64
}
