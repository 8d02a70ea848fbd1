// Package report renders the result of one crawl for humans and scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/alvmarrod/word-weaver/internal/stats"
	"github.com/nao1215/markdown"
)

// Report is the outcome of one crawl
type Report struct {
	Article         string               `json:"article"`
	MaxDepth        int                  `json:"max_depth"`
	Percentile      int                  `json:"percentile"`
	Ignored         []string             `json:"ignore_list"`
	ArticlesVisited int                  `json:"articles_visited"`
	Result          stats.FilteredResult `json:"result"`
}

// Entry is one row of the ranked word table
type Entry struct {
	Word       string
	Count      int
	Percentage float64
}

// Ranked returns the words of r ordered by count, then alphabetically.
// limit <= 0 returns every word.
func Ranked(r stats.Result, limit int) []Entry {
	entries := make([]Entry, 0, len(r.WordCount))
	for word, n := range r.WordCount {
		entries = append(entries, Entry{Word: word, Count: n, Percentage: r.WordPercentage[word]})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteMarkdown writes a summary table and the top words as Markdown
func WriteMarkdown(w io.Writer, r Report, limit int) error {
	md := markdown.NewMarkdown(w)

	md.H1("Word Frequency: " + r.Article)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Max Depth", strconv.Itoa(r.MaxDepth)},
			{"Percentile", strconv.Itoa(r.Percentile)},
			{"Articles Visited", strconv.Itoa(r.ArticlesVisited)},
			{"Total Words", strconv.Itoa(r.Result.TotalWords)},
			{"Words Kept", strconv.Itoa(r.Result.FilteredWords)},
		},
	})
	md.PlainText("")

	md.H2("Top Words")
	md.PlainText("")

	entries := Ranked(r.Result.Result, limit)
	if len(entries) == 0 {
		md.PlainText("No words found.")
		md.PlainText("")
		return md.Build()
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Word,
			strconv.Itoa(e.Count),
			strconv.FormatFloat(e.Percentage, 'f', 3, 64) + "%",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count", "Share"},
		Rows:   rows,
	})

	if len(r.Ignored) > 0 {
		md.PlainText("")
		md.PlainText("Ignored words:")
		md.BulletList(r.Ignored...)
	}

	return md.Build()
}
