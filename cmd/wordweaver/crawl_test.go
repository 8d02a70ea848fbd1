package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alvmarrod/word-weaver/internal/config"
	"github.com/alvmarrod/word-weaver/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pagesFetcher map[string]string

func (p pagesFetcher) Fetch(title string) string {
	return p[title]
}

var testPages = pagesFetcher{
	defaultArticle: `<div id="bodyContent"><p>python python python snake bezae</p>
		<a href="/wiki/Snake">s</a></div>`,
	"Snake": `<div id="bodyContent"><p>snake scales</p></div>`,
}

func defaultCrawlOptions() *crawlOptions {
	return &crawlOptions{
		article:    defaultArticle,
		depth:      1,
		percentile: 0,
		ignore:     []string{"bezae"},
		format:     "markdown",
		top:        10,
	}
}

func TestRunCrawlMarkdown(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runCrawl(&out, config.Default(), testPages, defaultCrawlOptions()))

	text := out.String()
	assert.Contains(t, text, "# Word Frequency: Python (programming language)")
	assert.Contains(t, text, "python")
	assert.Contains(t, text, "scales")
}

func TestRunCrawlJSON(t *testing.T) {
	co := defaultCrawlOptions()
	co.format = "json"
	co.percentile = 100

	var out bytes.Buffer
	require.NoError(t, runCrawl(&out, config.Default(), testPages, co))

	var decoded struct {
		ArticlesVisited int `json:"articles_visited"`
		Result          struct {
			WordCount     map[string]int `json:"word_count"`
			TotalWords    int            `json:"total_words"`
			FilteredWords int            `json:"filtered_words"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.ArticlesVisited)
	assert.Equal(t, map[string]int{"python": 3}, decoded.Result.WordCount)
	assert.Equal(t, 1, decoded.Result.FilteredWords)
	// six tokens on the root page, including the anchor text, and two on Snake
	assert.Equal(t, 8, decoded.Result.TotalWords)
}

func TestRunCrawlExports(t *testing.T) {
	dir := t.TempDir()
	co := defaultCrawlOptions()
	co.dbPath = filepath.Join(dir, "runs.db")
	co.metricsPath = filepath.Join(dir, "metrics.json")

	var out bytes.Buffer
	require.NoError(t, runCrawl(&out, config.Default(), testPages, co))

	store, err := storage.NewStorage(co.dbPath)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.GetRun(1)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, defaultArticle, run.Article)
	assert.Equal(t, 2, run.ArticlesVisited)

	words, err := store.TopWords(1, 1)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "python", words[0].Word)

	_, err = os.Stat(co.metricsPath)
	assert.NoError(t, err)
}

func TestRunCrawlValidation(t *testing.T) {
	cfg := config.Default()
	var out bytes.Buffer

	co := defaultCrawlOptions()
	co.depth = 11
	assert.Error(t, runCrawl(&out, cfg, testPages, co))

	co = defaultCrawlOptions()
	co.percentile = -1
	assert.Error(t, runCrawl(&out, cfg, testPages, co))

	co = defaultCrawlOptions()
	co.format = "xml"
	assert.Error(t, runCrawl(&out, cfg, testPages, co))

	assert.Empty(t, out.String())
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "wordweaver v")
}

func TestLoadConfigRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0644))

	_, err := loadConfig(&rootOptions{configPath: path})
	assert.ErrorContains(t, err, "log_level")
}
