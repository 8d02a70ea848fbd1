package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alvmarrod/word-weaver/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Article:         "Python (programming language)",
		MaxDepth:        1,
		Percentile:      0,
		Ignored:         []string{"bezae"},
		ArticlesVisited: 4,
		Result:          stats.FilterByPercentile(map[string]int{"hello": 3, "world": 2, "test": 5, "zeta": 2}, 0, nil),
	}
}

func TestRanked(t *testing.T) {
	entries := Ranked(sampleReport().Result.Result, 0)
	require.Len(t, entries, 4)

	words := []string{entries[0].Word, entries[1].Word, entries[2].Word, entries[3].Word}
	assert.Equal(t, []string{"test", "hello", "world", "zeta"}, words)
	assert.InDelta(t, 41.666, entries[0].Percentage, 0.01)

	assert.Len(t, Ranked(sampleReport().Result.Result, 2), 2)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleReport(), 3))

	out := buf.String()
	assert.Contains(t, out, "# Word Frequency: Python (programming language)")
	assert.Contains(t, out, "Articles Visited")
	assert.Contains(t, out, "test")
	assert.Contains(t, out, "bezae")
	assert.NotContains(t, out, "zeta")
}

func TestWriteMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := Report{Article: "Nothing", Result: stats.FilterByPercentile(nil, 50, nil)}
	require.NoError(t, WriteMarkdown(&buf, r, 10))
	assert.Contains(t, buf.String(), "No words found.")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	result := decoded["result"].(map[string]any)
	assert.Equal(t, float64(12), result["total_words"])
	assert.Equal(t, float64(4), result["filtered_words"])
	assert.Contains(t, result, "word_count")
}
