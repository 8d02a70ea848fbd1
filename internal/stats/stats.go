// Package stats computes word-frequency statistics over a crawl's counts.
//
// The percentile filter is rank based: the threshold is the count found at
// a fixed position of the descending list of counts, not an interpolated
// quantile.
package stats

import "sort"

// Result is a read-only snapshot of a frequency table
type Result struct {
	WordCount      map[string]int     `json:"word_count"`
	WordPercentage map[string]float64 `json:"word_percentage"`
	TotalWords     int                `json:"total_words"`
}

// FilteredResult is a Result narrowed by percentile and exclusion list
type FilteredResult struct {
	Result
	FilteredWords int `json:"filtered_words"`
}

// Calculate returns the counts, their share of the total in percent, and the
// total. An empty or all-zero table yields empty maps and a zero total.
func Calculate(counts map[string]int) Result {
	total := 0
	for _, n := range counts {
		total += n
	}

	if total == 0 {
		return Result{
			WordCount:      map[string]int{},
			WordPercentage: map[string]float64{},
			TotalWords:     0,
		}
	}

	result := Result{
		WordCount:      make(map[string]int, len(counts)),
		WordPercentage: make(map[string]float64, len(counts)),
		TotalWords:     total,
	}
	for word, n := range counts {
		result.WordCount[word] = n
		result.WordPercentage[word] = float64(n) / float64(total) * 100
	}

	return result
}

// FilterByPercentile keeps the words whose count reaches the percentile
// threshold and that are not excluded. Percentages stay relative to the
// unfiltered total.
func FilterByPercentile(counts map[string]int, percentile int, exclude []string) FilteredResult {
	full := Calculate(counts)
	if len(full.WordCount) == 0 {
		return FilteredResult{Result: full}
	}

	sorted := make([]int, 0, len(full.WordCount))
	for _, n := range full.WordCount {
		sorted = append(sorted, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	limit := Threshold(sorted, percentile)

	excluded := make(map[string]struct{}, len(exclude))
	for _, word := range exclude {
		excluded[word] = struct{}{}
	}

	filtered := FilteredResult{
		Result: Result{
			WordCount:      map[string]int{},
			WordPercentage: map[string]float64{},
			TotalWords:     full.TotalWords,
		},
	}
	for word, n := range full.WordCount {
		if n < limit {
			continue
		}
		if _, skip := excluded[word]; skip {
			continue
		}
		filtered.WordCount[word] = n
		filtered.WordPercentage[word] = full.WordPercentage[word]
	}
	filtered.FilteredWords = len(filtered.WordCount)

	return filtered
}

// Threshold returns the minimum count a word needs to pass the percentile
// filter. sorted must be in descending order.
//
// 100 selects the maximum, 0 lets everything through, and any other value
// picks sorted[floor(N*(1-p/100))] with the index clamped to [0, N-1].
func Threshold(sorted []int, percentile int) int {
	if len(sorted) == 0 {
		return 0
	}

	switch percentile {
	case 100:
		return sorted[0]
	case 0:
		return 0
	}

	index := int(float64(len(sorted)) * (1 - float64(percentile)/100))
	if index < 0 {
		index = 0
	}
	if index > len(sorted)-1 {
		index = len(sorted) - 1
	}
	return sorted[index]
}
