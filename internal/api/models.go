package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var (
	errValidation = errors.New("validation failed")
	errTooLarge   = errors.New("request body too large")
)

// FrequencyResponse is the body of both analysis endpoints
type FrequencyResponse struct {
	WordCount      map[string]int     `json:"word_count"`
	WordPercentage map[string]float64 `json:"word_percentage"`
}

// ErrorResponse carries a human readable failure
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WordFrequencyRequest is the validated query of GET /word-frequency
type WordFrequencyRequest struct {
	Article  string
	MaxDepth int
}

// KeywordsRequest is the validated body of POST /keywords
type KeywordsRequest struct {
	Article    string
	Depth      int
	IgnoreList []string
	Percentile int
}

// keywordsBody mirrors KeywordsRequest with pointers so missing fields
// can be told apart from zero values
type keywordsBody struct {
	Article    *string   `json:"article"`
	Depth      *int      `json:"depth"`
	IgnoreList *[]string `json:"ignore_list"`
	Percentile *int      `json:"percentile"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errValidation, fmt.Sprintf(format, args...))
}

func parseWordFrequency(query url.Values, maxDepthLimit int) (WordFrequencyRequest, error) {
	var req WordFrequencyRequest

	req.Article = query.Get("article")
	if req.Article == "" {
		return req, invalid("article is required")
	}

	raw := query.Get("max_depth")
	if raw == "" {
		return req, invalid("max_depth is required")
	}
	depth, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return req, invalid("max_depth must be an integer")
	}
	if err := checkDepth("max_depth", depth, maxDepthLimit); err != nil {
		return req, err
	}
	req.MaxDepth = depth

	return req, nil
}

func parseKeywords(body io.Reader, maxDepthLimit int) (KeywordsRequest, error) {
	var req KeywordsRequest

	var raw keywordsBody
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, fmt.Errorf("%w: limit is %d bytes", errTooLarge, maxErr.Limit)
		}
		return req, invalid("malformed JSON body: %v", err)
	}

	switch {
	case raw.Article == nil || *raw.Article == "":
		return req, invalid("article is required")
	case raw.Depth == nil:
		return req, invalid("depth is required")
	case raw.IgnoreList == nil:
		return req, invalid("ignore_list is required")
	case raw.Percentile == nil:
		return req, invalid("percentile is required")
	}

	if err := checkDepth("depth", *raw.Depth, maxDepthLimit); err != nil {
		return req, err
	}
	if *raw.Percentile < 0 || *raw.Percentile > 100 {
		return req, invalid("percentile must be between 0 and 100")
	}

	req.Article = *raw.Article
	req.Depth = *raw.Depth
	req.IgnoreList = *raw.IgnoreList
	req.Percentile = *raw.Percentile

	return req, nil
}

func checkDepth(field string, depth, limit int) error {
	if depth < 0 || depth > limit {
		return invalid("%s must be between 0 and %d", field, limit)
	}
	return nil
}
