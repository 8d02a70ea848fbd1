package crawler

import (
	"regexp"
	"strings"
)

// wordPattern matches a run of letters or digits, keeping apostrophe
// suffixes attached so contractions survive as one token.
var wordPattern = regexp.MustCompile(`[a-z0-9]+(?:'[a-z]+)*`)

// Tokenize lowercases text and returns its word tokens in order
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if words == nil {
		return []string{}
	}
	return words
}
