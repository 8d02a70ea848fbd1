// Package main is the wordweaver command.
//
// wordweaver crawls Wikipedia from a starting article and reports word
// frequencies, either as an HTTP service or as a one-off crawl.
//
// Usage:
//
//	wordweaver serve --config config.yaml
//	wordweaver crawl "Python (programming language)" --depth 1 --percentile 98
package main

func main() {
	Execute()
}
