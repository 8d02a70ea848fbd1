package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// Elements whose subtrees never contribute article text
const strippedElements = "script, style, sup, table, img"

// ExtractText returns the visible text of an HTML page with all words
// joined by single spaces. Unparseable markup yields an empty string.
func ExtractText(markup string) string {
	doc, err := parseDocument(markup)
	if err != nil {
		logrus.Errorf("Error extracting text from HTML: %v", err)
		return ""
	}

	doc.Find(strippedElements).Remove()

	var words []string
	for _, node := range doc.Nodes {
		words = collectText(node, words)
	}

	return strings.Join(words, " ")
}

// parseDocument parses markup with scripting disabled so that <noscript>
// children become elements and can be stripped like any other
func parseDocument(markup string) (*goquery.Document, error) {
	root, err := html.ParseWithOptions(strings.NewReader(markup), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

// collectText appends the fields of every text node under n in document order
func collectText(n *html.Node, words []string) []string {
	if n.Type == html.TextNode {
		return append(words, strings.Fields(n.Data)...)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		words = collectText(child, words)
	}
	return words
}
