package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const (
	// contentSelector locates the main article region of a page
	contentSelector = "div#bodyContent"

	// articlePrefix is the path prefix of same-site article links
	articlePrefix = "/wiki/"

	// namespaceSeparator marks Category:, Special:, Talk: and similar pages
	namespaceSeparator = ":"
)

// ArticleFromHref returns the article identifier an href points to.
// ok is false for external links and non-article namespaces.
func ArticleFromHref(href string) (article string, ok bool) {
	if !strings.HasPrefix(href, articlePrefix) {
		return "", false
	}
	if strings.Contains(href, namespaceSeparator) {
		return "", false
	}
	return strings.TrimPrefix(href, articlePrefix), true
}

// ExtractLinks returns the raw identifiers of the articles linked from the
// main content region, in document order. Pages without that region, and
// markup that cannot be parsed, yield no links.
func ExtractLinks(markup string) []string {
	links := []string{}

	doc, err := parseDocument(markup)
	if err != nil {
		logrus.Errorf("Error extracting links: %v", err)
		return links
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return links
	}

	content.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if article, ok := ArticleFromHref(href); ok {
			links = append(links, article)
		}
	})

	return links
}
