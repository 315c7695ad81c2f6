package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Class names that commonly mark publish-date elements
	dateClassRegex = regexp.MustCompile(`(?i)date|calendar|published`)
	// DD Mon YYYY, e.g. "05 Mar 2023"
	datePatternRegex = regexp.MustCompile(`\b\d{2}\s+[A-Za-z]{3}\s+\d{4}\b`)
)

// Meta tags checked for a byline, in precedence order. The first tag with a
// non-empty content attribute wins.
var journalistMetaSelectors = []string{
	`meta[name="author"]`,
	`meta[property="article:author"]`,
	`meta[property="content:author"]`,
}

// Content collects the text of every paragraph element with non-empty
// trimmed text, in document order, concatenated without separators and with
// embedded newlines stripped.
func Content(doc *goquery.Document) (string, bool) {
	var b strings.Builder
	doc.Find("p").Each(func(i int, p *goquery.Selection) {
		b.WriteString(collapseWhitespace(p.Text()))
	})
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// Title returns the document's title with internal whitespace collapsed and
// anything from the first " - " separator dropped, which removes the site
// name suffix common in title tags.
func Title(doc *goquery.Document) (string, bool) {
	title := collapseWhitespace(doc.Find("title").First().Text())
	title = truncateAtDash(title)
	if title == "" {
		return "", false
	}
	return title, true
}

// Date finds the first element whose class attribute looks date-related
// (date, calendar or published, case-insensitive) and extracts the first
// DD Mon YYYY substring from its text. Both the element lookup and the
// pattern match must succeed.
func Date(doc *goquery.Document) (string, bool) {
	var raw string
	doc.Find("[class]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if dateClassRegex.MatchString(class) {
			raw = strings.TrimSpace(s.Text())
			return false
		}
		return true
	})
	if raw == "" {
		return "", false
	}

	raw = truncateAtDash(raw)
	date := datePatternRegex.FindString(raw)
	if date == "" {
		return "", false
	}
	return date, true
}

// MediaName derives the source name from a resolved URL's authority
// component, with any leading "www." stripped. It never fetches.
func MediaName(resolvedURL string) (string, bool) {
	u, err := url.Parse(resolvedURL)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(u.Host, "www.")
	if host == "" {
		return "", false
	}
	return host, true
}

// Journalist returns the trimmed content attribute of the first matching
// author meta tag, checked in precedence order.
func Journalist(doc *goquery.Document) (string, bool) {
	for _, selector := range journalistMetaSelectors {
		content, exists := doc.Find(selector).First().Attr("content")
		if !exists {
			continue
		}
		if name := strings.TrimSpace(content); name != "" {
			return name, true
		}
	}
	return "", false
}

// collapseWhitespace trims the string and folds runs of whitespace
// (including newlines) into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateAtDash drops everything from the first " - " separator onward.
func truncateAtDash(s string) string {
	if idx := strings.Index(s, " - "); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
