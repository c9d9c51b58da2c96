package source

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var (
	ErrNoTranscriptLink = errors.New("no transcript link found in HTML")
	errEmptyHTML        = errors.New("empty HTML content")
)

// minArticleText is the shortest readable page text accepted as a transcript.
const minArticleText = 100

// htmlText extracts the main readable text of a page.
func htmlText(html string, base *url.URL) (string, error) {
	article, err := readability.FromReader(strings.NewReader(html), base)
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if len(text) <= minArticleText {
		return "", errors.New("no extractable text on page")
	}
	return text, nil
}

// FindTranscriptURL locates the link on an episode page most likely to point
// at a transcript. Candidates rank as: anchor text mentioning "transcript"
// with a document-like href, then any document-like href, then any anchor
// mentioning "transcript". Relative hrefs are resolved against base when it
// is non-nil.
func FindTranscriptURL(html string, base *url.URL) (string, error) {
	html = strings.TrimSpace(html)
	if html == "" {
		return "", errEmptyHTML
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	var high, medium, low []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return
		}

		docLike := isTranscriptDocument(href)
		mentions := strings.Contains(strings.ToLower(sel.Text()), "transcript")
		switch {
		case docLike && mentions:
			high = append(high, href)
		case docLike:
			medium = append(medium, href)
		case mentions:
			low = append(low, href)
		}
	})

	for _, group := range [][]string{high, medium, low} {
		if len(group) > 0 {
			return resolve(base, group[0]), nil
		}
	}
	return "", ErrNoTranscriptLink
}

// isTranscriptDocument reports whether href names a file format LoadFile
// would also read as a transcript document.
func isTranscriptDocument(href string) bool {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".pdf", ".txt", ".srt", ".vtt":
		return true
	}
	return false
}

func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
