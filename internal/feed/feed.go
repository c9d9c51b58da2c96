// Package feed polls podcast RSS feeds for new episodes and their
// transcripts.
package feed

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const maxPerFeed = 20

// Episode is one feed item.
type Episode struct {
	GUID          string
	Title         string
	Link          string
	TranscriptURL string // from <podcast:transcript>, empty if absent
	Published     *time.Time
	Feed          string
	FeedURL       string
}

// Parser reads podcast feeds.
type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{parser: gofeed.NewParser()}
}

// Parse fetches feedURL and returns up to maxPerFeed of its newest episodes.
func (p *Parser) Parse(ctx context.Context, feedURL, name string) ([]Episode, error) {
	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = strings.TrimSpace(feed.Title)
	}
	if name == "" {
		name = extractSourceName(feedURL)
	}
	return episodes(feed, feedURL, name), nil
}

// ParseString parses feed XML that was already downloaded.
func (p *Parser) ParseString(data, feedURL, name string) ([]Episode, error) {
	feed, err := p.parser.ParseString(data)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = extractSourceName(feedURL)
	}
	return episodes(feed, feedURL, name), nil
}

func episodes(feed *gofeed.Feed, feedURL, name string) []Episode {
	var out []Episode
	for _, item := range feed.Items {
		if len(out) >= maxPerFeed {
			break
		}
		if e := parseItem(item, feedURL, name); e != nil {
			out = append(out, *e)
		}
	}
	return out
}

func parseItem(item *gofeed.Item, feedURL, name string) *Episode {
	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		guid = strings.TrimSpace(item.Link)
	}
	title := strings.TrimSpace(item.Title)
	if guid == "" || title == "" {
		return nil
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}

	return &Episode{
		GUID:          guid,
		Title:         title,
		Link:          strings.TrimSpace(item.Link),
		TranscriptURL: transcriptURL(item.Extensions),
		Published:     published,
		Feed:          name,
		FeedURL:       feedURL,
	}
}

// transcriptTypes ranks <podcast:transcript> MIME types; lower is better.
// JSON and other types have no decoder.
var transcriptTypes = map[string]int{
	"text/plain":           0,
	"text/vtt":             1,
	"application/x-subrip": 2,
	"application/srt":      2,
	"text/html":            3,
	"application/pdf":      4,
}

// transcriptURL picks the best podcast:transcript link of an item.
func transcriptURL(exts ext.Extensions) string {
	var candidates []ext.Extension
	if ns, ok := exts["podcast"]; ok {
		candidates = ns["transcript"]
	}
	if len(candidates) == 0 {
		// feeds that bind the podcast namespace to another prefix
		for _, ns := range exts {
			candidates = append(candidates, ns["transcript"]...)
		}
	}

	best, bestRank := "", len(transcriptTypes)+1
	for _, c := range candidates {
		href := strings.TrimSpace(c.Attrs["url"])
		if href == "" {
			continue
		}
		rank, ok := transcriptTypes[strings.ToLower(strings.TrimSpace(c.Attrs["type"]))]
		if !ok {
			continue
		}
		if rank < bestRank {
			best, bestRank = href, rank
		}
	}
	return best
}

func extractSourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Hostname() == "" {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())

	for _, prefix := range []string{"www.", "rss.", "feeds.", "podcasts.", "anchor."} {
		host = strings.TrimPrefix(host, prefix)
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		name := parts[len(parts)-2]
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ToUpper(host[:1]) + host[1:]
}
