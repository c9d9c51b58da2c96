package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/TobiSchelling/ContentForge/internal/logger"
)

// maxDownload caps a single transcript download.
const maxDownload = 32 << 20

// StatusError is a non-success HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Fetcher downloads transcripts over HTTP.
type Fetcher struct {
	client *http.Client
	log    logger.Logger
}

// NewFetcher creates a fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, log logger.Logger) *Fetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		log: log,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Fetch downloads rawURL and converts it to transcript text. For an HTML
// episode page, a linked transcript document is preferred over the page's
// own readable text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Transcript, error) {
	return f.fetch(ctx, rawURL, true)
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string, followLinks bool) (*Transcript, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	body, contentType, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var text string
	switch kind := formatOf(u, contentType); kind {
	case ".pdf":
		doc, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
		if err != nil {
			return nil, fmt.Errorf("reading pdf %s: %w", rawURL, err)
		}
		if text, err = pdfText(doc); err != nil {
			return nil, fmt.Errorf("extracting pdf text %s: %w", rawURL, err)
		}
	case ".html":
		if followLinks {
			if link, err := FindTranscriptURL(string(body), u); err == nil && link != rawURL {
				f.log.Debug(ctx, "Following transcript link %s", link)
				t, err := f.fetch(ctx, link, false)
				if err == nil {
					t.Name = nameFromURL(u)
					return t, nil
				}
				f.log.Warn(ctx, "Transcript link %s failed: %v, using page text", link, err)
			}
		}
		if text, err = htmlText(string(body), u); err != nil {
			return nil, fmt.Errorf("%s: %w", rawURL, err)
		}
	default:
		if text, err = decode(kind, body, u); err != nil {
			return nil, err
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("transcript at %s is empty", rawURL)
	}
	return &Transcript{Name: nameFromURL(u), Source: rawURL, Text: text}, nil
}

// FetchFromPage downloads the transcript document linked from an episode
// page. Unlike Fetch it never falls back to the page text, so show notes are
// not mistaken for a transcript.
func (f *Fetcher) FetchFromPage(ctx context.Context, pageURL string) (*Transcript, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	body, _, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	link, err := FindTranscriptURL(string(body), u)
	if err != nil {
		return nil, err
	}
	t, err := f.fetch(ctx, link, false)
	if err != nil {
		return nil, err
	}
	t.Name = nameFromURL(u)
	return t, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "ContentForge/1.0 (transcript fetcher)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// formatOf picks a decoder from the URL's extension, then the content type.
func formatOf(u *url.URL, contentType string) string {
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".pdf", ".srt", ".vtt", ".txt", ".md":
		return ext
	case ".html", ".htm":
		return ".html"
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/pdf":
		return ".pdf"
	case "text/vtt":
		return ".vtt"
	case "application/x-subrip":
		return ".srt"
	case "text/html", "application/xhtml+xml":
		return ".html"
	}
	return ".txt"
}

func nameFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return u.Host
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
