// Package source loads raw transcripts from local files and the web.
package source

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Transcript is a loaded transcript and where it came from.
type Transcript struct {
	Name   string
	Source string
	Text   string
}

var ErrUnsupported = errors.New("unsupported transcript format")

var extensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".srt":  true,
	".vtt":  true,
	".pdf":  true,
	".html": true,
	".htm":  true,
}

// Supported reports whether path has a transcript extension LoadFile reads.
func Supported(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// LoadFile reads a transcript from disk, converting captions, PDF and HTML
// to plain text.
func LoadFile(path string) (*Transcript, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !extensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	var text string
	if ext == ".pdf" {
		t, err := pdfFileText(path)
		if err != nil {
			return nil, fmt.Errorf("reading pdf %s: %w", path, err)
		}
		text = t
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		text, err = decode(ext, data, nil)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("transcript %s is empty", path)
	}
	return &Transcript{Name: nameFromPath(path), Source: path, Text: text}, nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// decode turns non-PDF bytes of the given extension into text. base
// resolves relative links in HTML and may be nil.
func decode(ext string, data []byte, base *url.URL) (string, error) {
	switch ext {
	case ".srt", ".vtt":
		return captionText(string(data)), nil
	case ".html", ".htm":
		return htmlText(string(data), base)
	}
	return string(data), nil
}

var (
	reCueTime  = regexp.MustCompile(`^(\d{2}:)?\d{2}:\d{2}[.,]\d{3}\s+-->`)
	reCueIndex = regexp.MustCompile(`^\d+$`)
	reCueTag   = regexp.MustCompile(`<v\s+([^>]+)>`)
	reTag      = regexp.MustCompile(`</?[^>]+>`)
)

// captionText strips cue numbers, timings and WebVTT headers from SRT or
// VTT captions. A <v Speaker> voice tag becomes a "Speaker:" label and
// consecutive duplicate lines are dropped.
func captionText(captions string) string {
	captions = strings.ReplaceAll(captions, "\r\n", "\n")
	all := strings.Split(captions, "\n")
	var lines []string
	skipBlock := false
	for i, line := range all {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			skipBlock = false
			continue
		}
		if skipBlock {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "WEBVTT"),
			strings.HasPrefix(trimmed, "NOTE"),
			strings.HasPrefix(trimmed, "STYLE"),
			strings.HasPrefix(trimmed, "REGION"):
			skipBlock = true
			continue
		case reCueIndex.MatchString(trimmed), reCueTime.MatchString(trimmed):
			continue
		case i+1 < len(all) && reCueTime.MatchString(strings.TrimSpace(all[i+1])):
			// named cue identifier
			continue
		}

		trimmed = reCueTag.ReplaceAllString(trimmed, "$1: ")
		trimmed = strings.TrimSpace(reTag.ReplaceAllString(trimmed, ""))
		if trimmed == "" || (len(lines) > 0 && lines[len(lines)-1] == trimmed) {
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, "\n")
}

func pdfFileText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return pdfText(reader)
}

func pdfText(doc *pdf.Reader) (string, error) {
	textReader, err := doc.GetPlainText()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if _, err := io.Copy(&b, textReader); err != nil {
		return "", err
	}
	return b.String(), nil
}
