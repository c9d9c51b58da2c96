package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Token is one annotated token of the cleaned text.
type Token struct {
	Text      string  `json:"text"`
	Idx       int     `json:"idx"`
	POS       string  `json:"pos"`
	Dep       string  `json:"dep"`
	Sentiment float64 `json:"sentiment"`
	EntType   string  `json:"ent_type"`
	IsStop    bool    `json:"is_stop"`
	IsPunct   bool    `json:"is_punct"`
}

// Span is a half-open token index range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type NounChunk struct {
	Span
	RootPOS string `json:"root_pos"`
}

type EntitySpan struct {
	Span
	Label string `json:"label"`
}

// Annotation is the annotation engine's view of a document.
type Annotation struct {
	Tokens     []Token      `json:"tokens"`
	Sentences  []Span       `json:"sentences"`
	NounChunks []NounChunk  `json:"noun_chunks"`
	Entities   []EntitySpan `json:"entities"`
}

// Annotator tags cleaned text with linguistic annotations.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Annotation, error)
}

// HTTPAnnotator calls an annotation engine over JSON/HTTP.
type HTTPAnnotator struct {
	BaseURL string
	client  *http.Client
}

// NewHTTPAnnotator creates a client for the engine at baseURL.
func NewHTTPAnnotator(baseURL string, timeout time.Duration) *HTTPAnnotator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPAnnotator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Annotate posts text to {BaseURL}/annotate and decodes the annotation.
func (a *HTTPAnnotator) Annotate(ctx context.Context, text string) (*Annotation, error) {
	data, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.BaseURL+"/annotate", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotation engine error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("annotation engine returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result Annotation
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding annotation: %w", err)
	}
	return &result, nil
}

// sourceText is the cleaned text with a table from character offsets, as
// reported in Token.Idx, to byte offsets.
type sourceText struct {
	text   string
	byteAt []int
}

func newSourceText(text string) sourceText {
	byteAt := make([]int, 0, len(text)+1)
	for i := range text {
		byteAt = append(byteAt, i)
	}
	return sourceText{text: text, byteAt: append(byteAt, len(text))}
}

// offset converts a character offset to a byte offset.
func (s sourceText) offset(idx int) (int, bool) {
	if idx < 0 || idx >= len(s.byteAt) {
		return 0, false
	}
	return s.byteAt[idx], true
}

// span recovers the source text of a token span. Character offsets are used
// when the engine supplied them; otherwise tokens are joined by spaces.
func (s sourceText) span(tokens []Token, sp Span) string {
	if sp.Start < 0 || sp.End > len(tokens) || sp.Start >= sp.End {
		return ""
	}
	first, last := tokens[sp.Start], tokens[sp.End-1]
	start, okStart := s.offset(first.Idx)
	lastStart, okLast := s.offset(last.Idx)
	if okStart && okLast && lastStart >= start {
		end := lastStart + len(last.Text)
		if end <= len(s.text) &&
			strings.HasPrefix(s.text[start:], first.Text) &&
			strings.HasPrefix(s.text[lastStart:], last.Text) {
			return s.text[start:end]
		}
	}

	parts := make([]string, 0, sp.End-sp.Start)
	for _, t := range tokens[sp.Start:sp.End] {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}
