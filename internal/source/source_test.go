package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const srtSample = `1
00:00:01,000 --> 00:00:04,000
Welcome back to the show.

2
00:00:04,500 --> 00:00:08,000
Today we talk about the Fed.

3
00:00:08,000 --> 00:00:09,000
Today we talk about the Fed.
`

const vttSample = `WEBVTT
Kind: captions

NOTE recorded live

intro
00:00.000 --> 00:03.000
<v Host>Rates are <b>higher</b> again.

00:00:03.000 --> 00:00:05.000
<v Guest>Inflation is sticky.
`

func TestCaptionTextSRT(t *testing.T) {
	got := captionText(srtSample)
	want := "Welcome back to the show.\nToday we talk about the Fed."
	if got != want {
		t.Errorf("captionText(srt) = %q, want %q", got, want)
	}
}

func TestCaptionTextVTT(t *testing.T) {
	got := captionText(vttSample)
	want := "Host: Rates are higher again.\nGuest: Inflation is sticky."
	if got != want {
		t.Errorf("captionText(vtt) = %q, want %q", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "episode-12.txt")
	os.WriteFile(txt, []byte("  Host: The Fed raised rates.  \n"), 0o644)
	srt := filepath.Join(dir, "episode-13.srt")
	os.WriteFile(srt, []byte(srtSample), 0o644)

	tr, err := LoadFile(txt)
	if err != nil {
		t.Fatalf("LoadFile(txt): %v", err)
	}
	if tr.Name != "episode-12" || tr.Text != "Host: The Fed raised rates." || tr.Source != txt {
		t.Errorf("unexpected transcript: %+v", tr)
	}

	tr, err = LoadFile(srt)
	if err != nil {
		t.Fatalf("LoadFile(srt): %v", err)
	}
	if strings.Contains(tr.Text, "-->") {
		t.Errorf("expected timings stripped, got %q", tr.Text)
	}
}

func TestLoadFileRejects(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "episode.mp3")
	os.WriteFile(audio, []byte("ID3"), 0o644)
	if _, err := LoadFile(audio); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}

	blank := filepath.Join(dir, "blank.txt")
	os.WriteFile(blank, []byte("\n\n"), 0o644)
	if _, err := LoadFile(blank); err == nil {
		t.Error("expected error for empty transcript")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.txt", true},
		{"a.VTT", true},
		{"a.pdf", true},
		{"a.mp3", false},
		{"a", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFindTranscriptURLRanking(t *testing.T) {
	page := `
<p><a href="/show-notes">Show notes</a>
<a href="/files/ep42.pdf">Download slides</a>
<a href="/transcripts/ep42">Read the transcript</a>
<a href="/files/ep42-transcript.txt">Full transcript (text)</a></p>`

	base, _ := url.Parse("https://example.com/episodes/42")
	got, err := FindTranscriptURL(page, base)
	if err != nil {
		t.Fatalf("FindTranscriptURL returned error: %v", err)
	}
	want := "https://example.com/files/ep42-transcript.txt"
	if got != want {
		t.Errorf("FindTranscriptURL = %q, want %q", got, want)
	}
}

func TestFindTranscriptURLTextOnly(t *testing.T) {
	page := `<a href="#top">Top</a><a href="https://cdn.example.com/t/42">Transcript</a>`
	got, err := FindTranscriptURL(page, nil)
	if err != nil {
		t.Fatalf("FindTranscriptURL returned error: %v", err)
	}
	if got != "https://cdn.example.com/t/42" {
		t.Errorf("unexpected link %q", got)
	}
}

func TestFindTranscriptURLNone(t *testing.T) {
	if _, err := FindTranscriptURL(`<p><a href="/about">About</a></p>`, nil); !errors.Is(err, ErrNoTranscriptLink) {
		t.Errorf("expected ErrNoTranscriptLink, got %v", err)
	}
	if _, err := FindTranscriptURL("   ", nil); err == nil {
		t.Error("expected error for empty HTML")
	}
}

func TestFetchFollowsTranscriptLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/episodes/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><a href="/files/ep7.vtt">Episode transcript</a></body></html>`))
	})
	mux.HandleFunc("/files/ep7.vtt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(vttSample))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tr, err := NewFetcher(0, nil).Fetch(context.Background(), srv.URL+"/episodes/7")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if tr.Name != "7" {
		t.Errorf("expected name from episode page, got %q", tr.Name)
	}
	if tr.Source != srv.URL+"/files/ep7.vtt" {
		t.Errorf("expected transcript document as source, got %q", tr.Source)
	}
	if !strings.HasPrefix(tr.Text, "Host: Rates are higher again.") {
		t.Errorf("unexpected text %q", tr.Text)
	}
}

func TestFetchPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Host: Bond yields climbed this week.\n"))
	}))
	defer srv.Close()

	tr, err := NewFetcher(0, nil).Fetch(context.Background(), srv.URL+"/raw/ep9")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if tr.Text != "Host: Bond yields climbed this week." || tr.Name != "ep9" {
		t.Errorf("unexpected transcript %+v", tr)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(0, nil).Fetch(context.Background(), srv.URL+"/missing.txt")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", se.Code)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		rawURL, contentType, want string
	}{
		{"https://x.com/a.pdf", "", ".pdf"},
		{"https://x.com/a", "application/pdf", ".pdf"},
		{"https://x.com/a", "text/html; charset=utf-8", ".html"},
		{"https://x.com/a.vtt", "text/plain", ".vtt"},
		{"https://x.com/a", "", ".txt"},
	}
	for _, tt := range tests {
		u, _ := url.Parse(tt.rawURL)
		if got := formatOf(u, tt.contentType); got != tt.want {
			t.Errorf("formatOf(%q, %q) = %q, want %q", tt.rawURL, tt.contentType, got, tt.want)
		}
	}
}

func TestFetchFromPageRequiresLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p>Show notes only. <a href="/about">About us</a></p></body></html>`))
	}))
	defer srv.Close()

	_, err := NewFetcher(0, nil).FetchFromPage(context.Background(), srv.URL+"/episodes/3")
	if !errors.Is(err, ErrNoTranscriptLink) {
		t.Errorf("expected ErrNoTranscriptLink, got %v", err)
	}
}
