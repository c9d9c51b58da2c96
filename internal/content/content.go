// Package content synthesizes publishable artifacts from a transcript's
// feature set. Every generator is a pure function of its input.
package content

import (
	"errors"
	"fmt"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

// Kind identifies one of the five artifacts.
type Kind string

const (
	KindBlog    Kind = "blog"
	KindFAQ     Kind = "faq"
	KindExcerpt Kind = "excerpt"
	KindSummary Kind = "summary"
	KindSEO     Kind = "seo"
)

// Kinds lists every artifact in generation order.
var Kinds = []Kind{KindBlog, KindFAQ, KindExcerpt, KindSummary, KindSEO}

// ErrSummaryShortfall marks a summary that could not reach its minimum word count.
var ErrSummaryShortfall = errors.New("summary below minimum word count")

// ErrSectionShortfall marks a blog post with fewer sections than requested.
// Topics without a matching key phrase are skipped, not padded.
var ErrSectionShortfall = errors.New("blog post below requested section count")

// ArtifactGenerationError reports that the feature set carries too little
// signal to satisfy an artifact's contract.
type ArtifactGenerationError struct {
	Artifact Kind
	Reason   string
}

func (e *ArtifactGenerationError) Error() string {
	return fmt.Sprintf("generating %s: %s", e.Artifact, e.Reason)
}

// Options are the length and count contracts shared by the generators.
type Options struct {
	BlogTitleMax      int
	BlogSections      int
	ExcerptLength     int
	FAQMinQuestions   int
	FAQMaxAnswer      int
	SummaryMinWords   int
	SummaryMaxWords   int
	MaxTakeaways      int
	SEOTitleMax       int
	SEODescriptionMax int
	SEOMinKeywords    int
	BrandName         string
}

// DefaultOptions returns the standard contracts.
func DefaultOptions() Options {
	return Options{
		BlogTitleMax:      60,
		BlogSections:      3,
		ExcerptLength:     73,
		FAQMinQuestions:   3,
		FAQMaxAnswer:      150,
		SummaryMinWords:   150,
		SummaryMaxWords:   200,
		MaxTakeaways:      3,
		SEOTitleMax:       60,
		SEODescriptionMax: 155,
		SEOMinKeywords:    2,
		BrandName:         "Your Podcast Name",
	}
}

// Generator produces artifacts under a fixed set of Options.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Artifacts is the generated set for one transcript. A nil field means that
// artifact was not produced.
type Artifacts struct {
	Blog    *BlogPost      `json:"blog,omitempty"`
	FAQ     *FAQContent    `json:"faq,omitempty"`
	Excerpt *ExcerptResult `json:"excerpt,omitempty"`
	Summary *SummaryResult `json:"summary,omitempty"`
	SEO     *SEOMetadata   `json:"seo,omitempty"`
}

// requireSignal rejects feature sets with neither keywords nor topics.
func requireSignal(kind Kind, f *nlp.ProcessedTranscript) error {
	if f == nil || (len(f.Keywords) == 0 && len(f.Topics) == 0) {
		return &ArtifactGenerationError{Artifact: kind, Reason: "feature set has no keywords or topics"}
	}
	return nil
}

// subject is the main thing an episode is about: its top keyword, or its top
// topic when no keyword was ranked.
func subject(f *nlp.ProcessedTranscript) string {
	if len(f.Keywords) > 0 {
		return f.Keywords[0].Term
	}
	if len(f.Topics) > 0 {
		return f.Topics[0]
	}
	return ""
}
