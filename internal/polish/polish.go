// Package polish rewrites generated artifacts through an LLM under a fixed
// style contract.
package polish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/content"
	"github.com/TobiSchelling/ContentForge/internal/llm"
	"github.com/TobiSchelling/ContentForge/internal/logger"
	"github.com/TobiSchelling/ContentForge/internal/report"
)

// Completer is the LLM boundary the polisher calls, normally *llm.Client.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Settings fix the call parameters and length targets quoted in prompts.
type Settings struct {
	DomainContext     string
	MaxTokens         int
	Temperature       float64
	TitleMax          int
	ExcerptLength     int
	SummaryMinWords   int
	SummaryMaxWords   int
	SEOTitleMax       int
	SEODescriptionMax int
}

func DefaultSettings() Settings {
	opts := content.DefaultOptions()
	return Settings{
		DomainContext:     DefaultDomainContext,
		MaxTokens:         1500,
		Temperature:       0.7,
		TitleMax:          opts.BlogTitleMax,
		ExcerptLength:     opts.ExcerptLength,
		SummaryMinWords:   opts.SummaryMinWords,
		SummaryMaxWords:   opts.SummaryMaxWords,
		SEOTitleMax:       opts.SEOTitleMax,
		SEODescriptionMax: opts.SEODescriptionMax,
	}
}

// PolishedContent is the rewritten document plus the artifacts whose
// rewrite failed. Failed artifacts are absent from Doc.
type PolishedContent struct {
	Doc      *report.Document
	Failures map[content.Kind]error
	// Warnings holds rewritten artifacts that break their length contract.
	Warnings map[content.Kind]error
	Skipped  []content.Kind
}

// ErrExcerptTooLong marks a rewritten excerpt longer than the target length.
var ErrExcerptTooLong = errors.New("polished excerpt exceeds target length")

// Succeeded lists the artifacts that were rewritten.
func (p *PolishedContent) Succeeded() []content.Kind {
	var kinds []content.Kind
	for _, k := range content.Kinds {
		if p.Doc.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Render writes the polished report.
func (p *PolishedContent) Render() string {
	return report.Render(p.Doc)
}

type Polisher struct {
	llm      Completer
	settings Settings
	log      logger.Logger
}

func NewPolisher(c Completer, settings Settings, log logger.Logger) *Polisher {
	if settings.DomainContext == "" {
		settings.DomainContext = DefaultDomainContext
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Polisher{llm: c, settings: settings, log: log}
}

// Polish rewrites every artifact present in doc, one call at a time. A
// failed call drops only that artifact and is recorded in Failures; sections
// listed in skip or absent from doc are not sent.
func (p *Polisher) Polish(ctx context.Context, doc *report.Document, skip map[content.Kind]bool) *PolishedContent {
	out := &PolishedContent{
		Doc:      &report.Document{Title: report.PolishedTitle},
		Failures: make(map[content.Kind]error),
		Warnings: make(map[content.Kind]error),
	}
	for _, kind := range content.Kinds {
		if skip[kind] || !doc.Has(kind) {
			out.Skipped = append(out.Skipped, kind)
			continue
		}
		if err := p.polishSection(ctx, kind, doc, out.Doc); err != nil {
			p.log.Error(ctx, "Polishing %s failed: %v", kind, err)
			out.Failures[kind] = err
			continue
		}
		if err := p.check(kind, out.Doc); err != nil {
			p.log.Warn(ctx, "Polished %s: %v", kind, err)
			out.Warnings[kind] = err
			continue
		}
		p.log.Info(ctx, "Polished %s", kind)
	}
	return out
}

// check reports a rewritten artifact that breaks its length contract. The
// text is kept so the caller can decide what to publish.
func (p *Polisher) check(kind content.Kind, d *report.Document) error {
	if kind != content.KindExcerpt {
		return nil
	}
	if n := content.Length(d.Excerpt); n > p.settings.ExcerptLength {
		return fmt.Errorf("%w: %d characters, target %d", ErrExcerptTooLong, n, p.settings.ExcerptLength)
	}
	return nil
}

func (p *Polisher) polishSection(ctx context.Context, kind content.Kind, src, dst *report.Document) error {
	s := p.settings
	var prompt string
	switch kind {
	case content.KindBlog:
		prompt = fmt.Sprintf(blogPrompt, s.DomainContext, s.TitleMax, blogPayload(src))
	case content.KindFAQ:
		prompt = fmt.Sprintf(faqPrompt, s.DomainContext, faqPayload(src.FAQ))
	case content.KindExcerpt:
		prompt = fmt.Sprintf(excerptPrompt, s.DomainContext, s.ExcerptLength, src.Excerpt)
	case content.KindSummary:
		prompt = fmt.Sprintf(summaryPrompt, s.DomainContext, s.SummaryMinWords, s.SummaryMaxWords, src.Summary)
	case content.KindSEO:
		prompt = fmt.Sprintf(metaPrompt, s.DomainContext, s.SEOTitleMax, s.SEODescriptionMax, metaPayload(src))
	default:
		return fmt.Errorf("unknown artifact %q", kind)
	}

	reply, err := p.llm.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
	})
	if err != nil {
		return err
	}

	switch kind {
	case content.KindBlog:
		title, body, err := parseBlogReply(reply)
		if err != nil {
			return err
		}
		dst.BlogTitle, dst.BlogContent = title, body
	case content.KindFAQ:
		entries, err := parseFAQReply(reply)
		if err != nil {
			return err
		}
		dst.FAQ = entries
	case content.KindExcerpt:
		dst.Excerpt = unquote(reply)
	case content.KindSummary:
		dst.Summary = strings.TrimSpace(reply)
	case content.KindSEO:
		title, desc, err := parseMetaReply(reply)
		if err != nil {
			return err
		}
		dst.MetaTitle, dst.MetaDescription = title, desc
	}
	return nil
}

func blogPayload(d *report.Document) string {
	return "Title: " + d.BlogTitle + "\n\n" + d.BlogContent
}

func faqPayload(entries []report.FAQEntry) string {
	pairs := make([]string, len(entries))
	for i, e := range entries {
		pairs[i] = "Q: " + e.Question + "\nA: " + e.Answer
	}
	return strings.Join(pairs, "\n\n")
}

func metaPayload(d *report.Document) string {
	return "Title: " + d.MetaTitle + "\nDescription: " + d.MetaDescription
}
