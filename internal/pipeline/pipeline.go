// Package pipeline runs a transcript through extraction, generation, the
// report round trip and the polish pass.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TobiSchelling/ContentForge/internal/config"
	"github.com/TobiSchelling/ContentForge/internal/content"
	"github.com/TobiSchelling/ContentForge/internal/database"
	"github.com/TobiSchelling/ContentForge/internal/llm"
	"github.com/TobiSchelling/ContentForge/internal/logger"
	"github.com/TobiSchelling/ContentForge/internal/nlp"
	"github.com/TobiSchelling/ContentForge/internal/polish"
	"github.com/TobiSchelling/ContentForge/internal/report"
)

// FeatureExtractor derives the feature set of a transcript.
type FeatureExtractor interface {
	Process(ctx context.Context, transcript string) (*nlp.ProcessedTranscript, error)
}

// Input is one transcript to process.
type Input struct {
	Name       string
	Source     string
	Transcript string
}

// Result holds everything a run produced. PolishedReport is empty when the
// polish pass was disabled.
type Result struct {
	RunID           string
	Name            string
	Source          string
	Features        *nlp.ProcessedTranscript
	Artifacts       *content.Artifacts
	GeneratedReport string
	PolishedReport  string
	Manifest        Manifest
}

// Pipeline orchestrates the content generation stages.
type Pipeline struct {
	extractor FeatureExtractor
	generator *content.Generator
	polisher  *polish.Polisher
	noPolish  bool
	db        *database.DB
	log       logger.Logger
}

type Option func(*Pipeline)

// WithExtractor replaces the annotation-engine backed extractor.
func WithExtractor(e FeatureExtractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithCompleter polishes through c instead of the configured provider.
func WithCompleter(c polish.Completer, settings polish.Settings) Option {
	return func(p *Pipeline) { p.polisher = polish.NewPolisher(c, settings, p.log) }
}

// WithoutPolish disables the LLM rewrite pass.
func WithoutPolish() Option {
	return func(p *Pipeline) { p.noPolish = true }
}

// WithDB persists every run and its manifest.
func WithDB(db *database.DB) Option {
	return func(p *Pipeline) { p.db = db }
}

// New creates a pipeline wired from configuration.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	p := &Pipeline{
		generator: content.NewGenerator(ContentOptions(cfg.Generation)),
		log:       log,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.extractor == nil {
		lex := nlp.NewLexicon(cfg.Domain.Terms, cfg.Domain.Phrases)
		annotator := nlp.NewHTTPAnnotator(cfg.NLP.Endpoint, cfg.NLP.Timeout)
		p.extractor = nlp.NewExtractor(annotator, lex, log)
	}

	switch {
	case p.noPolish:
		p.polisher = nil
	case p.polisher == nil:
		provider := llm.CreateProvider(ctx, cfg.LLM, log)
		client := llm.NewClient(provider, cfg.LLM.Retries, cfg.LLM.Timeout, llm.WithLogger(log))
		p.polisher = polish.NewPolisher(client, PolishSettings(cfg), log)
	}
	return p
}

// ContentOptions maps the generation config onto generator contracts.
func ContentOptions(g config.Generation) content.Options {
	return content.Options{
		BlogTitleMax:      g.BlogTitleMax,
		BlogSections:      g.BlogSections,
		ExcerptLength:     g.ExcerptLength,
		FAQMinQuestions:   g.FAQMinQuestions,
		FAQMaxAnswer:      g.FAQMaxAnswer,
		SummaryMinWords:   g.SummaryMinWords,
		SummaryMaxWords:   g.SummaryMaxWords,
		MaxTakeaways:      g.MaxTakeaways,
		SEOTitleMax:       g.SEOTitleMax,
		SEODescriptionMax: g.SEODescriptionMax,
		SEOMinKeywords:    g.SEOMinKeywords,
		BrandName:         g.BrandName,
	}
}

// PolishSettings maps config onto the rewrite call parameters.
func PolishSettings(cfg *config.Config) polish.Settings {
	g := cfg.Generation
	return polish.Settings{
		DomainContext:     cfg.Domain.Context,
		MaxTokens:         cfg.LLM.MaxTokens,
		Temperature:       cfg.LLM.Temperature,
		TitleMax:          g.BlogTitleMax,
		ExcerptLength:     g.ExcerptLength,
		SummaryMinWords:   g.SummaryMinWords,
		SummaryMaxWords:   g.SummaryMaxWords,
		SEOTitleMax:       g.SEOTitleMax,
		SEODescriptionMax: g.SEODescriptionMax,
	}
}

// Run executes extraction, generation, the report round trip and, when
// enabled, the polish pass. Only a feature extraction failure aborts the
// run; every other failure is recorded in the manifest against its artifact.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	r := &Result{RunID: uuid.NewString(), Name: in.Name, Source: in.Source}

	p.log.Info(ctx, "Step 1/4: Extracting features from %s...", in.Name)
	features, err := p.extractor.Process(ctx, in.Transcript)
	if err != nil {
		p.log.Error(ctx, "Feature extraction failed for %s: %v", in.Name, err)
		return nil, err
	}
	r.Features = features

	p.log.Info(ctx, "Step 2/4: Generating artifacts...")
	r.Artifacts = p.generate(ctx, features, &r.Manifest)
	r.GeneratedReport = report.Render(report.FromArtifacts(r.Artifacts))

	p.log.Info(ctx, "Step 3/4: Parsing generated report...")
	doc, skip := p.roundTrip(ctx, r.GeneratedReport, &r.Manifest)

	if p.polisher != nil {
		p.log.Info(ctx, "Step 4/4: Polishing...")
		r.PolishedReport = p.polish(ctx, doc, skip, &r.Manifest)
	} else {
		p.log.Info(ctx, "Step 4/4: Polish disabled, skipping")
	}

	if err := p.save(r); err != nil {
		return r, err
	}
	return r, nil
}

// Polish runs only the rewrite pass over an existing generated report. When
// runID names a stored run, its polished report is replaced.
func (p *Pipeline) Polish(ctx context.Context, runID, markdown string) (*Result, error) {
	if p.polisher == nil {
		return nil, errors.New("polish is disabled")
	}
	r := &Result{RunID: runID, GeneratedReport: markdown}

	doc, skip := p.roundTrip(ctx, markdown, &r.Manifest)
	r.PolishedReport = p.polish(ctx, doc, skip, &r.Manifest)

	if p.db != nil && runID != "" {
		polished := r.Manifest.Stage(StagePolish)
		if err := p.db.SetPolished(runID, r.PolishedReport, polished.records(runID)); err != nil {
			return r, fmt.Errorf("saving polished report: %w", err)
		}
	}
	return r, nil
}

// generate runs each generator in turn. A failed generator leaves its
// artifact nil and is recorded; the others still run.
func (p *Pipeline) generate(ctx context.Context, f *nlp.ProcessedTranscript, m *Manifest) *content.Artifacts {
	a := &content.Artifacts{}
	g := p.generator

	check := func(kind content.Kind, err error) bool {
		if err != nil {
			p.log.Error(ctx, "Generating %s failed: %v", kind, err)
			m.record(kind, StageGenerate, StatusFailed, err)
			return false
		}
		m.record(kind, StageGenerate, StatusOK, nil)
		return true
	}

	if blog, err := g.BlogPost(f); err != nil {
		check(content.KindBlog, err)
	} else {
		a.Blog = blog
		p.recordShortfall(ctx, content.KindBlog, blog.Err(), m)
	}
	if faq, err := g.FAQ(f); check(content.KindFAQ, err) {
		a.FAQ = faq
	}
	if excerpt, err := g.Excerpt(f); check(content.KindExcerpt, err) {
		a.Excerpt = excerpt
	}

	if summary, err := g.Summary(f); err != nil {
		check(content.KindSummary, err)
	} else {
		a.Summary = summary
		p.recordShortfall(ctx, content.KindSummary, summary.Err(), m)
	}

	var hints content.SEOHints
	if a.Blog != nil {
		hints.BlogTitle = a.Blog.Title
	}
	if a.Excerpt != nil {
		hints.Excerpt = a.Excerpt.Excerpt
	}
	if seo, err := g.SEOMetadata(f, hints); check(content.KindSEO, err) {
		a.SEO = seo
	}
	return a
}

// recordShortfall records a produced artifact as ok, or as warn when it
// falls short of its contract.
func (p *Pipeline) recordShortfall(ctx context.Context, kind content.Kind, short error, m *Manifest) {
	if short != nil {
		p.log.Warn(ctx, "Generating %s: %v", kind, short)
		m.record(kind, StageGenerate, StatusWarn, short)
		return
	}
	m.record(kind, StageGenerate, StatusOK, nil)
}

// roundTrip parses a rendered report. Sections that fail to parse are
// returned in the skip set so the polish pass leaves them out.
func (p *Pipeline) roundTrip(ctx context.Context, markdown string, m *Manifest) (*report.Document, map[content.Kind]bool) {
	doc, err := report.Parse(markdown)
	skip := make(map[content.Kind]bool)
	for _, pe := range report.ParseErrors(err) {
		p.log.Error(ctx, "Parsing %s failed: %v", pe.Section, pe)
		skip[pe.Section] = true
		m.record(pe.Section, StageParse, StatusFailed, pe)
	}
	for _, kind := range content.Kinds {
		if !skip[kind] && doc.Has(kind) {
			m.record(kind, StageParse, StatusOK, nil)
		}
	}
	return doc, skip
}

func (p *Pipeline) polish(ctx context.Context, doc *report.Document, skip map[content.Kind]bool, m *Manifest) string {
	out := p.polisher.Polish(ctx, doc, skip)
	for _, kind := range content.Kinds {
		err, failed := out.Failures[kind]
		warn, warned := out.Warnings[kind]
		switch {
		case failed:
			m.record(kind, StagePolish, StatusFailed, err)
		case warned:
			m.record(kind, StagePolish, StatusWarn, warn)
		case out.Doc.Has(kind):
			m.record(kind, StagePolish, StatusOK, nil)
		default:
			m.record(kind, StagePolish, StatusSkipped, nil)
		}
	}
	if n := len(out.Failures); n > 0 {
		p.log.Warn(ctx, "Polish finished with %d failed artifact(s)", n)
	}
	return out.Render()
}

func (p *Pipeline) save(r *Result) error {
	if p.db == nil {
		return nil
	}
	run := &database.Run{
		ID:                r.RunID,
		Name:              r.Name,
		GeneratedMarkdown: r.GeneratedReport,
	}
	if r.Source != "" {
		run.Source = &r.Source
	}
	if r.PolishedReport != "" {
		run.PolishedMarkdown = &r.PolishedReport
	}
	if data, err := json.Marshal(NewAnalysis(r)); err == nil {
		s := string(data)
		run.AnalysisJSON = &s
	}
	if err := p.db.InsertRun(run, r.Manifest.records(r.RunID)); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}
