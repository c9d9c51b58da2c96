package nlp

import (
	"context"

	"github.com/TobiSchelling/ContentForge/internal/logger"
)

// Extractor turns a raw transcript into a ProcessedTranscript.
type Extractor struct {
	annotator Annotator
	lexicon   Lexicon
	log       logger.Logger
}

// NewExtractor creates an Extractor backed by the given annotation engine.
func NewExtractor(annotator Annotator, lex Lexicon, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{annotator: annotator, lexicon: lex, log: log}
}

// Process cleans the transcript, annotates it once and derives every feature.
// Any failure yields a *FeatureExtractionError and no feature set.
func (e *Extractor) Process(ctx context.Context, transcript string) (*ProcessedTranscript, error) {
	cleaned := Clean(transcript)
	if cleaned == "" {
		return nil, &FeatureExtractionError{Reason: "transcript is empty after cleaning"}
	}

	ann, err := e.annotator.Annotate(ctx, cleaned)
	if err != nil {
		return nil, &FeatureExtractionError{Reason: "annotation engine unavailable", Err: err}
	}
	if ann == nil || len(ann.Tokens) == 0 {
		return nil, &FeatureExtractionError{Reason: "annotation engine returned no tokens"}
	}
	e.log.Debug(ctx, "annotated %d tokens, %d sentences, %d entities",
		len(ann.Tokens), len(ann.Sentences), len(ann.Entities))

	src := newSourceText(cleaned)
	features := &ProcessedTranscript{
		CleanedText:    cleaned,
		Entities:       extractEntities(src, ann, e.lexicon),
		KeyPhrases:     extractKeyPhrases(src, ann, e.lexicon),
		Topics:         rankTopics(ann.Tokens, e.lexicon),
		SentimentScore: meanSentiment(ann.Tokens),
		Questions:      extractQuestions(src, ann),
		Keywords:       rankKeywords(ann.Tokens),
	}
	e.log.Info(ctx, "extracted %d keywords, %d topics, %d key phrases, %d questions",
		len(features.Keywords), len(features.Topics), len(features.KeyPhrases), len(features.Questions))
	return features, nil
}
