package content

import (
	"math"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

type ExcerptResult struct {
	Excerpt        string   `json:"excerpt"`
	KeywordsUsed   []string `json:"keywords_used"`
	SentimentScore float64  `json:"sentiment_score"`
}

var hookVerbs = []string{"Discover", "Explore", "Master", "Learn about", "Understand"}

// Excerpt builds a short teaser: a sentiment-selected hook around the main
// keyword, followed by topic fragments that fit in the remaining budget.
// The result never exceeds ExcerptLength characters and always ends in
// terminal punctuation.
func (g *Generator) Excerpt(f *nlp.ProcessedTranscript) (*ExcerptResult, error) {
	if err := requireSignal(KindExcerpt, f); err != nil {
		return nil, err
	}
	limit := g.opts.ExcerptLength

	excerpt := HookFor(f.SentimentScore, subject(f))
	fragments := topicFragments(f, 2)
	if len(fragments) > 0 {
		if first := ": " + fragments[0]; Length(excerpt)+Length(first) <= limit {
			excerpt += first
			if len(fragments) > 1 {
				if second := " & " + fragments[1]; Length(excerpt)+Length(second) <= limit {
					excerpt += second
				}
			}
		}
	}

	if !endsTerminal(excerpt) {
		excerpt += "."
	}
	if Length(excerpt) > limit {
		excerpt = strings.TrimRight(truncate(excerpt, limit-1), " ,;:&-") + "."
	}

	return &ExcerptResult{
		Excerpt:        excerpt,
		KeywordsUsed:   keywordsIn(f.Keywords, excerpt),
		SentimentScore: f.SentimentScore,
	}, nil
}

// HookFor maps sentiment onto the hook list with
// index = min(floor(|sentiment| * 5), 4).
func HookFor(sentiment float64, keyword string) string {
	idx := int(math.Floor(math.Abs(sentiment * float64(len(hookVerbs)))))
	if idx > len(hookVerbs)-1 || idx < 0 {
		idx = len(hookVerbs) - 1
	}
	return hookVerbs[idx] + " " + keyword
}

// topicFragments picks, for each leading topic, the first key phrase that
// contains it, or the topic itself.
func topicFragments(f *nlp.ProcessedTranscript, n int) []string {
	var out []string
	for _, topic := range head(f.Topics, n) {
		if phrases := phrasesContaining(f.KeyPhrases, topic); len(phrases) > 0 {
			out = append(out, phrases[0])
		} else {
			out = append(out, topic)
		}
	}
	return out
}
