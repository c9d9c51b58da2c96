package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

type SummaryResult struct {
	Summary      string   `json:"summary"`
	KeywordsUsed []string `json:"keywords_used"`
	KeyTakeaways []string `json:"key_takeaways"`
	WordCount    int      `json:"word_count"`
	// Shortfall is set when padding could not reach the minimum word count.
	Shortfall bool `json:"shortfall"`
}

// Err reports ErrSummaryShortfall for a short summary.
func (s *SummaryResult) Err() error {
	if s.Shortfall {
		return fmt.Errorf("%w: %d words", ErrSummaryShortfall, s.WordCount)
	}
	return nil
}

var paddingLeads = []string{
	"Additional topics covered include %s.",
	"The discussion also touches on %s.",
	"Other themes explored include %s.",
}

var sentenceEndRe = regexp.MustCompile(`[.!?]+(\s+|$)`)

// Summary assembles an introduction, takeaway body and conclusion, pads
// with further key phrases while under the minimum word count and trims to
// whole sentences while over the maximum.
func (g *Generator) Summary(f *nlp.ProcessedTranscript) (*SummaryResult, error) {
	if err := requireSignal(KindSummary, f); err != nil {
		return nil, err
	}

	takeaways := g.takeaways(f)
	summary := summaryIntro(f) + summaryBody(takeaways) + summaryConclusion(f)

	if wordCount(summary) < g.opts.SummaryMinWords {
		summary = g.pad(summary, f)
	}
	if wordCount(summary) > g.opts.SummaryMaxWords {
		summary = truncateSentences(summary, g.opts.SummaryMaxWords)
	}
	summary = strings.TrimSpace(summary)
	words := wordCount(summary)

	return &SummaryResult{
		Summary:      summary,
		KeywordsUsed: keywordsIn(f.Keywords, summary),
		KeyTakeaways: takeaways,
		WordCount:    words,
		Shortfall:    words < g.opts.SummaryMinWords,
	}, nil
}

func (g *Generator) takeaways(f *nlp.ProcessedTranscript) []string {
	var out []string
	for _, topic := range head(f.Topics, g.opts.MaxTakeaways) {
		if phrases := phrasesContaining(f.KeyPhrases, topic); len(phrases) > 0 {
			out = append(out, fmt.Sprintf("%s: %s", topic, phrases[0]))
			continue
		}
		takeaway := topic + " is a key focus area"
		for _, k := range f.Keywords {
			if containsFold(topic, k.Term) {
				takeaway = fmt.Sprintf("%s involves %s", topic, k.Term)
				break
			}
		}
		out = append(out, takeaway)
	}
	return out
}

func summaryIntro(f *nlp.ProcessedTranscript) string {
	main := subject(f)
	intro := "In this insightful episode about " + main
	if len(f.Entities) > 0 && f.Entities[0].Text != main {
		return intro + ", featuring " + f.Entities[0].Text + ","
	}
	return intro + ","
}

func summaryBody(takeaways []string) string {
	body := " we explore several crucial topics. "
	switch n := len(takeaways); {
	case n == 1:
		body += "Key highlights include " + takeaways[0] + ". "
	case n > 1:
		body += "Key highlights include " + strings.Join(takeaways[:n-1], ", ") + ", and " + takeaways[n-1] + ". "
	}
	return body
}

func summaryConclusion(f *nlp.ProcessedTranscript) string {
	secondary := "these important topics"
	if len(f.Keywords) > 1 {
		secondary = strings.Join(topKeywords(f.Keywords, 3)[1:], ", ")
	}
	return "Listeners will gain valuable insights into " + secondary + " and practical strategies for implementation."
}

// pad appends sentences listing key phrases, then topics, not yet mentioned
// until the minimum is reached or the material runs out.
func (g *Generator) pad(summary string, f *nlp.ProcessedTranscript) string {
	var pool []string
	seen := make(map[string]bool)
	for _, p := range append(append([]string{}, f.KeyPhrases...), f.Topics...) {
		key := strings.ToLower(p)
		if seen[key] || containsFold(summary, p) {
			continue
		}
		seen[key] = true
		pool = append(pool, p)
	}

	for i := 0; len(pool) > 0 && wordCount(summary) < g.opts.SummaryMinWords; i++ {
		batch := head(pool, 3)
		pool = pool[len(batch):]
		summary += " " + fmt.Sprintf(paddingLeads[i%len(paddingLeads)], strings.Join(batch, ", "))
	}
	return summary
}

// truncateSentences keeps leading whole sentences while the running word
// count stays within max.
func truncateSentences(s string, max int) string {
	var b strings.Builder
	count := 0
	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(s, -1) {
		sentence := s[last:loc[1]]
		n := wordCount(sentence)
		if count+n > max {
			break
		}
		b.WriteString(sentence)
		count += n
		last = loc[1]
	}
	if count == 0 {
		// a single overlong sentence: cut it at the word limit
		return strings.Join(strings.Fields(s)[:max], " ") + "."
	}
	return strings.TrimSpace(b.String())
}
