package content

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

type FAQItem struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}

type FAQContent struct {
	Items        []FAQItem     `json:"items"`
	SchemaMarkup FAQPageSchema `json:"schema_markup"`
}

var faqStopWords = map[string]bool{
	"what": true, "how": true, "why": true, "when": true, "where": true, "who": true,
	"the": true, "and": true, "are": true, "does": true, "did": true, "is": true,
	"of": true, "for": true, "they": true, "it": true, "its": true, "matter": true,
	"work": true, "important": true, "importance": true, "about": true, "with": true,
}

// FAQ combines explicit transcript questions with questions synthesized from
// topics and entities, then tops the list up to the configured minimum.
func (g *Generator) FAQ(f *nlp.ProcessedTranscript) (*FAQContent, error) {
	if err := requireSignal(KindFAQ, f); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var items []FAQItem
	add := func(item FAQItem) {
		key := strings.ToLower(item.Question)
		if seen[key] {
			return
		}
		seen[key] = true
		items = append(items, item)
	}

	questions := append(append([]string{}, f.Questions...), implicitQuestions(f)...)
	for _, q := range questions {
		q = cleanQuestion(q)
		if q == "" {
			continue
		}
		kws := keywordsIn(f.Keywords, q)
		add(FAQItem{Question: q, Answer: g.answer(q, f, kws), Keywords: kws})
	}

	for _, subject := range fillSubjects(f) {
		if len(items) >= g.opts.FAQMinQuestions {
			break
		}
		add(g.fillItem(subject, f))
	}
	if len(items) < g.opts.FAQMinQuestions {
		return nil, &ArtifactGenerationError{
			Artifact: KindFAQ,
			Reason:   fmt.Sprintf("only %d of %d required questions could be built", len(items), g.opts.FAQMinQuestions),
		}
	}

	return &FAQContent{Items: items, SchemaMarkup: faqPageSchema(items)}, nil
}

func implicitQuestions(f *nlp.ProcessedTranscript) []string {
	var questions []string
	for _, topic := range head(f.Topics, 3) {
		questions = append(questions,
			fmt.Sprintf("What is the importance of %s?", topic),
			fmt.Sprintf("How does %s work?", topic))
	}

	n := len(f.Entities)
	if n > 3 {
		n = 3
	}
	for _, e := range f.Entities[:n] {
		switch e.Label {
		case "PERSON", "ORG", "PRODUCT":
			questions = append(questions, fmt.Sprintf("Who is %s and why are they important?", e.Text))
		case "CONCEPT", "WORK_OF_ART":
			questions = append(questions, fmt.Sprintf("What is %s and why does it matter?", e.Text))
		}
	}
	return questions
}

// cleanQuestion makes q a single capitalized line ending in "?".
func cleanQuestion(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if q == "" {
		return ""
	}
	if !strings.HasSuffix(q, "?") {
		q += "?"
	}
	return capitalize(q)
}

func questionWords(q string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(q)) {
		w = strings.Trim(w, "?.,!;:'\"()")
		if len(w) > 2 && !faqStopWords[w] {
			words[w] = true
		}
	}
	return words
}

// answer opens with the first key phrase sharing a content word with the
// question and closes with a keyword reference.
func (g *Generator) answer(q string, f *nlp.ProcessedTranscript, kws []string) string {
	words := questionWords(q)
	var b strings.Builder
	for _, p := range f.KeyPhrases {
		if sharesWord(p, words) {
			b.WriteString(capitalize(p) + ". ")
			break
		}
	}
	if len(kws) > 0 {
		fmt.Fprintf(&b, "This relates to %s in the broader context.", kws[0])
	}

	ans := truncate(b.String(), g.opts.FAQMaxAnswer)
	if ans == "" {
		ans = truncate(fmt.Sprintf("This question touches on %s, a central theme of the episode.", subject(f)), g.opts.FAQMaxAnswer)
	}
	return ans
}

func sharesWord(phrase string, words map[string]bool) bool {
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if words[w] {
			return true
		}
	}
	return false
}

// fillSubjects lists topics, then key phrases, then keywords as material for
// synthesized questions.
func fillSubjects(f *nlp.ProcessedTranscript) []string {
	subjects := append([]string{}, f.Topics...)
	subjects = append(subjects, f.KeyPhrases...)
	return append(subjects, f.KeywordTerms()...)
}

func (g *Generator) fillItem(subject string, f *nlp.ProcessedTranscript) FAQItem {
	var related []string
	for _, p := range f.KeyPhrases {
		if !strings.EqualFold(p, subject) {
			related = append(related, p)
		}
		if len(related) == 2 {
			break
		}
	}

	answer := fmt.Sprintf("%s is a crucial element discussed in this episode.", capitalize(subject))
	if len(related) > 0 {
		answer = fmt.Sprintf("%s is a crucial element that involves %s.", capitalize(subject), strings.Join(related, ", "))
	}

	var kws []string
	for _, k := range f.Keywords {
		if containsFold(subject, k.Term) {
			kws = append(kws, k.Term)
		}
	}
	return FAQItem{
		Question: fmt.Sprintf("What are the key aspects of %s?", subject),
		Answer:   truncate(answer, g.opts.FAQMaxAnswer),
		Keywords: kws,
	}
}
