package nlp

import "strings"

const financialTermLabel = "FINANCIAL_TERM"

// extractEntities collects entity spans, expanding lexicon terms. PERSON and
// ORG entities mentioned less often than the mean entity frequency are
// dropped. Each normalized surface form appears once.
func extractEntities(src sourceText, ann *Annotation, lex Lexicon) []Entity {
	type mention struct {
		text, label string
	}
	freqKey := func(surface string) string {
		if expanded, ok := lex.Expand(surface); ok {
			return expanded
		}
		return strings.ToLower(surface)
	}

	mentions := make([]mention, 0, len(ann.Entities))
	freq := make(map[string]int)
	for _, e := range ann.Entities {
		surface := src.span(ann.Tokens, e.Span)
		if surface == "" {
			continue
		}
		mentions = append(mentions, mention{surface, e.Label})
		freq[freqKey(surface)]++
	}
	if len(mentions) == 0 {
		return nil
	}

	total := 0
	for _, n := range freq {
		total += n
	}
	mean := float64(total) / float64(len(freq))

	seen := make(map[string]bool)
	var entities []Entity
	for _, m := range mentions {
		if (m.label == "PERSON" || m.label == "ORG") && float64(freq[freqKey(m.text)]) < mean {
			continue
		}
		ent := Entity{Text: m.text, Label: m.label}
		if expanded, ok := lex.Expand(m.text); ok {
			ent = Entity{Text: expanded, Label: financialTermLabel}
		}
		key := strings.ToLower(ent.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		entities = append(entities, ent)
	}
	return entities
}

// extractKeyPhrases combines dictionary phrases present in the text with noun
// chunks headed by a noun or proper noun.
func extractKeyPhrases(src sourceText, ann *Annotation, lex Lexicon) []string {
	seen := make(map[string]bool)
	var phrases []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		phrases = append(phrases, p)
	}

	lower := strings.ToLower(src.text)
	for _, p := range lex.Phrases {
		if strings.Contains(lower, p) {
			add(p)
		}
	}

	for _, c := range ann.NounChunks {
		if !isNominal(c.RootPOS) {
			continue
		}
		chunk := src.span(ann.Tokens, c.Span)
		if expanded, ok := lex.Expand(chunk); ok {
			chunk = expanded
		}
		add(chunk)
	}
	return phrases
}

// extractQuestions returns sentences ending in "?" or opening with an
// interrogative word.
func extractQuestions(src sourceText, ann *Annotation) []string {
	var questions []string
	for _, s := range ann.Sentences {
		sent := strings.TrimSpace(src.span(ann.Tokens, s))
		if sent == "" {
			continue
		}
		if strings.HasSuffix(sent, "?") || interrogatives[strings.ToLower(ann.Tokens[s.Start].Text)] {
			questions = append(questions, sent)
		}
	}
	return questions
}

func meanSentiment(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var sum float64
	for _, t := range tokens {
		sum += t.Sentiment
	}
	return sum / float64(len(tokens))
}
