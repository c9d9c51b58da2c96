package nlp

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const maxTopics = 10

var posBonus = map[string]float64{
	"PROPN": 1.2,
	"NOUN":  1.0,
	"ADJ":   0.8,
	"VERB":  0.6,
}

var scoredDeps = toSet("nsubj", "dobj", "pobj")

func isStop(t Token) bool {
	return t.IsStop || stopWords[strings.ToLower(t.Text)]
}

func isNominal(pos string) bool {
	return pos == "NOUN" || pos == "PROPN"
}

// rankKeywords scores candidate tokens by
// freq/maxFreq * posBonus * entityBonus * dependencyBonus and keeps the best
// score seen for each surface form. Ties keep encounter order.
func rankKeywords(tokens []Token) []Keyword {
	freq := make(map[string]int)
	for _, t := range tokens {
		if isStop(t) || t.IsPunct || utf8.RuneCountInString(t.Text) <= 2 {
			continue
		}
		switch t.POS {
		case "NOUN", "PROPN", "ADJ", "VERB":
			freq[strings.ToLower(t.Text)]++
		}
	}
	if len(freq) == 0 {
		return nil
	}

	maxFreq := 0
	for _, n := range freq {
		if n > maxFreq {
			maxFreq = n
		}
	}

	best := make(map[string]float64)
	var order []string
	for _, t := range tokens {
		n, ok := freq[strings.ToLower(t.Text)]
		if !ok {
			continue
		}
		score := float64(n) / float64(maxFreq)
		if b, ok := posBonus[t.POS]; ok {
			score *= b
		} else {
			score *= 0.5
		}
		if t.EntType != "" {
			score *= 1.2
		}
		if scoredDeps[t.Dep] {
			score *= 1.2
		}

		prev, seen := best[t.Text]
		if !seen {
			order = append(order, t.Text)
		}
		if !seen || score > prev {
			best[t.Text] = score
		}
	}

	keywords := make([]Keyword, len(order))
	for i, term := range order {
		keywords[i] = Keyword{Term: term, Score: best[term]}
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Score > keywords[j].Score
	})
	return keywords
}

// rankTopics counts nominal, non-generic tokens, using canonical forms for
// lexicon terms, and returns the most frequent ones.
func rankTopics(tokens []Token, lex Lexicon) []string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tokens {
		if !isNominal(t.POS) || isStop(t) || genericTerms[strings.ToLower(t.Text)] {
			continue
		}
		topic := t.Text
		if expanded, ok := lex.Expand(t.Text); ok {
			topic = expanded
		}
		if _, seen := counts[topic]; !seen {
			order = append(order, topic)
		}
		counts[topic]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxTopics {
		order = order[:maxTopics]
	}
	return order
}
