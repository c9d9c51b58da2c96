package content

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

// Length returns the length of s in characters.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate cuts s to at most n characters and trims surrounding space.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return strings.TrimSpace(s)
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func endsTerminal(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

// keywordsIn returns the ranked keywords that occur in any of texts,
// case-insensitively, in rank order.
func keywordsIn(keywords []nlp.Keyword, texts ...string) []string {
	joined := strings.ToLower(strings.Join(texts, "\n"))
	var used []string
	for _, k := range keywords {
		if strings.Contains(joined, strings.ToLower(k.Term)) {
			used = append(used, k.Term)
		}
	}
	return used
}

// phrasesContaining returns the key phrases that contain topic.
func phrasesContaining(phrases []string, topic string) []string {
	var out []string
	for _, p := range phrases {
		if containsFold(p, topic) {
			out = append(out, p)
		}
	}
	return out
}

func topKeywords(keywords []nlp.Keyword, n int) []string {
	if len(keywords) < n {
		n = len(keywords)
	}
	terms := make([]string, n)
	for i := 0; i < n; i++ {
		terms[i] = keywords[i].Term
	}
	return terms
}

func head(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
