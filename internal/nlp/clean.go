package nlp

import (
	"regexp"
	"strings"
)

var (
	timestampRe    = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\]`)
	speakerLabelRe = regexp.MustCompile(`\*+\s*\w+:\s*`)
	speakerTailRe  = regexp.MustCompile(`\s*:\s*\*+\s*`)
	fillerRe       = regexp.MustCompile(`(?i)\b(um|uh|like|you know|sort of|kind of|basically)\b`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Clean strips bracketed timestamps, speaker markers such as "**Jess:" and
// filler words, then collapses whitespace.
func Clean(text string) string {
	text = timestampRe.ReplaceAllString(text, "")
	text = speakerLabelRe.ReplaceAllString(text, "")
	text = speakerTailRe.ReplaceAllString(text, " ")
	text = fillerRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
