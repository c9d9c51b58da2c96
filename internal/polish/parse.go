package polish

import (
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/content"
	"github.com/TobiSchelling/ContentForge/internal/llm"
	"github.com/TobiSchelling/ContentForge/internal/report"
)

func replyError(kind content.Kind, block, reason string) *report.ParseError {
	return &report.ParseError{Section: kind, Block: block, Reason: "LLM reply: " + reason}
}

func normalize(reply string) []string {
	reply = strings.ReplaceAll(llm.StripCodeFence(reply), "\r\n", "\n")
	return strings.Split(reply, "\n")
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// stripLabel removes a leading "Label:" marker, tolerating markdown bold.
func stripLabel(line, label string) (string, bool) {
	line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	return strings.TrimSpace(line[len(label):]), true
}

// parseBlogReply expects a "Title:" line followed by the body.
func parseBlogReply(reply string) (string, string, error) {
	lines := normalize(reply)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		title, ok := stripLabel(line, "Title:")
		if !ok || title == "" {
			return "", "", replyError(content.KindBlog, "", `first line is not "Title: ..."`)
		}
		body := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		if body == "" {
			return "", "", replyError(content.KindBlog, title, "blog body is empty")
		}
		return unquote(title), body, nil
	}
	return "", "", replyError(content.KindBlog, "", "empty reply")
}

// parseFAQReply reads "Q:"/"A:" pairs. Every question must have an answer
// introduced by "A:"; a pair without one fails the whole FAQ.
func parseFAQReply(reply string) ([]report.FAQEntry, error) {
	type pair struct {
		q, a      []string
		inAnswer  bool
		hasAnswer bool
	}
	var pairs []*pair
	var cur *pair

	for _, raw := range normalize(reply) {
		line := strings.TrimSpace(raw)
		if q, ok := stripLabel(line, "Q:"); ok {
			cur = &pair{q: []string{q}}
			pairs = append(pairs, cur)
			continue
		}
		if a, ok := stripLabel(line, "A:"); ok && cur != nil {
			cur.inAnswer, cur.hasAnswer = true, true
			cur.a = append(cur.a, a)
			continue
		}
		if line == "" || cur == nil {
			continue
		}
		if cur.inAnswer {
			cur.a = append(cur.a, line)
		} else {
			cur.q = append(cur.q, line)
		}
	}

	if len(pairs) == 0 {
		return nil, replyError(content.KindFAQ, "", `no "Q:" lines found`)
	}
	entries := make([]report.FAQEntry, 0, len(pairs))
	for _, p := range pairs {
		question := strings.Join(p.q, " ")
		answer := strings.TrimSpace(strings.Join(p.a, " "))
		if !p.hasAnswer || answer == "" {
			return nil, replyError(content.KindFAQ, question, `answer not introduced by "A:"`)
		}
		if !strings.HasSuffix(question, "?") {
			question += "?"
		}
		entries = append(entries, report.FAQEntry{Question: question, Answer: answer})
	}
	return entries, nil
}

// parseMetaReply accepts a JSON object or "Title:"/"Description:" lines.
func parseMetaReply(reply string) (string, string, error) {
	var meta struct {
		Title       string `json:"meta_title"`
		Description string `json:"meta_description"`
	}
	if err := llm.DecodeJSONResponse(reply, &meta); err == nil && (meta.Title != "" || meta.Description != "") {
		return strings.TrimSpace(meta.Title), strings.TrimSpace(meta.Description), nil
	}

	var title, desc string
	for _, line := range normalize(reply) {
		if v, ok := stripLabel(line, "Meta Title:"); ok {
			title = v
		} else if v, ok := stripLabel(line, "Title:"); ok {
			title = v
		} else if v, ok := stripLabel(line, "Meta Description:"); ok {
			desc = v
		} else if v, ok := stripLabel(line, "Description:"); ok {
			desc = v
		}
	}
	if title == "" && desc == "" {
		return "", "", replyError(content.KindSEO, "", "no meta title or description found")
	}
	return unquote(title), unquote(desc), nil
}
