// Package report reads and writes the markdown document that carries
// generated artifacts to the polish pass and back.
package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/content"
)

const (
	GeneratedTitle = "Generated Content Report"
	PolishedTitle  = "Polished Content Report"
)

// Section headers of the document grammar.
const (
	headerBlog    = "Blog Post"
	headerFAQ     = "FAQ"
	headerExcerpt = "Excerpt"
	headerSummary = "Summary"
	headerSEO     = "SEO Metadata"
	subTitle      = "Title"
	subContent    = "Content"
	subMetaTitle  = "Meta Title"
	subMetaDesc   = "Meta Description"
	subSchema     = "Schema Markup"
	answerDelim   = "A:"
)

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Document is the logical content of a report. Empty fields are sections
// that are absent.
type Document struct {
	Title           string
	BlogTitle       string
	BlogContent     string
	FAQ             []FAQEntry
	Excerpt         string
	Summary         string
	MetaTitle       string
	MetaDescription string
	// SchemaMarkup is written but never read back.
	SchemaMarkup string
}

// Has reports whether the document carries the given artifact.
func (d *Document) Has(kind content.Kind) bool {
	switch kind {
	case content.KindBlog:
		return d.BlogTitle != "" || d.BlogContent != ""
	case content.KindFAQ:
		return len(d.FAQ) > 0
	case content.KindExcerpt:
		return d.Excerpt != ""
	case content.KindSummary:
		return d.Summary != ""
	case content.KindSEO:
		return d.MetaTitle != "" || d.MetaDescription != ""
	}
	return false
}

// FromArtifacts builds the generated report document. Artifacts that were
// not produced are left out.
func FromArtifacts(a *content.Artifacts) *Document {
	doc := &Document{Title: GeneratedTitle}
	if a.Blog != nil {
		doc.BlogTitle = a.Blog.Title
		doc.BlogContent = a.Blog.Content
	}
	if a.FAQ != nil {
		for _, item := range a.FAQ.Items {
			doc.FAQ = append(doc.FAQ, FAQEntry{Question: item.Question, Answer: item.Answer})
		}
	}
	if a.Excerpt != nil {
		doc.Excerpt = a.Excerpt.Excerpt
	}
	if a.Summary != nil {
		doc.Summary = a.Summary.Summary
	}
	if a.SEO != nil {
		doc.MetaTitle = a.SEO.MetaTitle
		doc.MetaDescription = a.SEO.MetaDescription
		if data, err := json.MarshalIndent(a.SEO.SchemaMarkup, "", "  "); err == nil {
			doc.SchemaMarkup = string(data)
		}
	}
	return doc
}

var headingLineRe = regexp.MustCompile(`(?m)^#{1,3} `)

// demote pushes markdown headings inside free text below the levels the
// grammar reserves for itself.
func demote(text string) string {
	return headingLineRe.ReplaceAllStringFunc(text, func(h string) string {
		return "####" + h[strings.LastIndex(h, "#")+1:]
	})
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Render writes the document in the report grammar.
func Render(doc *Document) string {
	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = GeneratedTitle
	}
	fmt.Fprintf(&b, "# %s\n", title)

	if doc.Has(content.KindBlog) {
		fmt.Fprintf(&b, "\n## %s\n### %s\n%s\n### %s\n%s\n",
			headerBlog, subTitle, oneLine(doc.BlogTitle), subContent, demote(strings.TrimSpace(doc.BlogContent)))
	}

	if doc.Has(content.KindFAQ) {
		fmt.Fprintf(&b, "\n## %s\n", headerFAQ)
		for i, e := range doc.FAQ {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "### %s\n%s %s\n", oneLine(e.Question), answerDelim, oneLine(e.Answer))
		}
	}

	if doc.Has(content.KindExcerpt) {
		fmt.Fprintf(&b, "\n## %s\n%s\n", headerExcerpt, demote(strings.TrimSpace(doc.Excerpt)))
	}

	if doc.Has(content.KindSummary) {
		fmt.Fprintf(&b, "\n## %s\n%s\n", headerSummary, demote(strings.TrimSpace(doc.Summary)))
	}

	if doc.Has(content.KindSEO) {
		fmt.Fprintf(&b, "\n## %s\n", headerSEO)
		if doc.MetaTitle != "" {
			fmt.Fprintf(&b, "### %s\n%s\n", subMetaTitle, oneLine(doc.MetaTitle))
		}
		if doc.MetaDescription != "" {
			fmt.Fprintf(&b, "### %s\n%s\n", subMetaDesc, oneLine(doc.MetaDescription))
		}
		if doc.SchemaMarkup != "" {
			fmt.Fprintf(&b, "### %s\n```json\n%s\n```\n", subSchema, doc.SchemaMarkup)
		}
	}
	return b.String()
}
