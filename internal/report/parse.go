package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/content"
)

// ParseError identifies a section of a report that does not match the
// grammar.
type ParseError struct {
	Section content.Kind
	Line    int
	Block   string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("line %d: %s section: block %q: %s", e.Line, e.Section, e.Block, e.Reason)
	}
	return fmt.Sprintf("line %d: %s section: %s", e.Line, e.Section, e.Reason)
}

// ParseErrors extracts every *ParseError from an error returned by Parse.
func ParseErrors(err error) []*ParseError {
	if err == nil {
		return nil
	}
	var out []*ParseError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, ParseErrors(e)...)
		}
		return out
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		out = append(out, pe)
	}
	return out
}

type state int

const (
	stateNone state = iota
	stateBlogTitle
	stateBlogContent
	stateFAQ
	stateExcerpt
	stateSummary
	stateMeta
)

type metaField int

const (
	metaSkip metaField = iota
	metaTitle
	metaDescription
)

// faqBlock is a question header and the lines collected under it.
type faqBlock struct {
	question string
	line     int
	body     []string
}

type parser struct {
	doc   *Document
	state state
	errs  []*ParseError

	blogTitle   []string
	blogContent []string
	blogLine    int
	excerpt     []string
	summary     []string

	faqBlocks []faqBlock
	faqBroken bool

	meta       metaField
	metaLine   int
	metaSeen   bool
	metaFilled bool
}

// Parse recovers a Document from a report. Sections that do not match the
// grammar are left empty and reported as *ParseError values joined into
// the returned error; every other section is still populated.
func Parse(text string) (*Document, error) {
	p := &parser{doc: &Document{}}
	for i, line := range strings.Split(text, "\n") {
		p.line(i+1, strings.TrimRight(line, " \t\r"))
	}
	p.finish()

	if len(p.errs) == 0 {
		return p.doc, nil
	}
	errs := make([]error, len(p.errs))
	for i, e := range p.errs {
		errs[i] = e
	}
	return p.doc, errors.Join(errs...)
}

func (p *parser) line(n int, line string) {
	switch {
	case strings.HasPrefix(line, "# "):
		p.doc.Title = strings.TrimSpace(line[2:])
		p.state = stateNone
		return
	case strings.HasPrefix(line, "## "):
		p.section(n, strings.TrimSpace(line[3:]))
		return
	case strings.HasPrefix(line, "### "):
		if p.subheader(n, strings.TrimSpace(line[4:])) {
			return
		}
	}

	switch p.state {
	case stateBlogTitle:
		if line != "" {
			p.blogTitle = append(p.blogTitle, strings.TrimSpace(line))
		}
	case stateBlogContent:
		p.blogContent = append(p.blogContent, line)
	case stateFAQ:
		if len(p.faqBlocks) > 0 {
			last := &p.faqBlocks[len(p.faqBlocks)-1]
			last.body = append(last.body, line)
		}
	case stateExcerpt:
		p.excerpt = append(p.excerpt, line)
	case stateSummary:
		p.summary = append(p.summary, line)
	case stateMeta:
		if line == "" || p.meta == metaSkip {
			return
		}
		switch p.meta {
		case metaTitle:
			p.doc.MetaTitle = strings.TrimSpace(line)
		case metaDescription:
			p.doc.MetaDescription = strings.TrimSpace(line)
		}
		p.metaFilled = true
		p.meta = metaSkip
	}
}

func (p *parser) section(n int, name string) {
	p.meta = metaSkip
	switch name {
	case headerBlog:
		p.state = stateBlogTitle
		p.blogLine = n
	case headerFAQ:
		p.state = stateFAQ
	case headerExcerpt:
		p.state = stateExcerpt
	case headerSummary:
		p.state = stateSummary
	case headerSEO:
		p.state = stateMeta
		p.metaSeen = true
		p.metaLine = n
	default:
		p.state = stateNone
	}
}

// subheader handles a "### " line and reports whether it was consumed as a
// header. Blog content keeps unrecognized subheaders as text.
func (p *parser) subheader(n int, name string) bool {
	switch p.state {
	case stateBlogTitle, stateBlogContent:
		switch name {
		case subTitle:
			p.state = stateBlogTitle
			return true
		case subContent:
			p.state = stateBlogContent
			return true
		}
		return p.state == stateBlogTitle
	case stateFAQ:
		p.faqBlocks = append(p.faqBlocks, faqBlock{question: name, line: n})
		return true
	case stateMeta:
		switch name {
		case subMetaTitle:
			p.meta = metaTitle
		case subMetaDesc:
			p.meta = metaDescription
		default:
			p.meta = metaSkip
		}
		return true
	case stateNone:
		return true
	}
	// excerpt and summary carry no subheaders; anything else is discarded
	p.state = stateNone
	return true
}

func (p *parser) fail(section content.Kind, line int, block, reason string) {
	p.errs = append(p.errs, &ParseError{Section: section, Line: line, Block: block, Reason: reason})
}

func (p *parser) finish() {
	p.doc.BlogTitle = strings.Join(p.blogTitle, " ")
	p.doc.BlogContent = strings.TrimSpace(strings.Join(p.blogContent, "\n"))
	if p.blogLine > 0 && (p.doc.BlogTitle == "" || p.doc.BlogContent == "") {
		p.fail(content.KindBlog, p.blogLine, "", "blog post needs both a title and content")
		p.doc.BlogTitle, p.doc.BlogContent = "", ""
	}

	for _, b := range p.faqBlocks {
		entry, err := parseFAQBlock(b)
		if err != nil {
			p.errs = append(p.errs, err)
			p.faqBroken = true
			continue
		}
		p.doc.FAQ = append(p.doc.FAQ, entry)
	}
	if p.faqBroken {
		p.doc.FAQ = nil
	}

	p.doc.Excerpt = strings.TrimSpace(strings.Join(p.excerpt, "\n"))
	p.doc.Summary = strings.TrimSpace(strings.Join(p.summary, "\n"))

	if p.metaSeen && !p.metaFilled {
		p.fail(content.KindSEO, p.metaLine, "", "no meta title or description found")
	}
}

// parseFAQBlock requires the first non-empty line under a question to start
// with the answer delimiter. Following non-empty lines continue the answer.
func parseFAQBlock(b faqBlock) (FAQEntry, *ParseError) {
	malformed := func(reason string) *ParseError {
		return &ParseError{Section: content.KindFAQ, Line: b.line, Block: b.question, Reason: reason}
	}

	var answer []string
	for _, line := range b.body {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(answer) == 0 {
			if !strings.HasPrefix(line, answerDelim) {
				return FAQEntry{}, malformed(fmt.Sprintf("answer does not start with %q", answerDelim))
			}
			line = strings.TrimSpace(strings.TrimPrefix(line, answerDelim))
			if line == "" {
				return FAQEntry{}, malformed("empty answer")
			}
		}
		answer = append(answer, line)
	}
	if len(answer) == 0 {
		return FAQEntry{}, malformed("missing answer")
	}
	return FAQEntry{Question: b.question, Answer: strings.Join(answer, " ")}, nil
}
