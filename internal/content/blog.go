package content

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

// Section is one titled block of a blog post.
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type BlogPost struct {
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Sections        []Section `json:"sections"`
	KeywordsUsed    []string  `json:"keywords_used"`
	MetaDescription string    `json:"meta_description"`
	// Wanted is the requested section count; fewer sections is a shortfall.
	Wanted int `json:"wanted_sections"`
}

// Err reports ErrSectionShortfall when the post has fewer sections than
// requested.
func (b *BlogPost) Err() error {
	if len(b.Sections) < b.Wanted {
		return fmt.Errorf("%w: %d of %d", ErrSectionShortfall, len(b.Sections), b.Wanted)
	}
	return nil
}

// SectionHeadingPrefix marks section headings inside blog content. The
// report grammar reserves shallower levels for itself.
const SectionHeadingPrefix = "#### "

// BlogPost builds a titled post with an introduction, one section per
// leading topic that has matching key phrases, and a conclusion.
func (g *Generator) BlogPost(f *nlp.ProcessedTranscript) (*BlogPost, error) {
	if err := requireSignal(KindBlog, f); err != nil {
		return nil, err
	}

	title := g.blogTitle(f)
	sections := g.blogSections(f)

	parts := []string{blogIntroduction(f)}
	for _, s := range sections {
		parts = append(parts, SectionHeadingPrefix+s.Heading, s.Content)
	}
	parts = append(parts, SectionHeadingPrefix+"Conclusion", blogConclusion(f))
	body := strings.Join(parts, "\n\n")

	topic := subject(f)
	if len(f.Topics) > 0 {
		topic = f.Topics[0]
	}
	meta := fmt.Sprintf("Master %s and understand how %s impact outcomes. Expert insights and practical strategies included.",
		topic, subject(f))

	return &BlogPost{
		Title:           title,
		Content:         body,
		Sections:        sections,
		KeywordsUsed:    keywordsIn(f.Keywords, title, body),
		MetaDescription: truncate(meta, g.opts.SEODescriptionMax),
		Wanted:          g.opts.BlogSections,
	}, nil
}

func (g *Generator) blogTitle(f *nlp.ProcessedTranscript) string {
	mainKeywords := topKeywords(f.Keywords, 3)

	var mainTopics []string
	for _, topic := range head(f.Topics, 3) {
		covered := false
		for _, kw := range mainKeywords {
			if containsFold(kw, topic) {
				covered = true
				break
			}
		}
		if !covered {
			mainTopics = append(mainTopics, topic)
		}
	}

	var title string
	if len(mainTopics) > 0 && len(mainKeywords) > 0 {
		title = fmt.Sprintf("Mastering %s: Understanding %s", mainKeywords[0], strings.Join(mainTopics, ", "))
	} else {
		title = fmt.Sprintf("Essential Guide to %s: Trends and Strategies", subject(f))
	}
	return truncate(title, g.opts.BlogTitleMax)
}

func blogIntroduction(f *nlp.ProcessedTranscript) string {
	main := subject(f)
	var keyTopics []string
	for _, t := range head(f.Topics, 3) {
		if !strings.EqualFold(t, main) {
			keyTopics = append(keyTopics, t)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Understanding the complexities of %s requires careful consideration of various factors and their interconnections. ", main)
	if len(keyTopics) > 0 {
		fmt.Fprintf(&b, "This comprehensive guide explores how %s work together to shape outcomes and influence decisions. ",
			strings.Join(keyTopics, ", "))
	}
	b.WriteString("We'll break down key concepts, examine current trends, and provide actionable insights for better understanding.")
	return b.String()
}

// blogSections groups key phrases under the leading topics. Topics with no
// matching phrase are skipped.
func (g *Generator) blogSections(f *nlp.ProcessedTranscript) []Section {
	topThree := topKeywords(f.Keywords, 3)
	seen := make(map[string]bool)
	var sections []Section
	for _, topic := range head(f.Topics, g.opts.BlogSections) {
		if seen[topic] {
			continue
		}
		phrases := phrasesContaining(f.KeyPhrases, topic)
		if len(phrases) == 0 {
			continue
		}
		seen[topic] = true

		heading := "The Role of " + topic
		for _, kw := range topThree {
			if containsFold(topic, kw) {
				heading = fmt.Sprintf("Understanding %s Dynamics", topic)
				break
			}
		}
		sections = append(sections, Section{
			Heading: heading,
			Content: sectionContent(topic, phrases, f.Keywords),
		})
	}
	return sections
}

func sectionContent(topic string, phrases []string, keywords []nlp.Keyword) string {
	lines := []string{
		topic + " plays a crucial role in shaping outcomes and strategies.",
		"Here are key aspects to consider:",
	}
	for _, p := range head(phrases, 3) {
		lines = append(lines, "- "+capitalize(p))
	}

	for _, kw := range keywords {
		if containsFold(topic, kw.Term) {
			lines = append(lines, "", fmt.Sprintf(
				"When analyzing %s, it's important to consider how %s influences decision-making and shapes long-term strategies.",
				topic, kw.Term))
			break
		}
	}
	return strings.Join(lines, "\n")
}

func blogConclusion(f *nlp.ProcessedTranscript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Success in understanding and navigating %s requires a holistic approach. ", subject(f))
	if len(f.Keywords) > 1 {
		fmt.Fprintf(&b, "By considering factors like %s, you can develop more effective strategies. ",
			strings.Join(topKeywords(f.Keywords, 3)[1:], ", "))
	}
	b.WriteString("Stay informed about industry trends, maintain a learning mindset, and don't hesitate to seek expert guidance when needed.\n\n")
	b.WriteString("For more insights and detailed analysis, explore our related resources or reach out to industry professionals who can provide personalized guidance.")
	return b.String()
}
