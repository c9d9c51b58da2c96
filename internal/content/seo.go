package content

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

type SEOMetadata struct {
	MetaTitle       string               `json:"meta_title"`
	MetaDescription string               `json:"meta_description"`
	KeywordsUsed    []string             `json:"keywords_used"`
	SchemaMarkup    PodcastEpisodeSchema `json:"schema_markup"`
}

// SEOHints carries previously generated text the metadata may reuse.
type SEOHints struct {
	BlogTitle string
	Excerpt   string
}

// brandRoom is the free title space required before the brand is appended.
const brandRoom = 15

// SEOMetadata builds the meta title and description, topping up keyword
// coverage when fewer than SEOMinKeywords appear.
func (g *Generator) SEOMetadata(f *nlp.ProcessedTranscript, hints SEOHints) (*SEOMetadata, error) {
	if err := requireSignal(KindSEO, f); err != nil {
		return nil, err
	}

	title := g.metaTitle(f, hints.BlogTitle)
	desc := g.metaDescription(f, hints.Excerpt)

	used := keywordsIn(f.Keywords, title, desc)
	if len(used) < g.opts.SEOMinKeywords {
		for _, k := range f.Keywords {
			if containsFold(title+"\n"+desc, k.Term) {
				continue
			}
			extra := fmt.Sprintf(" Learn about %s.", k.Term)
			if Length(desc)+Length(extra) <= g.opts.SEODescriptionMax {
				desc += extra
			}
			break
		}
		used = keywordsIn(f.Keywords, title, desc)
	}

	schema := PodcastEpisodeSchema{
		Context:     schemaContext,
		Type:        "PodcastEpisode",
		Name:        title,
		Description: desc,
		Keywords:    topKeywords(f.Keywords, 5),
	}
	for _, t := range head(f.Topics, 3) {
		schema.About = append(schema.About, ThingSchema{Type: "Thing", Name: t})
	}

	return &SEOMetadata{
		MetaTitle:       title,
		MetaDescription: desc,
		KeywordsUsed:    used,
		SchemaMarkup:    schema,
	}, nil
}

func (g *Generator) metaTitle(f *nlp.ProcessedTranscript, hint string) string {
	base := strings.TrimSpace(hint)
	if base == "" {
		var parts []string
		if len(f.Keywords) > 0 {
			parts = append(parts, f.Keywords[0].Term)
		}
		if len(f.Topics) > 0 && (len(parts) == 0 || !strings.EqualFold(parts[0], f.Topics[0])) {
			parts = append(parts, f.Topics[0])
		}
		base = strings.Join(parts, ": ")
	}
	if g.opts.BrandName != "" && g.opts.SEOTitleMax-Length(base) > brandRoom {
		base += " | " + g.opts.BrandName
	}
	return truncate(base, g.opts.SEOTitleMax)
}

func (g *Generator) metaDescription(f *nlp.ProcessedTranscript, hint string) string {
	hint = strings.TrimSpace(hint)
	if hint != "" && Length(hint) <= g.opts.SEODescriptionMax {
		return hint
	}

	var b strings.Builder
	topics := head(f.Topics, 2)
	if len(f.Keywords) > 0 {
		fmt.Fprintf(&b, "Discover %s ", f.Keywords[0].Term)
		if len(topics) > 0 {
			fmt.Fprintf(&b, "and learn about %s. ", strings.Join(topics, ", "))
		}
	} else {
		fmt.Fprintf(&b, "Learn about %s. ", strings.Join(topics, ", "))
	}
	b.WriteString("Listen now for expert insights and practical tips.")
	return truncate(b.String(), g.opts.SEODescriptionMax)
}
