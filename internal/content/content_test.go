package content

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

func fixture() *nlp.ProcessedTranscript {
	return &nlp.ProcessedTranscript{
		CleanedText: "The Fed raised rates again while inflation stayed high.",
		Keywords: []nlp.Keyword{
			{Term: "Federal Reserve", Score: 0.9},
			{Term: "inflation", Score: 0.7},
			{Term: "rates", Score: 0.5},
		},
		Topics:     []string{"stock market", "Federal Reserve", "inflation"},
		KeyPhrases: []string{"stock market volatility", "inflation expectations", "the stock market", "monetary policy"},
		Entities: []nlp.Entity{
			{Text: "Jerome Powell", Label: "PERSON"},
			{Text: "Federal Reserve", Label: "FINANCIAL_TERM"},
		},
		Questions:      []string{"Why did the Fed raise rates?", "what happens next"},
		SentimentScore: -0.1,
	}
}

func empty() *nlp.ProcessedTranscript {
	return &nlp.ProcessedTranscript{CleanedText: "silence"}
}

func assertKeywordsUsed(t *testing.T, used []string, texts ...string) {
	t.Helper()
	joined := strings.ToLower(strings.Join(texts, "\n"))
	for _, kw := range used {
		assert.Contains(t, joined, strings.ToLower(kw), "keyword %q not present in output", kw)
	}
}

func TestGeneratorsRejectEmptyFeatureSet(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	f := empty()

	blog, err := g.BlogPost(f)
	assert.Nil(t, blog)
	var ge *ArtifactGenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, KindBlog, ge.Artifact)

	_, err = g.FAQ(f)
	assert.ErrorAs(t, err, &ge)
	_, err = g.Excerpt(f)
	assert.ErrorAs(t, err, &ge)
	_, err = g.Summary(f)
	assert.ErrorAs(t, err, &ge)
	_, err = g.SEOMetadata(f, SEOHints{})
	assert.ErrorAs(t, err, &ge)
}

func TestBlogPost(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	post, err := g.BlogPost(fixture())
	require.NoError(t, err)

	assert.Equal(t, "Mastering Federal Reserve: Understanding stock market", post.Title)
	require.Len(t, post.Sections, 2)
	assert.Equal(t, "The Role of stock market", post.Sections[0].Heading)
	assert.Equal(t, "Understanding inflation Dynamics", post.Sections[1].Heading)
	assert.Contains(t, post.Sections[0].Content, "- Stock market volatility")
	assert.ErrorIs(t, post.Err(), ErrSectionShortfall)
	assert.Contains(t, post.Content, "#### Conclusion")
	assert.LessOrEqual(t, Length(post.MetaDescription), 155)
	assert.True(t, strings.HasPrefix(post.MetaDescription, "Master stock market and understand how Federal Reserve impact outcomes."))

	for _, line := range strings.Split(post.Content, "\n") {
		assert.False(t, strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### "),
			"content line %q collides with report headers", line)
	}
	assertKeywordsUsed(t, post.KeywordsUsed, post.Title, post.Content)
	assert.Equal(t, []string{"Federal Reserve", "inflation", "rates"}, post.KeywordsUsed)
}

func TestBlogPostSectionCount(t *testing.T) {
	opts := DefaultOptions()
	opts.BlogSections = 1
	post, err := NewGenerator(opts).BlogPost(fixture())
	require.NoError(t, err)
	assert.Len(t, post.Sections, 1)
	assert.NoError(t, post.Err())

	f := &nlp.ProcessedTranscript{Topics: []string{"bonds"}}
	post, err = NewGenerator(DefaultOptions()).BlogPost(f)
	require.NoError(t, err)
	assert.Empty(t, post.Sections)
	assert.EqualError(t, post.Err(), "blog post below requested section count: 0 of 3")
}

func TestBlogTitleFallbackAndTruncation(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	f := &nlp.ProcessedTranscript{Topics: []string{"bonds"}}
	post, err := g.BlogPost(f)
	require.NoError(t, err)
	assert.Equal(t, "Essential Guide to bonds: Trends and Strategies", post.Title)

	f = &nlp.ProcessedTranscript{
		Keywords: []nlp.Keyword{{Term: "collateralized mortgage obligations", Score: 1}},
		Topics:   []string{"commercial real estate lending", "regional banks"},
	}
	post, err = g.BlogPost(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, Length(post.Title), 60)
	assert.True(t, strings.HasPrefix(post.Title, "Mastering collateralized mortgage obligations: Understanding"))
}

func TestFAQ(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	faq, err := g.FAQ(fixture())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(faq.Items), 3)
	assert.Equal(t, "Why did the Fed raise rates?", faq.Items[0].Question)
	assert.Equal(t, "What happens next?", faq.Items[1].Question)
	assert.Equal(t, []string{"rates"}, faq.Items[0].Keywords)
	assert.Contains(t, faq.Items[0].Answer, "This relates to rates in the broader context.")

	questions := make(map[string]bool)
	for _, item := range faq.Items {
		assert.True(t, strings.HasSuffix(item.Question, "?"))
		assert.NotEmpty(t, item.Answer)
		assert.LessOrEqual(t, Length(item.Answer), 150)
		assert.False(t, questions[item.Question], "duplicate question %q", item.Question)
		questions[item.Question] = true
	}
	assert.True(t, questions["Who is Jerome Powell and why are they important?"])
	assert.True(t, questions["What is the importance of stock market?"])

	assert.Equal(t, "FAQPage", faq.SchemaMarkup.Type)
	assert.Len(t, faq.SchemaMarkup.MainEntity, len(faq.Items))
}

func TestFAQFillsToMinimum(t *testing.T) {
	opts := DefaultOptions()
	opts.FAQMinQuestions = 5
	g := NewGenerator(opts)

	f := &nlp.ProcessedTranscript{
		Keywords:   []nlp.Keyword{{Term: "yield", Score: 1}},
		Topics:     []string{"inflation"},
		KeyPhrases: []string{"bond yields", "rate cuts"},
	}
	faq, err := g.FAQ(f)
	require.NoError(t, err)
	require.Len(t, faq.Items, 5)
	assert.Equal(t, "What are the key aspects of inflation?", faq.Items[2].Question)
	assert.Equal(t, "Inflation is a crucial element that involves bond yields, rate cuts.", faq.Items[2].Answer)
	assert.Equal(t, "What are the key aspects of bond yields?", faq.Items[3].Question)
	assert.Equal(t, []string{"yield"}, faq.Items[3].Keywords)
}

func TestFAQInsufficientMaterial(t *testing.T) {
	opts := DefaultOptions()
	opts.FAQMinQuestions = 10
	g := NewGenerator(opts)

	_, err := g.FAQ(&nlp.ProcessedTranscript{Topics: []string{"gold"}})
	var ge *ArtifactGenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, KindFAQ, ge.Artifact)
}

func TestExcerptScenario(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	f := &nlp.ProcessedTranscript{
		Keywords:       []nlp.Keyword{{Term: "Federal Reserve", Score: 0.9}, {Term: "inflation", Score: 0.7}},
		Topics:         []string{"stock market", "Federal Reserve"},
		SentimentScore: -0.1,
	}
	res, err := g.Excerpt(f)
	require.NoError(t, err)
	assert.Equal(t, "Discover Federal Reserve: stock market & Federal Reserve.", res.Excerpt)
	assert.Equal(t, []string{"Federal Reserve"}, res.KeywordsUsed)
	assert.Equal(t, -0.1, res.SentimentScore)
}

func TestHookFor(t *testing.T) {
	tests := []struct {
		sentiment float64
		want      string
	}{
		{0, "Discover rates"},
		{0.05, "Discover rates"},
		{0.3, "Explore rates"},
		{-0.5, "Master rates"},
		{0.65, "Learn about rates"},
		{0.9, "Understand rates"},
		{3.0, "Understand rates"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.sentiment), func(t *testing.T) {
			assert.Equal(t, tt.want, HookFor(tt.sentiment, "rates"))
		})
	}
}

func TestExcerptLengthContract(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	long := strings.Repeat("quantitative tightening ", 6)
	inputs := []*nlp.ProcessedTranscript{
		fixture(),
		{Keywords: []nlp.Keyword{{Term: long, Score: 1}}},
		{Topics: []string{"gold", "silver"}, KeyPhrases: []string{strings.Repeat("gold bullion ", 8)}},
		{Keywords: []nlp.Keyword{{Term: "Why rates?", Score: 1}}, SentimentScore: 0.99},
	}
	for i, f := range inputs {
		res, err := g.Excerpt(f)
		require.NoError(t, err, "input %d", i)
		assert.LessOrEqual(t, Length(res.Excerpt), 73, "input %d: %q", i, res.Excerpt)
		assert.True(t, endsTerminal(res.Excerpt), "input %d: %q", i, res.Excerpt)
		assertKeywordsUsed(t, res.KeywordsUsed, res.Excerpt)
	}
}

func TestSummaryWithinBand(t *testing.T) {
	opts := DefaultOptions()
	opts.SummaryMinWords = 20
	g := NewGenerator(opts)

	res, err := g.Summary(fixture())
	require.NoError(t, err)
	assert.False(t, res.Shortfall)
	assert.NoError(t, res.Err())
	assert.GreaterOrEqual(t, res.WordCount, 20)
	assert.LessOrEqual(t, res.WordCount, 200)
	assert.Equal(t, len(strings.Fields(res.Summary)), res.WordCount)
	assert.True(t, strings.HasPrefix(res.Summary, "In this insightful episode about Federal Reserve, featuring Jerome Powell, we explore"))
	assert.Len(t, res.KeyTakeaways, 3)
	assert.Equal(t, "stock market: stock market volatility", res.KeyTakeaways[0])
	assertKeywordsUsed(t, res.KeywordsUsed, res.Summary)
}

func TestSummaryTruncatesAtSentence(t *testing.T) {
	opts := DefaultOptions()
	opts.SummaryMinWords = 5
	opts.SummaryMaxWords = 20
	g := NewGenerator(opts)

	res, err := g.Summary(fixture())
	require.NoError(t, err)
	assert.LessOrEqual(t, res.WordCount, 20)
	assert.True(t, strings.HasSuffix(res.Summary, "."))
	assert.False(t, res.Shortfall)
}

func TestSummaryShortfall(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	res, err := g.Summary(fixture())
	require.NoError(t, err)

	assert.True(t, res.Shortfall)
	assert.Less(t, res.WordCount, 150)
	assert.True(t, errors.Is(res.Err(), ErrSummaryShortfall))
	assert.Contains(t, res.Summary, "Additional topics covered include the stock market, monetary policy.")
}

func TestSEOMetadata(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	meta, err := g.SEOMetadata(fixture(), SEOHints{})
	require.NoError(t, err)

	assert.Equal(t, "Federal Reserve: stock market | Your Podcast Name", meta.MetaTitle)
	assert.Equal(t,
		"Discover Federal Reserve and learn about stock market, Federal Reserve. Listen now for expert insights and practical tips. Learn about inflation.",
		meta.MetaDescription)
	assert.Equal(t, []string{"Federal Reserve", "inflation"}, meta.KeywordsUsed)
	assert.Equal(t, "PodcastEpisode", meta.SchemaMarkup.Type)
	assert.Len(t, meta.SchemaMarkup.About, 3)
}

func TestSEOMetadataHints(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	hints := SEOHints{
		BlogTitle: "Mastering Federal Reserve: Understanding stock market",
		Excerpt:   "Discover Federal Reserve: stock market & Federal Reserve.",
	}
	meta, err := g.SEOMetadata(fixture(), hints)
	require.NoError(t, err)
	assert.Equal(t, hints.BlogTitle, meta.MetaTitle)
	assert.True(t, strings.HasPrefix(meta.MetaDescription, hints.Excerpt))

	hints.Excerpt = strings.Repeat("x", 200)
	meta, err = g.SEOMetadata(fixture(), hints)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(meta.MetaDescription, "Discover Federal Reserve"))
}

func TestSEOLengthContract(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	long := strings.Repeat("macroeconomic ", 20)
	inputs := []struct {
		f     *nlp.ProcessedTranscript
		hints SEOHints
	}{
		{fixture(), SEOHints{}},
		{&nlp.ProcessedTranscript{Keywords: []nlp.Keyword{{Term: long, Score: 1}}, Topics: []string{long, long}}, SEOHints{}},
		{fixture(), SEOHints{BlogTitle: long, Excerpt: long}},
		{&nlp.ProcessedTranscript{Topics: []string{"gold"}}, SEOHints{}},
	}
	for i, in := range inputs {
		meta, err := g.SEOMetadata(in.f, in.hints)
		require.NoError(t, err, "input %d", i)
		assert.LessOrEqual(t, Length(meta.MetaTitle), 60, "input %d", i)
		assert.LessOrEqual(t, Length(meta.MetaDescription), 155, "input %d", i)
		assertKeywordsUsed(t, meta.KeywordsUsed, meta.MetaTitle, meta.MetaDescription)
	}
}
