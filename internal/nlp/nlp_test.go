package nlp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnnotator struct {
	ann   *Annotation
	err   error
	calls int
	text  string
}

func (f *fakeAnnotator) Annotate(_ context.Context, text string) (*Annotation, error) {
	f.calls++
	f.text = text
	return f.ann, f.err
}

type tokSpec struct {
	text, pos, dep, ent string
	stop, punct         bool
	sentiment           float64
}

// buildTokens locates each token in text sequentially to fill in character
// offsets.
func buildTokens(t *testing.T, text string, specs []tokSpec) []Token {
	t.Helper()
	tokens := make([]Token, len(specs))
	pos := 0
	for i, s := range specs {
		idx := strings.Index(text[pos:], s.text)
		require.GreaterOrEqual(t, idx, 0, "token %q not found", s.text)
		tokens[i] = Token{
			Text: s.text, Idx: utf8.RuneCountInString(text[:pos+idx]), POS: s.pos, Dep: s.dep, EntType: s.ent,
			IsStop: s.stop, IsPunct: s.punct, Sentiment: s.sentiment,
		}
		pos += idx + len(s.text)
	}
	return tokens
}

const fedText = "The Fed raised rates again. Why did the Fed raise rates? Powell said inflation matters."

func fedAnnotation(t *testing.T) *Annotation {
	tokens := buildTokens(t, fedText, []tokSpec{
		{text: "The", pos: "DET", stop: true},
		{text: "Fed", pos: "PROPN", dep: "nsubj", ent: "ORG"},
		{text: "raised", pos: "VERB"},
		{text: "rates", pos: "NOUN", dep: "dobj"},
		{text: "again", pos: "ADV", stop: true},
		{text: ".", pos: "PUNCT", punct: true},
		{text: "Why", pos: "ADV", stop: true},
		{text: "did", pos: "AUX", stop: true},
		{text: "the", pos: "DET", stop: true},
		{text: "Fed", pos: "PROPN", dep: "nsubj", ent: "ORG"},
		{text: "raise", pos: "VERB"},
		{text: "rates", pos: "NOUN", dep: "dobj"},
		{text: "?", pos: "PUNCT", punct: true},
		{text: "Powell", pos: "PROPN", dep: "nsubj", ent: "PERSON"},
		{text: "said", pos: "VERB"},
		{text: "inflation", pos: "NOUN", dep: "nsubj", sentiment: -0.9},
		{text: "matters", pos: "VERB"},
		{text: ".", pos: "PUNCT", punct: true},
	})
	return &Annotation{
		Tokens:    tokens,
		Sentences: []Span{{0, 6}, {6, 13}, {13, 18}},
		NounChunks: []NounChunk{
			{Span: Span{0, 2}, RootPOS: "PROPN"},
			{Span: Span{3, 4}, RootPOS: "NOUN"},
			{Span: Span{15, 16}, RootPOS: "NOUN"},
		},
		Entities: []EntitySpan{
			{Span: Span{1, 2}, Label: "ORG"},
			{Span: Span{9, 10}, Label: "ORG"},
			{Span: Span{13, 14}, Label: "PERSON"},
		},
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"timestamps", "[00:01:02] Rates are up [00:01:09]", "Rates are up"},
		{"speaker label", "**Jess: The Fed met today", "The Fed met today"},
		{"fillers", "So um the market is like you know basically flat", "So the market is flat"},
		{"filler case", "UH rates", "rates"},
		{"whitespace", "  bonds \n\n yields\t", "bonds yields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestProcess(t *testing.T) {
	fake := &fakeAnnotator{ann: fedAnnotation(t)}
	ex := NewExtractor(fake, DefaultLexicon(), nil)

	got, err := ex.Process(context.Background(), "**Host: um "+fedText)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, fedText, fake.text)
	assert.Equal(t, fedText, got.CleanedText)

	require.NotEmpty(t, got.Keywords)
	assert.Equal(t, "Fed", got.Keywords[0].Term)
	assert.InDelta(t, 1.728, got.Keywords[0].Score, 1e-9)
	assert.Equal(t, "rates", got.Keywords[1].Term)
	assert.Equal(t, "Powell", got.Keywords[2].Term)
	assert.Equal(t, "inflation", got.Keywords[3].Term)
	for i := 1; i < len(got.Keywords); i++ {
		assert.GreaterOrEqual(t, got.Keywords[i-1].Score, got.Keywords[i].Score)
	}

	assert.Equal(t, []string{"Federal Reserve", "interest rates", "Powell", "inflation"}, got.Topics)
	assert.Equal(t, []Entity{{Text: "Federal Reserve", Label: "FINANCIAL_TERM"}}, got.Entities)
	assert.Equal(t, []string{"The Fed", "interest rates", "inflation"}, got.KeyPhrases)
	assert.Equal(t, []string{"Why did the Fed raise rates?"}, got.Questions)
	assert.InDelta(t, -0.05, got.SentimentScore, 1e-9)
}

func TestProcessDeterministic(t *testing.T) {
	ex := NewExtractor(&fakeAnnotator{ann: fedAnnotation(t)}, DefaultLexicon(), nil)
	a, err := ex.Process(context.Background(), fedText)
	require.NoError(t, err)
	b, err := ex.Process(context.Background(), fedText)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProcessFailures(t *testing.T) {
	tests := []struct {
		name       string
		annotator  *fakeAnnotator
		transcript string
	}{
		{"engine error", &fakeAnnotator{err: errors.New("connection refused")}, fedText},
		{"no tokens", &fakeAnnotator{ann: &Annotation{}}, fedText},
		{"empty after cleaning", &fakeAnnotator{}, "[00:00:01] um uh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewExtractor(tt.annotator, DefaultLexicon(), nil)
			got, err := ex.Process(context.Background(), tt.transcript)
			assert.Nil(t, got)
			var fe *FeatureExtractionError
			require.ErrorAs(t, err, &fe)
		})
	}
}

func TestEntityDeduplication(t *testing.T) {
	text := "Goldman Goldman Goldman"
	ann := &Annotation{
		Tokens: buildTokens(t, text, []tokSpec{
			{text: "Goldman", pos: "PROPN"}, {text: "Goldman", pos: "PROPN"}, {text: "Goldman", pos: "PROPN"},
		}),
		Entities: []EntitySpan{
			{Span: Span{0, 1}, Label: "ORG"},
			{Span: Span{1, 2}, Label: "ORG"},
			{Span: Span{2, 3}, Label: "ORG"},
		},
	}
	got := extractEntities(newSourceText(text), ann, DefaultLexicon())
	assert.Equal(t, []Entity{{Text: "Goldman", Label: "ORG"}}, got)
}

func TestSpanTextWithoutOffsets(t *testing.T) {
	tokens := []Token{{Text: "bond"}, {Text: "market"}}
	src := newSourceText("")
	assert.Equal(t, "bond market", src.span(tokens, Span{0, 2}))
	assert.Equal(t, "", src.span(tokens, Span{1, 5}))
}

func TestProcessNonASCIIOffsets(t *testing.T) {
	text := "Powell’s team met. Why did the Fed raise rates?"
	tokens := buildTokens(t, text, []tokSpec{
		{text: "Powell", pos: "PROPN", ent: "PERSON"},
		{text: "’s", pos: "PART"},
		{text: "team", pos: "NOUN", dep: "nsubj"},
		{text: "met", pos: "VERB"},
		{text: ".", pos: "PUNCT", punct: true},
		{text: "Why", pos: "ADV", stop: true},
		{text: "did", pos: "AUX", stop: true},
		{text: "the", pos: "DET", stop: true},
		{text: "Fed", pos: "PROPN", dep: "nsubj", ent: "ORG"},
		{text: "raise", pos: "VERB"},
		{text: "rates", pos: "NOUN", dep: "dobj"},
		{text: "?", pos: "PUNCT", punct: true},
	})
	require.Equal(t, 6, tokens[1].Idx)
	require.Equal(t, 9, tokens[2].Idx, "offsets count characters, not bytes")

	ann := &Annotation{
		Tokens:     tokens,
		Sentences:  []Span{{0, 5}, {5, 12}},
		NounChunks: []NounChunk{{Span: Span{0, 3}, RootPOS: "NOUN"}},
	}
	ex := NewExtractor(&fakeAnnotator{ann: ann}, DefaultLexicon(), nil)
	got, err := ex.Process(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []string{"Why did the Fed raise rates?"}, got.Questions)
	assert.Contains(t, got.KeyPhrases, "Powell’s team")
}

func TestSourceTextSpan(t *testing.T) {
	text := "Rates — and yields — rose."
	src := newSourceText(text)
	tokens := []Token{
		{Text: "yields", Idx: 12},
		{Text: "—", Idx: 19},
		{Text: "rose", Idx: 21},
	}
	assert.Equal(t, "yields — rose", src.span(tokens, Span{0, 3}))

	// offsets past the end fall back to joining tokens
	bad := []Token{{Text: "rose", Idx: 400}}
	assert.Equal(t, "rose", src.span(bad, Span{0, 1}))
}

func TestRankKeywordsCountsCharacters(t *testing.T) {
	got := rankKeywords([]Token{
		{Text: "€5", POS: "NOUN"},
		{Text: "bonds", POS: "NOUN"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "bonds", got[0].Term)
}

func TestNewLexiconOverrides(t *testing.T) {
	lex := NewLexicon(map[string]string{"BTC": "Bitcoin"}, nil)
	got, ok := lex.Expand("btc")
	assert.True(t, ok)
	assert.Equal(t, "Bitcoin", got)
	_, ok = lex.Expand("fed")
	assert.False(t, ok)
	assert.Equal(t, DefaultLexicon().Phrases, lex.Phrases)
}
