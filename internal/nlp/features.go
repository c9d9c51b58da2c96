package nlp

// Entity is a named entity surface form with its label.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Keyword is a ranked term.
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// ProcessedTranscript is the feature set derived once per transcript.
// Keywords and Topics are in descending score/frequency order. Consumers
// treat every slice as read-only.
type ProcessedTranscript struct {
	CleanedText    string    `json:"cleaned_text"`
	Entities       []Entity  `json:"entities"`
	KeyPhrases     []string  `json:"key_phrases"`
	Topics         []string  `json:"topics"`
	SentimentScore float64   `json:"sentiment_score"`
	Questions      []string  `json:"questions"`
	Keywords       []Keyword `json:"keywords"`
}

// KeywordTerms returns the keyword surface forms in rank order.
func (p *ProcessedTranscript) KeywordTerms() []string {
	terms := make([]string, len(p.Keywords))
	for i, k := range p.Keywords {
		terms[i] = k.Term
	}
	return terms
}
