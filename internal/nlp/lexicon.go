package nlp

import "strings"

// Lexicon carries the domain knowledge layered on top of the annotation
// engine: abbreviation/term expansion and a dictionary of multi-word phrases.
type Lexicon struct {
	Terms   map[string]string
	Phrases []string
}

// DefaultLexicon returns the financial-markets lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Terms: map[string]string{
			"market":       "stock market",
			"markets":      "stock markets",
			"fed":          "Federal Reserve",
			"rates":        "interest rates",
			"curve":        "yield curve",
			"basis points": "percentage points",
			"equity":       "stock equity",
			"equities":     "stock equities",
			"securities":   "financial securities",
			"bonds":        "treasury bonds",
			"treasuries":   "treasury bonds",
		},
		Phrases: []string{
			"stock market",
			"federal reserve",
			"interest rates",
			"yield curve",
			"treasury bonds",
			"basis points",
			"federal funds rate",
			"monetary policy",
			"market maker",
			"credit market",
			"bond market",
			"equity market",
			"financial literacy",
			"market dynamics",
			"market trends",
			"credit score",
			"credit rating",
			"credit worthiness",
			"debt to income ratio",
			"mortgage backed securities",
			"collateralized mortgage obligation",
		},
	}
}

// NewLexicon builds a lexicon from configured terms and phrases, falling back
// to the defaults for whichever part is empty.
func NewLexicon(terms map[string]string, phrases []string) Lexicon {
	lex := DefaultLexicon()
	if len(terms) > 0 {
		lex.Terms = make(map[string]string, len(terms))
		for k, v := range terms {
			lex.Terms[strings.ToLower(k)] = v
		}
	}
	if len(phrases) > 0 {
		lex.Phrases = make([]string, 0, len(phrases))
		for _, p := range phrases {
			lex.Phrases = append(lex.Phrases, strings.ToLower(p))
		}
	}
	return lex
}

// Expand returns the canonical form of s and whether s is a known term.
func (l Lexicon) Expand(s string) (string, bool) {
	v, ok := l.Terms[strings.ToLower(s)]
	return v, ok
}
