package content

// Schema.org JSON-LD documents attached to the FAQ and SEO artifacts.

type FAQPageSchema struct {
	Context    string           `json:"@context"`
	Type       string           `json:"@type"`
	MainEntity []QuestionSchema `json:"mainEntity"`
}

type QuestionSchema struct {
	Type           string       `json:"@type"`
	Name           string       `json:"name"`
	AcceptedAnswer AnswerSchema `json:"acceptedAnswer"`
}

type AnswerSchema struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type PodcastEpisodeSchema struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Keywords    []string      `json:"keywords"`
	About       []ThingSchema `json:"about"`
}

type ThingSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

const schemaContext = "https://schema.org"

func faqPageSchema(items []FAQItem) FAQPageSchema {
	s := FAQPageSchema{Context: schemaContext, Type: "FAQPage", MainEntity: make([]QuestionSchema, len(items))}
	for i, item := range items {
		s.MainEntity[i] = QuestionSchema{
			Type:           "Question",
			Name:           item.Question,
			AcceptedAnswer: AnswerSchema{Type: "Answer", Text: item.Answer},
		}
	}
	return s
}
