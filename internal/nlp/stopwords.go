package nlp

// stopWords backs up the engine's is_stop flag for engines that do not set it.
var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing", "done",
	"down", "during", "each", "even", "ever", "few", "for", "from", "further", "get",
	"go", "going", "had", "has", "have", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "however", "i", "if", "in", "into",
	"is", "it", "its", "itself", "just", "least", "less", "made", "make", "many",
	"may", "me", "might", "more", "most", "much", "must", "my", "myself", "never",
	"no", "nor", "not", "now", "of", "off", "often", "on", "once", "one", "only",
	"or", "other", "our", "ours", "ourselves", "out", "over", "own", "per", "quite",
	"rather", "really", "same", "say", "see", "she", "should", "so", "some", "still",
	"such", "take", "than", "that", "the", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "upon", "us", "very", "was", "we", "well", "were",
	"what", "whatever", "when", "where", "whether", "which", "while", "who", "whom",
	"whose", "why", "will", "with", "within", "without", "would", "yet", "you",
	"your", "yours", "yourself", "yourselves",
)

// genericTerms never become topics.
var genericTerms = toSet(
	"thing", "things", "way", "ways", "time", "times", "example", "examples", "day", "days",
)

var interrogatives = toSet("how", "what", "why", "when", "where", "who")

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
