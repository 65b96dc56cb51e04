package vectorize

// englishStopWordList is the set of English stop words stripped when the
// tokenizer is configured to do so. Matches the common NLTK-style list.
var englishStopWordList = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"couldn", "did", "didn", "do", "does", "doesn", "doing", "don", "down",
	"during", "each", "few", "for", "from", "further", "had", "hadn", "has",
	"hasn", "have", "haven", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into",
	"is", "isn", "it", "its", "itself", "just", "me", "more", "most",
	"mustn", "my", "myself", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "our", "ours", "ourselves", "out",
	"over", "own", "re", "same", "she", "should", "shouldn", "so", "some",
	"such", "than", "that", "the", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "to",
	"too", "under", "until", "up", "very", "was", "wasn", "we", "were",
	"weren", "what", "when", "where", "which", "while", "who", "whom",
	"why", "will", "with", "won", "wouldn", "you", "your", "yours",
	"yourself", "yourselves",
}

func englishStopWords() map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopWordList))
	for _, w := range englishStopWordList {
		set[w] = struct{}{}
	}
	return set
}
