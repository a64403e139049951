package tokenizer

// stopwords is the fixed, enumerated closed list from the glossary. It is
// a process-wide immutable value (§5): built once, never mutated.
var stopwords = buildStopwords()

func buildStopwords() map[string]struct{} {
	words := []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i", "it", "for", "not",
		"on", "with", "he", "as", "you", "do", "at", "this", "but", "his", "by", "from",
		"they", "we", "say", "her", "she", "or", "an", "will", "my", "one", "all", "would",
		"there", "their", "what", "so", "up", "out", "if", "about", "who", "get", "which",
		"go", "me", "when", "make", "can", "like", "time", "no", "just", "him", "know",
		"take", "people", "into", "year", "your", "good", "some", "could", "them", "see",
		"other", "than", "then", "now", "look", "only", "come", "its", "over", "think",
		"also", "back", "after", "use", "two", "how", "our", "work", "first", "well",
		"way", "even", "new", "want", "because", "any", "these", "give", "day", "most",
		"us", "is", "was", "are", "been", "has", "had", "were", "said", "did", "having",
		"may", "should", "does", "am",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// IsStopword reports whether term (already lowercased) is in the fixed
// stopword set.
func IsStopword(term string) bool {
	_, ok := stopwords[term]
	return ok
}
