package report

// defaultStopwords is a small English list tuned for short music comments.
var defaultStopwords = []string{
	"a", "about", "after", "again", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "but", "by",
	"can", "could", "did", "do", "does", "doing", "don't", "for", "from", "get",
	"got", "had", "has", "have", "he", "her", "here", "him", "his", "how",
	"i", "i'm", "if", "in", "into", "is", "it", "it's", "its", "just",
	"like", "me", "more", "my", "no", "not", "now", "of", "on", "one",
	"only", "or", "our", "out", "so", "some", "such", "than", "that", "the",
	"their", "them", "then", "there", "these", "they", "this", "to", "too", "up",
	"us", "very", "was", "we", "were", "what", "when", "where", "which", "who",
	"why", "will", "with", "would", "you", "your",
}

// DefaultStopwords returns a copy of the built-in stopword list.
func DefaultStopwords() []string {
	out := make([]string, len(defaultStopwords))
	copy(out, defaultStopwords)
	return out
}
