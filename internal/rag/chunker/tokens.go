package chunker

import "strings"

// Tokenize splits text into whitespace-delimited word tokens. This is
// approximate relative to a model tokenizer but fast, deterministic, and good
// enough for chunking decisions.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Decode joins tokens back into text.
func Decode(tokens []string) string {
	return strings.Join(tokens, " ")
}

// CountTokens returns the token count of text.
func CountTokens(text string) int {
	return len(Tokenize(text))
}
