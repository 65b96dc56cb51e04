package vectorize

import (
	"regexp"
	"strings"
)

// tokenRe matches word tokens of two or more characters, the same shape the
// corpus was prepared with upstream. Single-character tokens carry no signal.
var tokenRe = regexp.MustCompile(`\w\w+`)

// Tokenizer splits text into lower-cased word tokens, optionally dropping
// English stop words.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// NewTokenizer creates a tokenizer. When stripStopWords is true, common
// English stop words are removed from the token stream.
func NewTokenizer(stripStopWords bool) *Tokenizer {
	t := &Tokenizer{}
	if stripStopWords {
		t.stopWords = englishStopWords()
	}
	return t
}

// Tokenize returns the token stream for a text. The result preserves token
// order and multiplicity; term frequencies are counted by the caller.
func (t *Tokenizer) Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	if t.stopWords == nil {
		return raw
	}
	tokens := raw[:0]
	for _, tok := range raw {
		if _, skip := t.stopWords[tok]; !skip {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// StripsStopWords reports whether the tokenizer removes stop words.
// Recorded in snapshots so a restored engine tokenizes queries identically.
func (t *Tokenizer) StripsStopWords() bool { return t.stopWords != nil }
