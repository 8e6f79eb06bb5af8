// Package normalize turns raw message text into classification tokens.
package normalize

import "strings"

// DefaultMinTokenLength drops single-letter fragments
const DefaultMinTokenLength = 2

// Normalizer splits, filters and stems raw text into tokens
type Normalizer struct {
	stopwords *StopwordFilter
	stemmer   Stemmer
	minLength int
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithStopwords sets the stopword filter
func WithStopwords(f *StopwordFilter) Option {
	return func(n *Normalizer) {
		n.stopwords = f
	}
}

// WithStemmer replaces the default English stemmer
func WithStemmer(s Stemmer) Option {
	return func(n *Normalizer) {
		n.stemmer = s
	}
}

// WithMinTokenLength sets the shortest fragment that survives splitting
func WithMinTokenLength(length int) Option {
	return func(n *Normalizer) {
		if length > 0 {
			n.minLength = length
		}
	}
}

// New creates a normalizer. Without options it stems with Snowball English,
// removes no stopwords and keeps fragments of two letters or more.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		stemmer:   EnglishStemmer{},
		minLength: DefaultMinTokenLength,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the tokens of text in source order.
//
// Text is split on every byte that is not an ASCII letter and fragments
// shorter than the minimum length are discarded. Survivors are lowercased,
// checked against the stopword filter, then stemmed. A stem that ends up
// shorter than the minimum length is dropped too.
func (n *Normalizer) Normalize(text string) []string {
	fragments := Split(text, n.minLength)

	tokens := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		frag = strings.ToLower(frag)
		if n.stopwords.IsStopword(frag) {
			continue
		}
		stem := n.stemmer.Stem(frag)
		if len(stem) < n.minLength {
			continue
		}
		tokens = append(tokens, stem)
	}
	return tokens
}

// Split breaks text on non-ASCII-letter bytes and keeps fragments of at
// least minLength bytes, preserving their order.
func Split(text string, minLength int) []string {
	var fragments []string

	start := -1
	for i := 0; i < len(text); i++ {
		if isASCIILetter(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start >= minLength {
				fragments = append(fragments, text[start:i])
			}
			start = -1
		}
	}
	if start >= 0 && len(text)-start >= minLength {
		fragments = append(fragments, text[start:])
	}

	return fragments
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
