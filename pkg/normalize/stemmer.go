package normalize

import (
	"fmt"

	"github.com/kljensen/snowball/english"
)

// Stemmer reduces a token to its morphological root
type Stemmer interface {
	Stem(token string) string
}

// EnglishStemmer applies the Snowball English (Porter2) algorithm
type EnglishStemmer struct{}

// Stem returns the Snowball English stem of token. Stopwords are stemmed too,
// since stopword removal has already happened by the time tokens get here.
func (EnglishStemmer) Stem(token string) string {
	return english.Stem(token, true)
}

// IdentityStemmer leaves tokens untouched
type IdentityStemmer struct{}

func (IdentityStemmer) Stem(token string) string {
	return token
}

// NewStemmer returns the stemmer registered under name ("english" or "none")
func NewStemmer(name string) (Stemmer, error) {
	switch name {
	case "", "english":
		return EnglishStemmer{}, nil
	case "none":
		return IdentityStemmer{}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer: %s", name)
	}
}
