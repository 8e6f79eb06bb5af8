package normalize

import "github.com/kljensen/snowball/english"

// StopwordFilter removes semantically empty tokens. Matching is exact against
// the words as loaded; callers lowercase before filtering.
type StopwordFilter struct {
	words   map[string]struct{}
	builtin bool
}

// NewStopwordFilter creates a filter over words. When builtin is set the
// Snowball English stopword list is consulted as well.
func NewStopwordFilter(words []string, builtin bool) *StopwordFilter {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}

	return &StopwordFilter{
		words:   set,
		builtin: builtin,
	}
}

// IsStopword reports whether token is in the stopword set
func (f *StopwordFilter) IsStopword(token string) bool {
	if f == nil {
		return false
	}
	if _, ok := f.words[token]; ok {
		return true
	}
	return f.builtin && english.IsStopWord(token)
}

// Filter drops every stopword from tokens in a single pass, keeping order.
// The input slice is not modified.
func (f *StopwordFilter) Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !f.IsStopword(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Len returns the number of loaded stopwords, not counting the builtin list
func (f *StopwordFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.words)
}
