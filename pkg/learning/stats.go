package learning

import (
	"fmt"
	"io"
	"sort"
)

// TokenStats contains statistics about a token
type TokenStats struct {
	Token        string  `json:"token"`
	SpamCount    int     `json:"spam_count"`
	NotSpamCount int     `json:"ham_count"`
	SpamProb     float64 `json:"spam_prob"`
	NotSpamProb  float64 `json:"ham_prob"`
	Spamminess   float64 `json:"spamminess"`
}

// TokenStats returns statistics for a token, nil if neither class saw it.
// Counts are raw, probabilities smoothed.
func (m *Model) TokenStats(token string) *TokenStats {
	spamCount := rawCount(m.spam, token)
	hamCount := rawCount(m.notSpam, token)
	if spamCount == 0 && hamCount == 0 {
		return nil
	}

	spamProb := m.spam.Prob(token)
	hamProb := m.notSpam.Prob(token)

	return &TokenStats{
		Token:        token,
		SpamCount:    spamCount,
		NotSpamCount: hamCount,
		SpamProb:     spamProb,
		NotSpamProb:  hamProb,
		Spamminess:   spamProb / (spamProb + hamProb),
	}
}

func rawCount(t *ClassProbabilityTable, token string) int {
	if n := t.Count(token); n > 0 {
		return n - 1
	}
	return 0
}

// TopTokens returns the tokens most indicative of class l, seen at least
// minCount times in that class
func (m *Model) TopTokens(l Label, limit, minCount int) []*TokenStats {
	var stats []*TokenStats
	for _, token := range m.Table(l).Tokens() {
		s := m.TokenStats(token)
		count := s.NotSpamCount
		if l == Spam {
			count = s.SpamCount
		}
		if count >= minCount {
			stats = append(stats, s)
		}
	}

	// Tokens() is sorted, so the stable sort keeps ties in lexical order
	sort.SliceStable(stats, func(i, j int) bool {
		if l == Spam {
			return stats[i].Spamminess > stats[j].Spamminess
		}
		return stats[i].Spamminess < stats[j].Spamminess
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// ModelInfo contains model information
type ModelInfo struct {
	SpamDocuments    int         `json:"spam_documents"`
	NotSpamDocuments int         `json:"ham_documents"`
	SpamTokens       int         `json:"spam_tokens"`
	NotSpamTokens    int         `json:"ham_tokens"`
	SpamVocabulary   int         `json:"spam_vocabulary"`
	NotSpamVocab     int         `json:"ham_vocabulary"`
	VocabularySize   int         `json:"vocabulary_size"`
	Priors           ClassPriors `json:"priors"`
}

// Info summarizes the model
func (m *Model) Info() *ModelInfo {
	vocab := m.spam.Len()
	for token := range m.notSpam.probs {
		if _, ok := m.spam.probs[token]; !ok {
			vocab++
		}
	}

	return &ModelInfo{
		SpamDocuments:    m.documents[Spam],
		NotSpamDocuments: m.documents[NotSpam],
		SpamTokens:       m.spam.rawTotal,
		NotSpamTokens:    m.notSpam.rawTotal,
		SpamVocabulary:   m.spam.Len(),
		NotSpamVocab:     m.notSpam.Len(),
		VocabularySize:   vocab,
		Priors:           m.priors,
	}
}

// PrintStats prints model statistics and the top tokens of each class
func (m *Model) PrintStats(w io.Writer, top int) {
	info := m.Info()

	fmt.Fprintf(w, "🧠 Naive Bayes Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Spam documents: %d\n", info.SpamDocuments)
	fmt.Fprintf(w, "  Ham documents: %d\n", info.NotSpamDocuments)
	fmt.Fprintf(w, "  Spam tokens: %d (%d distinct)\n", info.SpamTokens, info.SpamVocabulary)
	fmt.Fprintf(w, "  Ham tokens: %d (%d distinct)\n", info.NotSpamTokens, info.NotSpamVocab)
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)
	fmt.Fprintf(w, "  Priors: spam %.3f, ham %.3f\n", info.Priors.Spam, info.Priors.NotSpam)

	fmt.Fprintf(w, "\n📈 Top Spam Tokens:\n")
	for i, s := range m.TopTokens(Spam, top, 1) {
		fmt.Fprintf(w, "  %2d. %-15s (%.3f spamminess, %d/%d)\n",
			i+1, s.Token, s.Spamminess, s.SpamCount, s.NotSpamCount)
	}

	fmt.Fprintf(w, "\n📉 Top Ham Tokens:\n")
	for i, s := range m.TopTokens(NotSpam, top, 1) {
		fmt.Fprintf(w, "  %2d. %-15s (%.3f spamminess, %d/%d)\n",
			i+1, s.Token, s.Spamminess, s.SpamCount, s.NotSpamCount)
	}

	fmt.Fprintf(w, "\n")
}
