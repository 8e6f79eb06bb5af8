package learning

import (
	"fmt"
	"sort"
)

// ClassProbabilityTable holds smoothed P(token | class) for one class.
// It is read-only once built.
type ClassProbabilityTable struct {
	label    Label
	counts   map[string]int // add-one smoothed counts
	probs    map[string]float64
	rawTotal int
	total    int // rawTotal + number of distinct tokens
}

// newProbabilityTable smooths raw counts by one and derives probabilities
// against the smoothed total.
func newProbabilityTable(label Label, raw map[string]int, rawTotal int) (*ClassProbabilityTable, error) {
	total := rawTotal + len(raw)
	if total == 0 {
		return nil, &InsufficientTrainingDataError{
			Reason: fmt.Sprintf("class %s has no tokens", label),
		}
	}

	counts := make(map[string]int, len(raw))
	probs := make(map[string]float64, len(raw))
	for token, n := range raw {
		smoothed := n + 1
		counts[token] = smoothed
		probs[token] = float64(smoothed) / float64(total)
	}

	return &ClassProbabilityTable{
		label:    label,
		counts:   counts,
		probs:    probs,
		rawTotal: rawTotal,
		total:    total,
	}, nil
}

// Label returns the class this table describes
func (t *ClassProbabilityTable) Label() Label {
	return t.label
}

// Prob returns P(token | class). Tokens never seen in this class get the
// probability a fresh smoothed zero count would have.
func (t *ClassProbabilityTable) Prob(token string) float64 {
	if p, ok := t.probs[token]; ok {
		return p
	}
	return t.Unseen()
}

// Lookup returns the trained probability of token and whether it exists
func (t *ClassProbabilityTable) Lookup(token string) (float64, bool) {
	p, ok := t.probs[token]
	return p, ok
}

// Unseen returns the probability assigned to tokens absent from the table
func (t *ClassProbabilityTable) Unseen() float64 {
	return 1 / float64(t.total)
}

// Count returns the smoothed count of token, 0 when absent
func (t *ClassProbabilityTable) Count(token string) int {
	return t.counts[token]
}

// Len returns the number of distinct tokens
func (t *ClassProbabilityTable) Len() int {
	return len(t.probs)
}

// Total returns the smoothed token total used as the denominator
func (t *ClassProbabilityTable) Total() int {
	return t.total
}

// RawTotal returns the number of tokens seen before smoothing
func (t *ClassProbabilityTable) RawTotal() int {
	return t.rawTotal
}

// Tokens returns the table keys in lexical order
func (t *ClassProbabilityTable) Tokens() []string {
	tokens := make([]string, 0, len(t.probs))
	for token := range t.probs {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Frequencies derives both probability tables from the tally. Each class
// needs at least one document with at least one token.
func (t *Tally) Frequencies() (spam, notSpam *ClassProbabilityTable, err error) {
	for _, label := range Labels {
		if t.docs[label] == 0 {
			return nil, nil, &InsufficientTrainingDataError{
				Reason: fmt.Sprintf("no %s documents", label),
			}
		}
	}

	spam, err = newProbabilityTable(Spam, t.counts[Spam], t.tokens[Spam])
	if err != nil {
		return nil, nil, err
	}
	notSpam, err = newProbabilityTable(NotSpam, t.counts[NotSpam], t.tokens[NotSpam])
	if err != nil {
		return nil, nil, err
	}
	return spam, notSpam, nil
}

// TrainFrequencies builds the spam and not-spam probability tables from
// labeled documents
func TrainFrequencies(docs []TokenizedDocument) (spam, notSpam *ClassProbabilityTable, err error) {
	if len(docs) == 0 {
		return nil, nil, &InsufficientTrainingDataError{Reason: "no training documents"}
	}
	return Count(docs).Frequencies()
}
