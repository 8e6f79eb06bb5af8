package learning

import (
	"encoding/json"
	"fmt"
)

// Model is a trained naive Bayes model. It is immutable and safe to share
// between any number of goroutines.
type Model struct {
	spam      *ClassProbabilityTable
	notSpam   *ClassProbabilityTable
	priors    ClassPriors
	documents [2]int
}

// TrainOptions tunes training
type TrainOptions struct {
	// Shards > 1 tallies the corpus in parallel before reducing
	Shards int
}

// Train builds a model from labeled documents. Every document must carry a
// label; both classes must be represented.
func Train(docs []TokenizedDocument, opts TrainOptions) (*Model, error) {
	if len(docs) == 0 {
		return nil, &InsufficientTrainingDataError{Reason: "no training documents"}
	}
	for i, doc := range docs {
		if !doc.Labeled || !doc.Label.Valid() {
			id := doc.ID
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			return nil, &MalformedInputError{ID: id, Reason: "training document has no valid label"}
		}
	}

	return NewModel(CountSharded(docs, opts.Shards))
}

// NewModel finalizes a tally into a model
func NewModel(tally *Tally) (*Model, error) {
	priors, err := tally.Priors()
	if err != nil {
		return nil, err
	}

	spam, notSpam, err := tally.Frequencies()
	if err != nil {
		return nil, err
	}

	return &Model{
		spam:      spam,
		notSpam:   notSpam,
		priors:    priors,
		documents: tally.docs,
	}, nil
}

// Table returns the probability table of class l
func (m *Model) Table(l Label) *ClassProbabilityTable {
	if l == Spam {
		return m.spam
	}
	return m.notSpam
}

// Priors returns the class priors
func (m *Model) Priors() ClassPriors {
	return m.priors
}

// Documents returns the number of training documents of class l
func (m *Model) Documents(l Label) int {
	return m.documents[l]
}

type tableJSON struct {
	Documents     int                `json:"documents"`
	RawTokens     int                `json:"raw_tokens"`
	SmoothedTotal int                `json:"smoothed_total"`
	Unseen        float64            `json:"unseen_probability"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// MarshalJSON renders the model for inspection. Map keys are sorted by the
// encoder so equal models always encode to equal bytes.
func (m *Model) MarshalJSON() ([]byte, error) {
	table := func(l Label) tableJSON {
		t := m.Table(l)
		return tableJSON{
			Documents:     m.documents[l],
			RawTokens:     t.rawTotal,
			SmoothedTotal: t.total,
			Unseen:        t.Unseen(),
			Probabilities: t.probs,
		}
	}

	return json.Marshal(struct {
		Priors  ClassPriors `json:"priors"`
		Spam    tableJSON   `json:"spam"`
		NotSpam tableJSON   `json:"ham"`
	}{
		Priors:  m.priors,
		Spam:    table(Spam),
		NotSpam: table(NotSpam),
	})
}
