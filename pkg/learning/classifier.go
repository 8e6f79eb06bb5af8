package learning

import "math"

// Scores holds the log-space score of each class for one document
type Scores struct {
	Spam    float64 `json:"spam"`
	NotSpam float64 `json:"ham"`
}

// Label picks the higher score. Equal scores go to NotSpam.
func (s Scores) Label() Label {
	if s.Spam > s.NotSpam {
		return Spam
	}
	return NotSpam
}

// SpamProbability normalizes the two scores into P(spam | tokens)
func (s Scores) SpamProbability() float64 {
	return 1 / (1 + math.Exp(s.NotSpam-s.Spam))
}

// Classifier labels token sequences with a trained model. It only reads the
// model, so one classifier may serve many goroutines.
type Classifier struct {
	model *Model
}

// NewClassifier creates a classifier for model
func NewClassifier(model *Model) *Classifier {
	return &Classifier{model: model}
}

// Model returns the underlying model
func (c *Classifier) Model() *Model {
	return c.model
}

// Score computes log P(c) + sum log P(token | c) for both classes
func (c *Classifier) Score(tokens []string) Scores {
	return Scores{
		Spam:    c.score(Spam, tokens),
		NotSpam: c.score(NotSpam, tokens),
	}
}

func (c *Classifier) score(l Label, tokens []string) float64 {
	table := c.model.Table(l)
	score := math.Log(c.model.priors.Of(l))
	for _, token := range tokens {
		score += math.Log(table.Prob(token))
	}
	return score
}

// Classify returns the most likely label for tokens
func (c *Classifier) Classify(tokens []string) Label {
	return c.Score(tokens).Label()
}
