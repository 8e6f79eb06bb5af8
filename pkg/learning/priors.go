package learning

// ClassPriors holds P(class) estimated from the training documents
type ClassPriors struct {
	Spam    float64 `json:"spam"`
	NotSpam float64 `json:"ham"`
}

// Of returns the prior of class l
func (p ClassPriors) Of(l Label) float64 {
	if l == Spam {
		return p.Spam
	}
	return p.NotSpam
}

// Priors divides the document count of each class by the total
func (t *Tally) Priors() (ClassPriors, error) {
	total := t.docs[Spam] + t.docs[NotSpam]
	if total == 0 {
		return ClassPriors{}, &InsufficientTrainingDataError{Reason: "no training documents"}
	}

	return ClassPriors{
		Spam:    float64(t.docs[Spam]) / float64(total),
		NotSpam: float64(t.docs[NotSpam]) / float64(total),
	}, nil
}

// EstimatePriors computes class priors for labeled documents
func EstimatePriors(docs []TokenizedDocument) (ClassPriors, error) {
	tally := NewTally()
	for _, doc := range docs {
		if doc.Labeled && doc.Label.Valid() {
			tally.docs[doc.Label]++
		}
	}
	return tally.Priors()
}
