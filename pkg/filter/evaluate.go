package filter

import (
	"fmt"
	"io"

	"github.com/zpam/nbfilter/pkg/learning"
)

// Metrics is a confusion matrix over labeled results, spam being the
// positive class
type Metrics struct {
	TruePositive  int `json:"true_positive"`
	FalsePositive int `json:"false_positive"`
	TrueNegative  int `json:"true_negative"`
	FalseNegative int `json:"false_negative"`

	Unlabeled int `json:"unlabeled"`
	Failed    int `json:"failed"`
}

// Evaluate compares predictions with the records' own labels. Unlabeled and
// failed results are counted but left out of the matrix.
func Evaluate(results []Result) Metrics {
	var m Metrics
	for _, r := range results {
		switch {
		case r.Err != nil:
			m.Failed++
		case !r.Record.Labeled:
			m.Unlabeled++
		case r.Record.Label == learning.Spam && r.Label == learning.Spam:
			m.TruePositive++
		case r.Record.Label == learning.Spam:
			m.FalseNegative++
		case r.Label == learning.Spam:
			m.FalsePositive++
		default:
			m.TrueNegative++
		}
	}
	return m
}

// Evaluated is the number of results in the matrix
func (m Metrics) Evaluated() int {
	return m.TruePositive + m.FalsePositive + m.TrueNegative + m.FalseNegative
}

// Accuracy is the share of correct predictions
func (m Metrics) Accuracy() float64 {
	return ratio(m.TruePositive+m.TrueNegative, m.Evaluated())
}

// Precision is the share of spam predictions that were spam
func (m Metrics) Precision() float64 {
	return ratio(m.TruePositive, m.TruePositive+m.FalsePositive)
}

// Recall is the share of spam that was caught
func (m Metrics) Recall() float64 {
	return ratio(m.TruePositive, m.TruePositive+m.FalseNegative)
}

// F1 is the harmonic mean of precision and recall
func (m Metrics) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Print writes a report in the style of the other command outputs
func (m Metrics) Print(w io.Writer) {
	fmt.Fprintf(w, "📊 Evaluation Results\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Evaluated: %d (unlabeled %d, failed %d)\n", m.Evaluated(), m.Unlabeled, m.Failed)
	fmt.Fprintf(w, "\n                predicted spam   predicted ham\n")
	fmt.Fprintf(w, "  actual spam   %14d   %13d\n", m.TruePositive, m.FalseNegative)
	fmt.Fprintf(w, "  actual ham    %14d   %13d\n", m.FalsePositive, m.TrueNegative)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Accuracy:  %.2f%%\n", m.Accuracy()*100)
	fmt.Fprintf(w, "  Precision: %.2f%%\n", m.Precision()*100)
	fmt.Fprintf(w, "  Recall:    %.2f%%\n", m.Recall()*100)
	fmt.Fprintf(w, "  F1 score:  %.4f\n", m.F1())
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
