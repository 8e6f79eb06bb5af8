// Package learning implements the naive Bayes spam model: per-class token
// frequencies with add-one smoothing, class priors and a log-space classifier.
package learning

import "fmt"

// Label is the class of a document
type Label int

const (
	NotSpam Label = 0
	Spam    Label = 1
)

// Labels lists both classes in tie-break order: earlier wins on equal scores
var Labels = [...]Label{NotSpam, Spam}

func (l Label) String() string {
	switch l {
	case Spam:
		return "spam"
	case NotSpam:
		return "ham"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// Valid reports whether l is one of the two known classes
func (l Label) Valid() bool {
	return l == Spam || l == NotSpam
}

// LabelScheme maps the integers used by input data onto labels. Datasets
// disagree on which of 0 and 1 means spam, so the convention is explicit.
type LabelScheme struct {
	SpamValue int `json:"spam_value" yaml:"spam_value"`
}

// DefaultLabelScheme treats 1 as spam and 0 as not spam
var DefaultLabelScheme = LabelScheme{SpamValue: 1}

// Validate checks that the spam value is 0 or 1
func (s LabelScheme) Validate() error {
	if s.SpamValue != 0 && s.SpamValue != 1 {
		return fmt.Errorf("spam label value must be 0 or 1, got %d", s.SpamValue)
	}
	return nil
}

// Parse converts an input integer into a label
func (s LabelScheme) Parse(v int) (Label, error) {
	switch v {
	case s.SpamValue:
		return Spam, nil
	case 1 - s.SpamValue:
		return NotSpam, nil
	default:
		return NotSpam, fmt.Errorf("label must be 0 or 1, got %d", v)
	}
}

// Value converts a label back into the input integer convention
func (s LabelScheme) Value(l Label) int {
	if l == Spam {
		return s.SpamValue
	}
	return 1 - s.SpamValue
}
