// Package corpus reads labeled and unlabeled messages from delimited files
// and mail directories.
package corpus

import "github.com/zpam/nbfilter/pkg/learning"

// Record is one input message. Text is never rewritten after reading.
type Record struct {
	ID      string
	Line    int
	Text    string
	Label   learning.Label
	Labeled bool
}

// Result is what a reader produced: the good records plus one error per
// record that had to be skipped
type Result struct {
	Records []Record
	Skipped []error
}
