package learning

import "fmt"

// MalformedInputError reports a record that cannot be turned into a document.
// It concerns one record only; callers skip the record and carry on.
type MalformedInputError struct {
	ID     string // record identity: row number or file path
	Line   int    // input line, 0 when unknown
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed input"
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// InsufficientTrainingDataError means no model can be built from the corpus
type InsufficientTrainingDataError struct {
	Reason string
}

func (e *InsufficientTrainingDataError) Error() string {
	return "insufficient training data: " + e.Reason
}
