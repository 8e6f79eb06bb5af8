package learning

// TokenizedDocument is the normalized form of one message
type TokenizedDocument struct {
	ID      string
	Tokens  []string
	Label   Label
	Labeled bool
}

// NewDocument creates a labeled training document
func NewDocument(label Label, tokens ...string) TokenizedDocument {
	return TokenizedDocument{
		Tokens:  tokens,
		Label:   label,
		Labeled: true,
	}
}
