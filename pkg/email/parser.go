package email

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Email is the part of a message the classifier looks at
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Text returns subject and body joined for tokenization
func (e *Email) Text() string {
	if e.Subject == "" {
		return e.Body
	}
	return e.Subject + "\n" + e.Body
}

// Parser extracts subject and text body from RFC 5322 messages
type Parser struct {
	// MaxBodyBytes caps how much of each text part is read, 0 = unlimited
	MaxBodyBytes int64
}

// NewParser creates a new email parser
func NewParser() *Parser {
	return &Parser{MaxBodyBytes: 1 << 20}
}

// ParseFromFile parses an email from a file
func (p *Parser) ParseFromFile(path string) (*Email, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Parse parses an email from a reader. text/plain parts make up the body;
// text/html parts are used with tags stripped only when no plain part exists.
func (p *Parser) Parse(r io.Reader) (*Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to parse email: %w", err)
	}
	defer mr.Close()

	email := &Email{}
	email.Subject, _ = mr.Header.Subject()

	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		email.From = from[0].Address
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		for _, addr := range to {
			email.To = append(email.To, addr.Address)
		}
	}

	var plain, html []string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("failed to parse body: %w", err)
		}
		if part == nil {
			continue
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue // attachment
		}
		contentType, _, _ := h.ContentType()

		body, err := p.readPart(part.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body part: %w", err)
		}

		switch contentType {
		case "text/plain", "":
			plain = append(plain, body)
		case "text/html":
			html = append(html, htmlTag.ReplaceAllString(body, " "))
		}
	}

	if len(plain) > 0 {
		email.Body = strings.Join(plain, "\n")
	} else {
		email.Body = strings.Join(html, "\n")
	}

	return email, nil
}

func (p *Parser) readPart(r io.Reader) (string, error) {
	if p.MaxBodyBytes > 0 {
		r = io.LimitReader(r, p.MaxBodyBytes)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
