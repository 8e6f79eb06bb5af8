package milter

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/d--j/go-milter"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/email"
	"github.com/zpam/nbfilter/pkg/learning"
	"github.com/zpam/nbfilter/pkg/logging"
	"github.com/zpam/nbfilter/pkg/normalize"
)

// maxMessageBytes caps how much of a message is buffered for classification
const maxMessageBytes = 4 << 20

// Verdict is the classification of one message
type Verdict struct {
	Label           learning.Label
	SpamProbability float64
	Tokens          int
}

// Classify normalizes text and labels it with classifier
func Classify(n *normalize.Normalizer, c *learning.Classifier, text string) Verdict {
	tokens := n.Normalize(text)
	scores := c.Score(tokens)
	return Verdict{
		Label:           scores.Label(),
		SpamProbability: scores.SpamProbability(),
		Tokens:          len(tokens),
	}
}

// Handler implements milter.Milter for one SMTP connection
type Handler struct {
	milter.NoOpMilter
	config     *config.MilterConfig
	normalizer *normalize.Normalizer
	classifier *learning.Classifier
	parser     *email.Parser
	logger     *slog.Logger

	// Message being collected
	from      string
	message   bytes.Buffer
	truncated bool
	startTime time.Time
}

// NewHandler creates a handler sharing the normalizer and classifier
func NewHandler(cfg *config.MilterConfig, n *normalize.Normalizer, c *learning.Classifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		config:     cfg,
		normalizer: n,
		classifier: c,
		parser:     email.NewParser(),
		logger:     logger,
		startTime:  time.Now(),
	}
}

// NewConnection is called when a new SMTP connection is established
func (h *Handler) NewConnection(m milter.Modifier) error {
	h.reset()
	return nil
}

// MailFrom starts a new message
func (h *Handler) MailFrom(from string, esmtpArgs string, m milter.Modifier) (*milter.Response, error) {
	h.reset()
	h.from = from
	return milter.RespContinue, nil
}

// Header is called for each header
func (h *Handler) Header(name string, value string, m milter.Modifier) (*milter.Response, error) {
	h.write(name + ": " + value + "\r\n")
	return milter.RespContinue, nil
}

// Headers is called when all headers have been received
func (h *Handler) Headers(m milter.Modifier) (*milter.Response, error) {
	h.write("\r\n")
	return milter.RespContinue, nil
}

// BodyChunk is called for each body chunk
func (h *Handler) BodyChunk(chunk []byte, m milter.Modifier) (*milter.Response, error) {
	h.write(string(chunk))
	return milter.RespContinue, nil
}

// EndOfMessage classifies the collected message
func (h *Handler) EndOfMessage(m milter.Modifier) (*milter.Response, error) {
	verdict, err := h.verdict()
	if err != nil {
		h.logger.Warn("failed to parse message", "from", h.from, "error", err)
		return milter.RespContinue, nil
	}

	h.logger.Info("message classified",
		"from", h.from,
		"label", verdict.Label.String(),
		"spam_probability", verdict.SpamProbability,
		"tokens", verdict.Tokens,
		"truncated", h.truncated,
		"elapsed", time.Since(h.startTime))

	if h.config.AddHeaders {
		for _, header := range h.headers(verdict) {
			if err := m.AddHeader(header[0], header[1]); err != nil {
				return milter.RespTempFail, fmt.Errorf("failed to add spam headers: %w", err)
			}
		}
	}

	return h.response(verdict), nil
}

// Abort drops the current message
func (h *Handler) Abort(m milter.Modifier) error {
	h.reset()
	return nil
}

func (h *Handler) reset() {
	h.from = ""
	h.message.Reset()
	h.truncated = false
	h.startTime = time.Now()
}

func (h *Handler) write(s string) {
	if h.message.Len()+len(s) > maxMessageBytes {
		h.truncated = true
		s = s[:maxMessageBytes-h.message.Len()]
	}
	h.message.WriteString(s)
}

func (h *Handler) verdict() (Verdict, error) {
	msg, err := h.parser.Parse(bytes.NewReader(h.message.Bytes()))
	if err != nil {
		return Verdict{}, err
	}
	return Classify(h.normalizer, h.classifier, msg.Text()), nil
}

// headers returns the name/value pairs added to a classified message
func (h *Handler) headers(v Verdict) [][2]string {
	status := "Ham"
	if v.Label == learning.Spam {
		status = "Spam"
	}
	return [][2]string{
		{h.config.HeaderPrefix + "Status", status},
		{h.config.HeaderPrefix + "Probability", fmt.Sprintf("%.4f", v.SpamProbability)},
	}
}

// response decides between accepting and rejecting
func (h *Handler) response(v Verdict) *milter.Response {
	if v.Label != learning.Spam || !h.config.RejectSpam {
		return milter.RespContinue
	}

	message := strings.TrimSpace(h.config.RejectMessage)
	if message == "" {
		message = fmt.Sprintf("5.7.1 Message rejected as spam (p=%.2f)", v.SpamProbability)
	}
	resp, err := milter.RejectWithCodeAndReason(550, message)
	if err != nil {
		h.logger.Error("failed to build rejection", "error", err)
		return milter.RespReject
	}
	return resp
}
