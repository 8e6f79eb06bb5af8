package cmd

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/learning"
)

var (
	generateCount  int
	generateOutput string
	generateSplit  float64
	generateFormat string
	generateSeed   int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic labeled corpus",
	Long: `Generate a labeled corpus for trying out training and evaluation.

--format csv writes a text,spam CSV using the configured label polarity;
--format eml writes spam/ and ham/ directories of .eml files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateCount <= 0 {
			return fmt.Errorf("count must be greater than 0")
		}
		if generateSplit < 0 || generateSplit > 1 {
			return fmt.Errorf("spam-ratio must be between 0 and 1")
		}

		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		seed := generateSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		gen := NewCorpusGenerator(seed)

		spamCount := int(float64(generateCount) * generateSplit)
		hamCount := generateCount - spamCount

		fmt.Printf("🧪 Generating labeled corpus...\n")
		fmt.Printf("🚫 Spam messages: %d\n", spamCount)
		fmt.Printf("✅ Ham messages: %d\n", hamCount)
		fmt.Printf("🎲 Seed: %d\n", seed)

		switch generateFormat {
		case "csv":
			scheme := learning.LabelScheme{SpamValue: cfg.Labels.SpamValue}
			err = writeCorpusCSV(generateOutput, gen, spamCount, hamCount, scheme)
		case "eml":
			err = writeCorpusEML(generateOutput, gen, spamCount, hamCount)
		default:
			return fmt.Errorf("unknown format: %s", generateFormat)
		}
		if err != nil {
			return err
		}

		fmt.Printf("📂 Written to: %s\n", generateOutput)
		return nil
	},
}

// GeneratedMessage is one synthetic message
type GeneratedMessage struct {
	From    string
	Subject string
	Body    string
	Label   learning.Label
}

// Text is the subject and body as a single CSV field
func (m GeneratedMessage) Text() string {
	return m.Subject + " " + strings.ReplaceAll(m.Body, "\n", " ")
}

// CorpusGenerator produces spam and ham from fixed phrase pools
type CorpusGenerator struct {
	rand *rand.Rand
}

// NewCorpusGenerator creates a generator; equal seeds give equal corpora
func NewCorpusGenerator(seed int64) *CorpusGenerator {
	return &CorpusGenerator{rand: rand.New(rand.NewSource(seed))}
}

var (
	spamSubjects = []string{
		"URGENT!!! FREE MONEY!!!", "You have won $1,000,000", "ACT NOW - Limited time offer",
		"Get rich quick - GUARANTEED", "CONGRATULATIONS - You're our winner",
		"Click here for FREE gift cards", "Amazing investment opportunity",
	}
	spamPhrases = []string{
		"claim your prize today", "no risk involved", "guaranteed income from home",
		"send your bank details", "this offer expires tonight", "cheap pills without prescription",
		"click the link below", "you have been selected", "double your money",
	}
	hamSubjects = []string{
		"Meeting tomorrow at 2 PM", "Quarterly report attached", "Project update - phase 2",
		"Weekend plans?", "Conference call notes", "Re: Budget approval", "Lunch invitation",
	}
	hamPhrases = []string{
		"please review the attached report", "the deadline moved to friday",
		"let me know if you can make it", "notes from the planning session",
		"the budget was approved yesterday", "see you at the team lunch",
		"can we reschedule the call", "thanks for the quick update",
	}
	senders = []string{"alice", "bob", "carol", "dave", "erin", "frank"}
)

// Message generates one message of class l
func (g *CorpusGenerator) Message(l learning.Label) GeneratedMessage {
	subjects, phrases, domain := hamSubjects, hamPhrases, "company.example"
	if l == learning.Spam {
		subjects, phrases, domain = spamSubjects, spamPhrases, "offers.example"
	}

	n := 2 + g.rand.Intn(3)
	lines := make([]string, n)
	for i := range lines {
		lines[i] = g.choice(phrases)
	}

	return GeneratedMessage{
		From:    g.choice(senders) + "@" + domain,
		Subject: g.choice(subjects),
		Body:    strings.Join(lines, ".\n") + ".",
		Label:   l,
	}
}

func (g *CorpusGenerator) choice(items []string) string {
	return items[g.rand.Intn(len(items))]
}

// messages returns spamCount spam and hamCount ham in shuffled order
func (g *CorpusGenerator) messages(spamCount, hamCount int) []GeneratedMessage {
	msgs := make([]GeneratedMessage, 0, spamCount+hamCount)
	for i := 0; i < spamCount; i++ {
		msgs = append(msgs, g.Message(learning.Spam))
	}
	for i := 0; i < hamCount; i++ {
		msgs = append(msgs, g.Message(learning.NotSpam))
	}
	g.rand.Shuffle(len(msgs), func(i, j int) { msgs[i], msgs[j] = msgs[j], msgs[i] })
	return msgs
}

func writeCorpusCSV(path string, g *CorpusGenerator, spamCount, hamCount int, scheme learning.LabelScheme) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"text", "spam"}); err != nil {
		return err
	}
	for _, msg := range g.messages(spamCount, hamCount) {
		if err := w.Write([]string{msg.Text(), strconv.Itoa(scheme.Value(msg.Label))}); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func writeCorpusEML(dir string, g *CorpusGenerator, spamCount, hamCount int) error {
	counts := map[learning.Label]int{}
	for _, msg := range g.messages(spamCount, hamCount) {
		counts[msg.Label]++
		sub := filepath.Join(dir, msg.Label.String())
		if err := os.MkdirAll(sub, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		eml := fmt.Sprintf("From: %s\r\nTo: user@example.com\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
			msg.From, msg.Subject, strings.ReplaceAll(msg.Body, "\n", "\r\n"))
		name := filepath.Join(sub, fmt.Sprintf("%s_%04d.eml", msg.Label, counts[msg.Label]))
		if err := os.WriteFile(name, []byte(eml), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 100, "Number of messages to generate")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "corpus.csv", "Output CSV file or directory")
	generateCmd.Flags().Float64VarP(&generateSplit, "spam-ratio", "r", 0.3, "Ratio of spam messages (0.0-1.0)")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "csv", "Output format: csv or eml")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed (0 = time based)")
}
