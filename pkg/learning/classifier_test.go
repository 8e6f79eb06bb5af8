package learning

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func trainScenario(t *testing.T) *Classifier {
	t.Helper()
	model, err := Train(scenarioCorpus(), TrainOptions{})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	return NewClassifier(model)
}

func TestClassifyScenario(t *testing.T) {
	c := trainScenario(t)

	tests := []struct {
		tokens   []string
		expected Label
	}{
		{[]string{"free", "win", "prize"}, Spam},
		{[]string{"project", "meeting", "update"}, NotSpam},
		{[]string{"money", "now"}, Spam},
		{[]string{"agenda"}, NotSpam},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.tokens); got != tt.expected {
			t.Errorf("Classify(%v) = %s, expected %s", tt.tokens, got, tt.expected)
		}
	}
}

func TestClassifyScores(t *testing.T) {
	c := trainScenario(t)

	scores := c.Score([]string{"free", "win", "prize"})
	expectedSpam := math.Log(0.5) + math.Log(3.0/11) + math.Log(2.0/11) + math.Log(2.0/11)
	expectedHam := math.Log(0.5) + 3*math.Log(1.0/12)

	if !almostEqual(scores.Spam, expectedSpam) {
		t.Errorf("spam score = %f, expected %f", scores.Spam, expectedSpam)
	}
	if !almostEqual(scores.NotSpam, expectedHam) {
		t.Errorf("ham score = %f, expected %f", scores.NotSpam, expectedHam)
	}

	p := scores.SpamProbability()
	if p <= 0.5 || p >= 1 {
		t.Errorf("spam probability %f should be in (0.5, 1)", p)
	}
}

func TestClassifyUnseenTokens(t *testing.T) {
	c := trainScenario(t)

	tokens := []string{"zebra", "quantum", "harpsichord"}
	label := c.Classify(tokens)
	if !label.Valid() {
		t.Fatalf("unseen tokens produced invalid label %d", label)
	}

	// Priors are equal, so the smaller spam total decides
	scores := c.Score(tokens)
	expectedSpam := math.Log(0.5) + 3*math.Log(1.0/11)
	if !almostEqual(scores.Spam, expectedSpam) {
		t.Errorf("spam score = %f, expected %f", scores.Spam, expectedSpam)
	}
}

func TestClassifyTieGoesToNotSpam(t *testing.T) {
	model, err := Train([]TokenizedDocument{
		NewDocument(Spam, "aa", "bb"),
		NewDocument(NotSpam, "cc", "dd"),
	}, TrainOptions{})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	c := NewClassifier(model)

	for _, tokens := range [][]string{nil, {"zz"}, {"yy", "zz"}} {
		scores := c.Score(tokens)
		if scores.Spam != scores.NotSpam {
			t.Fatalf("expected tie for %v, got %+v", tokens, scores)
		}
		if got := c.Classify(tokens); got != NotSpam {
			t.Errorf("tie for %v went to %s", tokens, got)
		}
	}
}

func TestClassifyLongDocument(t *testing.T) {
	c := trainScenario(t)

	tokens := strings.Fields(strings.Repeat("free prize ", 5000))
	scores := c.Score(tokens)
	if math.IsInf(scores.Spam, 0) || math.IsNaN(scores.Spam) {
		t.Fatalf("spam score underflowed: %f", scores.Spam)
	}
	if got := c.Classify(tokens); got != Spam {
		t.Errorf("long spam document classified as %s", got)
	}
}

func TestClassifyDoesNotMutateModel(t *testing.T) {
	c := trainScenario(t)

	before, _ := c.Model().MarshalJSON()
	first := c.Classify([]string{"free", "unknown", "meeting"})
	second := c.Classify([]string{"free", "unknown", "meeting"})
	after, _ := c.Model().MarshalJSON()

	if first != second {
		t.Errorf("same document classified differently: %s then %s", first, second)
	}
	if !bytes.Equal(before, after) {
		t.Error("classification changed the model")
	}
}

func TestTopTokens(t *testing.T) {
	c := trainScenario(t)
	model := c.Model()

	top := model.TopTokens(Spam, 1, 1)
	if len(top) != 1 || top[0].Token != "free" {
		t.Fatalf("Expected 'free' as top spam token, got %+v", top)
	}
	if top[0].SpamCount != 2 || top[0].NotSpamCount != 0 {
		t.Errorf("free counts = %d/%d, expected 2/0", top[0].SpamCount, top[0].NotSpamCount)
	}

	if stats := model.TokenStats("nonexistent"); stats != nil {
		t.Error("Expected nil stats for unknown token")
	}

	info := model.Info()
	if info.VocabularySize != 11 {
		t.Errorf("Expected vocabulary of 11, got %d", info.VocabularySize)
	}

	var buf bytes.Buffer
	model.PrintStats(&buf, 3)
	if !strings.Contains(buf.String(), "free") {
		t.Error("PrintStats output missing top spam token")
	}
}
