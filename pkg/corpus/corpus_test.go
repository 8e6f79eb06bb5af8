package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zpam/nbfilter/pkg/learning"
)

const trainingCSV = `text,spam
free money now,1
meeting agenda tomorrow,0
,1
"win free prize",1
bad label,7
no label,
project status update,0
`

func TestReadCSVTraining(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.RequireLabel = true

	result, err := ReadCSV(strings.NewReader(trainingCSV), opts)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(result.Records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(result.Records))
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("Expected 3 skipped rows, got %d: %v", len(result.Skipped), result.Skipped)
	}

	first := result.Records[0]
	if first.Text != "free money now" || first.Label != learning.Spam || !first.Labeled {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.ID != "row 1" || first.Line != 2 {
		t.Errorf("first record identity = %s line %d, expected row 1 line 2", first.ID, first.Line)
	}
	if result.Records[1].Label != learning.NotSpam {
		t.Errorf("second record should be ham: %+v", result.Records[1])
	}

	for _, skipped := range result.Skipped {
		var malformed *learning.MalformedInputError
		if !errors.As(skipped, &malformed) {
			t.Errorf("skipped error has wrong type: %T", skipped)
		}
	}
}

func TestReadCSVUnlabeledAllowed(t *testing.T) {
	result, err := ReadCSV(strings.NewReader(trainingCSV), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	// "no label" is accepted without a label when labels are optional
	if len(result.Records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(result.Records))
	}
	var unlabeled int
	for _, rec := range result.Records {
		if !rec.Labeled {
			unlabeled++
		}
	}
	if unlabeled != 1 {
		t.Errorf("Expected 1 unlabeled record, got %d", unlabeled)
	}
}

func TestReadCSVInvertedLabels(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.Labels = learning.LabelScheme{SpamValue: 0}

	result, err := ReadCSV(strings.NewReader("text,spam\nfree money,0\nmeeting,1\n"), opts)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if result.Records[0].Label != learning.Spam || result.Records[1].Label != learning.NotSpam {
		t.Errorf("label polarity not applied: %+v", result.Records)
	}
}

func TestReadCSVNamedLabels(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.TextColumn = "v2"
	opts.LabelColumn = "v1"

	result, err := ReadCSV(strings.NewReader("v1,v2\nspam,Free entry now\nham,See you at lunch\n"), opts)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].Label != learning.Spam || result.Records[0].Text != "Free entry now" {
		t.Errorf("unexpected record: %+v", result.Records[0])
	}
	if result.Records[1].Label != learning.NotSpam {
		t.Errorf("unexpected record: %+v", result.Records[1])
	}
}

func TestReadCSVNoHeader(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.HasHeader = false
	opts.Delimiter = ';'

	result, err := ReadCSV(strings.NewReader("free money;1\nlunch plans;0\n"), opts)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(result.Records) != 2 || result.Records[0].Text != "free money" {
		t.Errorf("unexpected records: %+v", result.Records)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.TextColumn = "body"

	if _, err := ReadCSV(strings.NewReader(trainingCSV), opts); err == nil {
		t.Error("Expected error for missing text column")
	}
}

func TestReadCSVEncodings(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		data     string
		expected string
	}{
		{
			name:     "Latin-1",
			encoding: "latin1",
			data:     "text,spam\ncaf\xe9 offer,1\n",
			expected: "café offer",
		},
		{
			name:     "Windows-1252 smart quotes",
			encoding: "windows-1252",
			data:     "text,spam\n\x93free\x94 gift,1\n",
			expected: "“free” gift",
		},
		{
			name:     "UTF-8 with BOM",
			encoding: "utf-8",
			data:     "\xef\xbb\xbftext,spam\nhello there,0\n",
			expected: "hello there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultCSVOptions()
			opts.Encoding = tt.encoding

			result, err := ReadCSV(strings.NewReader(tt.data), opts)
			if err != nil {
				t.Fatalf("ReadCSV failed: %v", err)
			}
			if len(result.Records) != 1 {
				t.Fatalf("Expected 1 record, got %d (skipped %v)", len(result.Records), result.Skipped)
			}
			if result.Records[0].Text != tt.expected {
				t.Errorf("text = %q, expected %q", result.Records[0].Text, tt.expected)
			}
		})
	}

	if _, err := ReadCSV(strings.NewReader(""), CSVOptions{Encoding: "ebcdic"}); err == nil {
		t.Error("Expected error for unsupported encoding")
	}
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	if err := os.WriteFile(path, []byte(trainingCSV), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	result, err := ReadCSVFile(path, DefaultCSVOptions())
	if err != nil {
		t.Fatalf("ReadCSVFile failed: %v", err)
	}
	if len(result.Records) == 0 {
		t.Error("no records read")
	}

	if _, err := ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultCSVOptions()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadMailDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.eml":     "Subject: Win a free prize\r\n\r\nClaim now\r\n",
		"a.eml":     "Subject: Cheap pills\r\n\r\nBest price\r\n",
		"notes.txt": "Subject: ignored\r\n\r\nnot a message file\r\n",
		"empty.eml": "Subject: \r\n\r\n",
		"nested/c":  "Subject: Lottery\r\n\r\nYou won\r\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	result, err := ReadMailDir(dir, learning.Spam, true)
	if err != nil {
		t.Fatalf("ReadMailDir failed: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(result.Records))
	}
	if len(result.Skipped) != 1 {
		t.Errorf("Expected empty.eml to be skipped, got %v", result.Skipped)
	}
	if !strings.HasSuffix(result.Records[0].ID, "a.eml") {
		t.Errorf("records not in lexical order: %s first", result.Records[0].ID)
	}
	for _, rec := range result.Records {
		if rec.Label != learning.Spam || !rec.Labeled {
			t.Errorf("record %s not labeled spam", rec.ID)
		}
	}
	if !strings.Contains(result.Records[0].Text, "Cheap pills") {
		t.Errorf("subject missing from text: %q", result.Records[0].Text)
	}
}

func TestLoadStopwords(t *testing.T) {
	words, err := LoadStopwords(strings.NewReader("the  \nand\r\n\nThe\n"))
	if err != nil {
		t.Fatalf("LoadStopwords failed: %v", err)
	}

	expected := []string{"the", "and", "The"}
	if len(words) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, words)
	}
	for i := range expected {
		if words[i] != expected[i] {
			t.Errorf("word %d = %q, expected %q", i, words[i], expected[i])
		}
	}
}
