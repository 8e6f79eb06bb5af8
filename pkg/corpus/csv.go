package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zpam/nbfilter/pkg/learning"
)

// CSVOptions describes the layout of a delimited input file
type CSVOptions struct {
	Encoding    string // utf-8, latin1, windows-1252
	Delimiter   rune
	HasHeader   bool
	TextColumn  string // header name; without a header text is column 0
	LabelColumn string // header name; without a header the label is column 1
	Labels      learning.LabelScheme

	// RequireLabel rejects rows without a label; set for training data
	RequireLabel bool
}

// DefaultCSVOptions matches the text,spam layout with a header row
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Encoding:    "utf-8",
		Delimiter:   ',',
		HasHeader:   true,
		TextColumn:  "text",
		LabelColumn: "spam",
		Labels:      learning.DefaultLabelScheme,
	}
}

// Decoder wraps r so that it yields UTF-8 for the named encoding
func Decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

// ReadCSVFile opens path and reads it with ReadCSV
func ReadCSVFile(path string, opts CSVOptions) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// ReadCSV reads records from delimited text. Rows that cannot be used are
// reported in Result.Skipped as *learning.MalformedInputError; the returned
// error is reserved for failures that stop reading altogether.
func ReadCSV(r io.Reader, opts CSVOptions) (*Result, error) {
	decoded, err := Decoder(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	textIdx, labelIdx := 0, 1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return &Result{}, nil
			}
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		textIdx, labelIdx = columnIndex(header, opts.TextColumn), columnIndex(header, opts.LabelColumn)
		if textIdx < 0 {
			return nil, fmt.Errorf("text column %q not found in header", opts.TextColumn)
		}
		if labelIdx < 0 && opts.RequireLabel {
			return nil, fmt.Errorf("label column %q not found in header", opts.LabelColumn)
		}
	}

	result := &Result{}
	row := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		id := "row " + strconv.Itoa(row)

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped = append(result.Skipped, &learning.MalformedInputError{
					ID: id, Line: parseErr.Line, Reason: "unparseable row", Err: err,
				})
				continue
			}
			return nil, fmt.Errorf("failed to read input: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rec, bad := parseRow(fields, textIdx, labelIdx, opts)
		if bad != nil {
			bad.ID, bad.Line = id, line
			result.Skipped = append(result.Skipped, bad)
			continue
		}
		rec.ID, rec.Line = id, line
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func parseRow(fields []string, textIdx, labelIdx int, opts CSVOptions) (Record, *learning.MalformedInputError) {
	if textIdx >= len(fields) {
		return Record{}, &learning.MalformedInputError{Reason: "missing text field"}
	}
	text := fields[textIdx]
	if strings.TrimSpace(text) == "" {
		return Record{}, &learning.MalformedInputError{Reason: "empty text"}
	}

	rec := Record{Text: text}

	raw := ""
	if labelIdx >= 0 && labelIdx < len(fields) {
		raw = strings.TrimSpace(fields[labelIdx])
	}
	if raw == "" {
		if opts.RequireLabel {
			return Record{}, &learning.MalformedInputError{Reason: "missing label"}
		}
		return rec, nil
	}

	// Some public datasets spell the class out
	switch strings.ToLower(raw) {
	case "spam":
		rec.Label, rec.Labeled = learning.Spam, true
		return rec, nil
	case "ham":
		rec.Label, rec.Labeled = learning.NotSpam, true
		return rec, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return Record{}, &learning.MalformedInputError{Reason: fmt.Sprintf("label %q is not an integer", raw)}
	}
	label, err := opts.Labels.Parse(value)
	if err != nil {
		return Record{}, &learning.MalformedInputError{Reason: "invalid label", Err: err}
	}

	rec.Label = label
	rec.Labeled = true
	return rec, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
