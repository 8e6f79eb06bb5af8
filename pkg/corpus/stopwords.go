package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadStopwords reads one stopword per line. Trailing whitespace is trimmed
// and blank lines are skipped; case is kept as written.
func LoadStopwords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimRight(scanner.Text(), " \t\r")
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}
	return words, nil
}

// LoadStopwordsFile reads a stopword list from path
func LoadStopwordsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopwords file: %w", err)
	}
	defer file.Close()

	return LoadStopwords(file)
}
