package output

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zpam/nbfilter/pkg/filter"
)

// FileSink writes the text of each message on its own line, spam and
// not-spam into separate files. Existing files are replaced.
type FileSink struct {
	SpamPath string
	HamPath  string
}

// NewFileSink creates a sink writing to the two paths
func NewFileSink(spamPath, hamPath string) *FileSink {
	return &FileSink{SpamPath: spamPath, HamPath: hamPath}
}

// Write writes both files
func (s *FileSink) Write(ctx context.Context, spam, ham []filter.Result) error {
	if err := writeLines(ctx, s.SpamPath, spam); err != nil {
		return err
	}
	return writeLines(ctx, s.HamPath, ham)
}

// Close is a no-op; files are closed by Write
func (s *FileSink) Close() error {
	return nil
}

func writeLines(ctx context.Context, path string, results []filter.Result) error {
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

	w := bufio.NewWriter(file)
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.WriteString(flatten(r.Record.Text) + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
